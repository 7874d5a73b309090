/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package errors

import "fmt"

// Reactor error kinds. Each constant is one row of the engine's error-kind
// table: a category of failure, not an exception type. Most of these are
// recovered locally at the loop/connection/worker boundary and never
// propagate; only bind/listen and configuration failures surface to an
// open() caller.
const (
	// ErrorSocket is a socket I/O failure: read/write/epoll reports a
	// nonzero status. The connection is latched as errored and torn down.
	ErrorSocket CodeError = iota + MinPkgReactor

	// ErrorTaskTimeout is a head-of-queue send/receive task whose deadline
	// elapsed before completion. Handled the same way as ErrorSocket.
	ErrorTaskTimeout

	// ErrorBackpressure signals the receive buffer is full with no pending
	// task to drain it. Not a failure: read interest is disabled until a
	// task is posted.
	ErrorBackpressure

	// ErrorSplitterIncomplete means the packet splitter found less than one
	// full message in the buffer. Not a failure: more bytes are awaited.
	ErrorSplitterIncomplete

	// ErrorQueueFull is a bounded UDP request queue rejecting a new packet.
	// The oldest queued packet is dropped and a counter is incremented.
	ErrorQueueFull

	// ErrorConnectFailure is a non-blocking connect() reporting a nonzero
	// SO_ERROR. The half-initialized client is destroyed and the connect
	// callback is invoked with a nil connection and a non-nil error.
	ErrorConnectFailure

	// ErrorCallbackPanic is a recovered panic from a business callback
	// (timer, delegated functor, finalizer, connection, UDP worker). It is
	// logged and swallowed; the loop or worker continues.
	ErrorCallbackPanic

	// ErrorListenerBind is a listen-socket bind/listen failure during
	// open(). Fatal: it is surfaced to the caller and open() rolls back.
	ErrorListenerBind
)

func init() {
	if ExistInMapMessage(ErrorSocket) {
		panic(fmt.Errorf("error code collision with package reactor errors"))
	}
	RegisterIdFctMessage(ErrorSocket, getReactorMessage)
}

func getReactorMessage(code CodeError) (message string) {
	switch code {
	case ErrorSocket:
		return "socket I/O error"
	case ErrorTaskTimeout:
		return "task deadline exceeded"
	case ErrorBackpressure:
		return "receive buffer saturated, read interest disabled"
	case ErrorSplitterIncomplete:
		return "packet splitter found an incomplete message"
	case ErrorQueueFull:
		return "request queue full, oldest entry dropped"
	case ErrorConnectFailure:
		return "non-blocking connect reported an error"
	case ErrorCallbackPanic:
		return "business callback panicked"
	case ErrorListenerBind:
		return "listener bind/listen failure"
	}

	return NullMessage
}
