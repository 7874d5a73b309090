/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

package tcpsrv

import liberr "github.com/nabbar/ise/errors"

const (
	// ErrorListenBind is a listener bind/listen failure during Server.Open.
	ErrorListenBind liberr.CodeError = iota + liberr.MinPkgTcpsrv

	// ErrorAccept is a non-transient error from a listener's Accept call.
	ErrorAccept

	// ErrorConnect is a non-blocking outbound connect failure (SO_ERROR != 0).
	ErrorConnect

	// ErrorSocketIO is a read/write syscall failure on a connection's fd.
	ErrorSocketIO

	// ErrorConnClosed is returned by Send/Recv calls issued against a
	// connection already in TEARING_DOWN or DESTROYED state.
	ErrorConnClosed

	// ErrorTaskTimeout is a head-of-queue send or receive task whose
	// deadline elapsed before completion.
	ErrorTaskTimeout
)

func init() {
	liberr.RegisterIdFctMessage(ErrorListenBind, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorListenBind:
		return "listener bind/listen failure"
	case ErrorAccept:
		return "accept failure"
	case ErrorConnect:
		return "outbound connect failure"
	case ErrorSocketIO:
		return "connection socket I/O error"
	case ErrorConnClosed:
		return "connection is closed"
	case ErrorTaskTimeout:
		return "task deadline exceeded"
	}

	return liberr.NullMessage
}
