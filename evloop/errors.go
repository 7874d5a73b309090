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

package evloop

import liberr "github.com/nabbar/ise/errors"

const (
	// ErrorPollerCreate is returned when the OS readiness primitive
	// (epoll_create1, the wakeup eventfd) cannot be allocated.
	ErrorPollerCreate liberr.CodeError = iota + liberr.MinPkgEvloop

	// ErrorPollerRegister is returned when a file descriptor cannot be
	// added to, modified in, or removed from the poller's interest set.
	ErrorPollerRegister

	// ErrorPollerWait is a non-EINTR failure from the blocking wait call.
	ErrorPollerWait

	// ErrorLoopStopped is returned by List.Assign when the chosen loop stops
	// before it has registered the connection.
	ErrorLoopStopped

	// ErrorLoopIndexOutOfRange is returned by List.Assign for an explicit
	// index outside [0, count).
	ErrorLoopIndexOutOfRange
)

func init() {
	liberr.RegisterIdFctMessage(ErrorPollerCreate, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorPollerCreate:
		return "poller creation failed"
	case ErrorPollerRegister:
		return "poller fd registration failed"
	case ErrorPollerWait:
		return "poller wait failed"
	case ErrorLoopStopped:
		return "event loop is stopped"
	case ErrorLoopIndexOutOfRange:
		return "event loop index out of range"
	}

	return liberr.NullMessage
}
