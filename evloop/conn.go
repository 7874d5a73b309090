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

// Conn is the minimal surface the event loop needs from a registered
// connection. tcpsrv.Connection implements this; evloop never imports
// tcpsrv, keeping the dependency one-directional (tcpsrv -> evloop).
type Conn interface {
	// Name is the stable connection name used as the loop's map key.
	Name() string

	// FD returns the underlying socket file descriptor.
	FD() int

	// OnReadable is invoked on the loop thread when the socket is readable.
	OnReadable()

	// OnWritable is invoked on the loop thread when the socket is writable.
	OnWritable()

	// OnPollError is invoked on the loop thread when the poller reports an
	// error/hangup condition (EPOLLERR/EPOLLHUP) for this connection's fd.
	OnPollError(err error)

	// CheckTimeout is invoked at least once a second; the connection tears
	// itself down if its head-of-queue task has exceeded its deadline.
	CheckTimeout(now int64)
}

// Interest is the bitmask of readiness a connection wants to be notified of.
type Interest uint8

const (
	InterestNone  Interest = 0
	InterestRead  Interest = 1
	InterestWrite Interest = 2
)
