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

// Package tcpsrv implements the TCP side of the reactor engine: connections
// with send/receive task queues, a listener-driven acceptor, and an
// asynchronous outbound connector, all dispatched through an evloop.List.
package tcpsrv

// Handler is the business callback surface a host application supplies to
// drive connection lifecycle and data events. Every method is invoked on the
// connection's owning event-loop thread.
type Handler interface {
	// Connected fires once a connection has been accepted or has completed
	// an outbound connect, immediately after it is registered with its loop.
	Connected(c *Connection)

	// Disconnected fires exactly once, after any error or explicit close,
	// before the connection's finalizer removes it from the loop.
	Disconnected(c *Connection)

	// RecvComplete fires once per message the active receive task's
	// splitter reports complete.
	RecvComplete(c *Connection, data []byte, ctx interface{})

	// SendComplete fires once a queued send task's byte count has been
	// fully written to the wire.
	SendComplete(c *Connection, ctx interface{})
}
