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

// Package udpsrv implements the UDP side of the reactor engine: one or more
// listener goroutines blocked in ReadFromUDP, a classify hook that maps each
// datagram to a request group, per-group bounded drop-head queues, and
// per-group auto-scaling worker pools that invoke the business callback.
package udpsrv

// Handler is the business callback surface a host application supplies to
// consume datagrams.
type Handler interface {
	// Classify maps a raw datagram to a request-group index. Returning a
	// negative index or one past the configured group count drops the
	// datagram on the listener thread, before any copy into a queue.
	Classify(data []byte) int

	// RecvPacket is invoked on a worker goroutine for each dequeued,
	// still-fresh packet. The packet must not be retained past the call.
	RecvPacket(w *Worker, groupIndex int, p *Packet)
}
