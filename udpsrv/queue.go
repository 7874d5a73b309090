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

package udpsrv

import "sync/atomic"

// RequestQueue is one request group's bounded FIFO of packets. The buffered
// channel doubles as the counting semaphore workers block on: its length is
// the queue depth, and a blocked Pop is woken by the next Push.
//
// When the queue is full the oldest packet is discarded to admit the new one
// (drop-head); the dropped counter records every such eviction.
type RequestQueue struct {
	ch      chan *Packet
	dropped uint64
}

// NewRequestQueue creates a queue holding at most capacity packets.
func NewRequestQueue(capacity int) *RequestQueue {
	if capacity < 1 {
		capacity = 1
	}

	return &RequestQueue{ch: make(chan *Packet, capacity)}
}

// Push enqueues p, evicting the oldest queued packet first if the queue is
// full. Safe for concurrent use by several listener goroutines.
func (q *RequestQueue) Push(p *Packet) {
	for {
		select {
		case q.ch <- p:
			return
		default:
		}

		select {
		case <-q.ch:
			atomic.AddUint64(&q.dropped, 1)
		default:
		}
	}
}

// Pop blocks until a packet is available or stop is closed, in which case it
// returns nil.
func (q *RequestQueue) Pop(stop <-chan struct{}) *Packet {
	select {
	case p := <-q.ch:
		return p
	case <-stop:
		return nil
	}
}

// Count returns the current queue depth.
func (q *RequestQueue) Count() int {
	return len(q.ch)
}

// Dropped returns how many packets were evicted by drop-head admission.
func (q *RequestQueue) Dropped() uint64 {
	return atomic.LoadUint64(&q.dropped)
}
