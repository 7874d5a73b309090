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

import (
	"sync/atomic"
	"time"
)

// Worker is one goroutine of a group's pool. Its loop is: pop a packet
// (blocking on the queue), discard it if it waited past the group's effective
// wait time, invoke the business callback, release, repeat.
//
// A worker is idle iff it is not currently inside the business callback; the
// busySince timestamp is set for exactly the duration of each callback so the
// pool's timeout check can spot a hung one.
type Worker struct {
	id    uint64
	group int
	pool  *WorkerPool

	busySince int64

	stop chan struct{}
	done chan struct{}
}

// ID returns the worker's pool-unique identifier.
func (w *Worker) ID() uint64 { return w.id }

// GroupIndex returns the request-group index this worker serves.
func (w *Worker) GroupIndex() int { return w.group }

// BusySince returns the Unix timestamp at which the worker entered its
// current business callback, or 0 if it is idle.
func (w *Worker) BusySince() int64 {
	return atomic.LoadInt64(&w.busySince)
}

// Terminate asks the worker to exit after its current callback, if any.
func (w *Worker) Terminate() {
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
}

// Done returns a channel closed once the worker's goroutine has returned.
func (w *Worker) Done() <-chan struct{} { return w.done }

func (w *Worker) run() {
	defer close(w.done)

	for {
		select {
		case <-w.stop:
			return
		default:
		}

		p := w.pool.queue.Pop(w.stop)
		if p == nil {
			return
		}

		if w.pool.effWait > 0 && p.Age(time.Now()) > w.pool.effWait {
			w.pool.countExpired()
			continue
		}

		w.invoke(p)
	}
}

func (w *Worker) invoke(p *Packet) {
	if err := w.pool.sem.Acquire(w.pool.ctx, 1); err != nil {
		return
	}
	defer w.pool.sem.Release(1)

	atomic.StoreInt64(&w.busySince, time.Now().Unix())
	defer atomic.StoreInt64(&w.busySince, 0)

	defer func() {
		if r := recover(); r != nil {
			w.pool.logError("udp worker callback panicked", r)
		}
	}()

	w.pool.handler.RecvPacket(w, w.group, p)
}
