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
	"context"
	"sync"
	"sync/atomic"
	"time"

	liblog "github.com/nabbar/ise/logger"
	"golang.org/x/sync/semaphore"
)

// adjustAddStep bounds how many workers a single adjustment round may add
// when the queue depth crosses the alert line.
const adjustAddStep = 3

// WorkerPool is one request group's auto-scaling set of workers. Scaling
// decisions are made by Adjust, which the owning server's daemon invokes
// periodically; the invariant min <= live worker count <= max holds between
// any two Adjust calls.
type WorkerPool struct {
	group   int
	min     int
	max     int
	effWait time.Duration
	timeout time.Duration

	queue   *RequestQueue
	handler Handler
	log     liblog.FuncLog

	// sem caps how many workers may be inside the business callback at
	// once, so a burst of slow callbacks cannot exceed the group's
	// configured ceiling even while replacements are being spawned.
	sem *semaphore.Weighted
	ctx context.Context
	cnl context.CancelFunc

	mu      sync.Mutex
	workers map[uint64]*Worker
	nextID  uint64
	expired uint64

	lastAdjust time.Time
}

// NewWorkerPool creates a pool for group index group draining queue, with
// min..max workers. The pool is empty until Start.
func NewWorkerPool(group, min, max int, effWait, timeout time.Duration, queue *RequestQueue, handler Handler, log liblog.FuncLog) *WorkerPool {
	if min < 1 {
		min = 1
	}
	if max < min {
		max = min
	}

	ctx, cnl := context.WithCancel(context.Background())

	return &WorkerPool{
		group:   group,
		min:     min,
		max:     max,
		effWait: effWait,
		timeout: timeout,
		queue:   queue,
		handler: handler,
		log:     log,
		sem:     semaphore.NewWeighted(int64(max)),
		ctx:     ctx,
		cnl:     cnl,
		workers: make(map[uint64]*Worker),
	}
}

// Start spawns the configured minimum number of workers.
func (p *WorkerPool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.workers) < p.min {
		p.spawnLocked()
	}
}

// Count returns the number of live workers.
func (p *WorkerPool) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workers)
}

// Expired returns how many packets were discarded at dequeue time for
// exceeding the group's effective wait time.
func (p *WorkerPool) Expired() uint64 {
	return atomic.LoadUint64(&p.expired)
}

func (p *WorkerPool) countExpired() {
	atomic.AddUint64(&p.expired, 1)
}

func (p *WorkerPool) spawnLocked() *Worker {
	p.nextID++
	w := &Worker{
		id:    p.nextID,
		group: p.group,
		pool:  p,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}

	p.workers[w.id] = w
	go w.run()

	return w
}

// Adjust applies one round of scaling decisions, rate-limited to one round
// per interval so a caller ticking faster than the configured adjustment
// interval does not thrash the pool:
//   - workers hung in a callback past the per-task timeout are unregistered
//     and asked to exit, and replacements spawned;
//   - the live count is clamped into [min, max];
//   - if the queue depth has reached alertLine and the count is below max,
//     up to adjustAddStep workers are added;
//   - if the queue is empty and the count is above min, one idle worker is
//     terminated.
func (p *WorkerPool) Adjust(now time.Time, interval time.Duration, alertLine int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if interval > 0 && now.Sub(p.lastAdjust) < interval {
		return
	}
	p.lastAdjust = now

	p.reapHungLocked(now)

	for len(p.workers) < p.min {
		p.spawnLocked()
	}
	for len(p.workers) > p.max {
		p.terminateOneLocked(false)
	}

	depth := p.queue.Count()

	if depth >= alertLine && alertLine > 0 && len(p.workers) < p.max {
		add := p.max - len(p.workers)
		if add > adjustAddStep {
			add = adjustAddStep
		}
		for i := 0; i < add; i++ {
			p.spawnLocked()
		}
		return
	}

	if depth == 0 && len(p.workers) > p.min {
		p.terminateOneLocked(true)
	}
}

// reapHungLocked unregisters workers stuck inside a business callback past
// the per-task timeout. The goroutine itself cannot be killed; it is asked
// to stop, dropped from the pool so a replacement may be spawned, and left
// to exit on its own once (if ever) the callback returns.
func (p *WorkerPool) reapHungLocked(now time.Time) {
	if p.timeout <= 0 {
		return
	}

	lim := int64(p.timeout / time.Second)

	for id, w := range p.workers {
		b := w.BusySince()
		if b > 0 && now.Unix()-b > lim {
			w.Terminate()
			delete(p.workers, id)
			p.logError("udp worker exceeded per-task timeout, unregistered", nil)
		}
	}
}

// terminateOneLocked stops one worker and removes it from the pool. When
// idleOnly is set, only a worker not currently inside a callback qualifies.
func (p *WorkerPool) terminateOneLocked(idleOnly bool) {
	for id, w := range p.workers {
		if idleOnly && w.BusySince() != 0 {
			continue
		}

		w.Terminate()
		delete(p.workers, id)
		return
	}
}

// Stop terminates every worker and waits up to grace for each to exit.
// Workers still running after the grace period are abandoned.
func (p *WorkerPool) Stop(grace time.Duration) {
	p.cnl()

	p.mu.Lock()
	ws := make([]*Worker, 0, len(p.workers))
	for id, w := range p.workers {
		w.Terminate()
		ws = append(ws, w)
		delete(p.workers, id)
	}
	p.mu.Unlock()

	deadline := time.After(grace)
	for _, w := range ws {
		select {
		case <-w.Done():
		case <-deadline:
			p.logError("udp worker did not exit within the grace period", nil)
			return
		}
	}
}

func (p *WorkerPool) logError(msg string, data interface{}) {
	if p.log == nil {
		return
	}
	if lg := p.log(); lg != nil {
		lg.Error(msg, data)
	}
}
