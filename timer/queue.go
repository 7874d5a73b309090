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

// Package timer implements the event loop's timer queue: an ordered set of
// timers keyed by (expiration, id), with add/cancel/expire operations. It is
// not safe for concurrent use - every method must be called from the owning
// event loop's thread.
package timer

import (
	"container/heap"
	"sync/atomic"
	"time"

	liberr "github.com/nabbar/ise/errors"
	liblog "github.com/nabbar/ise/logger"
)

// ID uniquely identifies one timer for the life of the process. Never reused.
type ID uint64

// Callback is invoked when a timer expires. Panics are recovered, logged
// with the panic value, and swallowed; they never corrupt the queue nor skip
// subsequent expired timers.
type Callback func()

// entry is one scheduled timer, also the container/heap element.
type entry struct {
	id        ID
	expire    time.Time
	interval  time.Duration
	cb        Callback
	index     int // position in the heap, maintained by container/heap
	firing    bool
	cancelled bool
}

// pqueue implements heap.Interface ordered by (expiration, id); ties on
// expiration are broken deterministically by identifier.
type pqueue []*entry

func (q pqueue) Len() int { return len(q) }
func (q pqueue) Less(i, j int) bool {
	if q[i].expire.Equal(q[j].expire) {
		return q[i].id < q[j].id
	}
	return q[i].expire.Before(q[j].expire)
}
func (q pqueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index, q[j].index = i, j
}
func (q *pqueue) Push(x interface{}) {
	e := x.(*entry)
	e.index = len(*q)
	*q = append(*q, e)
}
func (q *pqueue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}

// Queue is the event loop's timer set.
type Queue struct {
	q       pqueue
	byID    map[ID]*entry
	nextID  uint64
	log     liblog.FuncLog
	current *entry // the entry whose callback is currently firing, if any
}

// New creates an empty timer Queue. log may be nil.
func New(log liblog.FuncLog) *Queue {
	return &Queue{
		byID: make(map[ID]*entry),
		log:  log,
	}
}

func (t *Queue) nextAtomicID() ID {
	return ID(atomic.AddUint64(&t.nextID, 1))
}

// Add schedules cb to fire at expire. If interval > 0, the timer re-inserts
// itself with expire = firingTime + interval after each callback returns,
// unless it was canceled during that callback (self-cancel or a sibling
// canceling it).
func (t *Queue) Add(expire time.Time, interval time.Duration, cb Callback) ID {
	e := &entry{
		id:       t.nextAtomicID(),
		expire:   expire,
		interval: interval,
		cb:       cb,
	}

	t.byID[e.id] = e
	heap.Push(&t.q, e)

	return e.id
}

// AddAfter is a convenience wrapper scheduling relative to time.Now().
func (t *Queue) AddAfter(d time.Duration, interval time.Duration, cb Callback) ID {
	return t.Add(time.Now().Add(d), interval, cb)
}

// Cancel removes the timer id from the queue. It is safe to call from
// inside that timer's own callback or a sibling's callback: in either case
// it suppresses the repeating re-insert. Canceling an id that already fired
// and was not repeating, or that was already canceled, is a no-op that
// returns ErrorTimerNotFound.
func (t *Queue) Cancel(id ID) liberr.Error {
	e, ok := t.byID[id]
	if !ok {
		return ErrorTimerNotFound.Error()
	}

	e.cancelled = true
	delete(t.byID, id)

	if e.firing {
		// currently executing its own callback (self-cancel or a sibling
		// cancel reaching it mid-callback): processExpired checks
		// e.cancelled before re-inserting, so nothing more to do here.
		return nil
	}

	if e.index >= 0 && e.index < len(t.q) {
		heap.Remove(&t.q, e.index)
	}

	return nil
}

// Len returns the number of timers currently scheduled.
func (t *Queue) Len() int {
	return len(t.q)
}

// NextExpiration returns the expiration of the earliest pending timer, and
// false if the queue is empty.
func (t *Queue) NextExpiration() (time.Time, bool) {
	if len(t.q) == 0 {
		return time.Time{}, false
	}

	return t.q[0].expire, true
}

// NextTimeout computes the event loop's next OS wait timeout: the duration
// until the earliest timer, clamped to zero, or max if the queue is empty.
func (t *Queue) NextTimeout(now time.Time, max time.Duration) time.Duration {
	exp, ok := t.NextExpiration()
	if !ok {
		return max
	}

	d := exp.Sub(now)
	if d < 0 {
		d = 0
	}
	if d > max {
		d = max
	}

	return d
}

// ProcessExpired pops every timer with expiration <= now, invokes its
// callback (recovering and logging panics), and re-inserts repeating
// timers that were not canceled during their own callback.
func (t *Queue) ProcessExpired(now time.Time) {
	for len(t.q) > 0 && !t.q[0].expire.After(now) {
		e := heap.Pop(&t.q).(*entry)
		e.firing = true
		t.current = e

		t.fire(e)

		t.current = nil
		e.firing = false

		if e.cancelled {
			delete(t.byID, e.id)
			continue
		}

		if e.interval > 0 {
			e.expire = now.Add(e.interval)
			heap.Push(&t.q, e)
		} else {
			delete(t.byID, e.id)
		}
	}
}

func (t *Queue) fire(e *entry) {
	defer func() {
		if r := recover(); r != nil {
			if t.log != nil {
				if l := t.log(); l != nil {
					l.Error("timer callback panicked", r)
				}
			}
		}
	}()

	if e.cb != nil {
		e.cb()
	}
}
