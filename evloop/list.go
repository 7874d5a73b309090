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

import (
	"sync/atomic"

	liberr "github.com/nabbar/ise/errors"
	liblog "github.com/nabbar/ise/logger"
)

// List is a fixed-size pool of 1 to 64 event loops. New
// connections are assigned either to a caller-nominated loop index or by
// round-robin over the pool.
type List struct {
	loops []*Loop
	rr    uint64
}

// NewList creates count Loops (count is clamped into 1..64) and
// starts each one's thread.
func NewList(count int, log liblog.FuncLog) (*List, error) {
	if count < 1 {
		count = 1
	}
	if count > 64 {
		count = 64
	}

	l := &List{loops: make([]*Loop, count)}

	for i := 0; i < count; i++ {
		lp, err := New(i, log)
		if err != nil {
			l.Close()
			return nil, err
		}
		l.loops[i] = lp
	}

	for _, lp := range l.loops {
		lp.Start()
	}

	return l, nil
}

// Len returns the number of loops in the pool.
func (l *List) Len() int { return len(l.loops) }

// Loop returns the loop at idx, or nil if out of range.
func (l *List) Loop(idx int) *Loop {
	if idx < 0 || idx >= len(l.loops) {
		return nil
	}

	return l.loops[idx]
}

// Next returns the next loop in round-robin order.
func (l *List) Next() *Loop {
	n := atomic.AddUint64(&l.rr, 1)
	return l.loops[int(n-1)%len(l.loops)]
}

// Assign registers c with a loop: explicit when idx >= 0, round-robin
// otherwise. Registration is delegated to the chosen loop's own thread, so
// the connection map is only ever mutated on its owner
// thread. beforeRegister, if non-nil, runs on the loop thread immediately
// before Register - this is how tcpsrv.Connection learns which loop owns it
// before its Connected callback fires.
func (l *List) Assign(c Conn, idx int, interest Interest, beforeRegister func(l *Loop)) liberr.Error {
	var lp *Loop
	if idx >= 0 {
		lp = l.Loop(idx)
		if lp == nil {
			return ErrorLoopIndexOutOfRange.Error()
		}
	} else {
		lp = l.Next()
	}

	errCh := make(chan liberr.Error, 1)
	lp.ExecuteInLoop(func() {
		if beforeRegister != nil {
			beforeRegister(lp)
		}
		errCh <- lp.Register(c, interest)
	})

	select {
	case e := <-errCh:
		return e
	case <-lp.Stopped():
		return ErrorLoopStopped.Error()
	}
}

// Each runs fn against every loop in the pool, in index order.
func (l *List) Each(fn func(*Loop)) {
	for _, lp := range l.loops {
		fn(lp)
	}
}

// Stop asks every loop to stop, invoking its stop hook, and waits up to the
// caller's own timeout logic (reactor.Server.Close owns the grace period) by
// returning each loop's Stopped channel.
func (l *List) Stop() []<-chan struct{} {
	chs := make([]<-chan struct{}, len(l.loops))
	for i, lp := range l.loops {
		lp.Stop()
		chs[i] = lp.Stopped()
	}

	return chs
}

// Close stops every created loop and releases its poller, used to unwind a
// partially constructed List on error.
func (l *List) Close() {
	for _, lp := range l.loops {
		if lp == nil {
			continue
		}
		lp.Stop()
	}
}
