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
	"sync"
	"sync/atomic"
	"time"

	liberr "github.com/nabbar/ise/errors"
	liblog "github.com/nabbar/ise/logger"
	"github.com/nabbar/ise/timer"
)

// maxWait bounds how long a single Wait() call blocks even with no timers
// pending, so a Stop() request is never more than this long from taking
// effect and so CheckTimeout below always runs at least once a second.
const maxWait = time.Second

// Functor is work submitted to run on the loop's thread: either delegated
// from another goroutine (DelegateToLoop) or deferred to iteration end
// (AddFinalizer).
type Functor func()

// Loop is one event-loop thread: it owns a goroutine
// parked on one OS thread (via runtime.LockOSThread), a connection map
// keyed by name, a timer queue, and two mutex-guarded cross-thread queues
// (delegated functors, finalizers). Every method documented as loop-thread-only
// panics in tests if misused would be a correctness bug elsewhere - callers
// go through ExecuteInLoop/DelegateToLoop instead of touching loop state
// directly.
type Loop struct {
	idx int

	log liblog.FuncLog
	tq  *timer.Queue
	pl  poller

	conns map[string]Conn
	fds   map[int]string

	mu        sync.Mutex
	delegated []Functor
	finalize  []Functor
	onStop    Functor

	running  int32
	stopping int32
	stopped  chan struct{}

	threadID int64 // set once Start's goroutine begins running
}

// New creates a Loop identified by idx (its position in an evloop.List).
func New(idx int, log liblog.FuncLog) (*Loop, error) {
	p, err := newOSPoller()
	if err != nil {
		return nil, err
	}

	return &Loop{
		idx:     idx,
		log:     log,
		tq:      timer.New(log),
		pl:      p,
		conns:   make(map[string]Conn),
		fds:     make(map[int]string),
		stopped: make(chan struct{}),
	}, nil
}

// Index returns the loop's position within its List.
func (l *Loop) Index() int { return l.idx }

// ConnCount returns the number of connections currently registered.
func (l *Loop) ConnCount() int {
	if l.onLoopThread() {
		return len(l.conns)
	}

	n := make(chan int, 1)
	l.DelegateToLoop(func() { n <- len(l.conns) })

	select {
	case v := <-n:
		return v
	case <-l.stopped:
		return 0
	}
}

func (l *Loop) onLoopThread() bool {
	return goroutineID() == atomic.LoadInt64(&l.threadID)
}

// Start spawns the loop's goroutine and begins iterating immediately.
func (l *Loop) Start() {
	if !atomic.CompareAndSwapInt32(&l.running, 0, 1) {
		return
	}

	go l.run()
}

// Register adds a connection to this loop's map and to the poller's
// interest set for readability. Must be called on the loop thread - callers
// go through List.Assign, which delegates here.
func (l *Loop) Register(c Conn, interest Interest) liberr.Error {
	l.conns[c.Name()] = c
	l.fds[c.FD()] = c.Name()

	if err := l.pl.Add(c.FD(), interest); err != nil {
		return ErrorPollerRegister.Error(err)
	}

	return nil
}

// SetInterest changes the readiness interest for a registered connection's
// fd - e.g. disabling read interest when backpressure kicks in, or enabling
// write interest while a send is in flight.
func (l *Loop) SetInterest(fd int, interest Interest) liberr.Error {
	if err := l.pl.Modify(fd, interest); err != nil {
		return ErrorPollerRegister.Error(err)
	}

	return nil
}

// Unregister removes a connection from the map and the poller. It is the
// last step of a connection's teardown finalizer, after which nothing in
// the loop can reach the connection again.
func (l *Loop) Unregister(c Conn) {
	delete(l.conns, c.Name())
	delete(l.fds, c.FD())
	_ = l.pl.Remove(c.FD())
}

// EachConn iterates the loop's registered connections. Must be called on
// the loop thread; the stop hook is the intended caller.
func (l *Loop) EachConn(fn func(Conn)) {
	for _, c := range l.conns {
		fn(c)
	}
}

// ExecuteInLoop runs fn immediately if called from this loop's own thread,
// otherwise delegates it like DelegateToLoop.
func (l *Loop) ExecuteInLoop(fn Functor) {
	if fn == nil {
		return
	}

	if l.onLoopThread() {
		fn()
		return
	}

	l.DelegateToLoop(fn)
}

// DelegateToLoop unconditionally enqueues fn for execution at the start of
// the loop's next iteration and wakes the loop if it is blocked in Wait.
func (l *Loop) DelegateToLoop(fn Functor) {
	if fn == nil {
		return
	}

	l.mu.Lock()
	l.delegated = append(l.delegated, fn)
	l.mu.Unlock()

	_ = l.pl.Wake()
}

// AddFinalizer enqueues fn to run after the current iteration's main body,
// used to defer potentially-destructive work (map removal, resource
// release) past any still-in-flight dispatch in this iteration.
func (l *Loop) AddFinalizer(fn Functor) {
	if fn == nil {
		return
	}

	l.mu.Lock()
	l.finalize = append(l.finalize, fn)
	l.mu.Unlock()
}

// SetStopHook registers the callback run exactly once, on the loop thread,
// the first time the loop notices a pending Stop: connections get torn
// down there and complete their own removal through their teardown
// finalizers. tcpsrv.Server installs
// a hook here that iterates the loop's connections and tears each one
// down; Loop itself has no notion of what a connection is beyond the Conn
// interface, so it cannot shut sockets down directly.
func (l *Loop) SetStopHook(fn Functor) {
	l.mu.Lock()
	l.onStop = fn
	l.mu.Unlock()
}

// Stop asks the loop to exit once it has no more registered connections.
// Safe to call from any goroutine.
func (l *Loop) Stop() {
	atomic.StoreInt32(&l.stopping, 1)
	_ = l.pl.Wake()
}

// Stopped returns a channel closed once the loop's run goroutine returns.
func (l *Loop) Stopped() <-chan struct{} {
	return l.stopped
}

// AddTimer schedules cb on this loop's timer queue. Must be called from the
// loop thread (use ExecuteInLoop to get there from elsewhere).
func (l *Loop) AddTimer(d time.Duration, interval time.Duration, cb timer.Callback) timer.ID {
	return l.tq.AddAfter(d, interval, cb)
}

// CancelTimer cancels a previously scheduled timer. Must be called from the
// loop thread.
func (l *Loop) CancelTimer(id timer.ID) liberr.Error {
	return l.tq.Cancel(id)
}

func (l *Loop) run() {
	atomic.StoreInt64(&l.threadID, goroutineID())
	defer close(l.stopped)
	defer func() { _ = l.pl.Close() }()

	lastTimeoutCheck := time.Now()
	stopHookRan := false

	for {
		if atomic.LoadInt32(&l.stopping) == 1 && !stopHookRan {
			stopHookRan = true
			l.mu.Lock()
			hook := l.onStop
			l.mu.Unlock()
			if hook != nil {
				l.runFunctor(hook)
			}
		}

		now := time.Now()
		timeout := l.tq.NextTimeout(now, maxWait)

		events, err := l.pl.Wait(timeout)
		if err != nil {
			l.logError("event loop poll failed", err)
		}

		for _, ev := range events {
			name, ok := l.fds[ev.fd]
			if !ok {
				continue
			}
			c, ok := l.conns[name]
			if !ok {
				continue
			}

			l.dispatch(c, ev)
		}

		now = time.Now()
		l.tq.ProcessExpired(now)

		if now.Sub(lastTimeoutCheck) >= time.Second {
			lastTimeoutCheck = now
			nowUnix := now.Unix()
			for _, c := range l.conns {
				l.checkTimeout(c, nowUnix)
			}
		}

		l.drainDelegated()
		l.drainFinalizers()

		if atomic.LoadInt32(&l.stopping) == 1 && len(l.conns) == 0 {
			return
		}
	}
}

func (l *Loop) dispatch(c Conn, ev pollEvent) {
	defer l.recoverCallback("connection poll dispatch")

	if ev.err {
		c.OnPollError(nil)
		return
	}
	if ev.read {
		c.OnReadable()
	}
	if ev.write {
		c.OnWritable()
	}
}

func (l *Loop) checkTimeout(c Conn, now int64) {
	defer l.recoverCallback("connection timeout check")
	c.CheckTimeout(now)
}

func (l *Loop) drainDelegated() {
	l.mu.Lock()
	batch := l.delegated
	l.delegated = nil
	l.mu.Unlock()

	for _, fn := range batch {
		l.runFunctor(fn)
	}
}

func (l *Loop) drainFinalizers() {
	l.mu.Lock()
	batch := l.finalize
	l.finalize = nil
	l.mu.Unlock()

	for _, fn := range batch {
		l.runFunctor(fn)
	}
}

func (l *Loop) runFunctor(fn Functor) {
	defer l.recoverCallback("delegated functor or finalizer")
	fn()
}

func (l *Loop) recoverCallback(what string) {
	if r := recover(); r != nil {
		l.logError(what+" panicked", nil)
	}
}

func (l *Loop) logError(msg string, err error) {
	if l.log == nil {
		return
	}
	if lg := l.log(); lg != nil {
		lg.Error(msg, err)
	}
}
