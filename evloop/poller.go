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

// Package evloop implements the per-thread event loop driver: it blocks in
// an OS readiness primitive (epoll on Linux), fires
// expired timers, drains delegated functors and finalizers, and calls back
// into registered connections - all on one goroutine parked to one OS
// thread, giving every connection strict callback-affinity to its loop.
package evloop

import "time"

// pollEvent is one readiness notification from the poller.
type pollEvent struct {
	fd    int
	read  bool
	write bool
	err   bool
}

// poller is the OS readiness backend. Linux gets a real epoll
// implementation (poller_linux.go); every other GOOS gets a goroutine-driven
// shim (poller_other.go) that exists only so the module stays buildable and
// vettable cross-platform.
type poller interface {
	// Add registers fd for the given interest.
	Add(fd int, interest Interest) error

	// Modify changes the interest set for an already-registered fd.
	Modify(fd int, interest Interest) error

	// Remove unregisters fd. Safe to call even if fd was never added.
	Remove(fd int) error

	// Wait blocks up to timeout for readiness events, or until Wake is
	// called from another goroutine. A negative timeout blocks forever.
	Wait(timeout time.Duration) ([]pollEvent, error)

	// Wake interrupts an in-progress or future Wait call once.
	Wake() error

	// Close releases the poller's own resources (epoll fd, wakeup fd).
	Close() error
}
