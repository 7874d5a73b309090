//go:build !linux
// +build !linux

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
	"time"
)

// fallbackPoller satisfies the poller interface on non-Linux GOOS so the
// module stays buildable and vettable everywhere. It does not implement
// real readiness detection: Wait always returns an empty event set and
// simply sleeps up to timeout (one second when timeout is negative, rather
// than blocking forever) or until Wake is called. This backend is not
// for production traffic; the Linux epoll backend (poller_linux.go) is the
// one the engine is designed around.
type fallbackPoller struct {
	mu     sync.Mutex
	woken  chan struct{}
	closed bool
}

func newOSPoller() (poller, error) {
	return &fallbackPoller{woken: make(chan struct{}, 1)}, nil
}

func (p *fallbackPoller) Add(fd int, interest Interest) error    { return nil }
func (p *fallbackPoller) Modify(fd int, interest Interest) error { return nil }
func (p *fallbackPoller) Remove(fd int) error                    { return nil }

func (p *fallbackPoller) Wait(timeout time.Duration) ([]pollEvent, error) {
	if timeout < 0 {
		timeout = time.Second
	}

	select {
	case <-p.woken:
	case <-time.After(timeout):
	}

	return nil, nil
}

func (p *fallbackPoller) Wake() error {
	select {
	case p.woken <- struct{}{}:
	default:
	}

	return nil
}

func (p *fallbackPoller) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.closed = true
		close(p.woken)
	}

	return nil
}
