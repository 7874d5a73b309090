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

package tcpsrv

import (
	"net"
	"sync/atomic"
	"time"
)

// runWorker is the non-Linux fallback: it has no SO_ERROR-polling epoll set
// to drive, so it dials each task with a blocking net.DialTimeout on its own
// goroutine instead of the single-worker poll loop of the Linux build. It
// exists so the module stays buildable off Linux, matching evloop's
// poller_other.go stance.
func (cn *Connector) runWorker() {
	for {
		tasks := cn.takeTasks()
		for _, t := range tasks {
			t := t
			go cn.dialOne(t)
		}

		if !cn.hasPending() {
			atomic.StoreInt32(&cn.running, 0)
			if !cn.hasPending() || !atomic.CompareAndSwapInt32(&cn.running, 0, 1) {
				return
			}
			continue
		}

		time.Sleep(connectPollInterval)
	}
}

func (cn *Connector) dialOne(t connectTask) {
	nc, err := net.DialTimeout("tcp", t.addr, 10*time.Second)
	if err != nil {
		cn.finishFailure(t, ErrorConnect.Error(err))
		return
	}

	conn, err := adoptConn(nc, cn.maxRecvBuffer, cn.handler, cn.log)
	if err != nil {
		cn.finishFailure(t, ErrorConnect.Error(err))
		return
	}

	cn.finishSuccessConn(conn, t)
}
