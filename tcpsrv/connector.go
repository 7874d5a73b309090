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
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	libcch "github.com/nabbar/ise/cache"
	liblog "github.com/nabbar/ise/logger"
)

// resolveTTL bounds how long a resolved peer address is reused before the
// resolver is asked again, so reconnect storms against a named peer do not
// hammer DNS.
const resolveTTL = 30 * time.Second

// ConnectCallback reports the outcome of an asynchronous Connect. On
// success conn is already registered with an event loop and Connected has
// already fired; on failure conn is nil.
type ConnectCallback func(conn *Connection, ctx interface{}, err error)

// connectTask is one outbound connect request queued on the Connector.
type connectTask struct {
	addr string
	ctx  interface{}
	cb   ConnectCallback
}

// Connector issues asynchronous, non-blocking outbound connects.
// Connect is thread-safe; a single background worker drains
// the task list and restarts on demand once it has gone idle.
type Connector struct {
	loopIndex     int
	maxRecvBuffer int
	handler       Handler
	log           liblog.FuncLog
	assign        Assign

	mu      sync.Mutex
	pending []connectTask

	resolved libcch.Cache[string, *net.TCPAddr]

	running int32
}

// NewConnector creates a Connector. loopIndex < 0 assigns successful
// connections by round-robin.
func NewConnector(loopIndex, maxRecvBuffer int, handler Handler, log liblog.FuncLog, assign Assign) *Connector {
	return &Connector{
		loopIndex:     loopIndex,
		maxRecvBuffer: maxRecvBuffer,
		handler:       handler,
		log:           log,
		assign:        assign,
		resolved:      libcch.New[string, *net.TCPAddr](context.Background(), resolveTTL),
	}
}

// resolveAddr resolves addr, serving repeat connects from the TTL cache.
func (cn *Connector) resolveAddr(addr string) (*net.TCPAddr, error) {
	if v, _, ok := cn.resolved.Load(addr); ok && v != nil {
		return v, nil
	}

	raddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}

	cn.resolved.Store(addr, raddr)
	return raddr, nil
}

// Connect enqueues an outbound connect to addr. cb fires exactly once, from
// the connector's worker goroutine, with a nil conn and a non-nil err on
// failure.
func (cn *Connector) Connect(addr string, ctx interface{}, cb ConnectCallback) {
	cn.mu.Lock()
	cn.pending = append(cn.pending, connectTask{addr: addr, ctx: ctx, cb: cb})
	cn.mu.Unlock()

	if atomic.CompareAndSwapInt32(&cn.running, 0, 1) {
		go cn.runWorker()
	}
}

func (cn *Connector) takeTasks() []connectTask {
	cn.mu.Lock()
	defer cn.mu.Unlock()

	if len(cn.pending) == 0 {
		return nil
	}

	t := cn.pending
	cn.pending = nil
	return t
}

func (cn *Connector) hasPending() bool {
	cn.mu.Lock()
	defer cn.mu.Unlock()
	return len(cn.pending) > 0
}

func (cn *Connector) finishSuccess(fd int, local, peer string, t connectTask) {
	cn.finishSuccessConn(newConnection(fd, nil, local, peer, cn.maxRecvBuffer, cn.handler, cn.log), t)
}

func (cn *Connector) finishSuccessConn(conn *Connection, t connectTask) {
	if e := cn.assign(conn, cn.loopIndex); e != nil {
		_ = sysClose(conn.fd)
		if conn.file != nil {
			_ = conn.file.Close()
		}
		cn.finishFailure(t, e)
		return
	}

	if t.cb != nil {
		t.cb(conn, t.ctx, nil)
	}
}

func (cn *Connector) finishFailure(t connectTask, err error) {
	cn.logError("outbound connect failed", err)
	if t.cb != nil {
		t.cb(nil, t.ctx, err)
	}
}

func (cn *Connector) logError(msg string, err error) {
	if cn.log == nil {
		return
	}
	if lg := cn.log(); lg != nil {
		lg.Debug(msg, err)
	}
}

const connectPollInterval = time.Millisecond
