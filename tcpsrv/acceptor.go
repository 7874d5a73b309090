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

	liberr "github.com/nabbar/ise/errors"
	liblog "github.com/nabbar/ise/logger"

	"github.com/nabbar/ise/evloop"
)

// Assign registers a freshly created connection with an event-loop pool,
// either at a caller-nominated index or by round-robin. Both
// Acceptor and Connector take this as a constructor argument so neither
// needs to know about Server's internals.
type Assign func(c *Connection, loopIndex int) liberr.Error

// Acceptor owns one listening socket and its dedicated accept loop. The
// accept goroutine never invokes business callbacks
// itself; it only constructs the Connection and hands it to assign, which
// runs Connected on the chosen loop's thread.
type Acceptor struct {
	addr          string
	loopIndex     int
	maxRecvBuffer int
	maxConns      int

	handler Handler
	log     liblog.FuncLog
	assign  Assign

	ln       net.Listener
	conns    int32
	stopping int32
	done     chan struct{}
}

// NewAcceptor creates an Acceptor for addr. loopIndex < 0 means round-robin
// assignment; maxConns <= 0 means unbounded (the ceiling feature is
// supplemented from the original server's connection-limit behavior).
func NewAcceptor(addr string, loopIndex, maxRecvBuffer, maxConns int, handler Handler, log liblog.FuncLog, assign Assign) *Acceptor {
	return &Acceptor{
		addr:          addr,
		loopIndex:     loopIndex,
		maxRecvBuffer: maxRecvBuffer,
		maxConns:      maxConns,
		handler:       handler,
		log:           log,
		assign:        assign,
	}
}

// Open binds and listens, returning ErrorListenBind on failure. Open must
// succeed for Start to be called.
func (a *Acceptor) Open() liberr.Error {
	ln, err := net.Listen("tcp", a.addr)
	if err != nil {
		return ErrorListenBind.Error(err)
	}

	a.ln = ln
	return nil
}

// Addr returns the bound local address, valid after Open succeeds.
func (a *Acceptor) Addr() net.Addr {
	if a.ln == nil {
		return nil
	}
	return a.ln.Addr()
}

// Start spawns the dedicated accept goroutine.
func (a *Acceptor) Start() {
	a.done = make(chan struct{})
	go a.run()
}

// ConnCount returns the number of connections currently admitted by this
// acceptor (used against maxConns).
func (a *Acceptor) ConnCount() int { return int(atomic.LoadInt32(&a.conns)) }

func (a *Acceptor) run() {
	defer close(a.done)

	for {
		c, err := a.ln.Accept()
		if err != nil {
			if atomic.LoadInt32(&a.stopping) == 1 {
				return
			}
			a.logError("accept failed", err)
			continue
		}

		if a.maxConns > 0 && a.ConnCount() >= a.maxConns {
			_ = c.Close()
			continue
		}

		conn, err := adoptConn(c, a.maxRecvBuffer, a.handler, a.log)
		if err != nil {
			a.logError("failed to adopt accepted connection", err)
			continue
		}

		atomic.AddInt32(&a.conns, 1)
		wrapped := conn
		wrapped2 := &countedHandler{Handler: a.handler, onGone: func() { atomic.AddInt32(&a.conns, -1) }}
		wrapped.handler = wrapped2

		if e := a.assign(wrapped, a.loopIndex); e != nil {
			a.logError("failed to assign accepted connection to a loop", e)
			_ = sysClose(wrapped.fd)
		}
	}
}

// Stop closes the listener, causing the accept goroutine's next Accept call
// to return an error and exit.
func (a *Acceptor) Stop() {
	if !atomic.CompareAndSwapInt32(&a.stopping, 0, 1) {
		return
	}
	if a.ln != nil {
		_ = a.ln.Close()
	}
	if a.done != nil {
		<-a.done
	}
}

func (a *Acceptor) logError(msg string, err error) {
	if a.log == nil {
		return
	}
	if lg := a.log(); lg != nil {
		lg.Error(msg, err)
	}
}

// countedHandler decrements the acceptor's live-connection counter exactly
// once, on top of the host application's Handler.
type countedHandler struct {
	Handler
	onGone func()
	fired  int32
}

func (h *countedHandler) Disconnected(c *Connection) {
	if atomic.CompareAndSwapInt32(&h.fired, 0, 1) {
		h.onGone()
	}
	if h.Handler != nil {
		h.Handler.Disconnected(c)
	}
}

var _ evloop.Conn = (*Connection)(nil)
