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

	liberr "github.com/nabbar/ise/errors"
	liblog "github.com/nabbar/ise/logger"

	"github.com/nabbar/ise/evloop"
)

// Config is the set of options a tcpsrv.Server reads from its host
// component (config/components/tcp).
type Config struct {
	EventLoopCount   int      `json:"eventLoopCount" yaml:"eventLoopCount" mapstructure:"eventLoopCount"`
	Listen           []string `json:"listen" yaml:"listen" mapstructure:"listen"`
	MaxRecvBuffer    int      `json:"maxRecvBuffer" yaml:"maxRecvBuffer" mapstructure:"maxRecvBuffer"`
	MaxConnsPerAddr  int      `json:"maxConnsPerAddr" yaml:"maxConnsPerAddr" mapstructure:"maxConnsPerAddr"`
	LoopIndexPerAddr []int    `json:"loopIndexPerAddr" yaml:"loopIndexPerAddr" mapstructure:"loopIndexPerAddr"` // -1 for round-robin; parallel to Listen
}

// Server composes an evloop.List with one Acceptor per configured listen
// address and one shared Connector: the TCP half of the engine. The UDP
// half lives in package udpsrv; package
// reactor wires both together behind one Open/Close.
type Server struct {
	loops     *evloop.List
	acceptors []*Acceptor
	connector *Connector
	handler   Handler
	log       liblog.FuncLog
	cfg       Config
}

// NewServer builds the event-loop pool, whose loops start running at once,
// plus the acceptors and connector; no listener is bound until Open.
func NewServer(cfg Config, handler Handler, log liblog.FuncLog) (*Server, liberr.Error) {
	loops, err := evloop.NewList(cfg.EventLoopCount, log)
	if err != nil {
		return nil, ErrorListenBind.Error(err)
	}

	s := &Server{loops: loops, handler: handler, log: log, cfg: cfg}

	// a stopping loop tears down every connection it still owns, shutting
	// both directions of its socket; each one then completes its own removal
	// through the teardown finalizer,
	// letting the loop drain to empty and exit
	loops.Each(func(lp *evloop.Loop) {
		lp.SetStopHook(func() {
			lp.EachConn(func(c evloop.Conn) {
				if conn, ok := c.(*Connection); ok {
					conn.teardown(nil)
				}
			})
		})
	})

	for i, addr := range cfg.Listen {
		idx := -1
		if i < len(cfg.LoopIndexPerAddr) {
			idx = cfg.LoopIndexPerAddr[i]
		}
		s.acceptors = append(s.acceptors, NewAcceptor(addr, idx, cfg.MaxRecvBuffer, cfg.MaxConnsPerAddr, handler, log, s.assign))
	}

	s.connector = NewConnector(-1, cfg.MaxRecvBuffer, handler, log, s.assign)

	return s, nil
}

func (s *Server) assign(c *Connection, loopIndex int) liberr.Error {
	return s.loops.Assign(c, loopIndex, evloop.InterestRead, func(l *evloop.Loop) { c.setLoop(l) })
}

// Open binds every configured listener, rolling back already-bound ones on
// the first failure, then starts their accept loops.
func (s *Server) Open() liberr.Error {
	opened := make([]*Acceptor, 0, len(s.acceptors))

	for _, a := range s.acceptors {
		if err := a.Open(); err != nil {
			for _, o := range opened {
				o.Stop()
			}
			return err
		}
		opened = append(opened, a)
	}

	for _, a := range s.acceptors {
		a.Start()
	}

	return nil
}

// Close stops every acceptor's accept loop and every event loop.
func (s *Server) Close() {
	for _, a := range s.acceptors {
		a.Stop()
	}

	for _, ch := range s.loops.Stop() {
		<-ch
	}
}

// Connect issues an asynchronous outbound connect through the shared
// Connector.
func (s *Server) Connect(addr string, ctx interface{}, cb ConnectCallback) {
	s.connector.Connect(addr, ctx, cb)
}

// Adopt takes ownership of an externally established TCP connection and
// registers it with the loop at loopIndex (round-robin when negative). This
// is the single entry point for connections the server did not accept or
// dial itself. On success the Connected callback has already fired on the
// owning loop's thread.
func (s *Server) Adopt(nc net.Conn, loopIndex int) (*Connection, liberr.Error) {
	conn, err := adoptConn(nc, s.cfg.MaxRecvBuffer, s.handler, s.log)
	if err != nil {
		return nil, ErrorAccept.Error(err)
	}

	if e := s.assign(conn, loopIndex); e != nil {
		_ = sysClose(conn.fd)
		if conn.file != nil {
			_ = conn.file.Close()
		}
		return nil, e
	}

	return conn, nil
}

// Addrs returns the bound local address of every acceptor, in configuration
// order.
func (s *Server) Addrs() []net.Addr {
	out := make([]net.Addr, len(s.acceptors))
	for i, a := range s.acceptors {
		out[i] = a.Addr()
	}
	return out
}

// Loops exposes the underlying pool, mainly so package reactor can fold TCP
// and UDP metrics/daemon hooks over the same loops.
func (s *Server) Loops() *evloop.List { return s.loops }
