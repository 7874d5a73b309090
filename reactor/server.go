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

package reactor

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	liberr "github.com/nabbar/ise/errors"
	liblog "github.com/nabbar/ise/logger"
	"golang.org/x/sync/errgroup"

	"github.com/nabbar/ise/tcpsrv"
	"github.com/nabbar/ise/udpsrv"
)

// Server is the engine façade: it owns every TCP server, the UDP dispatcher,
// the assistor goroutines, and the daemon, and starts/stops them in
// dependency order.
type Server struct {
	cfg     Config
	handler Handler
	log     liblog.FuncLog

	tcp []*tcpsrv.Server
	udp *udpsrv.Server

	opened int32
	stop   chan struct{}
	wg     sync.WaitGroup
}

// New builds a Server from cfg. If handler implements OptionsInitializer,
// it is given the configuration first, before any resource is created.
func New(cfg Config, handler Handler, log liblog.FuncLog) (*Server, liberr.Error) {
	if oi, ok := handler.(OptionsInitializer); ok {
		oi.InitOptions(&cfg)
	}

	s := &Server{
		cfg:     cfg,
		handler: handler,
		log:     log,
		stop:    make(chan struct{}),
	}

	if cfg.ServerType.Has(TypeTCP) {
		for _, tc := range cfg.TCP {
			t, err := tcpsrv.NewServer(tc, handler, log)
			if err != nil {
				s.closeTCP()
				return nil, err
			}
			s.tcp = append(s.tcp, t)
		}
	}

	if cfg.ServerType.Has(TypeUDP) {
		u, err := udpsrv.NewServer(cfg.UDP, handler, log)
		if err != nil {
			s.closeTCP()
			return nil, err
		}
		s.udp = u
	}

	return s, nil
}

// Open starts everything in dependency order: event loops are already
// running (each tcpsrv.Server starts its pool at construction), then TCP
// listeners bind concurrently, then the UDP socket and worker pools, then
// assistors and the daemon. On any failure, everything already started is
// rolled back and the error is returned.
func (s *Server) Open() liberr.Error {
	if !atomic.CompareAndSwapInt32(&s.opened, 0, 1) {
		return nil
	}

	var (
		g  errgroup.Group
		mu sync.Mutex

		opened []*tcpsrv.Server
	)

	for _, t := range s.tcp {
		t := t
		g.Go(func() error {
			if err := t.Open(); err != nil {
				return err
			}
			mu.Lock()
			opened = append(opened, t)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, t := range opened {
			t.Close()
		}
		atomic.StoreInt32(&s.opened, 0)
		if e, ok := err.(liberr.Error); ok {
			return e
		}
		return liberr.ErrorListenerBind.Error(err)
	}

	if s.udp != nil {
		if err := s.udp.Open(); err != nil {
			for _, t := range s.tcp {
				t.Close()
			}
			atomic.StoreInt32(&s.opened, 0)
			return err
		}
	}

	for i := 0; i < s.cfg.AssistorCount; i++ {
		s.wg.Add(1)
		go s.runAssistor(i)
	}

	s.wg.Add(1)
	go s.runDaemon()

	return nil
}

// Close stops components in reverse order of Open: daemon and assistors
// first, then the UDP dispatcher, then the TCP servers, bounding each wait
// by the configured grace period. Closing a server that never opened (or
// whose Open rolled back) still stops its event-loop pools.
func (s *Server) Close() {
	grace := s.cfg.grace()

	if atomic.CompareAndSwapInt32(&s.opened, 1, 0) {
		select {
		case <-s.stop:
		default:
			close(s.stop)
		}

		waited := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(waited)
		}()

		select {
		case <-waited:
		case <-time.After(grace):
			s.logError("assistor or daemon goroutine did not exit within the grace period", nil)
		}
	}

	if s.udp != nil {
		s.udp.Close(grace)
	}

	s.closeTCP()
}

func (s *Server) closeTCP() {
	for _, t := range s.tcp {
		t.Close()
	}
}

// Connect issues an asynchronous outbound connect through TCP server idx's
// connector.
func (s *Server) Connect(idx int, addr string, ctx interface{}, cb tcpsrv.ConnectCallback) liberr.Error {
	if idx < 0 || idx >= len(s.tcp) {
		return liberr.ErrorConnectFailure.Error()
	}

	s.tcp[idx].Connect(addr, ctx, cb)
	return nil
}

// TCPAddrs returns the bound listen addresses of TCP server idx.
func (s *Server) TCPAddrs(idx int) []net.Addr {
	if idx < 0 || idx >= len(s.tcp) {
		return nil
	}
	return s.tcp[idx].Addrs()
}

// UDPAddr returns the UDP dispatcher's bound address, or nil when UDP is
// not enabled.
func (s *Server) UDPAddr() net.Addr {
	if s.udp == nil {
		return nil
	}
	return s.udp.Addr()
}

// TCPServer returns the tcpsrv.Server at idx, or nil if out of range.
func (s *Server) TCPServer(idx int) *tcpsrv.Server {
	if idx < 0 || idx >= len(s.tcp) {
		return nil
	}
	return s.tcp[idx]
}

// TCPServerCount returns how many TCP servers the configuration declared.
func (s *Server) TCPServerCount() int { return len(s.tcp) }

// UDPServer returns the UDP dispatcher, or nil when UDP is not enabled.
func (s *Server) UDPServer() *udpsrv.Server { return s.udp }

func (s *Server) runAssistor(idx int) {
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			s.logError("assistor callback panicked", r)
		}
	}()

	s.handler.AssistorExecute(idx, s.stop)
}

func (s *Server) logError(msg string, data interface{}) {
	if s.log == nil {
		return
	}
	if lg := s.log(); lg != nil {
		lg.Error(msg, data)
	}
}
