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

package udpsrv

import (
	"net"
	"sync"
	"time"

	liberr "github.com/nabbar/ise/errors"
	liblog "github.com/nabbar/ise/logger"
)

const maxDatagram = 64 * 1024

// GroupConfig sizes one request group: its queue capacity and the worker
// pool's bounds.
type GroupConfig struct {
	QueueCapacity int `json:"queueCapacity" yaml:"queueCapacity" mapstructure:"queueCapacity"`
	MinThreads    int `json:"minThreads" yaml:"minThreads" mapstructure:"minThreads"`
	MaxThreads    int `json:"maxThreads" yaml:"maxThreads" mapstructure:"maxThreads"`
}

// Config is the set of options a udpsrv.Server reads from its host
// component (config/components/udp).
type Config struct {
	Listen         string        `json:"listen" yaml:"listen" mapstructure:"listen"`
	ListenerCount  int           `json:"listenerCount" yaml:"listenerCount" mapstructure:"listenerCount"`
	Groups         []GroupConfig `json:"groups" yaml:"groups" mapstructure:"groups"`
	EffWaitTime    time.Duration `json:"effWaitTime" yaml:"effWaitTime" mapstructure:"effWaitTime"`
	WorkerTimeout  time.Duration `json:"workerTimeout" yaml:"workerTimeout" mapstructure:"workerTimeout"`
	QueueAlertLine int           `json:"queueAlertLine" yaml:"queueAlertLine" mapstructure:"queueAlertLine"`
	AdjustInterval time.Duration `json:"adjustInterval" yaml:"adjustInterval" mapstructure:"adjustInterval"`
}

// Server runs the UDP dispatcher: listener goroutines blocked in
// ReadFromUDP, the handler's classify hook, and one queue + worker pool per
// request group. Worker scaling is driven externally (reactor's daemon calls
// Adjust once a second); the per-group interval guard keeps the effective
// adjustment cadence at Config.AdjustInterval.
type Server struct {
	cfg     Config
	handler Handler
	log     liblog.FuncLog

	conn   *net.UDPConn
	queues []*RequestQueue
	pools  []*WorkerPool

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewServer validates cfg and builds (but does not start) queues and pools.
func NewServer(cfg Config, handler Handler, log liblog.FuncLog) (*Server, liberr.Error) {
	if len(cfg.Groups) == 0 {
		return nil, ErrorGroupConfig.Error()
	}
	if cfg.ListenerCount < 1 {
		cfg.ListenerCount = 1
	}

	s := &Server{
		cfg:     cfg,
		handler: handler,
		log:     log,
		stop:    make(chan struct{}),
	}

	for i, g := range cfg.Groups {
		q := NewRequestQueue(g.QueueCapacity)
		s.queues = append(s.queues, q)
		s.pools = append(s.pools, NewWorkerPool(i, g.MinThreads, g.MaxThreads, cfg.EffWaitTime, cfg.WorkerTimeout, q, handler, log))
	}

	return s, nil
}

// Open binds the UDP socket, spawns the listener goroutines, and starts each
// group's minimum worker set.
func (s *Server) Open() liberr.Error {
	addr, err := net.ResolveUDPAddr("udp", s.cfg.Listen)
	if err != nil {
		return ErrorListenBind.Error(err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return ErrorListenBind.Error(err)
	}

	s.conn = conn

	for _, p := range s.pools {
		p.Start()
	}

	for i := 0; i < s.cfg.ListenerCount; i++ {
		s.wg.Add(1)
		go s.listen()
	}

	return nil
}

// Addr returns the bound local address, valid after Open succeeds.
func (s *Server) Addr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

func (s *Server) listen() {
	defer s.wg.Done()

	buf := make([]byte, maxDatagram)

	for {
		n, peer, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-s.stop:
				return
			default:
			}
			s.logError("udp read failed", err)
			continue
		}

		g := s.classify(buf[:n])
		if g < 0 || g >= len(s.queues) {
			continue
		}

		data := make([]byte, n)
		copy(data, buf[:n])

		s.queues[g].Push(&Packet{Data: data, Peer: peer, RecvTime: time.Now()})
	}
}

func (s *Server) classify(data []byte) (g int) {
	defer func() {
		if r := recover(); r != nil {
			s.logError("udp classify callback panicked", r)
			g = -1
		}
	}()

	return s.handler.Classify(data)
}

// Adjust runs one scaling round over every group. The reactor daemon calls
// this once a second; each pool's interval guard throttles it down to the
// configured adjustment interval.
func (s *Server) Adjust(now time.Time) {
	for _, p := range s.pools {
		p.Adjust(now, s.cfg.AdjustInterval, s.cfg.QueueAlertLine)
	}
}

// WriteTo sends a datagram to peer from the server's bound socket.
func (s *Server) WriteTo(data []byte, peer *net.UDPAddr) liberr.Error {
	if s.conn == nil {
		return ErrorNotOpened.Error()
	}

	if _, err := s.conn.WriteToUDP(data, peer); err != nil {
		return ErrorRead.Error(err)
	}

	return nil
}

// GroupCount returns the number of configured request groups.
func (s *Server) GroupCount() int { return len(s.pools) }

// QueueDepth returns the current depth of group g's queue.
func (s *Server) QueueDepth(g int) int {
	if g < 0 || g >= len(s.queues) {
		return 0
	}
	return s.queues[g].Count()
}

// QueueDropped returns group g's drop-head eviction count.
func (s *Server) QueueDropped(g int) uint64 {
	if g < 0 || g >= len(s.queues) {
		return 0
	}
	return s.queues[g].Dropped()
}

// WorkerExpired returns how many of group g's packets were discarded at
// dequeue for exceeding the effective wait time.
func (s *Server) WorkerExpired(g int) uint64 {
	if g < 0 || g >= len(s.pools) {
		return 0
	}
	return s.pools[g].Expired()
}

// WorkerCount returns the number of live workers in group g's pool.
func (s *Server) WorkerCount(g int) int {
	if g < 0 || g >= len(s.pools) {
		return 0
	}
	return s.pools[g].Count()
}

// Close stops the listeners, then every worker pool, bounding the wait for
// each pool by grace.
func (s *Server) Close(grace time.Duration) {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}

	if s.conn != nil {
		_ = s.conn.Close()
	}

	s.wg.Wait()

	for _, p := range s.pools {
		p.Stop(grace)
	}
}

func (s *Server) logError(msg string, data interface{}) {
	if s.log == nil {
		return
	}
	if lg := s.log(); lg != nil {
		lg.Error(msg, data)
	}
}
