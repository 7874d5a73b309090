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
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nabbar/ise/evloop"
	"github.com/nabbar/ise/tcpsrv"
)

// Metrics exposes the engine's runtime counters as a prometheus.Collector:
// per-server TCP connection counts, process-wide TCP byte counters, and
// per-group UDP queue depth, drop/expiry counts, and worker counts.
type Metrics struct {
	srv *Server

	dConns   *prometheus.Desc
	dSent    *prometheus.Desc
	dRecv    *prometheus.Desc
	dDepth   *prometheus.Desc
	dDrops   *prometheus.Desc
	dExpired *prometheus.Desc
	dWorkers *prometheus.Desc
}

// NewMetrics builds a collector over srv. Register it with any
// prometheus.Registerer to publish.
func NewMetrics(srv *Server) *Metrics {
	return &Metrics{
		srv:      srv,
		dConns:   prometheus.NewDesc("ise_tcp_connections", "registered TCP connections per server", []string{"server"}, nil),
		dSent:    prometheus.NewDesc("ise_tcp_sent_bytes_total", "bytes written to TCP peers", nil, nil),
		dRecv:    prometheus.NewDesc("ise_tcp_recv_bytes_total", "bytes read from TCP peers", nil, nil),
		dDepth:   prometheus.NewDesc("ise_udp_queue_depth", "queued datagrams per request group", []string{"group"}, nil),
		dDrops:   prometheus.NewDesc("ise_udp_queue_dropped_total", "datagrams evicted by drop-head admission", []string{"group"}, nil),
		dExpired: prometheus.NewDesc("ise_udp_expired_total", "datagrams discarded at dequeue for exceeding the effective wait time", []string{"group"}, nil),
		dWorkers: prometheus.NewDesc("ise_udp_workers", "live workers per request group", []string{"group"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.dConns
	ch <- m.dSent
	ch <- m.dRecv
	ch <- m.dDepth
	ch <- m.dDrops
	ch <- m.dExpired
	ch <- m.dWorkers
}

// Collect implements prometheus.Collector by reading the live engine state.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for i := 0; i < m.srv.TCPServerCount(); i++ {
		t := m.srv.TCPServer(i)
		if t == nil {
			continue
		}

		var n int
		t.Loops().Each(func(l *evloop.Loop) {
			select {
			case <-l.Stopped():
			default:
				n += l.ConnCount()
			}
		})
		ch <- prometheus.MustNewConstMetric(m.dConns, prometheus.GaugeValue, float64(n), strconv.Itoa(i))
	}

	ch <- prometheus.MustNewConstMetric(m.dSent, prometheus.CounterValue, float64(tcpsrv.BytesSent()))
	ch <- prometheus.MustNewConstMetric(m.dRecv, prometheus.CounterValue, float64(tcpsrv.BytesRecv()))

	if u := m.srv.UDPServer(); u != nil {
		for g := 0; g < u.GroupCount(); g++ {
			lbl := strconv.Itoa(g)
			ch <- prometheus.MustNewConstMetric(m.dDepth, prometheus.GaugeValue, float64(u.QueueDepth(g)), lbl)
			ch <- prometheus.MustNewConstMetric(m.dDrops, prometheus.CounterValue, float64(u.QueueDropped(g)), lbl)
			ch <- prometheus.MustNewConstMetric(m.dExpired, prometheus.CounterValue, float64(u.WorkerExpired(g)), lbl)
			ch <- prometheus.MustNewConstMetric(m.dWorkers, prometheus.GaugeValue, float64(u.WorkerCount(g)), lbl)
		}
	}
}
