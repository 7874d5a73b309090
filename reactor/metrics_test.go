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

package reactor_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nabbar/ise/reactor"
	"github.com/nabbar/ise/tcpsrv"
	"github.com/nabbar/ise/udpsrv"
)

var _ = Describe("Metrics", func() {
	It("registers and collects the engine's gauges and counters", func() {
		b := &echoBusiness{}

		srv, err := reactor.New(reactor.Config{
			ServerType: reactor.TypeTCP | reactor.TypeUDP,
			TCP: []tcpsrv.Config{{
				EventLoopCount: 1,
				Listen:         []string{"127.0.0.1:0"},
			}},
			UDP: udpsrv.Config{
				Listen:        "127.0.0.1:0",
				ListenerCount: 1,
				Groups:        []udpsrv.GroupConfig{{QueueCapacity: 10, MinThreads: 1, MaxThreads: 2}},
			},
			Grace: time.Second,
		}, b, nil)
		Expect(err).To(BeNil())

		b.udp = srv.UDPServer()
		Expect(srv.Open()).To(BeNil())
		defer srv.Close()

		reg := prometheus.NewRegistry()
		Expect(reg.Register(reactor.NewMetrics(srv))).ToNot(HaveOccurred())

		mfs, e := reg.Gather()
		Expect(e).ToNot(HaveOccurred())

		names := make(map[string]bool)
		for _, mf := range mfs {
			names[mf.GetName()] = true
		}

		Expect(names).To(HaveKey("ise_tcp_connections"))
		Expect(names).To(HaveKey("ise_udp_queue_depth"))
		Expect(names).To(HaveKey("ise_udp_workers"))
	})
})
