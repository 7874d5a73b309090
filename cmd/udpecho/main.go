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

// Command udpecho bounces every received datagram back to its sender, and
// serves Prometheus metrics so queue depth and worker scaling are visible.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	liblog "github.com/nabbar/ise/logger"
	loglvl "github.com/nabbar/ise/logger/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	spfcbr "github.com/spf13/cobra"

	"github.com/nabbar/ise/reactor"
	"github.com/nabbar/ise/udpsrv"
)

type udpEchoBusiness struct {
	reactor.BaseHandler
	srv *reactor.Server
}

func (b *udpEchoBusiness) Classify(data []byte) int {
	if len(data) == 0 {
		return -1
	}
	return 0
}

func (b *udpEchoBusiness) RecvPacket(w *udpsrv.Worker, groupIndex int, p *udpsrv.Packet) {
	if u := b.srv.UDPServer(); u != nil {
		_ = u.WriteTo(p.Data, p.Peer)
	}
}

func main() {
	var (
		listen  string
		metrics string
	)

	cmd := &spfcbr.Command{
		Use:   "udpecho",
		Short: "UDP echo server with worker-pool dispatch",
		RunE: func(cmd *spfcbr.Command, args []string) error {
			return run(listen, metrics)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "0.0.0.0:10007", "udp listen address")
	cmd.Flags().StringVar(&metrics, "metrics", "127.0.0.1:10080", "prometheus metrics address")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(listen, metrics string) error {
	lg := liblog.New(context.Background())
	lg.SetLevel(loglvl.InfoLevel)
	fl := func() liblog.Logger { return lg }

	biz := &udpEchoBusiness{}

	srv, err := reactor.New(reactor.Config{
		ServerType: reactor.TypeUDP,
		UDP: udpsrv.Config{
			Listen:         listen,
			ListenerCount:  2,
			Groups:         []udpsrv.GroupConfig{{QueueCapacity: 1000, MinThreads: 1, MaxThreads: 8}},
			EffWaitTime:    10 * time.Second,
			WorkerTimeout:  time.Minute,
			QueueAlertLine: 500,
			AdjustInterval: 5 * time.Second,
		},
	}, biz, fl)
	if err != nil {
		return err
	}

	biz.srv = srv

	if e := srv.Open(); e != nil {
		return e
	}

	reg := prometheus.NewRegistry()
	if e := reg.Register(reactor.NewMetrics(srv)); e != nil {
		lg.Error("metrics registration failed", e)
	} else {
		go func() {
			_ = http.ListenAndServe(metrics, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		}()
	}

	lg.Info("udp echo server listening", listen)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	srv.Close()
	return nil
}
