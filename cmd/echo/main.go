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

// Command echo runs a line-oriented TCP echo server: every received line is
// written back to the peer unchanged.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	liblog "github.com/nabbar/ise/logger"
	loglvl "github.com/nabbar/ise/logger/level"
	spfcbr "github.com/spf13/cobra"

	"github.com/nabbar/ise/reactor"
	"github.com/nabbar/ise/splitter"
	"github.com/nabbar/ise/tcpsrv"
)

type echoBusiness struct {
	reactor.BaseHandler
	log liblog.FuncLog
}

func (b *echoBusiness) Connected(c *tcpsrv.Connection) {
	if lg := b.log(); lg != nil {
		lg.Info("client connected", c.Name())
	}
	_ = c.Recv(splitter.Line(), nil, 0)
}

func (b *echoBusiness) Disconnected(c *tcpsrv.Connection) {
	if lg := b.log(); lg != nil {
		lg.Info("client gone", c.Name())
	}
}

func (b *echoBusiness) RecvComplete(c *tcpsrv.Connection, data []byte, ctx interface{}) {
	_ = c.Send(data, nil, 0)
	_ = c.Recv(splitter.Line(), nil, 0)
}

func main() {
	var (
		listen string
		loops  int
	)

	cmd := &spfcbr.Command{
		Use:   "echo",
		Short: "line-oriented TCP echo server",
		RunE: func(cmd *spfcbr.Command, args []string) error {
			return run(listen, loops)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "0.0.0.0:10003", "listen address")
	cmd.Flags().IntVar(&loops, "loops", 4, "event loop count")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(listen string, loops int) error {
	lg := liblog.New(context.Background())
	lg.SetLevel(loglvl.InfoLevel)
	fl := func() liblog.Logger { return lg }

	srv, err := reactor.New(reactor.Config{
		ServerType: reactor.TypeTCP,
		TCP: []tcpsrv.Config{{
			EventLoopCount: loops,
			Listen:         []string{listen},
			MaxRecvBuffer:  1 << 20,
		}},
	}, &echoBusiness{log: fl}, fl)
	if err != nil {
		return err
	}

	if e := srv.Open(); e != nil {
		return e
	}

	lg.Info("echo server listening", listen)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	srv.Close()
	return nil
}
