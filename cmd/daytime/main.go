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

// Command daytime writes the current time to every client that connects,
// then half-closes the connection.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	liblog "github.com/nabbar/ise/logger"
	loglvl "github.com/nabbar/ise/logger/level"
	spfcbr "github.com/spf13/cobra"

	"github.com/nabbar/ise/reactor"
	"github.com/nabbar/ise/tcpsrv"
)

type daytimeBusiness struct {
	reactor.BaseHandler
}

func (b *daytimeBusiness) Connected(c *tcpsrv.Connection) {
	_ = c.Send([]byte(time.Now().Format(time.RFC1123)+"\r\n"), nil, 0)
}

func (b *daytimeBusiness) SendComplete(c *tcpsrv.Connection, ctx interface{}) {
	c.Disconnect()
}

func main() {
	var listen string

	cmd := &spfcbr.Command{
		Use:   "daytime",
		Short: "daytime protocol server",
		RunE: func(cmd *spfcbr.Command, args []string) error {
			return run(listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "0.0.0.0:10013", "listen address")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(listen string) error {
	lg := liblog.New(context.Background())
	lg.SetLevel(loglvl.InfoLevel)
	fl := func() liblog.Logger { return lg }

	srv, err := reactor.New(reactor.Config{
		ServerType: reactor.TypeTCP,
		TCP: []tcpsrv.Config{{
			EventLoopCount: 1,
			Listen:         []string{listen},
		}},
	}, &daytimeBusiness{}, fl)
	if err != nil {
		return err
	}

	if e := srv.Open(); e != nil {
		return e
	}

	lg.Info("daytime server listening", listen)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	srv.Close()
	return nil
}
