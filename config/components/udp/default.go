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

package udp

import (
	"bytes"
	"encoding/json"

	libcfg "github.com/nabbar/ise/config"
	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"
)

var _defaultConfig = []byte(`
{
   "server":{
      "listen":"0.0.0.0:9000",
      "listenerCount":1,
      "groups":[
         {
            "queueCapacity":1000,
            "minThreads":1,
            "maxThreads":8
         }
      ],
      "effWaitTime":"10s",
      "workerTimeout":"60s",
      "queueAlertLine":500,
      "adjustInterval":"5s"
   },
   "grace":"10s"
}`)

// SetDefaultConfig replaces the section template returned by DefaultConfig.
func SetDefaultConfig(cfg []byte) {
	_defaultConfig = cfg
}

// DefaultConfig returns the component's default JSON section, indented.
func DefaultConfig(indent string) []byte {
	var res = bytes.NewBuffer(make([]byte, 0))
	if err := json.Indent(res, _defaultConfig, indent, libcfg.JSONIndent); err != nil {
		return _defaultConfig
	}
	return res.Bytes()
}

func (c *componentUdp) DefaultConfig(indent string) []byte {
	return DefaultConfig(indent)
}

func (c *componentUdp) RegisterFlag(Command *spfcbr.Command, Viper *spfvpr.Viper) error {
	_ = Command.PersistentFlags().String(c.key+".server.listen", "0.0.0.0:9000", "udp listen address (host:port)")
	_ = Command.PersistentFlags().Int(c.key+".server.listenerCount", 1, "number of udp listener goroutines")
	_ = Command.PersistentFlags().Int(c.key+".server.queueAlertLine", 500, "queue depth above which workers are added")

	if err := Viper.BindPFlag(c.key+".server.listen", Command.PersistentFlags().Lookup(c.key+".server.listen")); err != nil {
		return err
	} else if err = Viper.BindPFlag(c.key+".server.listenerCount", Command.PersistentFlags().Lookup(c.key+".server.listenerCount")); err != nil {
		return err
	} else if err = Viper.BindPFlag(c.key+".server.queueAlertLine", Command.PersistentFlags().Lookup(c.key+".server.queueAlertLine")); err != nil {
		return err
	}

	return nil
}
