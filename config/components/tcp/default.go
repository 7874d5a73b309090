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

package tcp

import (
	"bytes"
	"encoding/json"

	libcfg "github.com/nabbar/ise/config"
	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"
)

var _defaultConfig = []byte(`
{
   "servers":[
      {
         "eventLoopCount":4,
         "listen":[
            "0.0.0.0:8000"
         ],
         "maxRecvBuffer":1048576,
         "maxConnsPerAddr":0,
         "loopIndexPerAddr":[]
      }
   ],
   "assistorCount":0,
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

func (c *componentTcp) DefaultConfig(indent string) []byte {
	return DefaultConfig(indent)
}

func (c *componentTcp) RegisterFlag(Command *spfcbr.Command, Viper *spfvpr.Viper) error {
	_ = Command.PersistentFlags().Int(c.key+".eventLoopCount", 4, "number of event loop goroutines per tcp server")
	_ = Command.PersistentFlags().StringSlice(c.key+".listen", nil, "tcp listen addresses (host:port)")
	_ = Command.PersistentFlags().Int(c.key+".maxRecvBuffer", 1<<20, "per-connection receive buffer ceiling in bytes")

	if err := Viper.BindPFlag(c.key+".eventLoopCount", Command.PersistentFlags().Lookup(c.key+".eventLoopCount")); err != nil {
		return err
	} else if err = Viper.BindPFlag(c.key+".listen", Command.PersistentFlags().Lookup(c.key+".listen")); err != nil {
		return err
	} else if err = Viper.BindPFlag(c.key+".maxRecvBuffer", Command.PersistentFlags().Lookup(c.key+".maxRecvBuffer")); err != nil {
		return err
	}

	return nil
}
