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
	"github.com/nabbar/ise/tcpsrv"
	"github.com/nabbar/ise/udpsrv"
)

// BaseHandler is a no-op implementation of Handler meant to be embedded, so
// a TCP-only or UDP-only application overrides just the callbacks it needs.
// Its Classify drops every datagram.
type BaseHandler struct{}

func (BaseHandler) Connected(c *tcpsrv.Connection)    {}
func (BaseHandler) Disconnected(c *tcpsrv.Connection) {}

func (BaseHandler) RecvComplete(c *tcpsrv.Connection, d []byte, x interface{}) {}
func (BaseHandler) SendComplete(c *tcpsrv.Connection, x interface{})           {}

func (BaseHandler) Classify(data []byte) int { return -1 }

func (BaseHandler) RecvPacket(w *udpsrv.Worker, groupIndex int, p *udpsrv.Packet) {}

func (BaseHandler) AssistorExecute(idx int, done <-chan struct{}) { <-done }

func (BaseHandler) DaemonExecute(secCount int64, info SysInfo) {}

var _ Handler = BaseHandler{}
