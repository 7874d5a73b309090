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

import liberr "github.com/nabbar/ise/errors"

const (
	// ErrorListenBind is a UDP socket bind failure during Server.Open.
	ErrorListenBind liberr.CodeError = iota + liberr.MinPkgUdpsrv

	// ErrorRead is a non-transient error from a listener's ReadFromUDP call.
	ErrorRead

	// ErrorGroupConfig means the server was built with no request group.
	ErrorGroupConfig

	// ErrorNotOpened is returned by operations requiring a bound socket.
	ErrorNotOpened
)

func init() {
	liberr.RegisterIdFctMessage(ErrorListenBind, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorListenBind:
		return "udp socket bind failure"
	case ErrorRead:
		return "udp socket read failure"
	case ErrorGroupConfig:
		return "no udp request group configured"
	case ErrorNotOpened:
		return "udp server is not opened"
	}

	return liberr.NullMessage
}
