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

package tcpsrv

import (
	"errors"
	"net"

	liblog "github.com/nabbar/ise/logger"
)

// adoptConn detaches a standard-library TCP connection from Go's internal
// netpoller and hands the caller a raw, non-blocking file descriptor: the
// socket is duplicated via (*net.TCPConn).File, the duplicate is switched to
// non-blocking mode, and the original net.Conn is closed. The returned
// *os.File is kept alive on the Connection so the duplicate fd is not
// reclaimed until teardown closes it. This is the same detach-and-take-the-fd
// technique level-triggered reactor libraries use to put a socket under
// their own epoll instance instead of the runtime's.
func adoptConn(nc net.Conn, maxRecvBuffer int, handler Handler, log liblog.FuncLog) (*Connection, error) {
	tcp, ok := nc.(*net.TCPConn)
	if !ok {
		_ = nc.Close()
		return nil, errors.New("tcpsrv: not a TCP connection")
	}

	f, err := tcp.File()
	if err != nil {
		_ = nc.Close()
		return nil, err
	}

	fd := int(f.Fd())
	if err = sysSetNonblock(fd, true); err != nil {
		_ = f.Close()
		_ = nc.Close()
		return nil, err
	}

	local := nc.LocalAddr().String()
	peer := nc.RemoteAddr().String()
	_ = nc.Close()

	return newConnection(fd, f, local, peer, maxRecvBuffer, handler, log), nil
}
