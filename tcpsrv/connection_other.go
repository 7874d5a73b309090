//go:build !linux
// +build !linux

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

// Non-Linux builds have no epoll backend (evloop/poller_other.go never
// reports real readiness), so this file only needs to keep the module
// buildable. It talks to the raw fd through the syscall package's portable
// subset rather than golang.org/x/sys/unix, whose socket constants are
// Linux-specific.
import "syscall"

const (
	shutRD   = 0
	shutWR   = 1
	shutRDWR = 2
)

func sysRead(fd int, p []byte) (n int, wouldBlock bool, err error) {
	n, err = syscall.Read(fd, p)
	if err == syscall.EAGAIN {
		return 0, true, nil
	}

	return n, false, err
}

func sysWrite(fd int, p []byte) (n int, wouldBlock bool, err error) {
	n, err = syscall.Write(fd, p)
	if err == syscall.EAGAIN {
		return 0, true, nil
	}

	return n, false, err
}

func sysShutdown(fd int, how int) error {
	return syscall.Shutdown(fd, how)
}

func sysClose(fd int) error {
	return syscall.Close(fd)
}

func sysSetNonblock(fd int, nb bool) error {
	return syscall.SetNonblock(fd, nb)
}
