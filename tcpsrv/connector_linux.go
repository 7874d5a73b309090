//go:build linux
// +build linux

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
	"fmt"
	"net"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

type pendingConnect struct {
	task  connectTask
	local string
	peer  string
}

// runWorker is the Connector's single background worker goroutine: it
// issues non-blocking connect() calls and polls their readiness with an
// epoll set dedicated to pending connects, then classifies each socket by
// its SO_ERROR.
func (cn *Connector) runWorker() {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		cn.logError("connector epoll create failed", err)
		atomic.StoreInt32(&cn.running, 0)
		return
	}
	defer unix.Close(epfd)

	pending := make(map[int]pendingConnect)

	for {
		for _, t := range cn.takeTasks() {
			raddr, rerr := cn.resolveAddr(t.addr)
			if rerr != nil {
				cn.finishFailure(t, ErrorConnect.Error(rerr))
				continue
			}

			fd, immediate, local, peer, derr := dialNonBlocking(raddr)
			if derr != nil {
				cn.finishFailure(t, ErrorConnect.Error(derr))
				continue
			}
			if immediate {
				cn.finishSuccess(fd, local, peer, t)
				continue
			}

			pending[fd] = pendingConnect{task: t, local: local, peer: peer}
			_ = unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{
				Events: unix.EPOLLOUT,
				Fd:     int32(fd),
			})
		}

		if len(pending) == 0 {
			atomic.StoreInt32(&cn.running, 0)
			if !cn.hasPending() || !atomic.CompareAndSwapInt32(&cn.running, 0, 1) {
				return
			}
			continue
		}

		events := make([]unix.EpollEvent, 64)
		n, werr := unix.EpollWait(epfd, events, 1)
		if werr != nil && werr != unix.EINTR {
			cn.logError("connector epoll wait failed", werr)
			continue
		}

		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			pc, ok := pending[fd]
			if !ok {
				continue
			}

			_ = unix.EpollCtl(epfd, unix.EPOLL_CTL_DEL, fd, nil)
			delete(pending, fd)

			errno, gerr := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
			if gerr != nil || errno != 0 {
				_ = unix.Close(fd)
				cn.finishFailure(pc.task, ErrorConnect.Error())
				continue
			}

			cn.finishSuccess(fd, pc.local, pc.peer, pc.task)
		}
	}
}

// dialNonBlocking creates a non-blocking socket and issues connect(),
// returning immediate=true if it completed synchronously (common for
// loopback destinations).
func dialNonBlocking(raddr *net.TCPAddr) (fd int, immediate bool, local, peer string, err error) {
	domain := unix.AF_INET
	ip4 := raddr.IP.To4()
	if ip4 == nil {
		domain = unix.AF_INET6
	}

	fd, err = unix.Socket(domain, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return 0, false, "", "", err
	}

	if err = unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return 0, false, "", "", err
	}

	var sa unix.Sockaddr
	if domain == unix.AF_INET {
		var a [4]byte
		copy(a[:], ip4)
		sa = &unix.SockaddrInet4{Port: raddr.Port, Addr: a}
	} else {
		var a [16]byte
		copy(a[:], raddr.IP.To16())
		sa = &unix.SockaddrInet6{Port: raddr.Port, Addr: a}
	}

	err = unix.Connect(fd, sa)
	if err == nil {
		immediate = true
	} else if err == unix.EINPROGRESS {
		err = nil
	} else {
		_ = unix.Close(fd)
		return 0, false, "", "", err
	}

	peer = raddr.String()
	if lsa, lerr := unix.Getsockname(fd); lerr == nil {
		local = sockaddrString(lsa)
	}

	return fd, immediate, local, peer, nil
}

func sockaddrString(sa unix.Sockaddr) string {
	switch v := sa.(type) {
	case *unix.SockaddrInet4:
		return fmt.Sprintf("%s:%d", net.IP(v.Addr[:]).String(), v.Port)
	case *unix.SockaddrInet6:
		return fmt.Sprintf("[%s]:%d", net.IP(v.Addr[:]).String(), v.Port)
	}

	return ""
}
