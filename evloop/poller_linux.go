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

package evloop

import (
	"time"

	"golang.org/x/sys/unix"
)

// epollPoller is the Linux readiness backend: readability/writability
// events drive the connection's send/receive pipeline. Wakeup between
// iterations uses an eventfd registered with epoll, a cheaper single-fd
// equivalent of the classic self-pipe trick.
type epollPoller struct {
	epfd   int
	wakefd int
}

func newOSPoller() (poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, ErrorPollerCreate.Error(err)
	}

	wakefd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		_ = unix.Close(epfd)
		return nil, ErrorPollerCreate.Error(err)
	}

	p := &epollPoller{epfd: epfd, wakefd: wakefd}

	if err = unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakefd, &unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(wakefd),
	}); err != nil {
		_ = unix.Close(epfd)
		_ = unix.Close(wakefd)
		return nil, ErrorPollerRegister.Error(err)
	}

	return p, nil
}

func eventsFor(interest Interest) uint32 {
	var ev uint32 = unix.EPOLLRDHUP
	if interest&InterestRead != 0 {
		ev |= unix.EPOLLIN
	}
	if interest&InterestWrite != 0 {
		ev |= unix.EPOLLOUT
	}

	return ev
}

func (p *epollPoller) Add(fd int, interest Interest) error {
	err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{
		Events: eventsFor(interest),
		Fd:     int32(fd),
	})
	if err != nil {
		return ErrorPollerRegister.Error(err)
	}

	return nil
}

func (p *epollPoller) Modify(fd int, interest Interest) error {
	err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, &unix.EpollEvent{
		Events: eventsFor(interest),
		Fd:     int32(fd),
	})
	if err != nil {
		return ErrorPollerRegister.Error(err)
	}

	return nil
}

func (p *epollPoller) Remove(fd int) error {
	err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	if err != nil && err != unix.ENOENT {
		return ErrorPollerRegister.Error(err)
	}

	return nil
}

func (p *epollPoller) Wait(timeout time.Duration) ([]pollEvent, error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}

	raw := make([]unix.EpollEvent, 128)

	n, err := unix.EpollWait(p.epfd, raw, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, ErrorPollerWait.Error(err)
	}

	out := make([]pollEvent, 0, n)
	for i := 0; i < n; i++ {
		fd := int(raw[i].Fd)
		if fd == p.wakefd {
			p.drainWake()
			continue
		}

		ev := raw[i].Events
		out = append(out, pollEvent{
			fd:    fd,
			read:  ev&(unix.EPOLLIN|unix.EPOLLRDHUP) != 0,
			write: ev&unix.EPOLLOUT != 0,
			err:   ev&(unix.EPOLLERR|unix.EPOLLHUP) != 0,
		})
	}

	return out, nil
}

func (p *epollPoller) drainWake() {
	var buf [8]byte
	for {
		_, err := unix.Read(p.wakefd, buf[:])
		if err != nil {
			return
		}
	}
}

func (p *epollPoller) Wake() error {
	one := []byte{1, 0, 0, 0, 0, 0, 0, 0}
	_, err := unix.Write(p.wakefd, one)
	if err != nil && err != unix.EAGAIN {
		return ErrorPollerRegister.Error(err)
	}

	return nil
}

func (p *epollPoller) Close() error {
	_ = unix.Close(p.wakefd)
	return unix.Close(p.epfd)
}
