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
	"os"
	"sync/atomic"
	"time"

	liberr "github.com/nabbar/ise/errors"
	liblog "github.com/nabbar/ise/logger"

	"github.com/nabbar/ise/evloop"
	"github.com/nabbar/ise/ioqueue"
	"github.com/nabbar/ise/splitter"
)

// state is the connection's position in the CREATED -> REGISTERED ->
// TEARING_DOWN -> DESTROYED lifecycle.
type state int32

const (
	stateCreated state = iota
	stateRegistered
	stateTearingDown
	stateDestroyed
)

const defaultMaxChunk = 32 * 1024
const scratchReadSize = 64 * 1024

var (
	connSeq   uint64
	bytesSent uint64
	bytesRecv uint64
)

// BytesSent returns the process-wide count of bytes written to TCP peers.
func BytesSent() uint64 { return atomic.LoadUint64(&bytesSent) }

// BytesRecv returns the process-wide count of bytes read from TCP peers.
func BytesRecv() uint64 { return atomic.LoadUint64(&bytesRecv) }

// sendTask is one queued write: size is the total byte count recorded at
// enqueue time, sent is the cumulative bytes written so far.
type sendTask struct {
	size  int
	sent  int
	ctx   interface{}
	to    time.Duration
	start int64
}

// recvTask is one queued read: its splitter decides when enough bytes have
// arrived to form a complete message.
type recvTask struct {
	split splitter.Func
	ctx   interface{}
	to    time.Duration
	start int64
}

// Connection is one established TCP stream. All mutation
// of its buffers and task queues happens on its owning loop's thread; Send
// and Recv delegate to that thread automatically when called from elsewhere.
type Connection struct {
	fd   int
	file *os.File

	name string

	loop    *evloop.Loop
	handler Handler
	log     liblog.FuncLog

	sendBuf *ioqueue.Buffer
	recvBuf *ioqueue.Buffer

	sendTasks []sendTask
	recvTasks []recvTask

	maxRecvBuffer int
	maxChunk      int

	st         int32
	errorLatch int32
	readPaused bool
	writeArmed bool
}

func newConnection(fd int, f *os.File, localAddr, peerAddr string, maxRecvBuffer int, handler Handler, log liblog.FuncLog) *Connection {
	n := atomic.AddUint64(&connSeq, 1)

	return &Connection{
		fd:            fd,
		file:          f,
		name:          fmt.Sprintf("%s-%s#%d", localAddr, peerAddr, n),
		handler:       handler,
		log:           log,
		sendBuf:       ioqueue.New(4096),
		recvBuf:       ioqueue.New(4096),
		maxRecvBuffer: maxRecvBuffer,
		maxChunk:      defaultMaxChunk,
		st:            int32(stateCreated),
	}
}

// Name returns this connection's stable, process-unique identifier.
func (c *Connection) Name() string { return c.name }

// FD returns the underlying socket file descriptor.
func (c *Connection) FD() int { return c.fd }

// setLoop is called once, on the chosen loop's own thread, by
// evloop.List.Assign.
func (c *Connection) setLoop(l *evloop.Loop) {
	c.loop = l
	atomic.StoreInt32(&c.st, int32(stateRegistered))

	if c.handler != nil {
		c.handler.Connected(c)
	}
}

func (c *Connection) state() state { return state(atomic.LoadInt32(&c.st)) }

func (c *Connection) closed() bool {
	s := c.state()
	return s == stateTearingDown || s == stateDestroyed
}

// Send appends p to the send buffer and enqueues a send task recording its
// length. If called from the owning loop's thread the send pipeline starts
// immediately; otherwise the call is delegated.
func (c *Connection) Send(p []byte, ctx interface{}, timeout time.Duration) liberr.Error {
	if len(p) == 0 {
		return nil
	}

	buf := make([]byte, len(p))
	copy(buf, p)

	fn := func() {
		if c.closed() {
			return
		}

		c.sendBuf.Append(buf)
		c.sendTasks = append(c.sendTasks, sendTask{size: len(buf), to: timeout, ctx: ctx})
		c.flushSend()
	}

	if c.loop == nil || c.closed() {
		return ErrorConnClosed.Error()
	}

	c.loop.ExecuteInLoop(fn)
	return nil
}

// Recv enqueues a receive task driven by split. Already-buffered bytes are
// tested against it immediately.
func (c *Connection) Recv(split splitter.Func, ctx interface{}, timeout time.Duration) liberr.Error {
	if split == nil {
		return nil
	}

	fn := func() {
		if c.closed() {
			return
		}

		c.recvTasks = append(c.recvTasks, recvTask{split: split, to: timeout, ctx: ctx})
		c.drainRecv()
		c.updateReadInterest()
	}

	if c.loop == nil || c.closed() {
		return ErrorConnClosed.Error()
	}

	c.loop.ExecuteInLoop(fn)
	return nil
}

// Disconnect half-closes the send side; the receive side continues until the
// peer closes or an error is observed.
func (c *Connection) Disconnect() {
	c.loop.ExecuteInLoop(func() {
		_ = sysShutdown(c.fd, shutWR)
	})
}

// Shutdown gives explicit bidirectional control over the half-close.
func (c *Connection) Shutdown(closeSend, closeRecv bool) {
	c.loop.ExecuteInLoop(func() {
		switch {
		case closeSend && closeRecv:
			c.teardown(nil)
		case closeSend:
			_ = sysShutdown(c.fd, shutWR)
		case closeRecv:
			_ = sysShutdown(c.fd, shutRD)
		}
	})
}

// OnReadable is invoked by the loop when the socket becomes readable.
func (c *Connection) OnReadable() {
	if c.closed() {
		return
	}

	var scratch [scratchReadSize]byte

	for {
		n, wouldBlock, err := sysRead(c.fd, scratch[:])
		if wouldBlock {
			break
		}
		if err != nil {
			c.teardown(err)
			return
		}
		if n == 0 {
			c.teardown(nil)
			return
		}

		c.recvBuf.Append(scratch[:n])
		atomic.AddUint64(&bytesRecv, uint64(n))
		c.drainRecv()

		if n < len(scratch) {
			break
		}
	}

	c.updateReadInterest()
}

// OnWritable is invoked by the loop when the socket becomes writable.
func (c *Connection) OnWritable() {
	if c.closed() {
		return
	}

	c.flushSend()
}

// OnPollError is invoked by the loop on EPOLLERR/EPOLLHUP.
func (c *Connection) OnPollError(err error) {
	c.teardown(err)
}

// CheckTimeout inspects the head-of-queue send and receive tasks, tearing
// the connection down if either has exceeded its deadline.
func (c *Connection) CheckTimeout(now int64) {
	if c.closed() {
		return
	}

	if len(c.sendTasks) > 0 {
		t := &c.sendTasks[0]
		if expired(t.start, t.to, now, func(v int64) { t.start = v }) {
			c.teardown(ErrorTaskTimeout.Error())
			return
		}
	}

	if len(c.recvTasks) > 0 {
		t := &c.recvTasks[0]
		if expired(t.start, t.to, now, func(v int64) { t.start = v }) {
			c.teardown(ErrorTaskTimeout.Error())
			return
		}
	}
}

func expired(start int64, to time.Duration, now int64, stamp func(int64)) bool {
	if to <= 0 {
		return false
	}

	if start == 0 {
		stamp(now)
		return false
	}

	return now-start > int64(to/time.Second)
}

func (c *Connection) flushSend() {
	for c.sendBuf.Len() > 0 {
		chunk := c.sendBuf.Peek()
		if len(chunk) > c.maxChunk {
			chunk = chunk[:c.maxChunk]
		}

		n, wouldBlock, err := sysWrite(c.fd, chunk)
		if wouldBlock {
			c.armWrite()
			return
		}
		if err != nil {
			c.teardown(err)
			return
		}

		c.sendBuf.Retrieve(n)
		atomic.AddUint64(&bytesSent, uint64(n))
		c.accountSent(n)

		if n < len(chunk) {
			c.armWrite()
			return
		}
	}

	c.disarmWrite()
}

func (c *Connection) accountSent(n int) {
	remaining := n

	for remaining > 0 && len(c.sendTasks) > 0 {
		t := &c.sendTasks[0]
		need := t.size - t.sent

		if remaining < need {
			t.sent += remaining
			return
		}

		remaining -= need
		t.sent = t.size
		ctx := t.ctx
		c.sendTasks = c.sendTasks[1:]

		if c.handler != nil {
			c.handler.SendComplete(c, ctx)
		}
	}
}

func (c *Connection) drainRecv() {
	for len(c.recvTasks) > 0 {
		data := c.recvBuf.Peek()
		if len(data) == 0 {
			return
		}

		k := c.recvTasks[0].split(data)
		if k <= 0 {
			return
		}
		if k > len(data) {
			k = len(data)
		}

		msg := make([]byte, k)
		copy(msg, data[:k])

		ctx := c.recvTasks[0].ctx
		c.recvTasks = c.recvTasks[1:]
		c.recvBuf.Retrieve(k)

		if c.handler != nil {
			c.handler.RecvComplete(c, msg, ctx)
		}
	}
}

// updateReadInterest applies the backpressure rule: disable read
// interest once the receive buffer hits its ceiling with no pending task to
// drain it, re-enable as soon as a task is queued or the buffer drains.
func (c *Connection) updateReadInterest() {
	saturated := c.maxRecvBuffer > 0 && len(c.recvTasks) == 0 && c.recvBuf.Len() >= c.maxRecvBuffer

	if saturated && !c.readPaused {
		c.readPaused = true
		c.applyInterest()
	} else if !saturated && c.readPaused {
		c.readPaused = false
		c.applyInterest()
	}
}

func (c *Connection) armWrite() {
	if !c.writeArmed {
		c.writeArmed = true
		c.applyInterest()
	}
}

func (c *Connection) disarmWrite() {
	if c.writeArmed {
		c.writeArmed = false
		c.applyInterest()
	}
}

func (c *Connection) applyInterest() {
	if c.loop == nil {
		return
	}

	i := evloop.InterestNone
	if !c.readPaused {
		i |= evloop.InterestRead
	}
	if c.writeArmed {
		i |= evloop.InterestWrite
	}

	_ = c.loop.SetInterest(c.fd, i)
}

// teardown is the one-shot, idempotent transition to TEARING_DOWN: it
// latches the error, half-closes the
// socket in both directions, fires Disconnected, and schedules the
// finalizer that removes the connection from its loop.
func (c *Connection) teardown(err error) {
	if !atomic.CompareAndSwapInt32(&c.errorLatch, 0, 1) {
		return
	}

	atomic.StoreInt32(&c.st, int32(stateTearingDown))

	_ = sysShutdown(c.fd, shutRDWR)

	if c.handler != nil {
		c.handler.Disconnected(c)
	}

	if err != nil && c.log != nil {
		if lg := c.log(); lg != nil {
			lg.Debug("tcp connection torn down", err)
		}
	}

	if c.loop != nil {
		c.loop.AddFinalizer(func() {
			c.loop.Unregister(c)
			_ = sysClose(c.fd)
			if c.file != nil {
				_ = c.file.Close()
			}
			atomic.StoreInt32(&c.st, int32(stateDestroyed))
		})
	}
}

