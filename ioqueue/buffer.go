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

// Package ioqueue implements the resizable byte queue used by tcpsrv
// connections for both the send and the receive path. It is not safe for
// concurrent use: callers (evloop, tcpsrv) must only touch a given Buffer
// from the connection's owning loop thread.
package ioqueue

// minGrow is the smallest amount a Buffer grows its backing store by, to
// avoid a storm of tiny reallocations on many small Append calls.
const minGrow = 64

// Buffer is a contiguous byte store with a reader index and a writer index,
// 0 <= reader <= writer <= len(buf). The readable span is buf[reader:writer];
// the writable span is buf[writer:]; buf[:reader] is reclaimable slack.
type Buffer struct {
	buf    []byte
	reader int
	writer int
}

// New allocates a Buffer with the given initial capacity.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}

	return &Buffer{buf: make([]byte, capacity)}
}

// Len returns the number of readable bytes, buffer.writer - buffer.reader.
func (b *Buffer) Len() int {
	return b.writer - b.reader
}

// Cap returns the size of the backing store.
func (b *Buffer) Cap() int {
	return len(b.buf)
}

// Writable returns the number of bytes that can be appended before the
// backing store must grow.
func (b *Buffer) Writable() int {
	return len(b.buf) - b.writer
}

// Peek returns a slice over the readable span. The slice is only valid
// until the next mutating call (Append, Retrieve, RetrieveAll, Grow).
func (b *Buffer) Peek() []byte {
	return b.buf[b.reader:b.writer]
}

// PeekN returns up to n bytes from the readable span, or the whole span if
// it holds fewer than n bytes.
func (b *Buffer) PeekN(n int) []byte {
	r := b.Peek()
	if n < len(r) {
		r = r[:n]
	}

	return r
}

// Append grows the buffer to make room for p, copying p into the writable
// span, then advances the writer index. It first tries to reclaim slack by
// shifting the readable span down to offset 0; it only grows the backing
// store if slack reclamation is insufficient.
func (b *Buffer) Append(p []byte) {
	if len(p) == 0 {
		return
	}

	b.makeRoom(len(p))
	b.writer += copy(b.buf[b.writer:], p)
}

// Grow ensures at least n bytes of writable span exist, without writing
// anything. Used by the receive pipeline to size a scratch read ahead of a
// readiness-driven read() call.
func (b *Buffer) Grow(n int) {
	b.makeRoom(n)
}

// makeRoom ensures the writable span holds at least n bytes, reclaiming
// slack via memmove before falling back to reallocation.
func (b *Buffer) makeRoom(n int) {
	if b.Writable() >= n {
		return
	}

	if b.reader > 0 && b.reader+b.Writable() >= n {
		copy(b.buf, b.buf[b.reader:b.writer])
		b.writer -= b.reader
		b.reader = 0
		return
	}

	need := b.writer - b.reader + n
	cap2 := len(b.buf) * 2
	if cap2 < need {
		cap2 = need
	}
	if cap2 < minGrow {
		cap2 = minGrow
	}

	nb := make([]byte, cap2)
	w := copy(nb, b.buf[b.reader:b.writer])
	b.buf = nb
	b.writer = w
	b.reader = 0
}

// Retrieve advances the reader index by n, discarding those bytes from the
// readable span. n is clamped to Len().
func (b *Buffer) Retrieve(n int) {
	if n <= 0 {
		return
	}
	if n > b.Len() {
		n = b.Len()
	}

	b.reader += n
	if b.reader == b.writer {
		b.reader, b.writer = 0, 0
	}
}

// RetrieveAll discards the entire readable span and resets both indices,
// allowing the backing store to be reused from offset 0 on the next Append.
func (b *Buffer) RetrieveAll() {
	b.reader, b.writer = 0, 0
}

// WriteSlot returns the writable span, growing the backing store first so
// it has room for at least n bytes. Used by the reactor-platform read path:
// callers read() directly into this slice, then call Commit(n) to publish
// what was read.
func (b *Buffer) WriteSlot(n int) []byte {
	b.makeRoom(n)
	return b.buf[b.writer:]
}

// Commit advances the writer index by n after the caller has copied/read n
// bytes into the slice returned by WriteSlot.
func (b *Buffer) Commit(n int) {
	if n <= 0 {
		return
	}

	b.writer += n
	if b.writer > len(b.buf) {
		b.writer = len(b.buf)
	}
}

// Reset discards all data and keeps the backing store, replacing it only
// when it is smaller than capacity (it is never shrunk), for connection
// reuse from a pool, keeping steady-state allocation low on
// the send/receive path.
func (b *Buffer) Reset(capacity int) {
	b.reader, b.writer = 0, 0
	if cap(b.buf) < capacity {
		b.buf = make([]byte, capacity)
	}
}
