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

// Package splitter implements the packet splitter contract: a pure function
// that inspects a byte span and reports how many leading bytes form one
// complete application message, or 0 if more bytes are needed. Splitters
// must be re-entrant and must never modify the slice they are given.
package splitter

// Func is the packet splitter signature. It returns the number of leading
// bytes of data that form one complete message, or 0 if data does not yet
// contain a full message.
type Func func(data []byte) (consumed int)

// Byte returns a splitter that reports one byte available as soon as any
// data is present.
func Byte() Func {
	return func(data []byte) int {
		if len(data) == 0 {
			return 0
		}

		return 1
	}
}

// Any returns a splitter that delivers the entire readable span as soon as
// any data arrives.
func Any() Func {
	return func(data []byte) int {
		return len(data)
	}
}

// NullTerminated returns a splitter that consumes up through the first 0x00
// byte, inclusive. It returns 0 until a NUL byte is seen.
func NullTerminated() Func {
	return func(data []byte) int {
		for i, c := range data {
			if c == 0x00 {
				return i + 1
			}
		}

		return 0
	}
}

// Line returns a splitter that scans for the first '\r' or '\n'; if it is
// immediately followed by the other character of the pair, both are
// consumed. Returns 0 until a terminator is found.
func Line() Func {
	return func(data []byte) int {
		for i, c := range data {
			if c != '\r' && c != '\n' {
				continue
			}

			if i+1 < len(data) {
				other := byte('\n')
				if c == '\n' {
					other = '\r'
				}
				if data[i+1] == other {
					return i + 2
				}
			}

			return i + 1
		}

		return 0
	}
}
