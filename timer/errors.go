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

package timer

import liberr "github.com/nabbar/ise/errors"

const (
	// ErrorTimerNotFound is returned by Cancel when the identifier is
	// unknown: already fired-and-not-repeating, already canceled, or never
	// issued by this queue.
	ErrorTimerNotFound liberr.CodeError = iota + liberr.MinPkgTimer

	// ErrorCallbackPanic names a recovered panic from a timer callback.
	// ProcessExpired logs the panic value itself rather than this code, and
	// continues with the remaining expired timers.
	ErrorCallbackPanic
)

func init() {
	liberr.RegisterIdFctMessage(ErrorTimerNotFound, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorTimerNotFound:
		return "timer id not found"
	case ErrorCallbackPanic:
		return "timer callback panicked"
	}

	return liberr.NullMessage
}
