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

// Package reactor composes the TCP event-loop servers, the UDP dispatcher,
// the assistor threads, and the 1 Hz daemon behind a single Open/Close
// façade. A host application implements Handler (and optionally
// OptionsInitializer) and hands it to New.
package reactor

import (
	"github.com/nabbar/ise/tcpsrv"
	"github.com/nabbar/ise/udpsrv"
)

// SysInfo is the per-second system snapshot handed to DaemonExecute.
type SysInfo struct {
	// Load1 is the host's 1-minute load average, 0 where unavailable.
	Load1 float64

	// MemUsedPct is the host's used-memory percentage, 0 where unavailable.
	MemUsedPct float64

	// Goroutines is the process's current goroutine count.
	Goroutines int
}

// Handler is the full business callback surface of the engine. The TCP
// methods run on the owning event-loop goroutine, the UDP methods on
// listener/worker goroutines, AssistorExecute on its own dedicated
// goroutine, and DaemonExecute on the daemon goroutine once a second.
type Handler interface {
	tcpsrv.Handler
	udpsrv.Handler

	// AssistorExecute is launched once per configured assistor slot and is
	// expected to run until the server closes; the done channel is closed
	// when Close begins so long-running assistors can exit cleanly.
	AssistorExecute(idx int, done <-chan struct{})

	// DaemonExecute is invoked once a second with a monotonically
	// increasing second counter and a best-effort system snapshot.
	DaemonExecute(secCount int64, info SysInfo)
}

// OptionsInitializer lets a Handler adjust the configuration before any
// listener is bound. New calls it exactly once, on the caller's goroutine.
type OptionsInitializer interface {
	InitOptions(cfg *Config)
}
