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

package reactor

import (
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// runDaemon is the engine's 1 Hz system goroutine. Each tick it snapshots
// the host, invokes the business DaemonExecute callback, and runs one UDP
// worker-scaling round (the per-group interval guard inside Adjust throttles
// the effective cadence).
func (s *Server) runDaemon() {
	defer s.wg.Done()

	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	var secCount int64

	for {
		select {
		case <-s.stop:
			return
		case now := <-tick.C:
			secCount++
			s.daemonTick(secCount, now)
		}
	}
}

func (s *Server) daemonTick(secCount int64, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.logError("daemon callback panicked", r)
		}
	}()

	s.handler.DaemonExecute(secCount, snapshot())

	if s.udp != nil {
		s.udp.Adjust(now)
	}
}

// snapshot gathers a best-effort view of the host; probe failures leave the
// matching field at zero rather than surfacing.
func snapshot() SysInfo {
	i := SysInfo{Goroutines: runtime.NumGoroutine()}

	if avg, err := load.Avg(); err == nil && avg != nil {
		i.Load1 = avg.Load1
	}

	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		i.MemUsedPct = vm.UsedPercent
	}

	return i
}
