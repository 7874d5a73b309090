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

// Package hookfile provides file-based logging hooks for logrus.
// This file handles log file aggregation and rotation functionality.
// It manages multiple writers to the same log file efficiently.
package hookfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	libatm "github.com/nabbar/ise/atomic"
)

// ErrClosedResources is returned by fileAgg.Write when the underlying file
// has been closed (explicitly, or because a reopen after rotation failed).
var ErrClosedResources = errors.New("hookfile: closed resources")

// fileAgg represents a shared file writer with reference counting.
// It manages a single log file that can be shared by multiple loggers and
// periodically syncs + detects external rotation (e.g. logrotate).
type fileAgg struct {
	i *atomic.Int64
	m sync.Mutex
	r *os.Root
	f *os.File
	p string
	fl int
	fm os.FileMode
	cancel context.CancelFunc
}

// Global map to manage file aggregators by file path.
var (
	agg = libatm.NewMapTyped[string, *fileAgg]()
)

// init sets up a finalizer to clean up resources when the program exits.
func init() {
	runtime.SetFinalizer(agg, func(a libatm.MapTyped[string, *fileAgg]) {
		a.Range(func(k string, v *fileAgg) bool {
			if v != nil {
				v.close()
			}
			return true
		})
	})
}

// setAgg retrieves or creates a file writer for the given file path.
// If a writer already exists for the path, its reference count is incremented.
func setAgg(k string, m os.FileMode, cre bool) (io.Writer, error) {
	i, l := agg.Load(k)

	if l && i != nil {
		i.i.Add(1)
		agg.Store(k, i)
		return i, nil
	}

	var e error
	i, e = newAgg(k, m, cre)

	if e != nil {
		return nil, e
	}

	agg.Store(k, i)
	return i, nil
}

// delAgg decreases the reference count for the file writer at the given path.
// If the reference count reaches zero, the file and its resources are closed and removed.
func delAgg(k string) {
	i, _ := agg.Load(k)
	if i == nil {
		return
	}

	if i.i.Add(-1) > 0 {
		agg.Store(k, i)
	} else {
		agg.Delete(k)
		i.close()
	}
}

// newAgg creates a new file writer for the specified file path, opened in
// append mode, with a background goroutine flushing and watching for rotation.
func newAgg(p string, m os.FileMode, cre bool) (*fileAgg, error) {
	fl := os.O_WRONLY | os.O_APPEND
	if cre {
		fl = fl | os.O_CREATE
	}

	i := &fileAgg{
		i:  new(atomic.Int64),
		p:  p,
		fl: fl,
		fm: m,
	}
	i.i.Store(1)

	if r, e := os.OpenRoot(filepath.Dir(p)); e != nil {
		return nil, e
	} else if f, e := r.OpenFile(filepath.Base(p), fl, m); e != nil {
		_ = r.Close()
		return nil, e
	} else if _, e = f.Seek(0, io.SeekEnd); e != nil {
		_ = f.Close()
		_ = r.Close()
		return nil, e
	} else {
		i.r = r
		i.f = f
	}

	ctx, cnl := context.WithCancel(context.Background())
	i.cancel = cnl

	go i.watch(ctx, cre)

	return i, nil
}

// Write implements io.Writer, serializing concurrent log writes to the file.
func (i *fileAgg) Write(p []byte) (int, error) {
	i.m.Lock()
	defer i.m.Unlock()

	if i.f == nil {
		return 0, ErrClosedResources
	}

	return i.f.Write(p)
}

// watch flushes the file to disk once per second and reopens it if an
// external tool (logrotate) has renamed or removed it from under us.
func (i *fileAgg) watch(ctx context.Context, detectRotate bool) {
	tck := time.NewTicker(time.Second)
	defer tck.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tck.C:
			i.sync(detectRotate)
		}
	}
}

func (i *fileAgg) sync(detectRotate bool) {
	i.m.Lock()
	defer i.m.Unlock()

	if i.f == nil {
		return
	}

	syncErr := i.f.Sync()

	needReopen := syncErr != nil
	if !needReopen && detectRotate {
		currentStat, err1 := i.f.Stat()
		diskStat, err2 := os.Stat(i.p)

		if err2 != nil || (err1 == nil && !os.SameFile(currentStat, diskStat)) {
			needReopen = true
		}
	}

	if !needReopen {
		return
	}

	_ = i.f.Close()

	if f, e := i.r.OpenFile(filepath.Base(i.p), i.fl, i.fm); e != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error reopening file %s: %v\n", i.p, e)
		i.f = nil
	} else {
		_, _ = f.Seek(0, io.SeekEnd)
		i.f = f
	}
}

func (i *fileAgg) close() {
	if i.cancel != nil {
		i.cancel()
	}

	i.m.Lock()
	defer i.m.Unlock()

	if i.f != nil {
		_ = i.f.Close()
		i.f = nil
	}
	if i.r != nil {
		_ = i.r.Close()
	}
}

// ResetOpenFiles closes all open file writers and clears the registry.
// This function is primarily used for testing and cleanup purposes.
func ResetOpenFiles() {
	agg.Range(func(k string, v *fileAgg) bool {
		v.close()
		agg.Delete(k)
		return true
	})
}
