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

// Package tcp exposes the TCP half of the reactor engine as a config
// Component: Start builds and opens a TCP-only reactor.Server from the
// component's Viper section, Reload swaps it for one built from the fresh
// configuration, Stop closes it within the configured grace period.
package tcp

import (
	libcfg "github.com/nabbar/ise/config"
	"github.com/nabbar/ise/reactor"
)

// ComponentType identifies this component kind in the registry.
const ComponentType = "tcp"

// CptTcp is the component contract: the generic lifecycle plus access to
// the underlying reactor server. SetHandler must be called before Start.
type CptTcp interface {
	libcfg.Component

	// SetHandler installs the business callback surface used by every
	// server this component builds.
	SetHandler(h reactor.Handler)

	// Server returns the running reactor server, or nil before Start.
	Server() *reactor.Server
}

// New creates an unstarted TCP component.
func New() CptTcp {
	return &componentTcp{}
}

// Register adds cpt to cfg under key.
func Register(cfg libcfg.Config, key string, cpt CptTcp) {
	cfg.ComponentSet(key, cpt)
}

// RegisterNew creates a component and registers it under key.
func RegisterNew(cfg libcfg.Config, key string) {
	cfg.ComponentSet(key, New())
}

// Load retrieves a CptTcp registered under key, or nil.
func Load(get libcfg.FuncComponentGet, key string) CptTcp {
	if get == nil {
		return nil
	} else if c := get(key); c == nil {
		return nil
	} else if h, ok := c.(CptTcp); !ok {
		return nil
	} else {
		return h
	}
}
