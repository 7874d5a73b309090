/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package config implements the component-based configuration surface: a
// registry of named, dependency-ordered Component instances, each backed by
// its own slice of a shared spf13/viper tree and exposing spf13/cobra flags.
package config

import (
	"context"

	liberr "github.com/nabbar/ise/errors"
	liblog "github.com/nabbar/ise/logger"
	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"
)

// FuncContext returns the shared application context.
type FuncContext func() context.Context

// FuncComponentGet retrieves another registered Component by key, for
// dependency access (e.g. the udp component looking up a shared logger
// component, or two listeners sharing one evloop.List).
type FuncComponentGet func(key string) Component

// FuncComponentConfigGet unmarshals the Viper section registered under key
// into model. Returns an error if the component or the section is missing.
type FuncComponentConfigGet func(key string, model interface{}) liberr.Error

// Component is a named, lifecycle-managed configuration unit. config/components/tcp
// and config/components/udp each implement Component to expose a reactor.Server
// listener as a start/stop/reload-able unit of the application.
type Component interface {
	// Type returns a unique identifier for the component type ("tcp", "udp", ...).
	Type() string

	// Init is called once by Config.ComponentSet, before Start/Reload/Stop.
	Init(key string, ctx FuncContext, get FuncComponentGet, vpr FuncComponentViper, log liblog.FuncLog)

	// RegisterFuncStart registers hooks called immediately before/after Start.
	RegisterFuncStart(before, after func(cpt Component) liberr.Error)

	// RegisterFuncReload registers hooks called immediately before/after Reload.
	RegisterFuncReload(before, after func(cpt Component) liberr.Error)

	// RegisterFlag registers command-line flags bound to the component's Viper keys.
	RegisterFlag(Command *spfcbr.Command, Viper *spfvpr.Viper) error

	// IsStarted reports whether the component is started: Start has succeeded
	// and Stop has not been called since.
	IsStarted() bool

	// IsRunning reports whether the component's underlying server(s) are active.
	// atLeast relaxes the check to "at least one" for components managing several listeners.
	IsRunning(atLeast bool) bool

	// Start loads configuration via getCfg and brings the component's server(s) up.
	Start(getCfg FuncComponentConfigGet) liberr.Error

	// Reload re-reads configuration and applies it, restarting internals only if needed.
	Reload(getCfg FuncComponentConfigGet) liberr.Error

	// Stop shuts the component down. Must not panic and must complete best-effort.
	Stop()

	// DefaultConfig returns this component's default JSON configuration section.
	DefaultConfig(indent string) []byte

	// Dependencies lists component keys that must start before this one.
	Dependencies() []string
}

// FuncComponentViper returns the shared *spfvpr.Viper instance, or nil if none
// has been registered yet via Config.RegisterFuncViper.
type FuncComponentViper func() *spfvpr.Viper
