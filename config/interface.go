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

package config

import (
	"context"
	"io"

	liberr "github.com/nabbar/ise/errors"
	liblog "github.com/nabbar/ise/logger"
	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"
)

// FuncEvent is a lifecycle hook: RegisterFuncStartBefore/After and its
// Reload/Stop counterparts all take this shape.
type FuncEvent func() liberr.Error

// Config is the configuration surface of the reactor engine: a
// registry of named Component instances (config/components/tcp,
// config/components/udp, ...), started/stopped/reloaded in dependency order,
// fed by a shared spf13/viper tree and exposing spf13/cobra flags.
type Config interface {
	// Context returns the shared application context.
	Context() context.Context

	// CancelAdd registers functions run once, before Stop, when the Config's
	// context is canceled or Shutdown is called.
	CancelAdd(fct ...func())

	// CancelClean clears all functions registered via CancelAdd.
	CancelClean()

	// Start runs every component's Start, in dependency order, aborting on
	// the first error.
	Start() liberr.Error

	// Reload runs every component's Reload, in dependency order.
	Reload() liberr.Error

	// Stop runs every component's Stop. Never returns an error; components
	// must clean up best-effort.
	Stop()

	// Shutdown runs CancelAdd hooks, stops everything, then os.Exit(code).
	Shutdown(code int)

	// RegisterFuncViper exposes the shared *viper.Viper to every component.
	RegisterFuncViper(fct func() *spfvpr.Viper)

	RegisterFuncStartBefore(fct FuncEvent)
	RegisterFuncStartAfter(fct FuncEvent)
	RegisterFuncReloadBefore(fct FuncEvent)
	RegisterFuncReloadAfter(fct FuncEvent)
	RegisterFuncStopBefore(fct func())
	RegisterFuncStopAfter(fct func())

	// RegisterDefaultLogger exposes a logger to every component via Init.
	RegisterDefaultLogger(fct liblog.FuncLog)

	// ComponentHas/Type/Get/Del/Set/List/Keys, IsStarted/IsRunning,
	// DefaultConfig and RegisterFlag are provided by the embedded registry
	// declared in cptList.go.
	ComponentHas(key string) bool
	ComponentType(key string) string
	ComponentGet(key string) Component
	ComponentDel(key string)
	ComponentSet(key string, cpt Component)
	ComponentList() map[string]Component
	ComponentKeys() []string
	ComponentIsStarted() bool
	ComponentIsRunning(atLeast bool) bool
	DefaultConfig() io.Reader
	RegisterFlag(Command *spfcbr.Command, Viper *spfvpr.Viper) error
}
