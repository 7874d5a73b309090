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
	"fmt"
	"io"
	"os"
	"sync"

	liberr "github.com/nabbar/ise/errors"
	liblog "github.com/nabbar/ise/logger"
	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"
)

type configModel struct {
	m sync.Mutex

	ctx  context.Context
	cnl  context.CancelFunc
	fcnl []func()

	cpt ComponentList

	fctViper        func() *spfvpr.Viper
	fctLoggerDef    liblog.FuncLog
	fctStartBefore  FuncEvent
	fctStartAfter   FuncEvent
	fctReloadBefore FuncEvent
	fctReloadAfter  FuncEvent
	fctStopBefore   func()
	fctStopAfter    func()
}

// New creates a Config rooted on the given context; canceling parent
// cancels the returned Config's internal context and triggers Stop.
func New(parent context.Context) Config {
	ctx, cnl := context.WithCancel(parent)

	c := &configModel{
		ctx: ctx,
		cnl: cnl,
		cpt: newComponentList(),
	}

	go func() {
		<-ctx.Done()
		c.cancel()
	}()

	return c
}

func (c *configModel) componentGetConfig(key string, model interface{}) liberr.Error {
	if !c.cpt.ComponentHas(key) {
		return ErrorComponentNotFound.Error(fmt.Errorf("component '%s'", key))
	}

	vpr := c.getViper()
	if vpr == nil {
		return ErrorConfigMissingViper.Error(nil)
	}

	if err := vpr.UnmarshalKey(key, model); err != nil {
		return ErrorComponentConfigError.IfError(err)
	}

	return nil
}

func (c *configModel) getViper() *spfvpr.Viper {
	c.m.Lock()
	fct := c.fctViper
	c.m.Unlock()

	if fct == nil {
		return nil
	}

	return fct()
}

func (c *configModel) Context() context.Context {
	return c.ctx
}

func (c *configModel) CancelAdd(fct ...func()) {
	c.m.Lock()
	defer c.m.Unlock()

	for _, f := range fct {
		if f != nil {
			c.fcnl = append(c.fcnl, f)
		}
	}
}

func (c *configModel) CancelClean() {
	c.m.Lock()
	defer c.m.Unlock()

	c.fcnl = nil
}

func (c *configModel) cancel() {
	c.m.Lock()
	fns := c.fcnl
	c.fcnl = nil
	c.m.Unlock()

	for _, f := range fns {
		f()
	}

	c.Stop()
}

func (c *configModel) RegisterFuncViper(fct func() *spfvpr.Viper) {
	c.m.Lock()
	defer c.m.Unlock()
	c.fctViper = fct
}

func (c *configModel) RegisterDefaultLogger(fct liblog.FuncLog) {
	c.m.Lock()
	defer c.m.Unlock()
	c.fctLoggerDef = fct
}

func (c *configModel) Start() liberr.Error {
	c.m.Lock()
	before := c.fctStartBefore
	after := c.fctStartAfter
	c.m.Unlock()

	if before != nil {
		if err := before(); err != nil {
			return err
		}
	}

	if err := c.cpt.ComponentStart(c.componentGetConfig); err != nil {
		return err
	}

	if after != nil {
		if err := after(); err != nil {
			return err
		}
	}

	return nil
}

func (c *configModel) RegisterFuncStartBefore(fct FuncEvent) {
	c.m.Lock()
	defer c.m.Unlock()
	c.fctStartBefore = fct
}

func (c *configModel) RegisterFuncStartAfter(fct FuncEvent) {
	c.m.Lock()
	defer c.m.Unlock()
	c.fctStartAfter = fct
}

func (c *configModel) Reload() liberr.Error {
	c.m.Lock()
	before := c.fctReloadBefore
	after := c.fctReloadAfter
	c.m.Unlock()

	if before != nil {
		if err := before(); err != nil {
			return err
		}
	}

	if err := c.cpt.ComponentReload(c.componentGetConfig); err != nil {
		return err
	}

	if after != nil {
		if err := after(); err != nil {
			return err
		}
	}

	return nil
}

func (c *configModel) RegisterFuncReloadBefore(fct FuncEvent) {
	c.m.Lock()
	defer c.m.Unlock()
	c.fctReloadBefore = fct
}

func (c *configModel) RegisterFuncReloadAfter(fct FuncEvent) {
	c.m.Lock()
	defer c.m.Unlock()
	c.fctReloadAfter = fct
}

func (c *configModel) Stop() {
	c.m.Lock()
	before := c.fctStopBefore
	after := c.fctStopAfter
	c.m.Unlock()

	if before != nil {
		before()
	}

	c.cpt.ComponentStop()

	if after != nil {
		after()
	}
}

func (c *configModel) RegisterFuncStopBefore(fct func()) {
	c.m.Lock()
	defer c.m.Unlock()
	c.fctStopBefore = fct
}

func (c *configModel) RegisterFuncStopAfter(fct func()) {
	c.m.Lock()
	defer c.m.Unlock()
	c.fctStopAfter = fct
}

// Shutdown runs registered cancel hooks, stops every component, and exits
// the process with code. Intended for signal-driven shutdown in a cmd/ main,
// never called by the library itself.
func (c *configModel) Shutdown(code int) {
	c.cancel()
	c.cnl()
	os.Exit(code)
}

func (c *configModel) ComponentHas(key string) bool {
	return c.cpt.ComponentHas(key)
}

func (c *configModel) ComponentType(key string) string {
	return c.cpt.ComponentType(key)
}

func (c *configModel) ComponentGet(key string) Component {
	return c.cpt.ComponentGet(key)
}

func (c *configModel) ComponentDel(key string) {
	c.cpt.ComponentDel(key)
}

func (c *configModel) ComponentSet(key string, cpt Component) {
	cpt.Init(key, c.Context, c.ComponentGet, c.getViper, c.getDefaultLoggerFunc())
	c.cpt.ComponentSet(key, cpt)
}

func (c *configModel) getDefaultLoggerFunc() liblog.FuncLog {
	c.m.Lock()
	defer c.m.Unlock()
	return c.fctLoggerDef
}

func (c *configModel) ComponentList() map[string]Component {
	return c.cpt.ComponentList()
}

func (c *configModel) ComponentKeys() []string {
	return c.cpt.ComponentKeys()
}

func (c *configModel) ComponentIsStarted() bool {
	return c.cpt.ComponentIsStarted()
}

func (c *configModel) ComponentIsRunning(atLeast bool) bool {
	return c.cpt.ComponentIsRunning(atLeast)
}

func (c *configModel) DefaultConfig() io.Reader {
	return c.cpt.DefaultConfig()
}

func (c *configModel) RegisterFlag(Command *spfcbr.Command, Viper *spfvpr.Viper) error {
	return c.cpt.RegisterFlag(Command, Viper)
}
