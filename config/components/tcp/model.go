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

package tcp

import (
	"sync"

	libcfg "github.com/nabbar/ise/config"
	liberr "github.com/nabbar/ise/errors"
	liblog "github.com/nabbar/ise/logger"
	"github.com/nabbar/ise/reactor"
)

type componentTcp struct {
	m sync.Mutex

	key string
	ctx libcfg.FuncContext
	get libcfg.FuncComponentGet
	vpr libcfg.FuncComponentViper
	log liblog.FuncLog

	fsb func(cpt libcfg.Component) liberr.Error
	fsa func(cpt libcfg.Component) liberr.Error
	frb func(cpt libcfg.Component) liberr.Error
	fra func(cpt libcfg.Component) liberr.Error

	hdl reactor.Handler
	srv *reactor.Server
}

func (c *componentTcp) Type() string {
	return ComponentType
}

func (c *componentTcp) Init(key string, ctx libcfg.FuncContext, get libcfg.FuncComponentGet, vpr libcfg.FuncComponentViper, log liblog.FuncLog) {
	c.m.Lock()
	defer c.m.Unlock()

	c.key = key
	c.ctx = ctx
	c.get = get
	c.vpr = vpr
	c.log = log
}

func (c *componentTcp) RegisterFuncStart(before, after func(cpt libcfg.Component) liberr.Error) {
	c.m.Lock()
	defer c.m.Unlock()

	c.fsb = before
	c.fsa = after
}

func (c *componentTcp) RegisterFuncReload(before, after func(cpt libcfg.Component) liberr.Error) {
	c.m.Lock()
	defer c.m.Unlock()

	c.frb = before
	c.fra = after
}

func (c *componentTcp) IsStarted() bool {
	c.m.Lock()
	defer c.m.Unlock()

	return c.srv != nil
}

func (c *componentTcp) IsRunning(atLeast bool) bool {
	return c.IsStarted()
}

func (c *componentTcp) SetHandler(h reactor.Handler) {
	c.m.Lock()
	defer c.m.Unlock()

	c.hdl = h
}

func (c *componentTcp) Server() *reactor.Server {
	c.m.Lock()
	defer c.m.Unlock()

	return c.srv
}

func (c *componentTcp) Start(getCfg libcfg.FuncComponentConfigGet) liberr.Error {
	return c._run(getCfg)
}

// Reload builds a fresh server from the new configuration and swaps it in,
// closing the old one only once the replacement is listening.
func (c *componentTcp) Reload(getCfg libcfg.FuncComponentConfigGet) liberr.Error {
	return c._run(getCfg)
}

func (c *componentTcp) Stop() {
	c.m.Lock()
	srv := c.srv
	c.srv = nil
	c.m.Unlock()

	if srv != nil {
		srv.Close()
	}
}

func (c *componentTcp) Dependencies() []string {
	return make([]string, 0)
}

func (c *componentTcp) _getFct() (func(cpt libcfg.Component) liberr.Error, func(cpt libcfg.Component) liberr.Error) {
	c.m.Lock()
	defer c.m.Unlock()

	if c.srv != nil {
		return c.frb, c.fra
	}

	return c.fsb, c.fsa
}

func (c *componentTcp) _runFct(fct func(cpt libcfg.Component) liberr.Error) liberr.Error {
	if fct != nil {
		return fct(c)
	}

	return nil
}

func (c *componentTcp) _getConfig(getCfg libcfg.FuncComponentConfigGet) (*Config, liberr.Error) {
	c.m.Lock()
	key := c.key
	c.m.Unlock()

	if getCfg == nil || len(key) < 1 {
		return nil, ErrorComponentNotInitialized.Error()
	}

	cfg := Config{}
	if err := getCfg(key, &cfg); err != nil {
		return nil, ErrorConfigInvalid.Error(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *componentTcp) _run(getCfg libcfg.FuncComponentConfigGet) liberr.Error {
	fb, fa := c._getFct()

	if err := c._runFct(fb); err != nil {
		return err
	}

	cfg, err := c._getConfig(getCfg)
	if err != nil {
		return err
	}

	c.m.Lock()
	hdl := c.hdl
	log := c.log
	old := c.srv
	c.m.Unlock()

	if hdl == nil {
		return ErrorComponentNotInitialized.Error()
	}

	srv, err := reactor.New(reactor.Config{
		ServerType:    reactor.TypeTCP,
		TCP:           cfg.Servers,
		AssistorCount: cfg.AssistorCount,
		Grace:         cfg.Grace,
	}, hdl, log)
	if err != nil {
		return ErrorStartComponent.Error(err)
	}

	if e := srv.Open(); e != nil {
		srv.Close()
		return ErrorStartComponent.Error(e)
	}

	c.m.Lock()
	c.srv = srv
	c.m.Unlock()

	if old != nil {
		old.Close()
	}

	return c._runFct(fa)
}
