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
	"time"

	"github.com/nabbar/ise/tcpsrv"
	"github.com/nabbar/ise/udpsrv"
)

// Type selects which transports the server runs.
type Type uint8

const (
	// TypeTCP enables the TCP acceptors and event-loop pools.
	TypeTCP Type = 1 << iota

	// TypeUDP enables the UDP listeners and worker pools.
	TypeUDP
)

// Has reports whether t includes the given transport bit.
func (t Type) Has(bit Type) bool { return t&bit != 0 }

// defaultGrace bounds how long Close waits for owned goroutines before
// abandoning them.
const defaultGrace = 10 * time.Second

// Config assembles the whole engine: any number of TCP servers (each with
// its own listen set and event-loop pool), one UDP dispatcher, assistor
// slots, and the shutdown grace period.
type Config struct {
	ServerType Type `json:"serverType" yaml:"serverType" mapstructure:"serverType"`

	TCP []tcpsrv.Config `json:"tcp" yaml:"tcp" mapstructure:"tcp"`
	UDP udpsrv.Config   `json:"udp" yaml:"udp" mapstructure:"udp"`

	AssistorCount int           `json:"assistorCount" yaml:"assistorCount" mapstructure:"assistorCount"`
	Grace         time.Duration `json:"grace" yaml:"grace" mapstructure:"grace"`
}

func (c *Config) grace() time.Duration {
	if c.Grace <= 0 {
		return defaultGrace
	}
	return c.Grace
}
