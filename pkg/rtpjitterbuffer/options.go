// Copyright 2026 The gst-plugins-bad Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rtpjitterbuffer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// defaultLatency mirrors the element's stock 200ms latency property.
const defaultLatency = 200 * time.Millisecond

// Config holds the buffer's tunables. Use DefaultConfig and the With*
// options below rather than constructing one directly. ClockRate is the
// one field whose zero value is meaningful on its own (unresolved,
// forcing negotiation via SetCaps or the pt-map hook) rather than a
// placeholder a caller is expected to override.
type Config struct {
	Latency       time.Duration
	DropOnLatency bool
	TSOffset      time.Duration
	ClockRate     uint32
	Logger        Logger
	Registerer    prometheus.Registerer
	Clock         Clock
	PTMapFunc     PTMapFunc
}

// DefaultConfig returns the buffer's defaults: 200ms of latency, no
// drop-on-latency, no timestamp offset, an unset clock rate (left unset
// until SetCaps or the pt-map hook resolves one, so Push correctly
// fails with ErrNotNegotiated until negotiation actually happens), a
// discarding logger, no metrics registration, and the system clock.
func DefaultConfig() Config {
	return Config{
		Latency: defaultLatency,
		Logger:  defaultLogger(),
		Clock:   NewSystemClock(),
	}
}

// Option configures a Config in place.
type Option func(*Config)

// WithLatency overrides the buffer's target latency.
func WithLatency(d time.Duration) Option {
	return func(c *Config) { c.Latency = d }
}

// WithDropOnLatency enables evicting the head (oldest) packets of the
// store on Push while the RTP timestamp span of the buffered packets
// reaches the configured latency.
func WithDropOnLatency(drop bool) Option {
	return func(c *Config) { c.DropOnLatency = drop }
}

// WithTSOffset applies a fixed offset, converted to clock-rate ticks,
// to the RTP timestamp of every emitted packet. It does not change when
// packets are released.
func WithTSOffset(d time.Duration) Option {
	return func(c *Config) { c.TSOffset = d }
}

// WithClockRate sets the RTP clock rate used to convert timestamp
// ticks into durations before caps negotiation supplies one.
func WithClockRate(rate uint32) Option {
	return func(c *Config) { c.ClockRate = rate }
}

// WithLogger installs a logger. A nil logger is ignored.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithMetricsRegisterer enables Prometheus metrics, registered against
// reg. A nil registerer (the default) disables metrics entirely.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(c *Config) { c.Registerer = reg }
}

// WithClock overrides the buffer's clock, primarily for tests that
// need deterministic pacing.
func WithClock(clk Clock) Option {
	return func(c *Config) {
		if clk != nil {
			c.Clock = clk
		}
	}
}

// WithPTMapFunc installs the initial payload-type-to-clock-rate
// mapping function; equivalent to calling SetPTMapFunc immediately
// after construction.
func WithPTMapFunc(f PTMapFunc) Option {
	return func(c *Config) { c.PTMapFunc = f }
}
