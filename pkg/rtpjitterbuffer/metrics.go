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
	"github.com/prometheus/client_golang/prometheus"
)

// metrics collects the Prometheus counters exported for one
// JitterBuffer instance. A nil *metrics (the default, when no
// Registerer was supplied via WithMetricsRegisterer) makes every method
// a no-op, so the hot path never branches on whether metrics are
// enabled.
type metrics struct {
	late        prometheus.Counter
	duplicates  prometheus.Counter
	discontinuities prometheus.Counter
	popped      prometheus.Counter
	dropped     prometheus.Counter
}

func newMetrics(reg prometheus.Registerer, instanceID string) *metrics {
	if reg == nil {
		return nil
	}
	labels := prometheus.Labels{"instance": instanceID}
	m := &metrics{
		late: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "rtpjitterbuffer",
			Name:        "late_packets_total",
			Help:        "RTP packets dropped on arrival because a higher sequence number had already been popped, plus one per sequence gap found at pop time.",
			ConstLabels: labels,
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "rtpjitterbuffer",
			Name:        "duplicate_packets_total",
			Help:        "RTP packets dropped because their sequence number was already buffered.",
			ConstLabels: labels,
		}),
		discontinuities: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "rtpjitterbuffer",
			Name:        "discontinuities_total",
			Help:        "Packets emitted downstream with the DISCONT flag set.",
			ConstLabels: labels,
		}),
		popped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "rtpjitterbuffer",
			Name:        "packets_popped_total",
			Help:        "Packets emitted downstream.",
			ConstLabels: labels,
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "rtpjitterbuffer",
			Name:        "packets_dropped_total",
			Help:        "Packets evicted by drop-on-latency.",
			ConstLabels: labels,
		}),
	}
	reg.MustRegister(m.late, m.duplicates, m.discontinuities, m.popped, m.dropped)
	return m
}

func (m *metrics) incLate() {
	if m != nil {
		m.late.Inc()
	}
}

func (m *metrics) incDuplicate() {
	if m != nil {
		m.duplicates.Inc()
	}
}

func (m *metrics) incDiscontinuity() {
	if m != nil {
		m.discontinuities.Inc()
	}
}

func (m *metrics) incPopped() {
	if m != nil {
		m.popped.Inc()
	}
}

func (m *metrics) incDropped() {
	if m != nil {
		m.dropped.Inc()
	}
}
