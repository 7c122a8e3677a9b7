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

import "time"

// NoMaxLatency is the sentinel used for an unbounded maximum latency,
// mirroring an upstream element that reports no max.
const NoMaxLatency time.Duration = -1

// LatencyQuery folds this buffer's own added latency into the
// latencies reported by peerMin/peerMax, an upstream element's latency
// query answer. Both bounds add the buffer's configured latency as a
// plain nanosecond duration; there is no unit ambiguity to resolve in
// this port, unlike the source element which mixed millisecond
// properties with nanosecond clock-time math in one of the two
// branches.
//
// live reports whether the pipeline should be treated as live, which
// is always true once this buffer sits in the path: it paces output
// against a clock rather than passing samples through untouched.
func (b *JitterBuffer) LatencyQuery(peerMin, peerMax time.Duration) (live bool, min, max time.Duration) {
	b.mu.Lock()
	latency := b.cfg.Latency
	b.mu.Unlock()

	min = peerMin + latency
	if peerMax == NoMaxLatency {
		max = NoMaxLatency
	} else {
		max = peerMax + latency
	}
	return true, min, max
}
