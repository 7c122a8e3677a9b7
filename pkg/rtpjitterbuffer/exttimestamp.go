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

// extTimestampTracker extends 32-bit RTP timestamps into a 64-bit
// monotonic form across wrap-around. It assumes successive updates
// differ by less than 2^31 ticks, which holds for any real RTP stream
// at bounded latency.
type extTimestampTracker struct {
	ext uint64
	set bool
}

// update folds the next 32-bit RTP timestamp into the tracker's 64-bit
// extended timestamp and returns the new value.
func (t *extTimestampTracker) update(rtpTS uint32) uint64 {
	if !t.set {
		t.ext = uint64(rtpTS)
		t.set = true
		return t.ext
	}
	diff := int32(rtpTS - uint32(t.ext))
	t.ext = uint64(int64(t.ext) + int64(diff))
	return t.ext
}

// reset returns the tracker to its unset state, as happens on
// flush-stop.
func (t *extTimestampTracker) reset() {
	t.ext = 0
	t.set = false
}

// seed primes the tracker with a known starting value, used when
// clock-base is supplied via caps instead of being discovered from the
// first popped packet.
func (t *extTimestampTracker) seed(rtpTS uint32) {
	t.ext = uint64(rtpTS)
	t.set = true
}
