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

// PTMapFunc resolves a payload type to the clock rate it is carried
// at. Push consults it only while the buffer has no clock rate (none
// from WithClockRate, SetCaps or an earlier resolution); once a rate
// is set, a later change of payload type does not consult it again.
// ok is false when the payload type is unknown, in which case Push
// fails with ErrNotNegotiated.
type PTMapFunc func(pt uint8) (clockRate uint32, ok bool)

// SetPTMapFunc installs f as the buffer's payload-type map, replacing
// any function installed via WithPTMapFunc or a previous call.
func (b *JitterBuffer) SetPTMapFunc(f PTMapFunc) {
	b.ptMu.Lock()
	b.ptMapFunc = f
	b.ptMu.Unlock()
}

// ClearPTMap discards the installed payload-type map and invokes the
// registered OnClearPTMap callback, if any. It does not reset the clock
// rate already in effect, so it does not cause Push to resolve the
// rate again. The callback runs outside ptMu, since it may itself call
// back into SetPTMapFunc/OnClearPTMap.
func (b *JitterBuffer) ClearPTMap() {
	b.ptMu.Lock()
	b.ptMapFunc = nil
	cb := b.onClearPTMap
	b.ptMu.Unlock()

	if cb != nil {
		cb()
	}
}

// OnClearPTMap registers a callback invoked every time ClearPTMap
// runs. Only one callback is retained; registering a new one replaces
// the last.
func (b *JitterBuffer) OnClearPTMap(f func()) {
	b.ptMu.Lock()
	b.onClearPTMap = f
	b.ptMu.Unlock()
}

// resolvePT looks up pt's clock rate via the installed PTMapFunc. It
// takes ptMu itself and must be called without holding b.mu: the
// installed function is caller-supplied and may call back into
// JitterBuffer methods that take b.mu.
func (b *JitterBuffer) resolvePT(pt uint8) (uint32, bool) {
	b.ptMu.Lock()
	f := b.ptMapFunc
	b.ptMu.Unlock()

	if f == nil {
		return 0, false
	}
	return f(pt)
}
