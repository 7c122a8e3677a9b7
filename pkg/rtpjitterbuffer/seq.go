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

// seqLess returns the signed distance from a to b on the circular 16-bit
// RTP sequence number line: positive when b comes after a, negative when
// b comes before a (equivalently, when a comes after b), zero when equal.
//
// Subtracting in uint16 space wraps automatically at 2^16, and
// reinterpreting the wrapped result as int16 folds the "more than half
// the circle away" case onto the shorter, signed arc between a and b.
func seqLess(a, b uint16) int32 {
	return int32(int16(b - a))
}

// seqBefore reports whether a sorts strictly before b on the circular
// sequence number line.
func seqBefore(a, b uint16) bool {
	return seqLess(a, b) > 0
}

// seqGap returns the number of sequence numbers that were skipped
// between the last observed sequence number, last, and the next one,
// next (i.e. next - last - 1 on the circular line). It is only
// meaningful when next comes after last.
func seqGap(last, next uint16) uint32 {
	d := seqLess(last, next)
	if d <= 0 {
		return 0
	}
	return uint32(d) - 1
}
