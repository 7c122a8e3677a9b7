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

// SegmentFormat identifies the unit a Segment's fields are expressed
// in. Only SegmentFormatTime is accepted by NewSegment; any other
// value is rejected with ErrInvalidSegment, matching the "Non-TIME
// segments are rejected" rule.
type SegmentFormat int

const (
	SegmentFormatTime SegmentFormat = iota
	SegmentFormatBytes
	SegmentFormatDefault
)

// Segment converts stream-position time into running time, the
// wall-clock-relative time base the pacing engine schedules against.
type Segment struct {
	Format     SegmentFormat
	Rate       float64
	Start      time.Duration
	Stop       time.Duration
	Time       time.Duration
}

// defaultSegment is installed before NewSegment is ever called: an
// identity segment starting at zero, running forward at normal speed.
func defaultSegment() Segment {
	return Segment{Format: SegmentFormatTime, Rate: 1.0}
}

// ToRunningTime converts streamTime, a duration since the start of the
// stream, into running time relative to the segment's installed Time.
func (s Segment) ToRunningTime(streamTime time.Duration) time.Duration {
	rate := s.Rate
	if rate <= 0 {
		rate = 1.0
	}
	position := streamTime - s.Start
	return time.Duration(float64(position)/rate) + s.Time
}

// rtpDurationConverter converts RTP timestamp ticks to time.Duration
// and back using integer arithmetic, avoiding the rounding drift a
// naive floating point conversion would accumulate over a long-running
// stream. The reduction loop below divides the common factors 10, 3
// and 2 out of the fraction 1e9/clockRate; other common factors are
// left in place.
type rtpDurationConverter struct {
	tsUnit  uint64
	rtpUnit uint64
}

func newRTPDurationConverter(clockRate uint32) rtpDurationConverter {
	ts := int64(time.Second)
	rtp := int64(clockRate)
	for _, i := range []int64{10, 3, 2} {
		for ts%i == 0 && rtp%i == 0 {
			ts /= i
			rtp /= i
		}
	}
	return rtpDurationConverter{tsUnit: uint64(ts), rtpUnit: uint64(rtp)}
}

func (c rtpDurationConverter) toDuration(ticks uint64) time.Duration {
	return time.Duration(ticks * c.tsUnit / c.rtpUnit)
}

func (c rtpDurationConverter) toRTPTicks(d time.Duration) int64 {
	return int64(d) * int64(c.rtpUnit) / int64(c.tsUnit)
}
