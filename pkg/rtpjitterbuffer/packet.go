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
	"github.com/pion/rtp"
)

// Packet is the unit of data moved through the buffer: a payload plus
// the RTP header fields the pacing engine cares about. A Packet is
// owned by whoever currently holds a reference to it — the caller of
// Push, the ordered store, or the Sink — and is never aliased after
// ownership transfers.
type Packet struct {
	Payload      []byte
	Seq          uint16
	RTPTimestamp uint32
	PayloadType  uint8
	SSRC         uint32
	Marker       bool
	Discont      bool
}

// FromRTP builds a Packet from a parsed pion/rtp packet. It returns
// false if the header is not well-formed enough to extract the fields
// the buffer depends on (pion/rtp.Unmarshal already rejects malformed
// wire data before this is reached; this only guards nil input).
func FromRTP(pkt *rtp.Packet) (*Packet, bool) {
	if pkt == nil {
		return nil, false
	}
	return &Packet{
		Payload:      pkt.Payload,
		Seq:          pkt.SequenceNumber,
		RTPTimestamp: pkt.Timestamp,
		PayloadType:  pkt.PayloadType,
		SSRC:         pkt.SSRC,
		Marker:       pkt.Marker,
	}, true
}

// ParseRTP unmarshals a raw RTP packet from the wire and converts it to
// a Packet, logging and returning a *DecodeError on malformed input.
// This is Push's step 1 validation (spec step 1 precedes pt-map
// resolution and mutex acquisition): callers feed raw bytes through
// here before calling Push, and a decode failure is "surfaced as an
// element error message and an error return" via this method's own
// Errorw call, not just Push's narrower nil-packet guard.
func (b *JitterBuffer) ParseRTP(raw []byte) (*Packet, error) {
	var pkt rtp.Packet
	if err := pkt.Unmarshal(raw); err != nil {
		b.logger.Errorw("rejecting malformed rtp packet", err)
		return nil, &DecodeError{Cause: err}
	}
	p, _ := FromRTP(&pkt)
	return p, nil
}
