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
	"sync"
	"time"
)

// fakeClock is a deterministic Clock double: time only moves when
// Advance is called, letting tests control pacing precisely instead
// of racing against wall-clock timers.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	base   time.Time
	nextID ClockID
	waits  map[ClockID]*fakeWait
}

type fakeWait struct {
	target time.Time
	result chan WaitResult
	done   bool
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start, waits: make(map[ClockID]*fakeWait)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) BaseTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.base
}

func (c *fakeClock) SetBaseTime(t time.Time) {
	c.mu.Lock()
	c.base = t
	c.mu.Unlock()
}

func (c *fakeClock) NewSingleShot(target time.Time) ClockID {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.waits[id] = &fakeWait{target: target, result: make(chan WaitResult, 1)}
	if !target.After(c.now) {
		c.fireLocked(id, WaitOK)
	}
	return id
}

func (c *fakeClock) fireLocked(id ClockID, res WaitResult) {
	w, ok := c.waits[id]
	if !ok || w.done {
		return
	}
	w.done = true
	w.result <- res
}

func (c *fakeClock) Wait(id ClockID) WaitResult {
	c.mu.Lock()
	w, ok := c.waits[id]
	c.mu.Unlock()
	if !ok {
		return WaitUnscheduled
	}

	res := <-w.result

	c.mu.Lock()
	delete(c.waits, id)
	c.mu.Unlock()
	return res
}

func (c *fakeClock) Unschedule(id ClockID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fireLocked(id, WaitUnscheduled)
}

// Advance moves the fake clock forward by d, firing every pending
// wait whose target has been reached.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	for id, w := range c.waits {
		if !w.done && !w.target.After(c.now) {
			c.fireLocked(id, WaitOK)
		}
	}
}

// pending reports how many waits are currently outstanding, for tests
// that need to know the consumer is parked on the clock before
// advancing it or pushing a preempting packet.
func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, w := range c.waits {
		if !w.done {
			n++
		}
	}
	return n
}

// recordingSink collects every packet and the eventual EOS signal,
// guarded by its own mutex since the consumer goroutine calls it
// outside JitterBuffer's lock.
type recordingSink struct {
	mu       sync.Mutex
	packets  []*Packet
	discont  []bool
	eosCount int
	failWith error
}

func (s *recordingSink) PushPacket(pkt *Packet, discont bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.packets = append(s.packets, pkt)
	s.discont = append(s.discont, discont)
	return nil
}

func (s *recordingSink) EOS() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eosCount++
}

func (s *recordingSink) seqs() []uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uint16, len(s.packets))
	for i, p := range s.packets {
		out[i] = p.Seq
	}
	return out
}

func (s *recordingSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.packets)
}

func (s *recordingSink) eosDelivered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eosCount
}

func testPacket(seq uint16, rtpTS uint32) *Packet {
	return &Packet{Seq: seq, RTPTimestamp: rtpTS, PayloadType: 0}
}
