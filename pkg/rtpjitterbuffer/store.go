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

// node is an intrusive doubly-linked list element. Freed nodes go onto
// a pool (the next field is reused as the free-list's link) so
// steady-state push/pop traffic doesn't allocate.
type node struct {
	prev, next *node
	pkt        *Packet
}

// orderedStore is a sequence-number-ordered queue of Packets. It is not
// safe for concurrent use; callers hold JitterBuffer's mutex around
// every method call.
type orderedStore struct {
	head, tail *node
	pool       *node
	size       int
}

func newOrderedStore() *orderedStore {
	return &orderedStore{}
}

func (s *orderedStore) newNode(pkt *Packet) *node {
	n := s.pool
	if n == nil {
		n = &node{}
	} else {
		s.pool = n.next
	}
	n.prev = nil
	n.next = nil
	n.pkt = pkt
	return n
}

func (s *orderedStore) free(n *node) {
	n.pkt = nil
	n.prev = nil
	n.next = s.pool
	s.pool = n
}

// insert places pkt in sequence-number order. It returns false without
// modifying the store if a packet with the same sequence number is
// already present.
func (s *orderedStore) insert(pkt *Packet) bool {
	n := s.newNode(pkt)

	if s.tail == nil {
		s.head = n
		s.tail = n
		s.size++
		return true
	}

	// Fast path: strictly-increasing arrival, the common case.
	if seqBefore(s.tail.pkt.Seq, pkt.Seq) {
		n.prev = s.tail
		s.tail.next = n
		s.tail = n
		s.size++
		return true
	}

	// Walk backward from the tail looking for the insertion point.
	for c := s.tail; c != nil; c = c.prev {
		d := seqLess(c.pkt.Seq, pkt.Seq)
		switch {
		case d == 0:
			s.free(n)
			return false
		case d > 0:
			// pkt sorts after c: insert between c and c.next.
			n.prev = c
			n.next = c.next
			if c.next != nil {
				c.next.prev = n
			} else {
				s.tail = n
			}
			c.next = n
			s.size++
			return true
		}
	}

	// pkt sorts before everything currently in the store.
	n.next = s.head
	s.head.prev = n
	s.head = n
	s.size++
	return true
}

// popHead removes and returns the packet with the lowest sequence
// number under circular ordering. It panics if the store is empty —
// callers must check len() first, matching the "undefined when empty"
// contract.
func (s *orderedStore) popHead() *Packet {
	if s.head == nil {
		panic(errEmptyStore)
	}
	n := s.head
	s.head = n.next
	if s.head != nil {
		s.head.prev = nil
	} else {
		s.tail = nil
	}
	s.size--
	pkt := n.pkt
	s.free(n)
	return pkt
}

// peekHead returns the head packet without removing it, or nil if the
// store is empty.
func (s *orderedStore) peekHead() *Packet {
	if s.head == nil {
		return nil
	}
	return s.head.pkt
}

func (s *orderedStore) len() int {
	return s.size
}

// tsSpan returns rtp_ts(tail) - rtp_ts(head), computed modulo 2^32. The
// caller interprets the result as a signed 32-bit difference when it
// needs a direction; as an unsigned duration-in-ticks it is correct as
// long as the span is less than half the RTP timestamp space, which
// latency-bounded buffering guarantees in practice. Returns 0 with
// fewer than two elements.
func (s *orderedStore) tsSpan() uint32 {
	if s.size < 2 {
		return 0
	}
	return s.tail.pkt.RTPTimestamp - s.head.pkt.RTPTimestamp
}

// flush drops every element currently held.
func (s *orderedStore) flush() {
	for n := s.head; n != nil; {
		next := n.next
		s.free(n)
		n = next
	}
	s.head = nil
	s.tail = nil
	s.size = 0
}
