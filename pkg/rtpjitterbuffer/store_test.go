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
	"testing"

	"github.com/stretchr/testify/require"
)

func pktWithSeq(seq uint16, ts uint32) *Packet {
	return &Packet{Seq: seq, RTPTimestamp: ts}
}

func TestStoreInOrderInsert(t *testing.T) {
	s := newOrderedStore()
	for i, seq := range []uint16{100, 101, 102, 103} {
		ok := s.insert(pktWithSeq(seq, uint32(i)*160))
		require.True(t, ok)
	}
	require.Equal(t, 4, s.len())
	for _, want := range []uint16{100, 101, 102, 103} {
		require.Equal(t, want, s.popHead().Seq)
	}
	require.Equal(t, 0, s.len())
}

func TestStoreOutOfOrderInsert(t *testing.T) {
	s := newOrderedStore()
	for _, seq := range []uint16{100, 102, 101, 103} {
		require.True(t, s.insert(pktWithSeq(seq, 0)))
	}
	for _, want := range []uint16{100, 101, 102, 103} {
		require.Equal(t, want, s.popHead().Seq)
	}
}

func TestStoreDuplicateRejected(t *testing.T) {
	s := newOrderedStore()
	require.True(t, s.insert(pktWithSeq(100, 0)))
	require.False(t, s.insert(pktWithSeq(100, 0)))
	require.Equal(t, 1, s.len())
}

func TestStorePrependBeforeHead(t *testing.T) {
	s := newOrderedStore()
	require.True(t, s.insert(pktWithSeq(105, 0)))
	require.True(t, s.insert(pktWithSeq(100, 0)))
	require.Equal(t, uint16(100), s.popHead().Seq)
	require.Equal(t, uint16(105), s.popHead().Seq)
}

func TestStoreWrapAround(t *testing.T) {
	s := newOrderedStore()
	for _, seq := range []uint16{65534, 65535, 0, 1} {
		require.True(t, s.insert(pktWithSeq(seq, 0)))
	}
	for _, want := range []uint16{65534, 65535, 0, 1} {
		require.Equal(t, want, s.popHead().Seq)
	}
}

func TestStoreTsSpan(t *testing.T) {
	s := newOrderedStore()
	require.Equal(t, uint32(0), s.tsSpan())
	s.insert(pktWithSeq(100, 1000))
	require.Equal(t, uint32(0), s.tsSpan())
	s.insert(pktWithSeq(101, 1160))
	require.Equal(t, uint32(160), s.tsSpan())
	s.insert(pktWithSeq(102, 1320))
	require.Equal(t, uint32(320), s.tsSpan())
}

func TestStorePeekDoesNotRemove(t *testing.T) {
	s := newOrderedStore()
	s.insert(pktWithSeq(5, 0))
	require.Equal(t, uint16(5), s.peekHead().Seq)
	require.Equal(t, 1, s.len())
}

func TestStoreFlush(t *testing.T) {
	s := newOrderedStore()
	s.insert(pktWithSeq(1, 0))
	s.insert(pktWithSeq(2, 0))
	s.flush()
	require.Equal(t, 0, s.len())
	require.Nil(t, s.peekHead())
}

func TestStorePopEmptyPanics(t *testing.T) {
	s := newOrderedStore()
	require.Panics(t, func() { s.popHead() })
}

func TestStoreNodePoolReuse(t *testing.T) {
	s := newOrderedStore()
	s.insert(pktWithSeq(1, 0))
	s.popHead()
	freed := s.pool
	require.NotNil(t, freed)
	// Reinserting after a pop should reuse the freed node rather than
	// leaving stale pointers behind.
	require.True(t, s.insert(pktWithSeq(2, 0)))
	require.Same(t, freed, s.head)
	require.Equal(t, uint16(2), s.popHead().Seq)
}
