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
	"time"

	"github.com/stretchr/testify/require"
)

func TestPTMapResolvesClockRateOnFirstPush(t *testing.T) {
	clk := newFakeClock(time.Unix(0, 0))
	sink := &recordingSink{}
	b := NewJitterBuffer(sink, WithClock(clk), WithClockRate(0), WithLatency(200*time.Millisecond))
	require.NoError(t, b.Arm())
	require.NoError(t, b.Play())

	b.SetPTMapFunc(func(pt uint8) (uint32, bool) {
		if pt == 96 {
			return 90000, true
		}
		return 0, false
	})

	pkt := testPacket(1, 0)
	pkt.PayloadType = 96
	require.NoError(t, b.Push(pkt))

	require.NoError(t, b.Shutdown())
}

func TestPushWithoutClockRateOrPTMapFails(t *testing.T) {
	clk := newFakeClock(time.Unix(0, 0))
	b := NewJitterBuffer(&recordingSink{}, WithClock(clk), WithClockRate(0))
	require.NoError(t, b.Arm())
	require.NoError(t, b.Play())

	err := b.Push(testPacket(1, 0))
	require.ErrorIs(t, err, ErrNotNegotiated)

	require.NoError(t, b.Shutdown())
}

// TestDefaultConfigLeavesClockRateUnresolved guards against the clock
// rate being preset to a working value by default: a caller that never
// calls WithClockRate or SetCaps, and never installs a pt-map hook,
// must see ErrNotNegotiated rather than having packets silently paced.
func TestDefaultConfigLeavesClockRateUnresolved(t *testing.T) {
	clk := newFakeClock(time.Unix(0, 0))
	b := NewJitterBuffer(&recordingSink{}, WithClock(clk))
	require.NoError(t, b.Arm())
	require.NoError(t, b.Play())

	err := b.Push(testPacket(1, 0))
	require.ErrorIs(t, err, ErrNotNegotiated)

	require.NoError(t, b.Shutdown())
}

// TestPTMapFuncMayCallBackIntoBuffer guards against a regression to
// resolving the pt-map hook while mu is held: a callback that touches
// the buffer itself (here, Stats) must not deadlock against Push.
func TestPTMapFuncMayCallBackIntoBuffer(t *testing.T) {
	clk := newFakeClock(time.Unix(0, 0))
	b := NewJitterBuffer(&recordingSink{}, WithClock(clk))
	require.NoError(t, b.Arm())
	require.NoError(t, b.Play())

	var gotState string
	b.SetPTMapFunc(func(pt uint8) (uint32, bool) {
		gotState = b.Stats().State
		b.SetLatency(250 * time.Millisecond)
		return 8000, true
	})

	done := make(chan error, 1)
	go func() { done <- b.Push(testPacket(1, 0)) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Push deadlocked resolving the pt-map hook")
	}

	require.Equal(t, StateRunning, gotState)
	require.NoError(t, b.Shutdown())
}

func TestClearPTMapInvokesCallback(t *testing.T) {
	clk := newFakeClock(time.Unix(0, 0))
	b := newTestBuffer(&recordingSink{}, clk)

	called := false
	b.OnClearPTMap(func() { called = true })
	b.SetPTMapFunc(func(uint8) (uint32, bool) { return 8000, true })

	b.ClearPTMap()
	require.True(t, called)

	_, ok := b.resolvePT(0)
	require.False(t, ok)

	require.NoError(t, b.Shutdown())
}
