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
	"context"

	"github.com/looplab/fsm"
)

// Lifecycle states. Idle is the state before the first arm; Armed
// accepts packets but keeps the consumer blocked; Running is actively pacing and
// popping packets; Flushing discards buffered state on the way back
// to Armed; Shutdown is terminal.
const (
	StateIdle     = "idle"
	StateArmed    = "armed"
	StateRunning  = "running"
	StateFlushing = "flushing"
	StateShutdown = "shutdown"
)

const (
	eventArm        = "arm"
	eventPlay       = "play"
	eventPause      = "pause"
	eventFlushStart = "flush_start"
	eventFlushStop  = "flush_stop"
	eventShutdown   = "shutdown"
)

// newLifecycle builds the buffer's state machine. Every enter_state
// callback below runs synchronously inside fireLocked, with b.mu
// already held by the caller that triggered the transition, so
// callbacks must not re-lock it.
func newLifecycle(b *JitterBuffer) *fsm.FSM {
	return fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventArm, Src: []string{StateIdle, StateArmed}, Dst: StateArmed},
			{Name: eventPlay, Src: []string{StateArmed, StateRunning}, Dst: StateRunning},
			{Name: eventPause, Src: []string{StateRunning, StateArmed}, Dst: StateArmed},
			{Name: eventFlushStart, Src: []string{StateArmed, StateRunning, StateFlushing}, Dst: StateFlushing},
			{Name: eventFlushStop, Src: []string{StateFlushing}, Dst: StateArmed},
			{Name: eventShutdown, Src: []string{StateIdle, StateArmed, StateRunning, StateFlushing}, Dst: StateShutdown},
		},
		fsm.Callbacks{
			"enter_" + StateRunning: func(_ context.Context, _ *fsm.Event) {
				b.blocked = false
				b.cond.Broadcast()
			},
			"enter_" + StateFlushing: func(_ context.Context, _ *fsm.Event) {
				b.srcResult = ErrFlushing
				b.blocked = true
				if b.waitingSeqSet {
					b.clock.Unschedule(b.activeWait)
				}
				b.store.flush()
				b.cond.Broadcast()
			},
			"enter_" + StateArmed: func(_ context.Context, e *fsm.Event) {
				switch e.Event {
				case eventArm:
					if e.Src == StateIdle {
						b.resetAllLocked()
						if b.cfg.ClockRate > 0 {
							b.setClockRateLocked(b.cfg.ClockRate)
						}
						b.startConsumerLocked()
					}
					b.blocked = true
				case eventFlushStop:
					b.resetAfterFlushLocked()
					b.blocked = true
					b.startConsumerLocked()
				case eventPause:
					b.blocked = true
				}
			},
			"enter_" + StateShutdown: func(_ context.Context, _ *fsm.Event) {
				b.srcResult = ErrShutdown
				b.closed.Store(true)
				b.blocked = true
				if b.waitingSeqSet {
					b.clock.Unschedule(b.activeWait)
				}
				b.cond.Broadcast()
			},
		},
	)
}

// fireLocked drives the state machine on event, returning any
// transition error (e.g. an event invalid from the current state).
// Callers must hold b.mu.
func (b *JitterBuffer) fireLocked(event string) error {
	return b.fsm.Event(context.Background(), event)
}

// State reports the buffer's current lifecycle state.
func (b *JitterBuffer) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fsm.Current()
}
