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

	"github.com/livekit/protocol/utils/mono"
)

// ClockID identifies one outstanding single-shot wait.
type ClockID uint64

// WaitResult is the outcome of a Clock.Wait call.
type WaitResult int

const (
	// WaitOK means the target time was reached.
	WaitOK WaitResult = iota
	// WaitEarly means the clock fired before its target, which a real
	// clock implementation may do under coarse timer resolution; the
	// pacing engine treats this the same as WaitOK.
	WaitEarly
	// WaitUnscheduled means Unschedule was called concurrently with the
	// wait, and the wait returned without reaching its target.
	WaitUnscheduled
)

// Clock is the scheduling primitive the pacing engine consumes. It is
// deliberately narrow: a single-shot wait that can be cancelled from
// another goroutine, plus a base_time offset for translating running
// time into absolute clock targets.
type Clock interface {
	// Now returns the clock's current reading.
	Now() time.Time
	// BaseTime returns the offset added to running times to produce
	// absolute wait targets.
	BaseTime() time.Time
	// SetBaseTime installs a new base time, e.g. when the pipeline
	// (re)starts.
	SetBaseTime(t time.Time)
	// NewSingleShot registers a wait that will fire at target.
	NewSingleShot(target time.Time) ClockID
	// Wait blocks the calling goroutine until id's target is reached or
	// it is unscheduled. It must be called at most once per id.
	Wait(id ClockID) WaitResult
	// Unschedule cancels a pending wait, causing a concurrent Wait to
	// return WaitUnscheduled. It is a no-op if the wait already fired
	// or was already unscheduled.
	Unschedule(id ClockID)
}

// systemClock implements Clock on top of time.Timer and
// github.com/livekit/protocol/utils/mono, which supplies a monotonic
// Now() immune to wall-clock adjustment.
type systemClock struct {
	mu     sync.Mutex
	base   time.Time
	nextID ClockID
	waits  map[ClockID]*scheduledWait
}

type scheduledWait struct {
	timer  *time.Timer
	result chan WaitResult
	fired  bool
}

// NewSystemClock returns a Clock backed by real timers and the
// process's monotonic clock.
func NewSystemClock() Clock {
	return &systemClock{waits: make(map[ClockID]*scheduledWait)}
}

func (c *systemClock) Now() time.Time {
	return mono.Now()
}

func (c *systemClock) BaseTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.base
}

func (c *systemClock) SetBaseTime(t time.Time) {
	c.mu.Lock()
	c.base = t
	c.mu.Unlock()
}

func (c *systemClock) NewSingleShot(target time.Time) ClockID {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	w := &scheduledWait{result: make(chan WaitResult, 1)}
	delay := target.Sub(c.Now())
	w.timer = time.AfterFunc(delay, func() { c.fire(id, WaitOK) })
	c.waits[id] = w
	return id
}

func (c *systemClock) fire(id ClockID, res WaitResult) {
	c.mu.Lock()
	w, ok := c.waits[id]
	if !ok || w.fired {
		c.mu.Unlock()
		return
	}
	w.fired = true
	c.mu.Unlock()
	w.result <- res
}

func (c *systemClock) Wait(id ClockID) WaitResult {
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

func (c *systemClock) Unschedule(id ClockID) {
	c.mu.Lock()
	w, ok := c.waits[id]
	c.mu.Unlock()
	if !ok {
		return
	}
	w.timer.Stop()
	c.fire(id, WaitUnscheduled)
}
