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

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"go.uber.org/atomic"
)

// Sink receives packets released by the pacing engine and the
// terminal end-of-stream signal. Implementations correspond to
// whatever sits downstream of the buffer; PushPacket must not block
// indefinitely, since its caller holds no lock while calling it but
// the consumer loop will not advance until it returns.
type Sink interface {
	// PushPacket delivers pkt downstream. discont is set when pkt is
	// not contiguous with the previously delivered packet, either
	// because of a sequence gap or a timestamp-offset change.
	PushPacket(pkt *Packet, discont bool) error
	// EOS signals that no further packets will be delivered.
	EOS()
}

// Caps carries the negotiated RTP parameters, mirroring the subset of
// upstream caps this buffer cares about.
type Caps struct {
	ClockRate     uint32
	ClockBase     uint32
	ClockBaseSet  bool
	SeqNumBase    uint16
	SeqNumBaseSet bool
}

// Stats is a point-in-time snapshot of the buffer's counters, safe to
// read from any goroutine.
type Stats struct {
	NumLate       uint64
	NumDuplicates uint64
	QueueLen      int
	State         string
}

// JitterBuffer reorders an incoming RTP packet stream by sequence
// number and releases packets on a pacing schedule derived from their
// RTP timestamps. Exactly two goroutines are expected to drive it in
// steady state: callers of Push (the producer side) and the buffer's
// own consumer goroutine; everything else (SetCaps, FlushStart, Stats,
// ...) may be called from any goroutine.
type JitterBuffer struct {
	mu   sync.Mutex
	cond *sync.Cond

	cfg Config
	fsm *fsm.FSM

	sink       Sink
	clock      Clock
	logger     Logger
	metrics    *metrics
	instanceID string

	store   *orderedStore
	extTS   extTimestampTracker
	segment Segment

	lastPoppedSeq    uint16
	lastPoppedSeqSet bool
	nextSeq          uint16
	nextSeqSet       bool
	eos              bool
	blocked          bool
	srcResult        error

	clockRate    uint32
	tsConv       rtpDurationConverter
	clockBase    uint64
	clockBaseSet bool

	tsOffsetNs     time.Duration
	prevTSOffsetNs time.Duration
	peerLatencyNs  time.Duration

	activeWait     ClockID
	waitingSeq     uint16
	waitingSeqSet  bool

	numLate       uint64
	numDuplicates uint64

	// ptMu guards ptMapFunc/onClearPTMap separately from mu. The
	// installed PTMapFunc is not part of PacingState and is resolved
	// before mu is acquired (spec step 2 precedes step 3), so it needs
	// its own lock: a callback that calls back into JitterBuffer (Stats,
	// SetLatency, EOS, ...) while mu is held would deadlock otherwise.
	ptMu         sync.Mutex
	ptMapFunc    PTMapFunc
	onClearPTMap func()

	// closed lets Push fail fast after Shutdown without taking mu,
	// since a shut-down buffer never clears the flag again.
	closed atomic.Bool

	wg sync.WaitGroup
}

// NewJitterBuffer constructs a buffer that delivers to sink, in the
// Idle lifecycle state. Call Arm, then Play, to start releasing
// packets.
func NewJitterBuffer(sink Sink, opts ...Option) *JitterBuffer {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	instanceID := uuid.NewString()
	b := &JitterBuffer{
		cfg:        cfg,
		sink:       sink,
		clock:      cfg.Clock,
		logger:     cfg.Logger.WithValues("instance", instanceID),
		store:      newOrderedStore(),
		segment:    defaultSegment(),
		blocked:    true,
		tsOffsetNs: cfg.TSOffset,
		ptMapFunc:  cfg.PTMapFunc,
		instanceID: instanceID,
	}
	b.cond = sync.NewCond(&b.mu)
	if cfg.ClockRate > 0 {
		b.setClockRateLocked(cfg.ClockRate)
	}
	b.metrics = newMetrics(cfg.Registerer, b.instanceID)
	b.fsm = newLifecycle(b)
	return b
}

// resetAllLocked restores PacingState to its construction-time form,
// as happens on every READY-to-PAUSED (arm) transition.
func (b *JitterBuffer) resetAllLocked() {
	b.store.flush()
	b.extTS.reset()
	b.lastPoppedSeqSet = false
	b.nextSeqSet = false
	b.eos = false
	b.srcResult = nil
	b.clockRate = 0
	b.tsConv = rtpDurationConverter{}
	b.clockBase = 0
	b.clockBaseSet = false
	b.prevTSOffsetNs = b.tsOffsetNs
	b.peerLatencyNs = 0
	b.activeWait = 0
	b.waitingSeqSet = false
	b.numLate = 0
	b.numDuplicates = 0
	b.segment = defaultSegment()
}

// resetAfterFlushLocked restores the subset of PacingState the
// flush-stop transition resets, leaving counters, ts-offset and
// peer-latency untouched. The already-negotiated clock rate is kept:
// a flush does not re-run caps negotiation, and a subsequent push
// with no intervening SetCaps call must still resolve.
func (b *JitterBuffer) resetAfterFlushLocked() {
	b.lastPoppedSeqSet = false
	b.nextSeqSet = false
	b.eos = false
	b.extTS.reset()
	b.clockBase = 0
	b.clockBaseSet = false
	b.srcResult = nil
	b.segment = defaultSegment()
}

func (b *JitterBuffer) setClockRateLocked(rate uint32) {
	b.clockRate = rate
	b.tsConv = newRTPDurationConverter(rate)
}

func (b *JitterBuffer) startConsumerLocked() {
	b.wg.Add(1)
	go b.consumeLoop()
}

// Arm drives the READY-to-PAUSED transition: Idle/Armed to Armed.
func (b *JitterBuffer) Arm() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fireLocked(eventArm)
}

// Play drives the PAUSED-to-PLAYING transition, unblocking the
// consumer.
func (b *JitterBuffer) Play() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fireLocked(eventPlay)
}

// Pause drives the PLAYING-to-PAUSED transition, blocking the
// consumer without discarding buffered packets.
func (b *JitterBuffer) Pause() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fireLocked(eventPause)
}

// FlushStart cancels any in-flight clock wait, empties the store, and
// causes the consumer goroutine to exit.
func (b *JitterBuffer) FlushStart() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fireLocked(eventFlushStart)
}

// FlushStop resumes from a flush, restarting the consumer goroutine.
func (b *JitterBuffer) FlushStop() error {
	// Join the consumer stopped by FlushStart before starting a new one,
	// so that two consumers never run at once.
	b.mu.Lock()
	flushing := b.fsm.Current() == StateFlushing
	b.mu.Unlock()
	if flushing {
		b.wg.Wait()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fireLocked(eventFlushStop)
}

// Shutdown tears the buffer down permanently: it behaves like
// FlushStart followed by joining the consumer goroutine, and releases
// the store.
func (b *JitterBuffer) Shutdown() error {
	b.mu.Lock()
	err := b.fireLocked(eventShutdown)
	b.mu.Unlock()
	if err != nil {
		return err
	}

	b.wg.Wait()

	b.mu.Lock()
	b.store.flush()
	b.mu.Unlock()
	return nil
}

// SetCaps installs the negotiated clock rate and, when present, the
// clock-base and seqnum-base anchors. It returns false when clock-rate
// is missing or zero.
func (b *JitterBuffer) SetCaps(caps Caps) bool {
	if caps.ClockRate == 0 {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.setClockRateLocked(caps.ClockRate)
	if caps.ClockBaseSet {
		b.extTS.seed(caps.ClockBase)
		b.clockBase = uint64(caps.ClockBase)
		b.clockBaseSet = true
	}
	if caps.SeqNumBaseSet {
		b.nextSeq = caps.SeqNumBase
		b.nextSeqSet = true
	}
	return true
}

// NewSegment installs the segment used to convert RTP-derived
// timestamps into running time. Only SegmentFormatTime is accepted.
func (b *JitterBuffer) NewSegment(seg Segment) error {
	if seg.Format != SegmentFormatTime {
		return ErrInvalidSegment
	}
	b.mu.Lock()
	b.segment = seg
	b.mu.Unlock()
	return nil
}

// EOS marks end-of-stream. A second call is a no-op.
func (b *JitterBuffer) EOS() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.srcResult != nil {
		return ErrFlushing
	}
	if b.eos {
		return nil
	}
	b.eos = true
	b.cond.Broadcast()
	return nil
}

// SetLatency updates the buffering target. Per the design, this does
// not force any recomputation of in-flight pacing decisions; it takes
// effect for packets evaluated after the call.
func (b *JitterBuffer) SetLatency(d time.Duration) {
	b.mu.Lock()
	b.cfg.Latency = d
	b.mu.Unlock()
}

// SetDropOnLatency toggles whether the head of the store is evicted
// once its span reaches the configured latency.
func (b *JitterBuffer) SetDropOnLatency(drop bool) {
	b.mu.Lock()
	b.cfg.DropOnLatency = drop
	b.mu.Unlock()
}

// SetTSOffset updates the RTP timestamp nudge applied to emitted
// packets. A change from the previously applied value marks the next
// emitted packet DISCONT.
func (b *JitterBuffer) SetTSOffset(d time.Duration) {
	b.mu.Lock()
	b.tsOffsetNs = d
	b.mu.Unlock()
}

// SetPeerLatency records the minimum latency reported by the upstream
// element, folded into the pop-path target time. LatencyQuery does not
// read it; it takes the peer latencies as arguments.
func (b *JitterBuffer) SetPeerLatency(d time.Duration) {
	b.mu.Lock()
	b.peerLatencyNs = d
	b.mu.Unlock()
}

// Stats returns a snapshot of the buffer's counters and state.
func (b *JitterBuffer) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{
		NumLate:       b.numLate,
		NumDuplicates: b.numDuplicates,
		QueueLen:      b.store.len(),
		State:         b.fsm.Current(),
	}
}

// Push accepts one RTP packet from the producer side.
func (b *JitterBuffer) Push(pkt *Packet) error {
	if pkt == nil {
		b.logger.Errorw("rejecting packet", errNilPacket)
		return &DecodeError{Cause: errNilPacket}
	}
	if b.closed.Load() {
		return ErrShutdown
	}

	// Resolve the pt-map hook before taking mu (spec step 2 precedes
	// step 3): resolvePT may run arbitrary caller code, which must not
	// execute while mu is held.
	b.mu.Lock()
	needRate := b.clockRate == 0
	b.mu.Unlock()

	var resolvedRate uint32
	var resolvedOK bool
	if needRate {
		resolvedRate, resolvedOK = b.resolvePT(pkt.PayloadType)
	}

	b.mu.Lock()

	if b.clockRate == 0 && resolvedOK && resolvedRate > 0 {
		b.setClockRateLocked(resolvedRate)
	}
	if b.clockRate == 0 {
		b.mu.Unlock()
		return ErrNotNegotiated
	}

	if b.srcResult != nil {
		err := b.srcResult
		b.mu.Unlock()
		return err
	}
	if b.eos {
		b.mu.Unlock()
		return ErrUnexpectedEOS
	}

	if b.lastPoppedSeqSet && seqLess(b.lastPoppedSeq, pkt.Seq) < 0 {
		b.numLate++
		b.metrics.incLate()
		b.mu.Unlock()
		return nil
	}

	if b.cfg.Latency > 0 && b.cfg.DropOnLatency {
		latencyTicks := uint32(b.tsConv.toRTPTicks(b.cfg.Latency))
		for b.store.len() > 0 && b.store.tsSpan() >= latencyTicks {
			b.store.popHead()
			b.metrics.incDropped()
		}
	}

	if !b.store.insert(pkt) {
		b.numDuplicates++
		b.metrics.incDuplicate()
		b.mu.Unlock()
		return nil
	}

	b.cond.Signal()

	if b.waitingSeqSet && seqBefore(pkt.Seq, b.waitingSeq) {
		b.clock.Unschedule(b.activeWait)
	}

	b.mu.Unlock()
	return nil
}

// consumeLoop is the egress pacing task. Exactly one instance runs at
// a time; it exits whenever src_result becomes non-nil and is
// restarted by FlushStop.
func (b *JitterBuffer) consumeLoop() {
	defer b.wg.Done()

	for {
		b.mu.Lock()

		if b.srcResult != nil {
			b.mu.Unlock()
			return
		}

		for b.blocked || (b.store.len() == 0 && !b.eos) {
			b.cond.Wait()
			if b.srcResult != nil {
				b.mu.Unlock()
				return
			}
		}

		if b.store.len() == 0 && b.eos && !b.blocked {
			b.srcResult = ErrUnexpectedEOS
			sink := b.sink
			b.mu.Unlock()
			b.logger.Debugw("store drained, propagating eos")
			sink.EOS()
			return
		}

		outbuf := b.store.popHead()
		seq := outbuf.Seq
		extTS := b.extTS.update(outbuf.RTPTimestamp)

		needSync := !b.nextSeqSet || b.nextSeq != seq
		if needSync {
			if !b.clockBaseSet {
				b.clockBase = extTS
				b.clockBaseSet = true
			}
			adjTS := extTS - b.clockBase
			ns := b.tsConv.toDuration(adjTS)
			runningTime := b.segment.ToRunningTime(ns) + b.cfg.Latency + b.peerLatencyNs
			target := b.clock.BaseTime().Add(runningTime)

			id := b.clock.NewSingleShot(target)
			b.activeWait = id
			b.waitingSeq = seq
			b.waitingSeqSet = true
			b.mu.Unlock()

			result := b.clock.Wait(id)

			b.mu.Lock()
			b.activeWait = 0
			b.waitingSeqSet = false

			if b.srcResult != nil {
				b.mu.Unlock()
				return
			}

			if result == WaitUnscheduled {
				b.store.insert(outbuf)
				b.mu.Unlock()
				continue
			}
		}

		discont := false
		if b.nextSeqSet && b.nextSeq != seq {
			dropped := seqLess(b.nextSeq, seq)
			if dropped > 0 {
				b.numLate += uint64(dropped)
				b.metrics.incLate()
				b.logger.Debugw("sequence gap", "expected", b.nextSeq, "got", seq, "skipped", seqGap(b.nextSeq-1, seq))
			}
			discont = true
			b.metrics.incDiscontinuity()
		}

		if b.tsOffsetNs != 0 {
			offRTP := b.tsConv.toRTPTicks(b.tsOffsetNs)
			outbuf.RTPTimestamp = uint32(int64(outbuf.RTPTimestamp) + offRTP)
		}
		if b.tsOffsetNs != b.prevTSOffsetNs {
			discont = true
		}
		b.prevTSOffsetNs = b.tsOffsetNs

		b.lastPoppedSeq = seq
		b.lastPoppedSeqSet = true
		b.nextSeq = seq + 1
		b.nextSeqSet = true
		outbuf.Discont = discont

		sink := b.sink
		b.mu.Unlock()

		if err := sink.PushPacket(outbuf, discont); err != nil {
			b.logger.Errorw("downstream push failed, pausing consumer", err, "seq", seq)
			b.mu.Lock()
			if b.srcResult == nil {
				b.srcResult = &DownstreamError{Cause: err}
			}
			b.mu.Unlock()
			return
		}
		b.metrics.incPopped()
	}
}
