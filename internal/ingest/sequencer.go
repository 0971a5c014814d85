package ingest

import (
	"runtime"
	"sync/atomic"
)

// Sequencer coordinates multi-producer access to a RingBuffer's slots
// using atomic CAS, the same claim/publish split the disruptor pattern
// uses to avoid a lock on the hot path.
type Sequencer struct {
	rb *RingBuffer
}

// NewSequencer creates a Sequencer for rb.
func NewSequencer(rb *RingBuffer) *Sequencer {
	return &Sequencer{rb: rb}
}

// Next claims the next sequence number. It spins briefly while the
// buffer is full, waiting for the consumer to free slots, and returns
// ErrBufferFull once it gives up.
func (s *Sequencer) Next() (uint64, error) {
	const maxSpins = 10000

	for spins := 0; spins < maxSpins; spins++ {
		current := atomic.LoadUint64(&s.rb.cursor)
		next := current + 1

		gating := atomic.LoadUint64(&s.rb.gatingSequence)
		available := gating + s.rb.bufferSize
		if next > available {
			runtime.Gosched()
			continue
		}

		if atomic.CompareAndSwapUint64(&s.rb.cursor, current, next) {
			return next, nil
		}
	}

	return 0, ErrBufferFull
}

// Publish writes req and its response channel into the slot claimed by
// seq, then releases it to the consumer via an atomic store.
func (s *Sequencer) Publish(seq uint64, req *RecordRequest, responseCh chan *RecordResponse) {
	index := seq & s.rb.indexMask
	slot := &s.rb.slots[index]

	slot.Request = req
	slot.ResponseCh = responseCh

	atomic.StoreUint64(&slot.SequenceNum, seq)
}
