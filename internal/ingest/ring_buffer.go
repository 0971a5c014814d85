// Package ingest adapts the LMAX Disruptor pattern — a lock-free,
// multi-producer/single-consumer ring buffer — to feed raw input
// records into a registry.BookRegistry. Producers (e.g. the --workers
// goroutines in cmd/bookd) claim slots concurrently via CAS;
// a single consumer goroutine drains them strictly in sequence order,
// so registry.BookRegistry.Process always sees records one at a time
// and in the order they were claimed, without needing its own lock.
//
// Reference: https://lmax-exchange.github.io/disruptor/
package ingest

import (
	"errors"
)

// RecordRequest is one raw input line submitted for processing.
type RecordRequest struct {
	Line string
}

// RecordResponse carries the outcome of processing a RecordRequest.
type RecordResponse struct {
	Err error
}

// RingBufferSlot is a single slot in the ring buffer, cache-aligned to
// 64 bytes to prevent false sharing between producer and consumer CPUs.
type RingBufferSlot struct {
	// SequenceNum is the sequence number this slot currently holds.
	// The slot is ready to consume once SequenceNum equals the
	// consumer's expected sequence.
	SequenceNum uint64

	Request    *RecordRequest
	ResponseCh chan *RecordResponse

	// Padding to reach 64 bytes: 8 (seq) + 8 (request ptr) + 8 (chan ptr).
	_ [40]byte
}

// RingBuffer is a lock-free, multi-producer, single-consumer ring
// buffer of RecordRequests.
type RingBuffer struct {
	bufferSize uint64
	indexMask  uint64
	slots      []RingBufferSlot

	cursor         uint64 // highest sequence claimed by a producer
	consumerCursor uint64
	gatingSequence uint64 // highest sequence consumed so far

	_ [40]byte
}

// Config configures a RingBuffer.
type Config struct {
	// BufferSize is the number of slots, and must be a power of 2.
	BufferSize uint64
}

// DefaultConfig returns a reasonable default buffer size.
func DefaultConfig() Config {
	return Config{BufferSize: 8192}
}

// ErrBufferFull is returned when the ring buffer has no free slots.
var ErrBufferFull = errors.New("ring buffer is full")

// NewRingBuffer creates a ring buffer. It panics if config.BufferSize is
// not a power of 2.
func NewRingBuffer(config Config) *RingBuffer {
	if config.BufferSize == 0 || config.BufferSize&(config.BufferSize-1) != 0 {
		panic("BufferSize must be a power of 2")
	}

	return &RingBuffer{
		bufferSize:     config.BufferSize,
		indexMask:      config.BufferSize - 1,
		slots:          make([]RingBufferSlot, config.BufferSize),
		consumerCursor: 1,
	}
}

// GetBufferSize returns the number of slots in the ring.
func (rb *RingBuffer) GetBufferSize() uint64 { return rb.bufferSize }
