package ingest

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/rishavpaul/limitbook/internal/registry"
)

// Processor drains a RingBuffer on a single goroutine and applies each
// record to a registry.BookRegistry in strict sequence order, which is
// what lets BookRegistry.Process stay lock-free: by construction, only
// one call is ever in flight at a time.
type Processor struct {
	rb  *RingBuffer
	reg BookRegistryProcessor

	running      atomic.Bool
	shutdownCh   chan struct{}
	shutdownDone chan struct{}

	logger zerolog.Logger
}

// BookRegistryProcessor is the subset of registry.BookRegistry the
// ingest pipeline needs. It is satisfied by *registry.BookRegistry.
type BookRegistryProcessor interface {
	Process(line string) error
}

var _ BookRegistryProcessor = (*registry.BookRegistry)(nil)

// NewProcessor creates a Processor that feeds reg from rb.
func NewProcessor(rb *RingBuffer, reg BookRegistryProcessor, logger zerolog.Logger) *Processor {
	return &Processor{
		rb:           rb,
		reg:          reg,
		shutdownCh:   make(chan struct{}),
		shutdownDone: make(chan struct{}),
		logger:       logger,
	}
}

// Start begins draining the ring buffer on a new goroutine.
func (p *Processor) Start() {
	p.running.Store(true)
	go p.loop()
}

func (p *Processor) loop() {
	defer close(p.shutdownDone)

	nextSequence := uint64(1)

	for p.running.Load() {
		index := nextSequence & p.rb.indexMask
		slot := &p.rb.slots[index]

		for {
			if atomic.LoadUint64(&slot.SequenceNum) == nextSequence {
				break
			}
			select {
			case <-p.shutdownCh:
				return
			default:
				runtime.Gosched()
			}
		}

		p.process(slot)

		atomic.StoreUint64(&p.rb.gatingSequence, nextSequence)
		nextSequence++
	}
}

func (p *Processor) process(slot *RingBufferSlot) {
	req := slot.Request
	responseCh := slot.ResponseCh

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Str("line", req.Line).Msg("ingest processor panic")
			select {
			case responseCh <- &RecordResponse{Err: fmt.Errorf("internal error: %v", r)}:
			default:
			}
		}
	}()

	err := p.reg.Process(req.Line)
	if err != nil {
		p.logger.Warn().Str("line", req.Line).Err(err).Msg("record rejected")
	}

	select {
	case responseCh <- &RecordResponse{Err: err}:
	default:
		p.logger.Warn().Str("line", req.Line).Msg("dropped response: receiver not listening")
	}
}

// Shutdown stops the consumer goroutine and waits for it to drain.
func (p *Processor) Shutdown() {
	p.running.Store(false)
	close(p.shutdownCh)
	<-p.shutdownDone
}
