// Package registry dispatches parsed input records to the right
// per-ticker order book, the same role the original source's
// OrderBooks plays: a single process-wide entry point that owns every
// ticker's book and routes add/update/cancel records to it.
package registry

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/rishavpaul/limitbook/internal/book"
	"github.com/rishavpaul/limitbook/internal/telemetry"
)

// BookRegistry owns one OrderBook per ticker symbol and indexes every
// resting order ID to its ticker, so Process can route an update or
// cancel in O(1) without knowing which book the order lives in.
//
// BookRegistry itself performs no internal synchronization: spec.md's
// single-threaded core requires one Process call to fully complete
// before the next begins. Concurrent producers must serialize their
// calls through internal/ingest.
type BookRegistry struct {
	books      map[string]*book.OrderBook
	orderIndex map[string]string // order ID -> ticker

	logger  zerolog.Logger
	metrics *telemetry.Collector
}

// New creates an empty registry with no metrics collector attached.
// logger may be the zero value, in which case records are processed
// silently.
func New(logger zerolog.Logger) *BookRegistry {
	return NewWithMetrics(logger, nil)
}

// NewWithMetrics creates an empty registry that reports the books-open
// and orders-resting gauges to metrics as it processes records. metrics
// may be nil, in which case gauge updates are skipped entirely.
func NewWithMetrics(logger zerolog.Logger, metrics *telemetry.Collector) *BookRegistry {
	return &BookRegistry{
		books:      make(map[string]*book.OrderBook),
		orderIndex: make(map[string]string),
		logger:     logger,
		metrics:    metrics,
	}
}

func (r *BookRegistry) recordBooksOpen() {
	if r.metrics == nil {
		return
	}
	r.metrics.BooksOpen.Set(float64(len(r.books)))
}

func (r *BookRegistry) recordOrderAdded(ticker string, side book.Side) {
	if r.metrics == nil {
		return
	}
	r.metrics.OrdersResting.WithLabelValues(ticker, side.String()).Inc()
}

func (r *BookRegistry) recordOrderRemoved(ticker string, side book.Side) {
	if r.metrics == nil {
		return
	}
	r.metrics.OrdersResting.WithLabelValues(ticker, side.String()).Dec()
}

// bookFor returns the OrderBook for ticker, creating it on first
// reference.
func (r *BookRegistry) bookFor(ticker string) *book.OrderBook {
	b, ok := r.books[ticker]
	if !ok {
		b = book.NewOrderBook(ticker)
		r.books[ticker] = b
	}
	return b
}

// Process parses and applies a single record. On error, no mutation is
// made: a malformed line, a duplicate add, or an update/cancel against
// an unknown order all leave every book exactly as they were.
func (r *BookRegistry) Process(line string) error {
	rec, err := parseRecord(line)
	if err != nil {
		r.logger.Warn().Str("line", line).Err(err).Msg("reject malformed record")
		return err
	}

	switch rec.action {
	case actionAdd:
		return r.processAdd(rec)
	case actionUpdate:
		return r.processUpdate(rec)
	case actionCancel:
		return r.processCancel(rec)
	default:
		return book.ErrMalformedRecord.Wrapf("unhandled action %d", rec.action)
	}
}

func (r *BookRegistry) processAdd(rec record) error {
	if _, exists := r.orderIndex[rec.orderID]; exists {
		r.logger.Warn().Str("order_id", rec.orderID).Msg("reject duplicate order")
		return book.ErrDuplicateOrder.Wrapf("order %s already resting", rec.orderID)
	}

	_, bookExisted := r.books[rec.ticker]
	ob := r.bookFor(rec.ticker)
	order := &book.Order{
		ID:    rec.orderID,
		Side:  rec.side,
		Price: rec.price,
		Size:  rec.size,
	}
	if err := ob.Add(order); err != nil {
		return err
	}
	r.orderIndex[rec.orderID] = rec.ticker
	r.recordOrderAdded(rec.ticker, rec.side)
	if !bookExisted {
		r.recordBooksOpen()
	}
	return nil
}

func (r *BookRegistry) processUpdate(rec record) error {
	ticker, exists := r.orderIndex[rec.orderID]
	if !exists {
		r.logger.Warn().Str("order_id", rec.orderID).Msg("reject update of unknown order")
		return book.ErrUnknownOrder.Wrapf("order %s is not resting", rec.orderID)
	}

	ob := r.bookFor(ticker)
	existing := ob.GetOrder(rec.orderID)

	if err := ob.Update(rec.orderID, rec.size); err != nil {
		return err
	}
	if rec.size == 0 {
		delete(r.orderIndex, rec.orderID)
		if existing != nil {
			r.recordOrderRemoved(ticker, existing.Side)
		}
		if ob.BestBid() == nil && ob.BestAsk() == nil {
			delete(r.books, ticker)
			r.recordBooksOpen()
		}
	}
	return nil
}

func (r *BookRegistry) processCancel(rec record) error {
	ticker, exists := r.orderIndex[rec.orderID]
	if !exists {
		r.logger.Warn().Str("order_id", rec.orderID).Msg("reject cancel of unknown order")
		return book.ErrUnknownOrder.Wrapf("order %s is not resting", rec.orderID)
	}

	ob := r.bookFor(ticker)
	removed, err := ob.Remove(rec.orderID)
	if err != nil {
		return err
	}
	delete(r.orderIndex, rec.orderID)
	r.recordOrderRemoved(ticker, removed.Side)

	if ob.BestBid() == nil && ob.BestAsk() == nil {
		delete(r.books, ticker)
		r.recordBooksOpen()
	}
	return nil
}

// BookView is a read-only snapshot of one ticker's best prices and
// depth ladder.
type BookView struct {
	Ticker  string
	BestBid *book.PriceLevel
	BestAsk *book.PriceLevel
	Depth   []book.DepthRow
}

// Snapshot returns a read-only view of ticker's book. It returns ok=false
// if the registry holds no book for ticker: either the ticker was never
// referenced by a Process call, or its book was deregistered when its
// last resting order was removed.
func (r *BookRegistry) Snapshot(ticker string, depthLevels int) (BookView, bool) {
	ob, exists := r.books[ticker]
	if !exists {
		return BookView{}, false
	}
	return BookView{
		Ticker:  ticker,
		BestBid: ob.BestBid(),
		BestAsk: ob.BestAsk(),
		Depth:   ob.DepthView(depthLevels),
	}, true
}

// Tickers returns every ticker symbol that currently has an open book,
// in no particular order. Tickers whose books were deregistered are not
// included.
func (r *BookRegistry) Tickers() []string {
	out := make([]string, 0, len(r.books))
	for t := range r.books {
		out = append(out, t)
	}
	return out
}

// ProtectedRegistry wraps a BookRegistry with a mutex for callers that
// need concurrency safety without going through internal/ingest.
type ProtectedRegistry struct {
	mu sync.RWMutex
	r  *BookRegistry
}

// NewProtected wraps r for read-mostly concurrent access: writers still
// take a full lock (equivalent to serializing through ingest), readers
// may run concurrently with each other.
func NewProtected(r *BookRegistry) *ProtectedRegistry {
	return &ProtectedRegistry{r: r}
}

func (p *ProtectedRegistry) Process(line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.Process(line)
}

func (p *ProtectedRegistry) Snapshot(ticker string, depthLevels int) (BookView, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.r.Snapshot(ticker, depthLevels)
}
