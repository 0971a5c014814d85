package book

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderBook maintains the resting limit orders for a single ticker
// symbol: one PriceTree per side, plus an order-ID index for O(1)
// update/cancel lookups.
type OrderBook struct {
	Symbol string

	bids *PriceTree // best bid is the highest price: bids.Max()
	asks *PriceTree // best ask is the lowest price: asks.Min()

	orders map[string]*Order
}

// NewOrderBook creates an empty order book for symbol.
func NewOrderBook(symbol string) *OrderBook {
	return &OrderBook{
		Symbol: symbol,
		bids:   NewPriceTree(),
		asks:   NewPriceTree(),
		orders: make(map[string]*Order),
	}
}

func (b *OrderBook) treeFor(side Side) *PriceTree {
	if side == SideBuy {
		return b.bids
	}
	return b.asks
}

// Add rests a new order in the book. It returns ErrDuplicateOrder if
// order.ID is already resting anywhere in this book.
func (b *OrderBook) Add(order *Order) error {
	if _, exists := b.orders[order.ID]; exists {
		return ErrDuplicateOrder.Wrapf("order %s already rests in %s", order.ID, b.Symbol)
	}

	level := b.treeFor(order.Side).GetOrCreate(order.Price)
	level.orders.Append(order)
	b.orders[order.ID] = order
	return nil
}

// Update changes the size of a resting order. A newSize of zero removes
// the order from the book, same as calling Remove.
func (b *OrderBook) Update(orderID string, newSize int64) error {
	order, exists := b.orders[orderID]
	if !exists {
		return ErrUnknownOrder.Wrapf("order %s is not resting in %s", orderID, b.Symbol)
	}

	if newSize == 0 {
		_, err := b.Remove(orderID)
		return err
	}

	if !order.Resting() {
		return ErrInvariantViolation.Wrapf("order %s indexed but not resting in any list", orderID)
	}
	order.list.updateSize(order, newSize)
	return nil
}

// Remove cancels a resting order, deleting its price level if that was
// the level's last order. It returns ErrUnknownOrder if orderID is not
// currently resting in this book.
func (b *OrderBook) Remove(orderID string) (*Order, error) {
	order, exists := b.orders[orderID]
	if !exists {
		return nil, ErrUnknownOrder.Wrapf("order %s is not resting in %s", orderID, b.Symbol)
	}

	list := order.list
	if list == nil {
		return nil, ErrInvariantViolation.Wrapf("order %s indexed but not resting in any list", orderID)
	}
	tree := b.treeFor(order.Side)
	level := tree.Get(order.Price)
	if level == nil {
		return nil, ErrInvariantViolation.Wrapf("price level %s missing for side %s", order.Price, order.Side)
	}
	if level.orders != list {
		return nil, ErrInvariantViolation.Wrapf("price level %s owns a different order list", order.Price)
	}

	list.Remove(order)
	delete(b.orders, orderID)

	if list.IsEmpty() {
		tree.Remove(level)
	}

	return order, nil
}

// GetOrder returns the resting order for orderID, or nil if not found.
func (b *OrderBook) GetOrder(orderID string) *Order {
	return b.orders[orderID]
}

// BestBid returns the highest-priced resting bid level, or nil if the
// bid side is empty.
func (b *OrderBook) BestBid() *PriceLevel { return b.bids.Max() }

// BestAsk returns the lowest-priced resting ask level, or nil if the
// ask side is empty.
func (b *OrderBook) BestAsk() *PriceLevel { return b.asks.Min() }

// DepthRow is one paired row of a depth ladder: the i-th best ask
// alongside the i-th best bid.
type DepthRow struct {
	Ticker   string
	AskPrice decimal.Decimal
	AskQty   int64
	BidPrice decimal.Decimal
	BidQty   int64
}

// DepthView returns up to levels rows, each pairing the i-th best bid
// with the i-th best ask. Bids at or above the best ask, and asks at or
// below the best bid, are crossed levels and are excluded from the
// ladder (a non-matching book does not guarantee non-crossing state;
// the caller is responsible for that, per spec.md §9, so DepthView must
// filter rather than assume it). If one side runs out of levels before
// the other, its remaining fields are left at their zero value. Ticker
// is only populated on row 0.
func (b *OrderBook) DepthView(levels int) []DepthRow {
	if levels <= 0 {
		return nil
	}

	bestBid := b.BestBid()
	bestAsk := b.BestAsk()

	bidLevels := make([]*PriceLevel, 0, levels)
	b.bids.ForEach(false, func(p *PriceLevel) bool {
		if bestAsk != nil && !p.Price.LessThan(bestAsk.Price) {
			return true
		}
		bidLevels = append(bidLevels, p)
		return len(bidLevels) < levels
	})

	askLevels := make([]*PriceLevel, 0, levels)
	b.asks.ForEach(true, func(p *PriceLevel) bool {
		if bestBid != nil && !p.Price.GreaterThan(bestBid.Price) {
			return true
		}
		askLevels = append(askLevels, p)
		return len(askLevels) < levels
	})

	rows := len(bidLevels)
	if len(askLevels) > rows {
		rows = len(askLevels)
	}
	if rows > levels {
		rows = levels
	}

	view := make([]DepthRow, rows)
	for i := 0; i < rows; i++ {
		var row DepthRow
		if i == 0 {
			row.Ticker = b.Symbol
		}
		if i < len(bidLevels) {
			row.BidPrice = bidLevels[i].Price
			row.BidQty = bidLevels[i].TotalSize()
		}
		if i < len(askLevels) {
			row.AskPrice = askLevels[i].Price
			row.AskQty = askLevels[i].TotalSize()
		}
		view[i] = row
	}
	return view
}

// String renders a human-readable depth ladder, the Go equivalent of
// the original source's showLevels/levels dump.
func (b *OrderBook) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", b.Symbol)
	fmt.Fprintf(&sb, "%-12s %-10s | %-10s %-12s\n", "ask qty", "ask px", "bid px", "bid qty")
	for _, row := range b.DepthView(10) {
		fmt.Fprintf(&sb, "%-12d %-10s | %-10s %-12d\n", row.AskQty, row.AskPrice.String(), row.BidPrice.String(), row.BidQty)
	}
	return sb.String()
}
