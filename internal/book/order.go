package book

import (
	"github.com/shopspring/decimal"
)

// Side identifies which side of the book an order rests on.
type Side uint8

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	if s == SideBuy {
		return "buy"
	}
	return "sell"
}

// Order is a single resting limit order. It is also the node of the
// intrusive doubly-linked list owned by the OrderList of the PriceLevel
// it rests on: Order carries its own prev/next pointers instead of being
// wrapped by a separate list-node type, matching the original order book
// this package's design is grounded on.
type Order struct {
	ID    string
	Side  Side
	Price decimal.Decimal
	Size  int64

	prev, next *Order
	list       *OrderList
}

// Resting reports whether the order currently belongs to an OrderList.
func (o *Order) Resting() bool {
	return o.list != nil
}
