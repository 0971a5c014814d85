package book

import (
	"github.com/shopspring/decimal"
)

// PriceLevel is both a price level's order queue and the AVL tree node
// that places it among the other price levels on its side of the book.
// There is no separate wrapper node: the tree IS the set of price levels.
type PriceLevel struct {
	Price  decimal.Decimal
	orders *OrderList

	parent, left, right *PriceLevel
	height              int
}

func newPriceLevel(price decimal.Decimal) *PriceLevel {
	return &PriceLevel{
		Price:  price,
		orders: newOrderList(),
		height: 1,
	}
}

// Orders returns the level's resting order queue.
func (p *PriceLevel) Orders() *OrderList { return p.orders }

// TotalSize returns the aggregate resting size at this level.
func (p *PriceLevel) TotalSize() int64 {
	if p == nil {
		return 0
	}
	return p.orders.TotalSize()
}

func heightOf(n *PriceLevel) int {
	if n == nil {
		return 0
	}
	return n.height
}

func (p *PriceLevel) updateHeight() {
	lh, rh := heightOf(p.left), heightOf(p.right)
	if lh > rh {
		p.height = lh + 1
	} else {
		p.height = rh + 1
	}
}

// balanceFactor is height(right) - height(left). A correctly balanced
// AVL node keeps this within [-1, 1].
func (p *PriceLevel) balanceFactor() int {
	return heightOf(p.right) - heightOf(p.left)
}

// min walks to the leftmost descendant of the subtree rooted at p.
func (p *PriceLevel) min() *PriceLevel {
	n := p
	for n.left != nil {
		n = n.left
	}
	return n
}
