package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func order(id string, side Side, p string, size int64) *Order {
	return &Order{ID: id, Side: side, Price: price(p), Size: size}
}

// TestAddUpdateRemove mirrors the original order book's AAPL scenario:
// four orders are added, then one update, one more update, and two
// cancels, asserting best bid/ask price and size after each step.
func TestAddUpdateRemove(t *testing.T) {
	r := require.New(t)
	ob := NewOrderBook("AAPL")

	r.NoError(ob.Add(order("abbb11", SideBuy, "100.00000", 5)))
	r.NoError(ob.Add(order("abbb12", SideSell, "200.00000", 5)))
	r.NoError(ob.Add(order("abbb13", SideBuy, "150.00000", 5)))
	r.NoError(ob.Add(order("abbb14", SideBuy, "150.00000", 10)))

	r.True(ob.BestAsk().Price.Equal(price("200.00000")))
	r.True(ob.BestBid().Price.Equal(price("150.00000")))
	r.EqualValues(15, ob.BestBid().TotalSize())

	r.NoError(ob.Update("abbb14", 6))
	r.True(ob.BestBid().Price.Equal(price("150.00000")))
	r.EqualValues(11, ob.BestBid().TotalSize())

	r.NoError(ob.Update("abbb12", 9))
	r.True(ob.BestAsk().Price.Equal(price("200.00000")))
	r.EqualValues(9, ob.BestAsk().TotalSize())

	_, err := ob.Remove("abbb13")
	r.NoError(err)
	r.True(ob.BestBid().Price.Equal(price("150.00000")))
	r.EqualValues(6, ob.BestBid().TotalSize())

	_, err = ob.Remove("abbb14")
	r.NoError(err)
	r.True(ob.BestBid().Price.Equal(price("100.00000")))
	r.EqualValues(5, ob.BestBid().TotalSize())
}

func TestAdd_DuplicateOrderRejected(t *testing.T) {
	r := require.New(t)
	ob := NewOrderBook("AAPL")
	r.NoError(ob.Add(order("o1", SideBuy, "10", 1)))

	err := ob.Add(order("o1", SideBuy, "11", 2))
	r.ErrorIs(err, ErrDuplicateOrder)

	// the rejected add must not have mutated the book.
	r.EqualValues(1, ob.BestBid().TotalSize())
}

func TestUpdate_UnknownOrderRejected(t *testing.T) {
	r := require.New(t)
	ob := NewOrderBook("AAPL")
	err := ob.Update("ghost", 5)
	r.ErrorIs(err, ErrUnknownOrder)
}

func TestRemove_UnknownOrderRejected(t *testing.T) {
	r := require.New(t)
	ob := NewOrderBook("AAPL")
	_, err := ob.Remove("ghost")
	r.ErrorIs(err, ErrUnknownOrder)
}

// TestUpdate_ToZeroRemovesOrder resolves Open Question (a): updating a
// resting order to size zero removes it entirely.
func TestUpdate_ToZeroRemovesOrder(t *testing.T) {
	r := require.New(t)
	ob := NewOrderBook("AAPL")
	r.NoError(ob.Add(order("o1", SideBuy, "10", 5)))

	r.NoError(ob.Update("o1", 0))
	r.Nil(ob.GetOrder("o1"))
	r.Nil(ob.BestBid())

	err := ob.Update("o1", 3)
	r.ErrorIs(err, ErrUnknownOrder)
}

// TestRemove_EmptiesLevelFromTree asserts that cancelling the last
// order at a price level removes the level from the tree, not just the
// order from its list.
func TestRemove_EmptiesLevelFromTree(t *testing.T) {
	r := require.New(t)
	ob := NewOrderBook("AAPL")
	r.NoError(ob.Add(order("o1", SideBuy, "10", 5)))
	r.NoError(ob.Add(order("o2", SideBuy, "20", 5)))

	_, err := ob.Remove("o2")
	r.NoError(err)

	r.Equal(1, ob.bids.Size())
	r.True(ob.BestBid().Price.Equal(price("10")))
}

// TestFIFOWithinPriceLevel asserts time priority: orders at the same
// price are queued in arrival order.
func TestFIFOWithinPriceLevel(t *testing.T) {
	r := require.New(t)
	ob := NewOrderBook("AAPL")
	r.NoError(ob.Add(order("first", SideBuy, "10", 1)))
	r.NoError(ob.Add(order("second", SideBuy, "10", 2)))
	r.NoError(ob.Add(order("third", SideBuy, "10", 3)))

	level := ob.BestBid()
	head := level.Orders().Head()
	r.Equal("first", head.ID)
	r.Equal("second", head.next.ID)
	r.Equal("third", head.next.next.ID)
}

func TestDepthView_PadsShorterSide(t *testing.T) {
	r := require.New(t)
	ob := NewOrderBook("AAPL")
	r.NoError(ob.Add(order("b1", SideBuy, "10", 5)))
	r.NoError(ob.Add(order("b2", SideBuy, "9", 5)))
	r.NoError(ob.Add(order("s1", SideSell, "11", 7)))

	rows := ob.DepthView(5)
	r.Len(rows, 2)
	r.Equal("AAPL", rows[0].Ticker)
	r.Empty(rows[1].Ticker)
	r.True(rows[0].BidPrice.Equal(price("10")))
	r.True(rows[0].AskPrice.Equal(price("11")))
	r.True(rows[1].BidPrice.Equal(price("9")))
	r.True(rows[1].AskPrice.IsZero())
	r.EqualValues(0, rows[1].AskQty)
}

// TestDepthView_ExcludesCrossedLevels asserts spec.md §4.3's filter:
// bids at or above the best ask, and asks at or below the best bid, are
// crossed and must not appear in the ladder even though this
// non-matching book does nothing to prevent a crossed state. b2 and s1
// are the crossed aggressors (b2 prices through s1's level, and s1 in
// turn prices through b2); b1 and s2 sit outside that crossed range and
// must still surface.
func TestDepthView_ExcludesCrossedLevels(t *testing.T) {
	r := require.New(t)
	ob := NewOrderBook("AAPL")
	r.NoError(ob.Add(order("b1", SideBuy, "9", 5)))
	r.NoError(ob.Add(order("b2", SideBuy, "12", 5)))
	r.NoError(ob.Add(order("s1", SideSell, "10", 5)))
	r.NoError(ob.Add(order("s2", SideSell, "15", 5)))

	rows := ob.DepthView(10)
	for _, row := range rows {
		if !row.BidPrice.IsZero() {
			r.True(row.BidPrice.LessThan(price("10")), "crossed bid %s must be excluded", row.BidPrice)
		}
		if !row.AskPrice.IsZero() {
			r.True(row.AskPrice.GreaterThan(price("12")), "crossed ask %s must be excluded", row.AskPrice)
		}
	}
	r.Len(rows, 1)
	r.True(rows[0].BidPrice.Equal(price("9")))
	r.True(rows[0].AskPrice.Equal(price("15")))
}

// TestDepthView_NoFilterWhenOneSideEmpty asserts the "or all bids/asks
// if no ask/bid exists" clause of spec.md §4.3.
func TestDepthView_NoFilterWhenOneSideEmpty(t *testing.T) {
	r := require.New(t)
	ob := NewOrderBook("AAPL")
	r.NoError(ob.Add(order("b1", SideBuy, "10", 5)))
	r.NoError(ob.Add(order("b2", SideBuy, "9", 5)))

	rows := ob.DepthView(10)
	r.Len(rows, 2)
	r.True(rows[0].BidPrice.Equal(price("10")))
	r.True(rows[1].BidPrice.Equal(price("9")))
}

func TestDepthView_TruncatesToRequestedLevels(t *testing.T) {
	r := require.New(t)
	ob := NewOrderBook("AAPL")
	for i := int64(1); i <= 5; i++ {
		r.NoError(ob.Add(order("b"+string(rune('0'+i)), SideBuy, price("1").Add(decimal.NewFromInt(i)).String(), 1)))
	}
	rows := ob.DepthView(2)
	r.Len(rows, 2)
}
