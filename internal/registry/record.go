package registry

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rishavpaul/limitbook/internal/book"
)

// action identifies what a parsed record asks the registry to do.
type action uint8

const (
	actionAdd action = iota
	actionUpdate
	actionCancel
)

// record is one parsed input line: timestamp|order_id|action|...
type record struct {
	timestamp string
	orderID   string
	action    action

	ticker string
	side   book.Side
	price  decimal.Decimal
	size   int64
}

// parseRecord parses a pipe-delimited input line into a record. It
// returns book.ErrMalformedRecord (wrapped with the offending reason)
// for any line that cannot be turned into a valid action.
func parseRecord(line string) (record, error) {
	fields := strings.Split(line, "|")
	if len(fields) < 3 {
		return record{}, book.ErrMalformedRecord.Wrapf("expected at least 3 fields, got %d", len(fields))
	}

	rec := record{
		timestamp: fields[0],
		orderID:   fields[1],
	}
	if rec.orderID == "" {
		return record{}, book.ErrMalformedRecord.Wrapf("empty order id")
	}

	switch fields[2] {
	case "a":
		if len(fields) != 7 {
			return record{}, book.ErrMalformedRecord.Wrapf("add record expects 7 fields, got %d", len(fields))
		}
		rec.action = actionAdd
		rec.ticker = fields[3]
		if rec.ticker == "" {
			return record{}, book.ErrMalformedRecord.Wrapf("empty ticker")
		}
		switch fields[4] {
		case "B", "b":
			rec.side = book.SideBuy
		case "S", "s":
			rec.side = book.SideSell
		default:
			return record{}, book.ErrMalformedRecord.Wrapf("side must be B or S, got %q", fields[4])
		}
		price, err := decimal.NewFromString(fields[5])
		if err != nil || price.IsNegative() {
			return record{}, book.ErrMalformedRecord.Wrapf("invalid price %q", fields[5])
		}
		rec.price = price
		size, err := strconv.ParseInt(fields[6], 10, 64)
		if err != nil || size < 0 {
			return record{}, book.ErrMalformedRecord.Wrapf("invalid size %q", fields[6])
		}
		rec.size = size

	case "u":
		if len(fields) != 4 {
			return record{}, book.ErrMalformedRecord.Wrapf("update record expects 4 fields, got %d", len(fields))
		}
		rec.action = actionUpdate
		size, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil || size < 0 {
			return record{}, book.ErrMalformedRecord.Wrapf("invalid size %q", fields[3])
		}
		rec.size = size

	case "c":
		if len(fields) != 3 {
			return record{}, book.ErrMalformedRecord.Wrapf("cancel record expects 3 fields, got %d", len(fields))
		}
		rec.action = actionCancel

	default:
		return record{}, book.ErrMalformedRecord.Wrapf("unknown action %q", fields[2])
	}

	return rec, nil
}
