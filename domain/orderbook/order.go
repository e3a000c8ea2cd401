// Package orderbook implements the per-symbol price-time-priority book:
// intrusive FIFO price levels, a red-black level index per side, and the
// continuous matching algorithm that walks resting liquidity against an
// incoming order.
package orderbook

// Side identifies which side of the book an order belongs to.
type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "SELL"
	}
	return "BUY"
}

// OrderType distinguishes a resting limit order from an immediate-or-nothing
// market order. MARKET orders never rest (see OrderBook.Submit).
type OrderType uint8

const (
	Limit OrderType = iota
	Market
)

func (t OrderType) String() string {
	if t == Market {
		return "MARKET"
	}
	return "LIMIT"
}

// Order is the value object for a resting or incoming order. Price is in
// integer ticks (fixed-point); Timestamp is producer-supplied and monotone
// within a symbol, not globally. A resting order's next/prev/level fields
// are its intrusive FIFO linkage within exactly one PriceLevel.
type Order struct {
	ID           uint64
	Timestamp    uint64
	Price        uint32
	OriginalQty  uint32
	RemainingQty uint32
	Side         Side
	Type         OrderType

	level *PriceLevel
	next  *Order
	prev  *Order
}

// Reset (re)populates an order in place. Used both by NewOrder and by the
// order pool, which hands out zero-valued slots that the caller fills.
func (o *Order) Reset(id, timestamp uint64, price, qty uint32, side Side, typ OrderType) {
	o.ID = id
	o.Timestamp = timestamp
	o.Price = price
	o.OriginalQty = qty
	o.RemainingQty = qty
	o.Side = side
	o.Type = typ
	o.level = nil
	o.next = nil
	o.prev = nil
}

// NewOrder constructs a standalone order, for tests and direct library use.
func NewOrder(id, timestamp uint64, price, qty uint32, side Side, typ OrderType) *Order {
	o := &Order{}
	o.Reset(id, timestamp, price, qty, side, typ)
	return o
}

// Remaining returns the order's remaining (unfilled) quantity.
func (o *Order) Remaining() uint32 { return o.RemainingQty }

// Resting reports whether the order currently sits in a price level's FIFO.
func (o *Order) Resting() bool { return o.level != nil }

// Level returns the price level the order currently rests in, or nil.
func (o *Order) Level() *PriceLevel { return o.level }

// Next returns the next-arrived order at the same level, or nil.
func (o *Order) Next() *Order { return o.next }
