package orderbook

import "lob/infra/sequence"

// ExecutionReport describes one fill between an aggressor and a single
// passive order. Price is always the passive (resting) order's price: price
// improvement is credited to the aggressor. IsFullFill is true iff this
// report brings the aggressor's own remaining quantity to zero.
type ExecutionReport struct {
	AggressorOrderID uint64
	MatchID          uint64
	Timestamp        uint64
	Price            uint32
	ExecutedQuantity uint32
	AggressorSide    Side
	IsFullFill       bool
}

// OrderBook is the per-symbol container: two level indexes, an id->order
// map, and the counters the core requires. It is single-writer — every
// mutation of a given book, including best-pointer maintenance and match-id
// assignment, is expected to happen on one logical executor.
type OrderBook struct {
	bids *levelIndex
	asks *levelIndex

	orders map[uint64]*Order

	matchSeq *sequence.Sequencer
}

// NewOrderBook constructs an empty book.
func NewOrderBook() *OrderBook {
	return &OrderBook{
		bids:     newLevelIndex(Buy),
		asks:     newLevelIndex(Sell),
		orders:   make(map[uint64]*Order),
		matchSeq: sequence.New(0),
	}
}

// BestBid returns the highest-priced resting buy level, or nil.
func (b *OrderBook) BestBid() *PriceLevel { return b.bids.Best() }

// BestAsk returns the lowest-priced resting sell level, or nil.
func (b *OrderBook) BestAsk() *PriceLevel { return b.asks.Best() }

// Spread returns best_ask.price - best_bid.price, or 0 if either side is
// empty.
func (b *OrderBook) Spread() uint32 {
	bb, ba := b.bids.Best(), b.asks.Best()
	if bb == nil || ba == nil {
		return 0
	}
	return ba.Price - bb.Price
}

// TotalBidVolume sums TotalVolume across every resting bid level.
func (b *OrderBook) TotalBidVolume() uint64 {
	var total uint64
	b.bids.Walk(func(lvl *PriceLevel) bool {
		total += uint64(lvl.TotalVolume)
		return true
	})
	return total
}

// TotalAskVolume sums TotalVolume across every resting ask level.
func (b *OrderBook) TotalAskVolume() uint64 {
	var total uint64
	b.asks.Walk(func(lvl *PriceLevel) bool {
		total += uint64(lvl.TotalVolume)
		return true
	})
	return total
}

// OrderCount is the number of currently resting orders (the id map's size).
func (b *OrderBook) OrderCount() int { return len(b.orders) }

// MatchCount is the number of fills generated by this book so far.
func (b *OrderBook) MatchCount() uint64 { return b.matchSeq.Current() }

// Order looks up a resting order by id, for tests and diagnostics.
func (b *OrderBook) Order(id uint64) (*Order, bool) {
	o, ok := b.orders[id]
	return o, ok
}

// BidLevels walks resting bid levels best-to-worst.
func (b *OrderBook) BidLevels(fn func(*PriceLevel) bool) { b.bids.Walk(fn) }

// AskLevels walks resting ask levels best-to-worst.
func (b *OrderBook) AskLevels(fn func(*PriceLevel) bool) { b.asks.Walk(fn) }

// Submit is the book-level entry point for an incoming order. A
// zero-quantity order is a no-op. If the order crosses the book it matches
// first; a LIMIT order with quantity remaining afterwards rests, a MARKET
// order or a fully-filled order does not. Reports are returned in the order
// the fills occurred. released holds every passive order fully filled
// during the match, in fill order, so the caller can return their slots
// to whatever pool it allocated them from.
func (b *OrderBook) Submit(o *Order) (reports []ExecutionReport, released []*Order) {
	if o.RemainingQty == 0 {
		return nil, nil
	}

	if b.crosses(o) {
		reports, released = b.match(o)
	}
	if o.Type == Limit && o.RemainingQty > 0 {
		b.rest(o)
	}
	return reports, released
}

// crosses reports whether o is aggressive: MARKET always is; LIMIT is iff
// its price crosses the opposite side's best.
func (b *OrderBook) crosses(o *Order) bool {
	if o.Type == Market {
		return true
	}
	if o.Side == Buy {
		ba := b.asks.Best()
		return ba != nil && o.Price >= ba.Price
	}
	bb := b.bids.Best()
	return bb != nil && o.Price <= bb.Price
}

// match walks the contra side from best price outward, filling agg against
// resting orders head-first within each level, until agg is filled, the
// contra side is exhausted, or (for LIMIT) the next contra level no longer
// crosses.
func (b *OrderBook) match(agg *Order) (reports []ExecutionReport, released []*Order) {
	contraIndex := b.asks
	if agg.Side == Sell {
		contraIndex = b.bids
	}

	for agg.RemainingQty > 0 {
		contra := contraIndex.Best()
		if contra == nil {
			break
		}
		if agg.Type == Limit {
			if agg.Side == Buy && agg.Price < contra.Price {
				break
			}
			if agg.Side == Sell && agg.Price > contra.Price {
				break
			}
		}

		for agg.RemainingQty > 0 {
			passive := contra.Head()
			if passive == nil {
				break
			}

			qty := agg.RemainingQty
			if passive.RemainingQty < qty {
				qty = passive.RemainingQty
			}

			agg.RemainingQty -= qty
			passive.RemainingQty -= qty
			contra.TotalVolume -= qty

			reports = append(reports, ExecutionReport{
				AggressorOrderID: agg.ID,
				MatchID:          b.matchSeq.Next(),
				Timestamp:        agg.Timestamp,
				Price:            contra.Price,
				ExecutedQuantity: qty,
				AggressorSide:    agg.Side,
				IsFullFill:       agg.RemainingQty == 0,
			})

			if passive.RemainingQty == 0 {
				contra.remove(passive)
				delete(b.orders, passive.ID)
				released = append(released, passive)
			}
		}

		if contra.OrderCount == 0 {
			contraIndex.Remove(contra.Price)
		}
	}

	return reports, released
}

func (b *OrderBook) rest(o *Order) {
	idx := b.bids
	if o.Side == Sell {
		idx = b.asks
	}
	idx.GetOrCreate(o.Price).Enqueue(o)
	b.orders[o.ID] = o
}

// Cancel removes a resting order by id. Unknown ids are a no-op.
func (b *OrderBook) Cancel(id uint64) bool {
	o, ok := b.orders[id]
	if !ok {
		return false
	}
	return b.cancelOrder(o)
}

func (b *OrderBook) cancelOrder(o *Order) bool {
	lvl := o.level
	idx := b.bids
	if o.Side == Sell {
		idx = b.asks
	}
	lvl.remove(o)
	delete(b.orders, o.ID)
	if lvl.Empty() {
		idx.Remove(lvl.Price)
	}
	return true
}

// Modify changes a resting order's quantity in place, preserving FIFO
// position. Unknown ids are a no-op. A new quantity of zero is
// treated as a cancel.
func (b *OrderBook) Modify(id uint64, newQty uint32) bool {
	o, ok := b.orders[id]
	if !ok {
		return false
	}
	if newQty == 0 {
		return b.cancelOrder(o)
	}
	delta := int64(newQty) - int64(o.RemainingQty)
	o.level.adjustVolume(delta)
	o.RemainingQty = newQty
	if newQty > o.OriginalQty {
		o.OriginalQty = newQty
	}
	return true
}
