package orderbook

// levelIndex is the ordered, per-side index over price levels: a red-black
// tree for O(log n) lookup/insert/delete, plus a cached best pointer so the
// hot path (best_bid/best_ask, and the start of every match) is O(1). The
// best pointer is updated incrementally on insert, and re-derived by a
// single min/max tree descent when the best level itself is removed.
type levelIndex struct {
	tree *rbTree
	best *PriceLevel
	side Side // Buy: best is the maximum price. Sell: best is the minimum.
}

func newLevelIndex(side Side) *levelIndex {
	return &levelIndex{tree: newRBTree(), side: side}
}

// Best returns the top-of-book level for this side, or nil if empty.
func (l *levelIndex) Best() *PriceLevel { return l.best }

// Find returns the level at price, or nil.
func (l *levelIndex) Find(price uint32) *PriceLevel { return l.tree.find(price) }

// GetOrCreate returns the level at price, creating an empty one (and
// possibly updating the best pointer) if absent.
func (l *levelIndex) GetOrCreate(price uint32) *PriceLevel {
	lvl := l.tree.upsert(price)
	l.considerForBest(lvl)
	return lvl
}

func (l *levelIndex) considerForBest(lvl *PriceLevel) {
	if l.best == nil {
		l.best = lvl
		return
	}
	if l.side == Buy && lvl.Price > l.best.Price {
		l.best = lvl
	} else if l.side == Sell && lvl.Price < l.best.Price {
		l.best = lvl
	}
}

// Remove deletes the (assumed empty) level at price from the index. If it
// was the best level, the best pointer is re-derived from the tree's new
// extreme, or nil if the side is now empty.
func (l *levelIndex) Remove(price uint32) {
	wasBest := l.best != nil && l.best.Price == price
	l.tree.delete(price)
	if !wasBest {
		return
	}
	if l.side == Buy {
		l.best = l.tree.max()
	} else {
		l.best = l.tree.min()
	}
}

// Walk visits levels in price-time priority order for this side: best to
// worst (descending for bids, ascending for asks). fn returning false stops
// the walk early.
func (l *levelIndex) Walk(fn func(*PriceLevel) bool) {
	if l.side == Buy {
		l.tree.forEachDescending(fn)
	} else {
		l.tree.forEachAscending(fn)
	}
}

// Size returns the number of distinct price levels on this side.
func (l *levelIndex) Size() int { return l.tree.Size() }
