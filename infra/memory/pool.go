package memory

import (
	"sync/atomic"

	"lob/domain/orderbook"
)

// OrderPool is a fixed-capacity arena of orderbook.Order slots. Slots are
// handed out monotonically via an atomic fetch-add cursor; once the arena
// is exhausted, Get fails cleanly rather than allocating. The cursor is
// atomic (rather than a plain counter) so the design extends to
// multi-producer submission without a rewrite, even though the engine's
// single-executor-per-book contract makes that relaxed today.
//
// Slots released by a full fill (aggressor or passive) or an explicit
// cancel/modify-to-zero are pushed onto a free list instead of being
// discarded, so steady-state operation does not exhaust the arena purely
// from churn.
type OrderPool struct {
	arena []orderbook.Order
	next  atomic.Uint64
	free  *freeList
}

// NewOrderPool pre-sizes an arena of capacity slots.
func NewOrderPool(capacity int) *OrderPool {
	return &OrderPool{
		arena: make([]orderbook.Order, capacity),
		free:  newFreeList(capacity),
	}
}

// Get hands out a slot: a previously-released one if the free list has any,
// otherwise the next unused arena slot. ok is false if the arena is
// exhausted and the free list is empty — the caller must fail the
// submission without retrying.
func (p *OrderPool) Get() (o *orderbook.Order, ok bool) {
	if o := p.free.pop(); o != nil {
		return o, true
	}
	idx := p.next.Add(1) - 1
	if idx >= uint64(len(p.arena)) {
		return nil, false
	}
	return &p.arena[idx], true
}

// Put releases a slot back to the pool once its order is fully filled or
// cancelled. Put never blocks; if the free list is momentarily full the
// slot is simply not recycled (it stays permanently retired, which only
// tightens the arena's effective capacity — it never corrupts state).
func (p *OrderPool) Put(o *orderbook.Order) {
	p.free.push(o)
}

// Capacity returns the arena's fixed size.
func (p *OrderPool) Capacity() int { return len(p.arena) }

// Outstanding estimates the number of slots currently handed out and not
// yet recycled. Advisory only: under concurrent access it may be briefly
// stale.
func (p *OrderPool) Outstanding() int {
	issued := int(p.next.Load())
	if issued > len(p.arena) {
		// Failed Gets past exhaustion still advance the cursor.
		issued = len(p.arena)
	}
	return issued - p.free.len()
}
