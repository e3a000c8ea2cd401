package memory

import (
	"sync/atomic"

	"lob/domain/orderbook"
)

// freeList is a lock-free SPSC ring of released order slots, the same
// head/tail-with-padding layout as ExecutionQueue but specialized to
// *orderbook.Order so OrderPool.Get never has to type-assert on its hot
// path. Capacity is rounded up to the next power of two.
type freeList struct {
	head  uint64
	_pad1 [56]byte
	tail  uint64
	_pad2 [56]byte
	buf   []*orderbook.Order
	mask  uint64
}

func newFreeList(capacity int) *freeList {
	size := uint64(1)
	for size < uint64(capacity) {
		size <<= 1
	}
	return &freeList{
		buf:  make([]*orderbook.Order, size),
		mask: size - 1,
	}
}

// push retires a slot. If the ring is momentarily full the slot is dropped
// silently: OrderPool.Put documents that a dropped slot just stays retired.
func (f *freeList) push(o *orderbook.Order) {
	h := f.head
	t := atomic.LoadUint64(&f.tail)
	if h-t == uint64(len(f.buf)) {
		return
	}
	f.buf[h&f.mask] = o
	atomic.StoreUint64(&f.head, h+1)
}

// pop returns a previously-released slot, or nil if none are available.
func (f *freeList) pop() *orderbook.Order {
	t := f.tail
	h := atomic.LoadUint64(&f.head)
	if t == h {
		return nil
	}
	o := f.buf[t&f.mask]
	f.buf[t&f.mask] = nil
	atomic.StoreUint64(&f.tail, t+1)
	return o
}

// len reports the number of slots currently awaiting reuse.
func (f *freeList) len() int {
	h := atomic.LoadUint64(&f.head)
	t := atomic.LoadUint64(&f.tail)
	return int(h - t)
}
