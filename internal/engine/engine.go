// Package engine wires the per-symbol order books together into the single
// write entry point a driver talks to: a symbol directory, the order pool,
// and the execution queue.
package engine

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"

	"lob/domain/orderbook"
	"lob/infra/memory"
	"lob/internal/config"
)

// logEvery throttles the advisory diagnostics below: with EnableLogging set,
// the first occurrence of each condition logs immediately and every
// logEvery'th one after that, instead of flooding the log on sustained
// backpressure.
const logEvery = 1000

// MatchingEngine owns the symbol->OrderBook directory, the OrderPool, and
// the SPSC execution queue. The pool's free list and the execution queue
// are single-producer rings shared by every symbol, so all write methods
// must be called from one logical executor; the directory mutex below only
// protects the (rare) create-book-on-first-sight path, never a book's own
// hot path.
type MatchingEngine struct {
	cfg config.EngineConfig

	mu    sync.RWMutex
	books map[string]*orderbook.OrderBook

	pool      *memory.OrderPool
	execQueue *memory.ExecutionQueue

	totalOrders  atomic.Uint64
	totalMatches atomic.Uint64
	queueFull    atomic.Uint64
	poolExhaust  atomic.Uint64
	running      atomic.Bool
}

// New wires a MatchingEngine from cfg. The directory starts with cfg.NumSymbols
// of preallocated capacity as a hint; books are still created lazily on
// first sight of a symbol.
func New(cfg config.EngineConfig) *MatchingEngine {
	return &MatchingEngine{
		cfg:       cfg,
		books:     make(map[string]*orderbook.OrderBook, cfg.NumSymbols),
		pool:      memory.NewOrderPool(cfg.OrderPoolSize),
		execQueue: memory.NewExecutionQueue(1024),
	}
}

// Start/Stop/IsRunning toggle an advisory flag; the minimal
// core does not gate book mutations on it.
func (e *MatchingEngine) Start() { e.running.Store(true) }
func (e *MatchingEngine) Stop()  { e.running.Store(false) }
func (e *MatchingEngine) IsRunning() bool { return e.running.Load() }

// TotalOrders is the count of successful pool allocations across every
// symbol.
func (e *MatchingEngine) TotalOrders() uint64 { return e.totalOrders.Load() }

// TotalMatches is the count of execution reports successfully pushed onto
// the queue.
func (e *MatchingEngine) TotalMatches() uint64 { return e.totalMatches.Load() }

// QueueFullCount is the number of reports dropped because the execution
// queue was full when pushed.
func (e *MatchingEngine) QueueFullCount() uint64 { return e.queueFull.Load() }

// PoolExhaustedCount is the number of submissions rejected because the
// order pool had no free slot.
func (e *MatchingEngine) PoolExhaustedCount() uint64 { return e.poolExhaust.Load() }

// GetBook returns the book for symbol, or nil if it has never been seen.
// Unlike SubmitOrder it never creates one.
func (e *MatchingEngine) GetBook(symbol string) *orderbook.OrderBook {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.books[symbol]
}

func (e *MatchingEngine) bookFor(symbol string) *orderbook.OrderBook {
	e.mu.RLock()
	b, ok := e.books[symbol]
	e.mu.RUnlock()
	if ok {
		return b
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok := e.books[symbol]; ok {
		return b
	}
	b = orderbook.NewOrderBook()
	e.books[symbol] = b
	return b
}

// SubmitOrder allocates a slot, matches it against the book, and rests any
// remainder. It returns false only
// when the order pool is exhausted; any other outcome (no-fill, partial
// fill, full fill, rest) is a normal successful submission.
func (e *MatchingEngine) SubmitOrder(
	symbol string,
	id, timestampNs uint64,
	priceTicks, quantity uint32,
	side orderbook.Side,
	typ orderbook.OrderType,
) bool {
	book := e.bookFor(symbol)

	o, ok := e.pool.Get()
	if !ok {
		n := e.poolExhaust.Add(1)
		if e.cfg.EnableLogging && (n == 1 || n%logEvery == 0) {
			log.Printf("engine: order pool exhausted (symbol=%s, count=%d)", symbol, n)
		}
		return false
	}
	o.Reset(id, timestampNs, priceTicks, quantity, side, typ)

	reports, released := book.Submit(o)
	for _, r := range reports {
		if e.execQueue.Push(r) {
			e.totalMatches.Add(1)
		} else {
			n := e.queueFull.Add(1)
			if e.cfg.EnableLogging && (n == 1 || n%logEvery == 0) {
				log.Printf("engine: execution queue full, dropping report (symbol=%s, count=%d)", symbol, n)
			}
		}
	}
	for _, passive := range released {
		e.pool.Put(passive)
	}

	if !o.Resting() {
		e.pool.Put(o)
	}

	e.totalOrders.Add(1)
	return true
}

// CancelOrder dispatches to the named book; an unknown symbol or id is a
// no-op, reported as false.
func (e *MatchingEngine) CancelOrder(symbol string, id uint64) bool {
	book := e.GetBook(symbol)
	if book == nil {
		return false
	}
	o, ok := book.Order(id)
	if !ok {
		return false
	}
	if !book.Cancel(id) {
		return false
	}
	e.pool.Put(o)
	return true
}

// ModifyOrder dispatches to the named book; an unknown symbol or id is a
// no-op, reported as false.
func (e *MatchingEngine) ModifyOrder(symbol string, id uint64, newQuantity uint32) bool {
	book := e.GetBook(symbol)
	if book == nil {
		return false
	}
	o, wasResting := book.Order(id)
	ok := book.Modify(id, newQuantity)
	if ok && wasResting && newQuantity == 0 {
		e.pool.Put(o)
	}
	return ok
}

// PopExecutionReport drains one report from the execution queue, for the
// single external consumer.
func (e *MatchingEngine) PopExecutionReport() (orderbook.ExecutionReport, bool) {
	return e.execQueue.Pop()
}

// ErrUnknownSymbol is a typed error for callers that need one instead of
// GetBook's nil-means-absent convention. No function in this package
// returns it.
var ErrUnknownSymbol = errors.New("engine: unknown symbol")
