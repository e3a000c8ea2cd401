package metrics

import (
	"context"
	"time"

	"lob/internal/engine"
)

// Poller periodically reconciles an engine's cumulative counters and
// per-symbol best bid/ask into a Collectors bundle. Prometheus counters
// only support Add, so the poller tracks the last-seen cumulative value and
// adds the delta each tick.
type Poller struct {
	eng        *engine.MatchingEngine
	collectors *Collectors
	symbols    []string

	lastOrders   uint64
	lastMatches  uint64
	lastPoolExh  uint64
	lastQueueFul uint64
}

// NewPoller builds a poller over the given symbols' books.
func NewPoller(eng *engine.MatchingEngine, collectors *Collectors, symbols []string) *Poller {
	return &Poller{eng: eng, collectors: collectors, symbols: symbols}
}

// Run reconciles every interval until ctx is cancelled.
func (p *Poller) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

func (p *Poller) tick() {
	p.addDelta(&p.lastOrders, p.eng.TotalOrders(), p.collectors.TotalOrders)
	p.addDelta(&p.lastMatches, p.eng.TotalMatches(), p.collectors.TotalMatches)
	p.addDelta(&p.lastPoolExh, p.eng.PoolExhaustedCount(), p.collectors.PoolExhaustedTotal)
	p.addDelta(&p.lastQueueFul, p.eng.QueueFullCount(), p.collectors.QueueFullTotal)

	for _, symbol := range p.symbols {
		book := p.eng.GetBook(symbol)
		if book == nil {
			continue
		}
		if bb := book.BestBid(); bb != nil {
			p.collectors.BestBid.WithLabelValues(symbol).Set(float64(bb.Price))
		}
		if ba := book.BestAsk(); ba != nil {
			p.collectors.BestAsk.WithLabelValues(symbol).Set(float64(ba.Price))
		}
	}
}

type counterAdder interface {
	Add(float64)
}

func (p *Poller) addDelta(last *uint64, current uint64, c counterAdder) {
	if current > *last {
		c.Add(float64(current - *last))
		*last = current
	}
}
