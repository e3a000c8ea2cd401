// Package metrics exposes the engine's counters as
// Prometheus collectors, served over HTTP by cmd/engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors holds every metric the engine reports. Registering it against
// a *prometheus.Registry wires these gauges/counters to the /metrics
// endpoint cmd/engine serves.
type Collectors struct {
	TotalOrders        prometheus.Counter
	TotalMatches       prometheus.Counter
	PoolExhaustedTotal prometheus.Counter
	QueueFullTotal     prometheus.Counter
	BestBid            *prometheus.GaugeVec
	BestAsk            *prometheus.GaugeVec
}

// NewCollectors registers every collector against reg and returns the
// bundle engine pollers update.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)
	return &Collectors{
		TotalOrders: factory.NewCounter(prometheus.CounterOpts{
			Name: "lob_total_orders",
			Help: "Orders successfully allocated from the order pool across all symbols.",
		}),
		TotalMatches: factory.NewCounter(prometheus.CounterOpts{
			Name: "lob_total_matches",
			Help: "Execution reports successfully pushed onto the execution queue.",
		}),
		PoolExhaustedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "lob_pool_exhausted_total",
			Help: "Submissions rejected because the order pool had no free slot.",
		}),
		QueueFullTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "lob_queue_full_total",
			Help: "Execution reports dropped because the execution queue was full.",
		}),
		BestBid: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lob_best_bid_price_ticks",
			Help: "Best bid price in ticks, per symbol.",
		}, []string{"symbol"}),
		BestAsk: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lob_best_ask_price_ticks",
			Help: "Best ask price in ticks, per symbol.",
		}, []string{"symbol"}),
	}
}
