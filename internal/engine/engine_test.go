package engine

import (
	"testing"

	"lob/domain/orderbook"
	"lob/internal/config"
)

func testEngine(t *testing.T) *MatchingEngine {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.OrderPoolSize = 8
	return New(cfg)
}

func TestSubmitOrderCreatesBookLazily(t *testing.T) {
	e := testEngine(t)
	if e.GetBook("AAPL") != nil {
		t.Fatalf("expected no book before first submission")
	}
	if !e.SubmitOrder("AAPL", 1, 1, 100000, 10, orderbook.Buy, orderbook.Limit) {
		t.Fatalf("expected submission to succeed")
	}
	if e.GetBook("AAPL") == nil {
		t.Fatalf("expected book to exist after first submission")
	}
	if e.TotalOrders() != 1 {
		t.Fatalf("total_orders = %d, want 1", e.TotalOrders())
	}
}

func TestSubmitOrderMatchesAndPublishesReports(t *testing.T) {
	e := testEngine(t)
	e.SubmitOrder("AAPL", 1, 1, 100000, 10, orderbook.Sell, orderbook.Limit)
	e.SubmitOrder("AAPL", 2, 2, 100000, 10, orderbook.Buy, orderbook.Limit)

	if e.TotalMatches() != 1 {
		t.Fatalf("total_matches = %d, want 1", e.TotalMatches())
	}
	report, ok := e.PopExecutionReport()
	if !ok || report.AggressorOrderID != 2 || report.ExecutedQuantity != 10 {
		t.Fatalf("unexpected report: %+v ok=%v", report, ok)
	}
}

func TestSubmitOrderFailsCleanlyWhenPoolExhausted(t *testing.T) {
	e := testEngine(t)
	for i := uint64(1); i <= 8; i++ {
		if !e.SubmitOrder("AAPL", i, i, 100000-uint32(i), 1, orderbook.Buy, orderbook.Limit) {
			t.Fatalf("expected submission %d to succeed", i)
		}
	}
	if e.SubmitOrder("AAPL", 9, 9, 99990, 1, orderbook.Buy, orderbook.Limit) {
		t.Fatalf("expected 9th submission to fail: pool exhausted")
	}
	if e.PoolExhaustedCount() != 1 {
		t.Fatalf("pool_exhausted_total = %d, want 1", e.PoolExhaustedCount())
	}
}

func TestCancelAndModifyUnknownAreNoops(t *testing.T) {
	e := testEngine(t)
	if e.CancelOrder("AAPL", 999) {
		t.Fatalf("expected cancel of unknown id to be a no-op")
	}
	if e.ModifyOrder("AAPL", 999, 5) {
		t.Fatalf("expected modify of unknown id to be a no-op")
	}
	if e.CancelOrder("UNKNOWN", 1) {
		t.Fatalf("expected cancel on unknown symbol to be a no-op")
	}
}

func TestFullyFilledPassiveOrderRecyclesPoolSlot(t *testing.T) {
	e := testEngine(t)
	// Rest a passive order, then fully fill it as a contra each round so its
	// slot returns to the pool instead of quietly retiring the arena.
	for i := uint64(1); i <= 8; i++ {
		if !e.SubmitOrder("AAPL", 2*i-1, 2*i-1, 100000, 1, orderbook.Sell, orderbook.Limit) {
			t.Fatalf("rest %d: expected submission to succeed", i)
		}
		if !e.SubmitOrder("AAPL", 2*i, 2*i, 100000, 1, orderbook.Buy, orderbook.Limit) {
			t.Fatalf("fill %d: expected submission to succeed", i)
		}
	}
	if e.PoolExhaustedCount() != 0 {
		t.Fatalf("pool_exhausted_total = %d, want 0: passive fills must recycle", e.PoolExhaustedCount())
	}
}

func TestCancelOrderRecyclesPoolSlot(t *testing.T) {
	e := testEngine(t)
	e.SubmitOrder("AAPL", 1, 1, 100000, 10, orderbook.Buy, orderbook.Limit)
	if !e.CancelOrder("AAPL", 1) {
		t.Fatalf("expected cancel to succeed")
	}

	for i := uint64(2); i <= 9; i++ {
		if !e.SubmitOrder("AAPL", i, i, 100000-uint32(i), 1, orderbook.Buy, orderbook.Limit) {
			t.Fatalf("expected submission %d to succeed after recycling", i)
		}
	}
}
