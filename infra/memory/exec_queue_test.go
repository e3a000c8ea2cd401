package memory

import (
	"lob/domain/orderbook"
	"testing"
)

func TestExecutionQueueFIFO(t *testing.T) {
	q := NewExecutionQueue(4)
	for i := uint64(1); i <= 3; i++ {
		if !q.Push(orderbook.ExecutionReport{MatchID: i}) {
			t.Fatalf("expected Push(%d) to succeed", i)
		}
	}
	for i := uint64(1); i <= 3; i++ {
		r, ok := q.Pop()
		if !ok || r.MatchID != i {
			t.Fatalf("expected MatchID=%d, got %+v ok=%v", i, r, ok)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatalf("expected Pop on empty queue to fail")
	}
}

func TestExecutionQueueRoundsCapacityToPowerOfTwo(t *testing.T) {
	q := NewExecutionQueue(5)
	if got := q.Capacity(); got != 8 {
		t.Fatalf("capacity = %d, want 8", got)
	}
}

func TestExecutionQueueRejectsPushWhenFull(t *testing.T) {
	q := NewExecutionQueue(2)
	if !q.Push(orderbook.ExecutionReport{MatchID: 1}) {
		t.Fatalf("expected first push to succeed")
	}
	if !q.Push(orderbook.ExecutionReport{MatchID: 2}) {
		t.Fatalf("expected second push to succeed")
	}
	if q.Push(orderbook.ExecutionReport{MatchID: 3}) {
		t.Fatalf("expected push to fail once full")
	}
	if got := q.Len(); got != 2 {
		t.Fatalf("len = %d, want 2", got)
	}
}
