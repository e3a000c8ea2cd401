package memory

import "testing"

func TestOrderPoolExhaustsCleanly(t *testing.T) {
	p := NewOrderPool(2)
	if _, ok := p.Get(); !ok {
		t.Fatalf("expected first Get to succeed")
	}
	if _, ok := p.Get(); !ok {
		t.Fatalf("expected second Get to succeed")
	}
	if _, ok := p.Get(); ok {
		t.Fatalf("expected third Get to fail: arena exhausted")
	}
}

func TestOrderPoolRecyclesReleasedSlots(t *testing.T) {
	p := NewOrderPool(1)
	o, ok := p.Get()
	if !ok {
		t.Fatalf("expected Get to succeed")
	}
	if _, ok := p.Get(); ok {
		t.Fatalf("expected arena to be exhausted after one Get")
	}

	p.Put(o)
	recycled, ok := p.Get()
	if !ok {
		t.Fatalf("expected Get to succeed after Put")
	}
	if recycled != o {
		t.Fatalf("expected Get to return the recycled slot")
	}
}

func TestOrderPoolOutstanding(t *testing.T) {
	p := NewOrderPool(4)
	a, _ := p.Get()
	b, _ := p.Get()
	if got := p.Outstanding(); got != 2 {
		t.Fatalf("outstanding = %d, want 2", got)
	}
	p.Put(a)
	if got := p.Outstanding(); got != 1 {
		t.Fatalf("outstanding after one Put = %d, want 1", got)
	}
	p.Put(b)
	if got := p.Capacity(); got != 4 {
		t.Fatalf("capacity = %d, want 4", got)
	}
}
