package orderbook

import "testing"

func TestLevelIndexBestTracksExtremes(t *testing.T) {
	bids := newLevelIndex(Buy)
	for _, p := range []uint32{100, 300, 200} {
		bids.GetOrCreate(p)
	}
	if got := bids.Best().Price; got != 300 {
		t.Fatalf("best bid = %d, want 300", got)
	}

	asks := newLevelIndex(Sell)
	for _, p := range []uint32{100, 300, 200} {
		asks.GetOrCreate(p)
	}
	if got := asks.Best().Price; got != 100 {
		t.Fatalf("best ask = %d, want 100", got)
	}
}

func TestLevelIndexRemoveRederivesBest(t *testing.T) {
	bids := newLevelIndex(Buy)
	bids.GetOrCreate(100)
	bids.GetOrCreate(300)
	bids.GetOrCreate(200)

	bids.Remove(300)
	if got := bids.Best().Price; got != 200 {
		t.Fatalf("best bid after removing top = %d, want 200", got)
	}

	bids.Remove(200)
	bids.Remove(100)
	if bids.Best() != nil {
		t.Fatalf("expected nil best on empty side")
	}
}

func TestLevelIndexWalkOrder(t *testing.T) {
	bids := newLevelIndex(Buy)
	for _, p := range []uint32{100, 300, 200} {
		bids.GetOrCreate(p)
	}
	var got []uint32
	bids.Walk(func(lvl *PriceLevel) bool {
		got = append(got, lvl.Price)
		return true
	})
	want := []uint32{300, 200, 100}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	asks := newLevelIndex(Sell)
	for _, p := range []uint32{100, 300, 200} {
		asks.GetOrCreate(p)
	}
	got = nil
	asks.Walk(func(lvl *PriceLevel) bool {
		got = append(got, lvl.Price)
		return true
	})
	want = []uint32{100, 200, 300}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ask walk got %v, want %v", got, want)
		}
	}
}

func TestRBTreeDeleteAndReinsert(t *testing.T) {
	tree := newRBTree()
	prices := []uint32{50, 30, 70, 20, 40, 60, 80, 10, 90, 35}
	for _, p := range prices {
		tree.upsert(p)
	}
	if tree.Size() != len(prices) {
		t.Fatalf("size = %d, want %d", tree.Size(), len(prices))
	}

	for _, p := range []uint32{50, 10, 90, 35} {
		if !tree.delete(p) {
			t.Fatalf("expected delete(%d) to succeed", p)
		}
	}
	if tree.delete(50) {
		t.Fatalf("expected second delete(50) to be a no-op")
	}

	var ascending []uint32
	tree.forEachAscending(func(lvl *PriceLevel) bool {
		ascending = append(ascending, lvl.Price)
		return true
	})
	for i := 1; i < len(ascending); i++ {
		if ascending[i] <= ascending[i-1] {
			t.Fatalf("ascending walk out of order: %v", ascending)
		}
	}
	if len(ascending) != len(prices)-4 {
		t.Fatalf("expected %d levels remaining, got %d", len(prices)-4, len(ascending))
	}

	tree.upsert(35)
	if lvl := tree.find(35); lvl == nil {
		t.Fatalf("expected to find re-inserted level at 35")
	}
}
