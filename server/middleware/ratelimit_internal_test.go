package middleware

import (
	"testing"
	"time"
)

func TestBucketsRefillAndSweep(t *testing.T) {
	b := newBuckets(60)
	start := time.Now()

	for i := 0; i < 60; i++ {
		if wait := b.take("a", start); wait != 0 {
			t.Fatalf("request %d within burst was limited for %v", i, wait)
		}
	}
	wait := b.take("a", start)
	if wait <= 0 || wait > time.Second {
		t.Fatalf("expected a wait of at most one second, got %v", wait)
	}
	if wait := b.take("a", start.Add(time.Second)); wait != 0 {
		t.Errorf("expected a token after one second, got wait %v", wait)
	}

	b.take("b", start)
	b.sweep(start.Add(2 * time.Minute))
	if len(b.limiters) != 0 {
		t.Errorf("expected refilled buckets to be dropped, got %d", len(b.limiters))
	}
}
