package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowDrainsBurst(t *testing.T) {
	l := New(3, 0.001) // refill too slow to matter here

	for i := 0; i < 3; i++ {
		if !l.Allow() {
			t.Fatalf("burst token %d denied", i)
		}
	}
	if l.Allow() {
		t.Fatalf("expected empty bucket")
	}
}

func TestRefill(t *testing.T) {
	l := New(1, 1000)
	if !l.Allow() {
		t.Fatalf("initial token denied")
	}

	time.Sleep(5 * time.Millisecond)
	if !l.Allow() {
		t.Fatalf("bucket did not refill")
	}
}

func TestWaitHonorsContext(t *testing.T) {
	l := New(1, 0.001)
	if !l.Allow() {
		t.Fatalf("initial token denied")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err == nil {
		t.Fatalf("expected context deadline")
	}
}
