package resilience

import (
	"context"
	"testing"
	"time"
)

func TestPacer_SpacesCalls(t *testing.T) {
	p := NewPacer(10*time.Millisecond, 0)

	started := time.Now()
	for i := 0; i < 3; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("wait failed: %v", err)
		}
	}

	// First call is immediate, the next two are spaced by the interval.
	if elapsed := time.Since(started); elapsed < 20*time.Millisecond {
		t.Fatalf("expected at least 20ms of pacing, got %s", elapsed)
	}
}

func TestPacer_NilAndZeroAreNoops(t *testing.T) {
	var p *Pacer
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("nil pacer wait: %v", err)
	}

	zero := NewPacer(0, 0)
	started := time.Now()
	for i := 0; i < 100; i++ {
		if err := zero.Wait(context.Background()); err != nil {
			t.Fatalf("zero pacer wait: %v", err)
		}
	}
	if elapsed := time.Since(started); elapsed > 100*time.Millisecond {
		t.Fatalf("zero pacer should not block, took %s", elapsed)
	}
}

func TestPacer_CancelledContext(t *testing.T) {
	p := NewPacer(time.Second, 0)
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Wait(ctx); err == nil {
		t.Fatal("expected context error on cancelled wait")
	}
}
