package ratelimit

import (
	"context"
	"testing"
	"time"
)

// waitQuick reports whether Wait returns a token within a short deadline
func waitQuick(p *Pacer) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	return p.Wait(ctx) == nil
}

func TestPacerBurst(t *testing.T) {
	p := NewPacer(60, 3)

	for i := 0; i < 3; i++ {
		if !waitQuick(p) {
			t.Errorf("Expected request %d to proceed within burst", i+1)
		}
	}

	if waitQuick(p) {
		t.Error("Expected request to wait once the burst is spent")
	}
}

func TestPacerWaitHonoursContext(t *testing.T) {
	p := NewPacer(1, 1)
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("First Wait returned %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := p.Wait(ctx); err == nil {
		t.Error("Expected Wait to fail when the next token is further away than the deadline")
	}
}

func TestPacerZeroRateIsUnlimited(t *testing.T) {
	p := NewPacer(0, 1)
	for i := 0; i < 100; i++ {
		if !waitQuick(p) {
			t.Fatalf("Expected unlimited pacer to let request %d through", i+1)
		}
	}
}

func TestPacerSatisfiesLimiter(t *testing.T) {
	var l Limiter = NewPacer(60, 1)
	if err := l.Wait(context.Background()); err != nil {
		t.Errorf("Wait returned %v", err)
	}
}

func TestSleep(t *testing.T) {
	start := time.Now()
	if err := Sleep(context.Background(), -time.Second); err != nil {
		t.Errorf("Sleep with negative duration returned %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Error("Sleep with negative duration should return immediately")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); err == nil {
		t.Error("Expected cancelled context to interrupt Sleep")
	}
}
