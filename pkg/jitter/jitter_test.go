package jitter

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBackoffDoublesUpToMax(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, time.Second},
		{60, time.Second},
	}

	for _, c := range cases {
		if got := backoff(100*time.Millisecond, time.Second, c.attempt); got != c.want {
			t.Fatalf("backoff(attempt=%d) = %s, want %s", c.attempt, got, c.want)
		}
	}
}

func TestExponentialBackoffBounds(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		base := backoff(50*time.Millisecond, time.Second, attempt)
		got := ExponentialBackoff(50*time.Millisecond, time.Second, attempt, DefaultJitter)
		if got < base || got > base+base/2 {
			t.Fatalf("attempt %d: %s outside [%s, %s]", attempt, got, base, base+base/2)
		}
	}
}

func TestWithJitter(t *testing.T) {
	if got := withJitter(time.Second, 0.5, 1); got != 1500*time.Millisecond {
		t.Fatalf("withJitter = %s, want 1.5s", got)
	}
	if got := withJitter(time.Second, 0.5, 0); got != time.Second {
		t.Fatalf("withJitter = %s, want 1s", got)
	}
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := Sleep(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("Sleep: %v", err)
	}
}
