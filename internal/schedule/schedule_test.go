package schedule

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewRejectsBadExpressions(t *testing.T) {
	noop := func(context.Context) error { return nil }
	if _, err := New("", time.UTC, noop); err == nil {
		t.Fatal("expected empty schedule to fail")
	}
	if _, err := New("61 * * * *", time.UTC, noop); err == nil {
		t.Fatal("expected out-of-range minute to fail")
	}
}

func TestNextUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	l, err := New("0 9 * * *", loc, func(context.Context) error { return nil })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	from := time.Date(2026, 10, 19, 6, 30, 0, 0, time.UTC) // 08:30 local
	want := time.Date(2026, 10, 19, 9, 0, 0, 0, loc)
	if got := l.Next(from); !got.Equal(want) {
		t.Fatalf("Next = %s, want %s", got, want)
	}
}

func TestRunLoopsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := 0
	l, err := New("*/15 * * * *", time.UTC, func(context.Context) error {
		runs++
		if runs == 2 {
			return errors.New("input missing")
		}
		if runs == 3 {
			cancel()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	clock := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	var waits []time.Duration
	l.now = func() time.Time { return clock }
	l.sleep = func(ctx context.Context, d time.Duration) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		waits = append(waits, d)
		clock = clock.Add(d)
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}

	if runs != 3 {
		t.Fatalf("expected 3 runs, got %d", runs)
	}
	for i, w := range waits {
		if w != 15*time.Minute {
			t.Fatalf("wait %d = %s, want 15m", i, w)
		}
	}
}

func TestSleepContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
