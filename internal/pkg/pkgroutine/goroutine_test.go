package pkgroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestNewManagerDefaultMax(t *testing.T) {
	mgr := NewManager(0)
	if got := cap(mgr.sema); got != DefaultMaxGoroutine {
		t.Fatalf("expected cap %d, got %d", DefaultMaxGoroutine, got)
	}
}

func TestManagerCollectsErrors(t *testing.T) {
	mgr := NewManager(2)
	errOne := errors.New("one")
	errTwo := errors.New("two")

	mgr.Go(context.Background(), func(ctx context.Context) error {
		return errOne
	})
	mgr.Go(context.Background(), func(ctx context.Context) error {
		return errTwo
	})

	joined := mgr.Wait()
	if joined == nil {
		t.Fatalf("expected errors")
	}
	if !errors.Is(joined, errOne) {
		t.Fatalf("expected errOne to be present")
	}
	if !errors.Is(joined, errTwo) {
		t.Fatalf("expected errTwo to be present")
	}
}

func TestManagerReportsPanics(t *testing.T) {
	mgr := NewManager(1)
	mgr.Go(context.Background(), func(ctx context.Context) error {
		panic("boom")
	})

	if err := mgr.Wait(); !errors.Is(err, ErrPanic) {
		t.Fatalf("expected ErrPanic, got %v", err)
	}
}

func TestManagerSkipsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	mgr := NewManager(1)
	mgr.Go(ctx, func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	if err := mgr.Wait(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ran.Load() {
		t.Fatal("task must not run on a canceled context")
	}
}

func TestForEach(t *testing.T) {
	seen := make([]int32, 8)

	err := ForEach(context.Background(), 3, len(seen), func(ctx context.Context, i int) error {
		atomic.AddInt32(&seen[i], 1)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach() err = %v", err)
	}

	for i, n := range seen {
		if n != 1 {
			t.Fatalf("index %d ran %d times", i, n)
		}
	}
}
