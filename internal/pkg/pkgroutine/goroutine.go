package pkgroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 10

// ErrPanic wraps a value recovered from a panicking task.
var ErrPanic = errors.New("task panicked")

// Manager runs functions in goroutines with a configurable concurrency limit.
//
// Errors returned by tasks, recovered panics and tasks skipped because the
// context ended are all collected and reported by Wait.
type Manager struct {
	mu   sync.Mutex
	errs []error
	wg   sync.WaitGroup
	sema chan struct{}
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{
		sema: make(chan struct{}, maxGoroutine),
	}
}

// Go blocks until a slot is free, then runs f in a goroutine. When ctx ends
// first, f is not run and ctx's error is recorded instead.
func (g *Manager) Go(pCtx context.Context, f func(ctx context.Context) error) {
	if err := pCtx.Err(); err != nil {
		g.record(err)
		return
	}

	select {
	case g.sema <- struct{}{}:
	case <-pCtx.Done():
		slog.WarnContext(pCtx, "goroutine canceled before start", "because", pCtx.Err())
		g.record(pCtx.Err())
		return
	}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			<-g.sema

			if rvr := recover(); rvr != nil {
				slog.ErrorContext(pCtx, "panic occurred in goroutine", "because", rvr, "stack", string(debug.Stack()))
				g.record(fmt.Errorf("%w: %v", ErrPanic, rvr))
			}
		}()

		if err := pCtx.Err(); err != nil {
			slog.WarnContext(pCtx, "goroutine canceled", "because", err)
			g.record(err)
			return
		}

		if err := f(pCtx); err != nil {
			g.record(err)
		}
	}()
}

// Wait blocks until all scheduled goroutines finish and returns any collected errors.
func (g *Manager) Wait() error {
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	return errors.Join(g.errs...)
}

func (g *Manager) record(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

// ForEach runs f for every index in [0, n) with at most limit running at once
// and waits for all of them.
func ForEach(ctx context.Context, limit, n int, f func(ctx context.Context, i int) error) error {
	mgr := NewManager(limit)
	for i := 0; i < n; i++ {
		mgr.Go(ctx, func(ctx context.Context) error {
			return f(ctx, i)
		})
	}

	return mgr.Wait()
}
