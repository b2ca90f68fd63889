package demo

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cristianoliveira/pullscroll/internal/feed"
)

// Source is the item store behind the demo.
type Source interface {
	Reset(ctx context.Context, n int) error
	Append(ctx context.Context, n int) error
	List(ctx context.Context) ([]feed.Item, error)
	Count(ctx context.Context) (int, error)
}

// ErrSimulated is returned by actions chosen to fail by Config.FailEvery.
var ErrSimulated = fmt.Errorf("simulated failure")

// actions builds the refresh and load-more actions handed to the container.
type actions struct {
	source       Source
	pager        feed.Pager
	refreshDelay time.Duration
	loadDelay    time.Duration
	failEvery    int
	calls        atomic.Int64
}

func (a *actions) refresh(ctx context.Context) error {
	if err := a.begin(ctx, a.refreshDelay); err != nil {
		return err
	}
	if err := a.source.Reset(ctx, a.pager.Initial); err != nil {
		return fmt.Errorf("reset feed: %w", err)
	}
	return nil
}

func (a *actions) loadMore(ctx context.Context) error {
	if err := a.begin(ctx, a.loadDelay); err != nil {
		return err
	}
	if err := a.source.Append(ctx, a.pager.PageSize); err != nil {
		return fmt.Errorf("append to feed: %w", err)
	}
	return nil
}

// begin waits out the simulated latency and injects the configured failures.
func (a *actions) begin(ctx context.Context, delay time.Duration) error {
	n := a.calls.Add(1)
	if err := sleep(ctx, delay); err != nil {
		return err
	}
	if a.failEvery > 0 && n%int64(a.failEvery) == 0 {
		return ErrSimulated
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
