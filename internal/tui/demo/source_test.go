package demo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cristianoliveira/pullscroll/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActionsFailEvery(t *testing.T) {
	source := new(MockSource)
	source.On("Append", mock.Anything, 10).Return(nil)
	a := &actions{source: source, pager: feed.DefaultPager(), failEvery: 2}

	require.NoError(t, a.loadMore(context.Background()))
	assert.ErrorIs(t, a.loadMore(context.Background()), ErrSimulated)
	require.NoError(t, a.loadMore(context.Background()))

	source.AssertNumberOfCalls(t, "Append", 2)
}

func TestActionsWrapSourceErrors(t *testing.T) {
	source := new(MockSource)
	resetErr := errors.New("locked")
	source.On("Reset", mock.Anything, 20).Return(resetErr)
	a := &actions{source: source, pager: feed.DefaultPager()}

	err := a.refresh(context.Background())

	require.ErrorIs(t, err, resetErr)
	assert.Contains(t, err.Error(), "reset feed")
}

func TestActionsDelayHonoursContext(t *testing.T) {
	source := new(MockSource)
	a := &actions{source: source, pager: feed.DefaultPager(), refreshDelay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := a.refresh(ctx)

	require.ErrorIs(t, err, context.Canceled)
	source.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)
}

func TestSleepWaits(t *testing.T) {
	start := time.Now()
	require.NoError(t, sleep(context.Background(), 5*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}
