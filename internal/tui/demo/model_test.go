package demo

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/pullscroll/internal/feed"
	"github.com/cristianoliveira/pullscroll/internal/pull"
	"github.com/cristianoliveira/pullscroll/internal/tui/pullscroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Reset(ctx context.Context, n int) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockSource) Append(ctx context.Context, n int) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockSource) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockSource) List(ctx context.Context) ([]feed.Item, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]feed.Item)
	return items, args.Error(1)
}

func makeItems(n int) []feed.Item {
	items := make([]feed.Item, n)
	for i := range items {
		id := int64(i + 1)
		items[i] = feed.Item{ID: id, Title: feed.Title(id), CreatedAt: time.Unix(0, 0)}
	}
	return items
}

func testConfig() Config {
	return Config{Pager: feed.DefaultPager(), CellHeight: 16}
}

func newTestModel(t *testing.T, source *MockSource, cfg Config) *Model {
	t.Helper()
	m, err := NewModel(context.Background(), source, cfg)
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 12})
	return m
}

// collect runs cmd and flattens batches into the messages they produce.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func mouse(action tea.MouseAction, y int) tea.MouseMsg {
	button := tea.MouseButtonLeft
	if action == tea.MouseActionRelease {
		button = tea.MouseButtonNone
	}
	return tea.MouseMsg{Y: y, Action: action, Button: button}
}

// pullDown drags from the first content row down by rows and releases,
// returning the messages produced by the release.
func pullDown(m *Model, rows int) []tea.Msg {
	m.Update(mouse(tea.MouseActionPress, headerLines))
	time.Sleep(2 * pull.FrameInterval)
	_, cmd := m.Update(mouse(tea.MouseActionMotion, headerLines+rows))
	for _, msg := range collect(cmd) {
		m.Update(msg)
	}
	_, cmd = m.Update(mouse(tea.MouseActionRelease, headerLines+rows))
	return collect(cmd)
}

func settledIn(msgs []tea.Msg) (pullscroll.SettledMsg, bool) {
	for _, msg := range msgs {
		if s, ok := msg.(pullscroll.SettledMsg); ok {
			return s, true
		}
	}
	return pullscroll.SettledMsg{}, false
}

func TestNewModelSeedsEmptyFeed(t *testing.T) {
	source := new(MockSource)
	source.On("Count", mock.Anything).Return(0, nil).Once()
	source.On("Reset", mock.Anything, 20).Return(nil).Once()
	source.On("List", mock.Anything).Return(makeItems(20), nil).Once()

	m, err := NewModel(context.Background(), source, testConfig())

	require.NoError(t, err)
	assert.Len(t, m.Items(), 20)
	assert.True(t, m.Container().HasMore())
	source.AssertExpectations(t)
}

func TestNewModelListError(t *testing.T) {
	source := new(MockSource)
	listErr := errors.New("disk gone")
	source.On("Count", mock.Anything).Return(20, nil)
	source.On("List", mock.Anything).Return(nil, listErr)

	_, err := NewModel(context.Background(), source, testConfig())

	require.ErrorIs(t, err, listErr)
	source.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)
}

func TestNewModelCountError(t *testing.T) {
	source := new(MockSource)
	countErr := errors.New("locked")
	source.On("Count", mock.Anything).Return(0, countErr)

	_, err := NewModel(context.Background(), source, testConfig())

	require.ErrorIs(t, err, countErr)
	source.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)
}

func TestRefreshReloadsItems(t *testing.T) {
	source := new(MockSource)
	source.On("Count", mock.Anything).Return(40, nil).Once()
	source.On("List", mock.Anything).Return(makeItems(40), nil).Once()
	m := newTestModel(t, source, testConfig())
	require.Len(t, m.Items(), 40)

	source.On("Reset", mock.Anything, 20).Return(nil).Once()
	source.On("List", mock.Anything).Return(makeItems(20), nil).Once()

	settled, ok := settledIn(pullDown(m, 8))
	require.True(t, ok, "a full pull fires the refresh action")
	require.NoError(t, settled.Err)
	assert.Equal(t, pull.Busy, m.Container().State().Refresh.Phase)

	_, cmd := m.Update(settled)
	assert.NotNil(t, cmd)
	assert.Len(t, m.Items(), 20)
	assert.Contains(t, m.View(), "Refreshed")
	source.AssertExpectations(t)
}

func TestFailedRefreshShowsStatusUntilCleared(t *testing.T) {
	source := new(MockSource)
	source.On("Count", mock.Anything).Return(20, nil)
	source.On("List", mock.Anything).Return(makeItems(20), nil)
	cfg := testConfig()
	cfg.FailEvery = 1
	m := newTestModel(t, source, cfg)

	settled, ok := settledIn(pullDown(m, 8))
	require.True(t, ok)
	require.ErrorIs(t, settled.Err, ErrSimulated)

	_, cmd := m.Update(settled)
	var failed *pullscroll.ActionFailedMsg
	for _, msg := range collect(cmd) {
		if f, ok := msg.(pullscroll.ActionFailedMsg); ok {
			failed = &f
		}
	}
	require.NotNil(t, failed)

	m.Update(*failed)
	assert.Contains(t, m.View(), "Refresh failed: simulated failure")

	m.Update(statusClearMsg{gen: m.statusGen - 1})
	assert.Contains(t, m.View(), "Refresh failed", "a stale clear keeps the newer message")

	m.Update(statusClearMsg{gen: m.statusGen})
	assert.NotContains(t, m.View(), "Refresh failed")
	source.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)
}

func TestReloadUpdatesHasMore(t *testing.T) {
	tests := []struct {
		count   int
		page    string
		hasMore bool
	}{
		{count: 60, page: "page 5", hasMore: true},
		{count: 70, page: "page 6", hasMore: false},
	}
	for _, tt := range tests {
		source := new(MockSource)
		source.On("Count", mock.Anything).Return(tt.count, nil)
		source.On("List", mock.Anything).Return(makeItems(tt.count), nil)

		m := newTestModel(t, source, testConfig())

		assert.Equal(t, tt.hasMore, m.Container().HasMore(), "count %d", tt.count)
		assert.Contains(t, m.View(), tt.page)
	}
}

func TestPressOutsideContainerIsDropped(t *testing.T) {
	source := new(MockSource)
	source.On("Count", mock.Anything).Return(20, nil)
	source.On("List", mock.Anything).Return(makeItems(20), nil)
	m := newTestModel(t, source, testConfig())

	for _, y := range []int{0, 11} {
		_, cmd := m.Update(mouse(tea.MouseActionPress, y))
		assert.Nil(t, cmd)
		time.Sleep(2 * pull.FrameInterval)
		_, cmd = m.Update(mouse(tea.MouseActionMotion, headerLines+8))
		assert.Nil(t, cmd, "row %d does not start a drag", y)
		m.Update(mouse(tea.MouseActionRelease, headerLines+8))
		assert.Equal(t, pull.State{}, m.Container().State())
	}
}

func TestReleaseOnFooterEndsDrag(t *testing.T) {
	source := new(MockSource)
	source.On("Count", mock.Anything).Return(20, nil)
	source.On("List", mock.Anything).Return(makeItems(20), nil)
	source.On("Reset", mock.Anything, 20).Return(nil)
	m := newTestModel(t, source, testConfig())

	m.Update(mouse(tea.MouseActionPress, headerLines))
	time.Sleep(2 * pull.FrameInterval)
	_, cmd := m.Update(mouse(tea.MouseActionMotion, headerLines+8))
	for _, msg := range collect(cmd) {
		m.Update(msg)
	}
	require.True(t, m.Container().State().Refresh.Armed())

	_, cmd = m.Update(mouse(tea.MouseActionRelease, 11))
	_, ok := settledIn(collect(cmd))
	assert.True(t, ok)
	assert.Equal(t, pull.Busy, m.Container().State().Refresh.Phase)
}

func TestQuitTearsDownContainer(t *testing.T) {
	source := new(MockSource)
	source.On("Count", mock.Anything).Return(20, nil)
	source.On("List", mock.Anything).Return(makeItems(20), nil)
	m := newTestModel(t, source, testConfig())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(mouse(tea.MouseActionPress, headerLines))
	assert.Nil(t, cmd)
}

func TestViewLayout(t *testing.T) {
	source := new(MockSource)
	source.On("Count", mock.Anything).Return(20, nil)
	source.On("List", mock.Anything).Return(makeItems(20), nil)
	m, err := NewModel(context.Background(), source, testConfig())
	require.NoError(t, err)
	assert.Empty(t, m.View(), "nothing renders before the first size")

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 12})
	view := m.View()
	assert.Contains(t, view, "20 items")
	assert.Contains(t, view, "Item 1")
	assert.Contains(t, view, "q: quit")
}
