// Package demo hosts a pullscroll container over the SQLite feed.
package demo

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/pullscroll/internal/errors"
	"github.com/cristianoliveira/pullscroll/internal/feed"
	"github.com/cristianoliveira/pullscroll/internal/logging"
	"github.com/cristianoliveira/pullscroll/internal/pull"
	"github.com/cristianoliveira/pullscroll/internal/tui/pullscroll"
)

const (
	headerLines         = 1
	footerLines         = 1
	statusClearDuration = 5 * time.Second
)

// Config holds the demo settings.
type Config struct {
	Pager        feed.Pager
	CellHeight   int
	RefreshDelay time.Duration
	LoadDelay    time.Duration
	FailEvery    int
}

// Model is the demo program model.
type Model struct {
	ctx       context.Context
	source    Source
	pager     feed.Pager
	container *pullscroll.Model
	logger    logging.Logger

	errorHandler *errors.TUIHandler
	statusGen    uint64

	items  []feed.Item
	width  int
	height int
}

// NewModel creates the demo model and loads the first page. An empty feed
// is seeded with the initial page.
func NewModel(ctx context.Context, source Source, cfg Config) (*Model, error) {
	m := &Model{
		ctx:    ctx,
		source: source,
		pager:  cfg.Pager,
		logger: logging.GetGlobal().With("component", "demo"),
	}
	m.errorHandler = errors.NewTUIHandler(func(msg errors.Message) {
		m.logger.Info("status", "type", msg.Type.String(), "text", msg.Text)
	})

	act := &actions{
		source:       source,
		pager:        cfg.Pager,
		refreshDelay: cfg.RefreshDelay,
		loadDelay:    cfg.LoadDelay,
		failEvery:    cfg.FailEvery,
	}
	m.container = pullscroll.New(
		pullscroll.WithContext(ctx),
		pullscroll.WithCellHeight(cfg.CellHeight),
		pullscroll.WithLogger(logging.GetGlobal().With("component", "pullscroll")),
		pullscroll.WithOnRefresh(act.refresh),
		pullscroll.WithOnLoadMore(act.loadMore),
	)

	count, err := source.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("demo: count items: %w", err)
	}
	if count == 0 {
		if err := source.Reset(ctx, cfg.Pager.Initial); err != nil {
			return nil, fmt.Errorf("demo: seed items: %w", err)
		}
	}
	if err := m.reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.container.Init()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.container.SetSize(msg.Width, m.containerHeight())
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.container.Teardown()
			return m, tea.Quit
		}
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case pullscroll.SettledMsg:
		return m, m.handleSettled(msg)
	case pullscroll.ActionFailedMsg:
		m.errorHandler.Error(failureText(msg))
		return m, m.clearStatusAfter(statusClearDuration)
	case statusClearMsg:
		if msg.gen == m.statusGen {
			m.errorHandler.Clear()
		}
		return m, nil
	}
	return m, m.forward(msg)
}

// handleSettled reloads the items before the container releases the
// direction, so the next layout already includes them.
func (m *Model) handleSettled(msg pullscroll.SettledMsg) tea.Cmd {
	var cmds []tea.Cmd
	if msg.Err == nil {
		if err := m.reload(); err != nil {
			m.logger.Error("reload failed", "error", err)
			m.errorHandler.Error(fmt.Sprintf("Failed to reload items: %v", err))
			cmds = append(cmds, m.clearStatusAfter(statusClearDuration))
		} else if msg.Direction == pull.Refresh {
			m.errorHandler.Success("Refreshed")
			cmds = append(cmds, m.clearStatusAfter(statusClearDuration))
		}
	}
	cmds = append(cmds, m.forward(msg))
	return tea.Batch(cmds...)
}

// handleMouse moves screen rows into container rows. Presses and wheel
// events outside the container are dropped; motion and release are clamped
// to its edge so a drag that leaves it still ends.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	rows := m.containerHeight()
	msg.Y -= headerLines
	if msg.Y < 0 || msg.Y >= rows {
		if msg.Action == tea.MouseActionPress || rows == 0 {
			return nil
		}
		msg.Y = max(0, min(msg.Y, rows-1))
	}
	return m.forward(msg)
}

func (m *Model) containerHeight() int {
	return max(0, m.height-headerLines-footerLines)
}

func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.container, cmd = m.container.Update(msg)
	return cmd
}

func (m *Model) reload() error {
	items, err := m.source.List(m.ctx)
	if err != nil {
		return fmt.Errorf("demo: reload items: %w", err)
	}
	m.items = items
	m.container.SetContent(renderItems(items))
	m.container.SetHasMore(m.pager.HasMore(len(items)))
	m.logger.Debug("items reloaded", "count", len(items), "page", m.pager.Page(len(items)))
	return nil
}

func (m *Model) clearStatusAfter(d time.Duration) tea.Cmd {
	m.statusGen++
	gen := m.statusGen
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusClearMsg{gen: gen}
	})
}

func failureText(msg pullscroll.ActionFailedMsg) string {
	switch msg.Direction {
	case pull.Refresh:
		return fmt.Sprintf("Refresh failed: %v", msg.Err)
	default:
		return fmt.Sprintf("Load more failed: %v", msg.Err)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	var s strings.Builder
	s.WriteString(renderHeader(m.width, len(m.items), m.pager.Page(len(m.items))))
	s.WriteString("\n")
	s.WriteString(m.container.View())
	s.WriteString("\n")
	s.WriteString(renderFooter(m.errorHandler.Latest()))
	return s.String()
}

// Items returns the items currently shown.
func (m *Model) Items() []feed.Item {
	return m.items
}

// Container returns the hosted container.
func (m *Model) Container() *pullscroll.Model {
	return m.container
}
