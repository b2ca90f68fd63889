// Package pullscroll provides a bubbletea scroll container with
// pull-to-refresh at its top edge and pull-to-load-more at its bottom edge.
//
// Mouse drags with the left button act as touch gestures. Terminal rows are
// converted to virtual pixels with a fixed cell height, so the pull
// thresholds in package pull apply unchanged.
package pullscroll

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/pullscroll/internal/logging"
	"github.com/cristianoliveira/pullscroll/internal/pull"
)

// DefaultCellHeight is the number of virtual pixels per terminal row.
const DefaultCellHeight = 16

var lastID atomic.Uint64

func nextID() uint64 {
	return lastID.Add(1)
}

// Model is the scroll container. Create it with New.
type Model struct {
	id         uint64
	machine    *pull.Machine
	viewport   viewport.Model
	spinner    spinner.Model
	styles     Styles
	logger     logging.Logger
	ctx        context.Context
	now        func() time.Time
	cellHeight float64

	onRefresh  pull.Action
	onLoadMore pull.Action

	width   int
	height  int
	content string
	closed  bool

	dragging  bool
	lastDragY int

	frameGen       uint64
	frameScheduled bool
	scrollGen      uint64
	scrolling      bool
}

// Option configures a Model.
type Option func(*Model)

// WithHasMore sets the initial more-data flag. The default is true.
func WithHasMore(hasMore bool) Option {
	return func(m *Model) { m.machine.SetHasMore(hasMore) }
}

// WithOnRefresh sets the action run after a qualifying top pull.
func WithOnRefresh(action pull.Action) Option {
	return func(m *Model) { m.onRefresh = action }
}

// WithOnLoadMore sets the action run after a qualifying bottom pull.
func WithOnLoadMore(action pull.Action) Option {
	return func(m *Model) { m.onLoadMore = action }
}

// WithCellHeight sets how many virtual pixels one row represents.
func WithCellHeight(px int) Option {
	return func(m *Model) {
		if px > 0 {
			m.cellHeight = float64(px)
		}
	}
}

// WithLogger sets the logger. The default is the global logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithContext sets the context passed to actions.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// withClock replaces the time source used for gesture samples.
func withClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithStyles overrides the affordance styles.
func WithStyles(s Styles) Option {
	return func(m *Model) {
		m.styles = s
		m.spinner.Style = s.Spinner
	}
}

// New creates a container. It renders nothing and ignores gestures until
// SetSize is called.
func New(opts ...Option) *Model {
	styles := DefaultStyles()
	m := &Model{
		id:         nextID(),
		machine:    pull.NewMachine(true, nil, nil),
		viewport:   viewport.New(0, 0),
		spinner:    newSpinner(styles.Spinner),
		styles:     styles,
		logger:     logging.GetGlobal(),
		ctx:        context.Background(),
		now:        time.Now,
		cellHeight: DefaultCellHeight,
	}
	for _, o := range opts {
		o(m)
	}
	m.machine.SetActions(m.onRefresh, m.onLoadMore)
	m.viewport.MouseWheelEnabled = true
	return m
}

// Init implements the bubbletea component contract.
func (m *Model) Init() tea.Cmd {
	return nil
}

// SetSize sets the outer size of the container in cells.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.syncContent()
}

// SetContent replaces the scrollable content.
func (m *Model) SetContent(content string) {
	m.content = content
	m.syncContent()
}

// SetHasMore updates whether more data can be loaded.
func (m *Model) SetHasMore(hasMore bool) {
	if m.machine.HasMore() == hasMore {
		return
	}
	m.machine.SetHasMore(hasMore)
	m.syncContent()
}

// HasMore reports the current more-data flag.
func (m *Model) HasMore() bool {
	return m.machine.HasMore()
}

// State returns the interaction state.
func (m *Model) State() pull.State {
	return m.machine.State()
}

// YOffset returns the scroll position in rows.
func (m *Model) YOffset() int {
	return m.viewport.YOffset
}

// Teardown stops every scheduled frame and scroll step. Actions already
// running are not cancelled, but their completion is ignored.
func (m *Model) Teardown() {
	m.closed = true
	m.dragging = false
	m.machine.Teardown()
	m.cancelFrame()
	m.stopScroll()
	m.logger.Debug("pullscroll torn down", "container", m.id)
}

// Update handles mouse, key, frame and action messages.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case tea.KeyMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case frameMsg:
		if msg.id != m.id || msg.gen != m.frameGen {
			return m, nil
		}
		m.frameScheduled = false
		return m, m.applyFrame()
	case scrollStepMsg:
		if msg.id != m.id || msg.gen != m.scrollGen {
			return m, nil
		}
		return m, m.stepScroll()
	case SettledMsg:
		if msg.id != m.id {
			return m, nil
		}
		return m, m.handleSettled(msg)
	case spinner.TickMsg:
		if !m.machine.State().Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleMouse maps left-button press, motion and release to gesture start,
// move and end. Y coordinates are relative to the container's top row.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.height <= 0 {
		return nil
	}
	if tea.MouseEvent(msg).IsWheel() {
		if m.dragging {
			return nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		return m.startGesture(msg.Y)
	case tea.MouseActionMotion:
		if !m.dragging || msg.Button != tea.MouseButtonLeft {
			return nil
		}
		return m.moveGesture(msg.Y)
	case tea.MouseActionRelease:
		if !m.dragging {
			return nil
		}
		return m.endGesture()
	}
	return nil
}

func (m *Model) startGesture(y int) tea.Cmd {
	m.stopScroll()
	m.dragging = true
	m.lastDragY = y
	session := m.machine.Start(m.sample(y), m.metrics())
	m.logger.Debug("gesture started",
		"container", m.id,
		"session", session.ID,
		"y", session.StartY,
		"at_bottom", session.AtBottomAtStart)
	return m.requestFrame()
}

func (m *Model) moveGesture(y int) tea.Cmd {
	res := m.machine.Move(m.sample(y), m.metrics())
	if !res.PreventDefault {
		m.nativeScroll(y - m.lastDragY)
	}
	m.lastDragY = y
	if !res.Scheduled {
		return nil
	}
	return m.requestFrame()
}

// nativeScroll moves the content with the pointer, as a touch screen would.
func (m *Model) nativeScroll(delta int) {
	switch {
	case delta > 0:
		m.viewport.LineUp(delta)
	case delta < 0:
		m.viewport.LineDown(-delta)
	}
}

func (m *Model) endGesture() tea.Cmd {
	m.dragging = false
	session, _ := m.machine.Session()
	res := m.machine.End()
	if !res.Fired {
		m.logger.Debug("gesture released", "container", m.id, "session", session.ID)
		m.cancelFrame()
		return m.requestFrame()
	}

	m.logger.Info("action started",
		"container", m.id,
		"session", session.ID,
		"direction", res.Direction.String())
	return tea.Batch(m.runAction(res.Direction, res.Action), m.spinner.Tick, m.requestFrame())
}

// runAction invokes action once in a command. A panic is reported as the
// action's error so the direction is always released.
func (m *Model) runAction(direction pull.Direction, action pull.Action) tea.Cmd {
	id, ctx := m.id, m.ctx
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = SettledMsg{id: id, Direction: direction, Err: fmt.Errorf("%s action panicked: %v", direction, r)}
			}
		}()
		return SettledMsg{id: id, Direction: direction, Err: action(ctx)}
	}
}

func (m *Model) handleSettled(msg SettledMsg) tea.Cmd {
	m.machine.Settle(msg.Direction, msg.Err)
	m.cancelFrame()
	cmds := []tea.Cmd{m.requestFrame()}

	if msg.Err != nil {
		m.logger.Warn("action failed", "container", m.id, "direction", msg.Direction.String(), "error", msg.Err)
		failed := ActionFailedMsg{Direction: msg.Direction, Err: msg.Err}
		cmds = append(cmds, func() tea.Msg { return failed })
	} else {
		m.logger.Info("action completed", "container", m.id, "direction", msg.Direction.String())
	}
	return tea.Batch(cmds...)
}

// requestFrame schedules a redraw tick if there are pending writes and
// none is scheduled yet.
func (m *Model) requestFrame() tea.Cmd {
	if m.frameScheduled || !m.machine.Pending() {
		return nil
	}
	m.frameScheduled = true
	id, gen := m.id, m.frameGen
	return tea.Tick(pull.FrameInterval, func(time.Time) tea.Msg {
		return frameMsg{id: id, gen: gen}
	})
}

// cancelFrame invalidates the scheduled tick, if any.
func (m *Model) cancelFrame() {
	m.frameGen++
	m.frameScheduled = false
}

func (m *Model) applyFrame() tea.Cmd {
	res := m.machine.Frame()
	var cmds []tea.Cmd
	if res.ScrollToBottom {
		cmds = append(cmds, m.startScroll())
	}
	cmds = append(cmds, m.requestFrame())
	return tea.Batch(cmds...)
}

// startScroll begins a smooth scroll to the end of the content.
func (m *Model) startScroll() tea.Cmd {
	m.scrollGen++
	m.scrolling = true
	return m.scheduleScrollStep()
}

func (m *Model) stopScroll() {
	m.scrollGen++
	m.scrolling = false
}

func (m *Model) scheduleScrollStep() tea.Cmd {
	id, gen := m.id, m.scrollGen
	return tea.Tick(pull.FrameInterval, func(time.Time) tea.Msg {
		return scrollStepMsg{id: id, gen: gen}
	})
}

// stepScroll covers half the remaining distance per frame.
func (m *Model) stepScroll() tea.Cmd {
	if !m.scrolling {
		return nil
	}
	remaining := m.maxYOffset() - m.viewport.YOffset
	if remaining <= 0 {
		m.scrolling = false
		return nil
	}
	m.viewport.LineDown((remaining + 1) / 2)
	if m.viewport.YOffset >= m.maxYOffset() {
		m.scrolling = false
		return nil
	}
	return m.scheduleScrollStep()
}

func (m *Model) maxYOffset() int {
	return max(0, m.viewport.TotalLineCount()-m.viewport.Height)
}

func (m *Model) sample(y int) pull.Sample {
	return pull.Sample{Y: float64(y) * m.cellHeight, Time: m.now()}
}

// metrics reports the viewport position in virtual pixels. The scroll
// height is never smaller than the visible height.
func (m *Model) metrics() pull.Metrics {
	total := max(m.viewport.TotalLineCount(), m.viewport.Height)
	return pull.Metrics{
		ScrollTop:    float64(m.viewport.YOffset) * m.cellHeight,
		ScrollHeight: float64(total) * m.cellHeight,
		ClientHeight: float64(m.viewport.Height) * m.cellHeight,
	}
}

// rows converts a virtual pixel distance to whole rows.
func (m *Model) rows(px float64) int {
	return int(math.Round(px / m.cellHeight))
}

func (m *Model) syncContent() {
	content := m.content
	if !m.machine.HasMore() {
		line := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.styles.NoMore.Render(labelNoMore))
		if content != "" {
			content += "\n"
		}
		content += line
	}
	m.viewport.SetContent(content)
}

// View renders the content translated by the pull offsets. The refresh
// indicator fills the rows uncovered above the content and the load region
// the rows uncovered below it. A visible load region with no rows uncovered
// is drawn over the last content row.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	st := m.machine.State()
	shift := max(-m.height, min(m.rows(st.ContentOffset()), m.height))
	content := m.contentLines()

	var lines []string
	switch {
	case shift > 0:
		lines = append(m.block(shift, m.refreshLabel(st.Refresh), false), content[:m.height-shift]...)
	case shift < 0:
		lines = append(content[-shift:], m.block(-shift, m.loadLabel(st.Load), true)...)
	default:
		lines = content
	}
	if shift >= 0 && (st.LoadRegionVisible || st.Load.Busy()) {
		lines[m.height-1] = m.block(1, m.loadLabel(st.Load), true)[0]
	}
	return strings.Join(lines, "\n")
}

// contentLines returns exactly height lines of viewport output.
func (m *Model) contentLines() []string {
	lines := strings.Split(m.viewport.View(), "\n")
	for len(lines) < m.height {
		lines = append(lines, "")
	}
	return lines[:m.height]
}

// block renders n rows with label on the row nearest the content.
func (m *Model) block(n int, label string, labelFirst bool) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	idx := n - 1
	if labelFirst {
		idx = 0
	}
	out[idx] = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, label)
	return out
}

func (m *Model) refreshLabel(s pull.DirectionState) string {
	switch s.Phase {
	case pull.Busy:
		return m.spinner.View() + " " + m.styles.Busy.Render(labelRefreshing)
	case pull.Armed:
		return m.styles.Armed.Render(labelReleaseRefresh)
	default:
		return m.styles.Hint.Render(labelPullRefresh)
	}
}

func (m *Model) loadLabel(s pull.DirectionState) string {
	switch s.Phase {
	case pull.Busy:
		return m.spinner.View() + " " + m.styles.Busy.Render(labelLoading)
	case pull.Armed:
		return m.styles.Armed.Render(labelReleaseLoad)
	default:
		return m.styles.Hint.Render(labelPullLoad)
	}
}
