package pull

import (
	"golang.org/x/time/rate"
)

// MoveResult describes how a move sample was handled.
type MoveResult struct {
	Class Classification
	// PreventDefault is true when the caller must suppress native scrolling
	// for this sample.
	PreventDefault bool
	// Scheduled is true when the sample produced a pending frame update.
	Scheduled bool
}

// EndResult describes what a gesture end triggered.
type EndResult struct {
	// Fired is true when a direction entered Busy; the caller must invoke
	// Action exactly once and report its completion through Settle.
	Fired     bool
	Direction Direction
	Action    Action
}

// FrameResult describes what a frame applied.
type FrameResult struct {
	Applied bool
	// ScrollToBottom asks the caller to scroll smoothly to the end of the
	// content, after a successful load.
	ScrollToBottom bool
}

type offsetUpdate struct {
	direction Direction
	offset    float64
}

type resetRequest struct {
	releaseRefresh bool
	releaseLoad    bool
}

func (r resetRequest) merge(o resetRequest) resetRequest {
	return resetRequest{
		releaseRefresh: r.releaseRefresh || o.releaseRefresh,
		releaseLoad:    r.releaseLoad || o.releaseLoad,
	}
}

// frame holds the writes waiting for the next redraw.
type frame struct {
	reset          *resetRequest
	update         *offsetUpdate
	scrollToBottom bool
}

func (f frame) empty() bool {
	return f.reset == nil && f.update == nil && !f.scrollToBottom
}

// Machine is the interaction state machine for both directions.
// It is not safe for concurrent use; callers drive it from a single
// event loop and apply pending writes by calling Frame once per redraw.
type Machine struct {
	state      State
	tracker    Tracker
	limiter    *rate.Limiter
	pending    frame
	hasMore    bool
	onRefresh  Action
	onLoadMore Action
}

// NewMachine returns an idle machine.
func NewMachine(hasMore bool, onRefresh, onLoadMore Action) *Machine {
	return &Machine{
		limiter:    newFrameLimiter(),
		hasMore:    hasMore,
		onRefresh:  onRefresh,
		onLoadMore: onLoadMore,
	}
}

func newFrameLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(FrameInterval), 1)
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state
}

// Session returns the active drag session.
func (m *Machine) Session() (Session, bool) {
	return m.tracker.Session()
}

// HasMore reports whether bottom drags are interpreted as load gestures.
func (m *Machine) HasMore() bool {
	return m.hasMore
}

// SetHasMore updates the more-data flag.
func (m *Machine) SetHasMore(hasMore bool) {
	m.hasMore = hasMore
}

// SetActions replaces the refresh and load actions.
func (m *Machine) SetActions(onRefresh, onLoadMore Action) {
	m.onRefresh = onRefresh
	m.onLoadMore = onLoadMore
}

// Pending reports whether a frame is waiting to be applied.
func (m *Machine) Pending() bool {
	return !m.pending.empty()
}

// Start begins a new drag session. Armed flags and offsets of directions
// that are not Busy are cleared, and the frame limiter restarts so a move
// within one frame interval of the start is not applied.
func (m *Machine) Start(sample Sample, metrics Metrics) Session {
	session := m.tracker.Start(sample, metrics)
	if !m.state.Refresh.Busy() {
		m.state.Refresh = DirectionState{}
	}
	if !m.state.Load.Busy() {
		m.state.Load = DirectionState{}
		m.state.LoadRegionVisible = false
	}
	m.pending.update = nil
	m.limiter = newFrameLimiter()
	m.limiter.AllowN(sample.Time, 1)
	return session
}

// Move interprets a move sample. While either direction is Busy every
// sample passes through untouched.
func (m *Machine) Move(sample Sample, metrics Metrics) MoveResult {
	if m.state.Busy() || !m.tracker.Active() {
		return MoveResult{Class: PassThrough}
	}
	class, raw := m.tracker.Classify(sample, metrics, m.hasMore)
	result := MoveResult{Class: class}
	if class == PassThrough {
		return result
	}
	result.PreventDefault = true

	direction := Refresh
	if class == LoadDrag {
		direction = LoadMore
		m.state.LoadRegionVisible = true
	}
	if m.limiter.AllowN(sample.Time, 1) {
		m.pending.update = &offsetUpdate{direction: direction, offset: Damp(raw)}
		result.Scheduled = true
	}
	return result
}

// End closes the drag session. If a direction is Armed and has an action
// it becomes Busy and is returned for the caller to invoke; otherwise a
// reset is scheduled for the next frame.
func (m *Machine) End() EndResult {
	m.tracker.End()
	m.pending.update = nil

	if !m.state.Busy() {
		if m.state.Refresh.Armed() && m.onRefresh != nil {
			m.state.Refresh.Phase = Busy
			return EndResult{Fired: true, Direction: Refresh, Action: m.onRefresh}
		}
		if m.state.Load.Armed() && m.onLoadMore != nil {
			m.state.Load.Phase = Busy
			return EndResult{Fired: true, Direction: LoadMore, Action: m.onLoadMore}
		}
	}
	m.scheduleReset(resetRequest{})
	return EndResult{}
}

// Settle records that the action of direction completed. The direction is
// released on the next frame whether or not err is nil. A successful load
// also requests a scroll to the end of the content.
func (m *Machine) Settle(direction Direction, err error) {
	req := resetRequest{releaseRefresh: direction == Refresh, releaseLoad: direction == LoadMore}
	m.scheduleReset(req)
	if direction == LoadMore && err == nil {
		m.pending.scrollToBottom = true
	}
}

// Frame applies the pending writes as one merge: the reset first, then the
// latest movement update.
func (m *Machine) Frame() FrameResult {
	f := m.pending
	m.pending = frame{}
	if f.empty() {
		return FrameResult{}
	}

	next := m.state
	if f.reset != nil {
		next = next.reset(*f.reset)
	}
	if u := f.update; u != nil {
		next.set(u.direction, next.Direction(u.direction).pulled(u.offset))
	}
	m.state = next
	return FrameResult{Applied: true, ScrollToBottom: f.scrollToBottom}
}

// Teardown drops every pending frame. Actions already in flight are not
// affected.
func (m *Machine) Teardown() {
	m.pending = frame{}
	m.tracker.End()
}

func (m *Machine) scheduleReset(req resetRequest) {
	m.pending.update = nil
	if m.pending.reset != nil {
		req = m.pending.reset.merge(req)
	}
	m.pending.reset = &req
}

// reset returns the idle state. A Busy direction that is not released keeps
// its phase so an unrelated gesture cannot end an action in flight.
func (s State) reset(req resetRequest) State {
	next := State{}
	if s.Refresh.Busy() && !req.releaseRefresh {
		next.Refresh = s.Refresh
	}
	if s.Load.Busy() && !req.releaseLoad {
		next.Load = s.Load
		next.LoadRegionVisible = s.LoadRegionVisible
	}
	return next
}
