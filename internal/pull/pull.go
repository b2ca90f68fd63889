// Package pull implements the pull-to-refresh and pull-to-load-more
// interaction: a drag tracker that classifies vertical gestures at the
// edges of a scrollable region and a state machine that drives the damped
// visual offsets and the external refresh/load actions.
//
// All distances are virtual pixels. The package has no terminal or
// rendering dependency; callers translate their input events into Samples
// and their scroll position into Metrics.
package pull

import (
	"context"
	"math"
	"time"
)

const (
	// EdgeEpsilon is the tolerance used to decide whether the region is at its bottom.
	EdgeEpsilon = 10.0
	// DampingFactor scales the raw drag distance into the visual offset.
	DampingFactor = 0.6
	// MaxOffset caps the visual offset. It is also the distance the load
	// region is parked below the viewport while hidden.
	MaxOffset = 80.0
	// ArmThreshold is the visual offset at which a direction becomes Armed.
	ArmThreshold = 60.0
	// FrameInterval is the minimum spacing between applied movement updates.
	FrameInterval = time.Second / 60
)

// Action is an externally supplied refresh or load operation.
// A nil Action turns its direction into a no-op.
type Action func(ctx context.Context) error

// Sample is a single pointer position reported by the input device.
type Sample struct {
	Y    float64
	Time time.Time
}

// Metrics describes the scroll position of the container at the time of a sample.
type Metrics struct {
	ScrollTop    float64
	ScrollHeight float64
	ClientHeight float64
}

// AtTop reports whether the content is scrolled to its very top.
func (m Metrics) AtTop() bool {
	return m.ScrollTop == 0
}

// AtBottom reports whether the visible area reaches the end of the content,
// within EdgeEpsilon.
func (m Metrics) AtBottom() bool {
	return m.ScrollTop+m.ClientHeight > m.ScrollHeight-EdgeEpsilon
}

// Damp converts a raw drag distance into a visual offset.
func Damp(raw float64) float64 {
	if raw <= 0 {
		return 0
	}
	return math.Min(raw*DampingFactor, MaxOffset)
}

// Phase is the lifecycle stage of one direction.
type Phase int

const (
	Idle Phase = iota
	Armed
	Busy
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Busy:
		return "busy"
	default:
		return "unknown"
	}
}

// Direction identifies the edge a gesture acts on.
type Direction int

const (
	// Refresh is the top edge, pulled downwards.
	Refresh Direction = iota
	// LoadMore is the bottom edge, pulled upwards.
	LoadMore
)

func (d Direction) String() string {
	switch d {
	case Refresh:
		return "refresh"
	case LoadMore:
		return "load-more"
	default:
		return "unknown"
	}
}

// DirectionState is the phase and damped offset of one direction.
type DirectionState struct {
	Phase  Phase
	Offset float64
}

// Armed reports whether releasing now would fire the direction's action.
func (s DirectionState) Armed() bool { return s.Phase == Armed }

// Busy reports whether the direction's action is in flight.
func (s DirectionState) Busy() bool { return s.Phase == Busy }

// pulled returns the state after a drag moved the offset to offset.
// A Busy direction is never modified by dragging.
func (s DirectionState) pulled(offset float64) DirectionState {
	if s.Busy() {
		return s
	}
	offset = math.Max(0, math.Min(offset, MaxOffset))
	phase := Idle
	if offset >= ArmThreshold {
		phase = Armed
	}
	return DirectionState{Phase: phase, Offset: offset}
}

// State is the interaction state shared by both directions.
type State struct {
	Refresh           DirectionState
	Load              DirectionState
	LoadRegionVisible bool
}

// Busy reports whether either direction has an action in flight.
func (s State) Busy() bool {
	return s.Refresh.Busy() || s.Load.Busy()
}

// Direction returns the state of d.
func (s State) Direction(d Direction) DirectionState {
	if d == LoadMore {
		return s.Load
	}
	return s.Refresh
}

func (s *State) set(d Direction, ds DirectionState) {
	if d == LoadMore {
		s.Load = ds
		return
	}
	s.Refresh = ds
}

// ContentOffset is the vertical translation of the main content.
// Positive values move the content down.
func (s State) ContentOffset() float64 {
	offset := s.Refresh.Offset
	if s.LoadRegionVisible {
		offset -= s.Load.Offset
	}
	return offset
}

// LoadRegionPosition is how far below its resting place the load region
// sits: 0 while visible, MaxOffset while parked.
func (s State) LoadRegionPosition() float64 {
	if s.LoadRegionVisible {
		return 0
	}
	return MaxOffset
}
