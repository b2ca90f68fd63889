package pull

import (
	"time"

	"github.com/google/uuid"
)

// Classification is how a move sample is interpreted.
type Classification int

const (
	// PassThrough leaves the sample to ordinary scrolling.
	PassThrough Classification = iota
	// RefreshDrag is a downward pull while the content is at its top.
	RefreshDrag
	// LoadDrag is an upward pull while the content is at its bottom.
	LoadDrag
)

func (c Classification) String() string {
	switch c {
	case RefreshDrag:
		return "refresh-drag"
	case LoadDrag:
		return "load-drag"
	default:
		return "pass-through"
	}
}

// Session is one drag, from gesture start to gesture end.
type Session struct {
	ID              string
	StartY          float64
	AtBottomAtStart bool
	StartedAt       time.Time
}

// Tracker turns raw samples into drag distances relative to the active session.
type Tracker struct {
	session *Session
}

// Start opens a new session, replacing any previous one.
func (t *Tracker) Start(sample Sample, metrics Metrics) Session {
	s := Session{
		ID:              uuid.NewString(),
		StartY:          sample.Y,
		AtBottomAtStart: metrics.AtBottom(),
		StartedAt:       sample.Time,
	}
	t.session = &s
	return s
}

// End closes the active session, if any.
func (t *Tracker) End() {
	t.session = nil
}

// Active reports whether a session is open.
func (t *Tracker) Active() bool {
	return t.session != nil
}

// Session returns the active session.
func (t *Tracker) Session() (Session, bool) {
	if t.session == nil {
		return Session{}, false
	}
	return *t.session, true
}

// Classify interprets sample against the active session and the current
// metrics. The top edge is evaluated first. The bottom edge uses the
// current metrics, not the snapshot taken at Start. The returned raw
// offset is the absolute drag distance for edge drags and 0 otherwise.
func (t *Tracker) Classify(sample Sample, metrics Metrics, hasMore bool) (Classification, float64) {
	if t.session == nil {
		return PassThrough, 0
	}
	distance := sample.Y - t.session.StartY
	switch {
	case distance > 0 && metrics.AtTop():
		return RefreshDrag, distance
	case distance < 0 && metrics.AtBottom() && hasMore:
		return LoadDrag, -distance
	default:
		return PassThrough, 0
	}
}
