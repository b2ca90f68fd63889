package pullscroll

import (
	"github.com/cristianoliveira/pullscroll/internal/pull"
)

// frameMsg is one redraw tick. Ticks from a cancelled generation are ignored.
type frameMsg struct {
	id  uint64
	gen uint64
}

// scrollStepMsg advances the smooth scroll to the end of the content.
type scrollStepMsg struct {
	id  uint64
	gen uint64
}

// SettledMsg is sent when a refresh or load action returns. Err is the
// action's error, if any. The host receives it before forwarding it to the
// container, so it can reload its content first.
type SettledMsg struct {
	id        uint64
	Direction pull.Direction
	Err       error
}

// ActionFailedMsg is emitted by the container after a failed action has
// been cleaned up. The container never handles it; it exists for the
// host's error reporting.
type ActionFailedMsg struct {
	Direction pull.Direction
	Err       error
}
