package demo

// statusClearMsg clears the status bar if no newer message replaced it.
type statusClearMsg struct {
	gen uint64
}
