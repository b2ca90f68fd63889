// Package errors routes user-facing error and status messages either to
// the console or to the TUI status bar.
package errors

import (
	"sync"

	"github.com/cristianoliveira/pullscroll/internal/colors"
)

// ErrorHandler is the interface for error handling.
// Different implementations can handle errors differently based on context.
type ErrorHandler interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
	Success(msg string)
}

// ColorOutput is the console sink used by CLIHandler.
type ColorOutput interface {
	Error(msgs ...string)
	Warning(msgs ...string)
	Info(msgs ...string)
	Success(msgs ...string)
}

// CLIHandler handles errors by printing through a ColorOutput.
type CLIHandler struct {
	colors     ColorOutput
	mu         sync.Mutex
	inHandling bool
}

var _ ErrorHandler = (*CLIHandler)(nil)

// NewCLIHandler creates a CLI handler writing to out.
func NewCLIHandler(out ColorOutput) *CLIHandler {
	return &CLIHandler{colors: out}
}

// NewDefaultCLIHandler creates a CLI handler using the colors package.
func NewDefaultCLIHandler() *CLIHandler {
	return NewCLIHandler(colorsOutput{})
}

// Error reports msg. Reentrant calls made while an error is already being
// reported go straight to the output.
func (h *CLIHandler) Error(msg string) {
	h.mu.Lock()
	if h.inHandling {
		h.mu.Unlock()
		h.colors.Error(msg)
		return
	}
	h.inHandling = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.inHandling = false
		h.mu.Unlock()
	}()

	h.colors.Error(msg)
}

func (h *CLIHandler) Warning(msg string) { h.colors.Warning(msg) }
func (h *CLIHandler) Info(msg string)    { h.colors.Info(msg) }
func (h *CLIHandler) Success(msg string) { h.colors.Success(msg) }

// colorsOutput adapts the colors package to ColorOutput.
type colorsOutput struct{}

func (colorsOutput) Error(msgs ...string)   { colors.Error(msgs...) }
func (colorsOutput) Warning(msgs ...string) { colors.Warning(msgs...) }
func (colorsOutput) Info(msgs ...string)    { colors.Info(msgs...) }
func (colorsOutput) Success(msgs ...string) { colors.Success(msgs...) }
