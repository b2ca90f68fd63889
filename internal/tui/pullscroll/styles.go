package pullscroll

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the styles of the refresh and load affordances.
type Styles struct {
	Hint    lipgloss.Style
	Armed   lipgloss.Style
	Busy    lipgloss.Style
	NoMore  lipgloss.Style
	Spinner lipgloss.Style
}

// DefaultStyles returns the default affordance styles.
func DefaultStyles() Styles {
	return Styles{
		Hint:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Armed:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		Busy:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		NoMore:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Spinner: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

// Affordance labels.
const (
	labelPullRefresh    = "Pull down to refresh"
	labelReleaseRefresh = "Release to refresh"
	labelRefreshing     = "Refreshing..."
	labelPullLoad       = "Pull up to load more"
	labelReleaseLoad    = "Release to load more"
	labelLoading        = "Loading..."
	labelNoMore         = "No more data"
)

func newSpinner(style lipgloss.Style) spinner.Model {
	return spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(style))
}
