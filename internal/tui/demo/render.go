package demo

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/pullscroll/internal/errors"
	"github.com/cristianoliveira/pullscroll/internal/feed"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	itemStyle   = lipgloss.NewStyle().PaddingLeft(1)
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func statusStyle(t errors.MessageType) lipgloss.Style {
	switch t {
	case errors.MessageTypeError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	case errors.MessageTypeWarning:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case errors.MessageTypeSuccess:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	}
}

func renderHeader(width, count, page int) string {
	title := fmt.Sprintf("pullscroll  %d items  page %d", count, page)
	return headerStyle.Width(width).Render(title)
}

func renderItems(items []feed.Item) string {
	rows := make([]string, len(items))
	for i, item := range items {
		rows[i] = itemStyle.Render(item.Title + "  " + timeStyle.Render(item.CreatedAt.Local().Format("15:04:05")))
	}
	return strings.Join(rows, "\n")
}

func renderFooter(msg errors.Message, ok bool) string {
	if ok {
		return statusStyle(msg.Type).Render(msg.Text)
	}
	help := []string{"drag down at top: refresh", "drag up at bottom: load more", "j/k: scroll", "q: quit"}
	return helpStyle.Render(strings.Join(help, "  |  "))
}
