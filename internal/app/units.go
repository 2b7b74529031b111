package app

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.trai.ch/postcompile/internal/core/domain"
	"go.trai.ch/postcompile/internal/ui/style"
)

const (
	statusRunnable         = "runnable"
	statusNotRunnable      = "not runnable"
	statusNotConstructible = "not constructible"
)

func unitStatus(class domain.UnitClass) string {
	switch {
	case !class.Runnable:
		return statusNotRunnable
	case !class.Constructible:
		return statusNotConstructible
	default:
		return statusRunnable
	}
}

// renderUnits lays out one row per unit class without borders. Colors follow
// the profile of w, so redirected output stays plain.
func renderUnits(w io.Writer, classes []domain.UnitClass) string {
	r := lipgloss.NewRenderer(w)
	cell := r.NewStyle().PaddingRight(2)
	header := cell.Bold(true).Foreground(style.Accent)
	source := cell.Foreground(style.Muted)
	runnable := cell.Foreground(style.Success)
	blocked := cell.Foreground(style.Failure)

	statuses := make([]string, len(classes))
	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Headers("NAME", "SOURCE", "STATUS")
	for i, class := range classes {
		statuses[i] = unitStatus(class)
		t.Row(class.Name, class.Source, statuses[i])
	}

	return t.StyleFunc(func(row, col int) lipgloss.Style {
		var s lipgloss.Style
		switch {
		case row == table.HeaderRow:
			s = header
		case col == 1:
			s = source
		case col == 2 && statuses[row] == statusRunnable:
			s = runnable
		case col == 2:
			s = blocked
		default:
			s = cell
		}
		if col == 0 {
			s = s.PaddingLeft(2)
		}
		return s
	}).String()
}
