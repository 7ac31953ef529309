package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/dreamstory/internal/sim"
)

// Table column widths
const (
	colName   = 16
	colTime   = 8
	colEffect = 44
	colStatus = 8
)

// newActivityTable creates the table listing the current room's activities.
func newActivityTable(height int) table.Model {
	columns := []table.Column{
		{Title: "Activity", Width: colName},
		{Title: "Time", Width: colTime},
		{Title: "Effect", Width: colEffect},
		{Title: "", Width: colStatus},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorEdge).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorText).
		Background(colorTab).
		Bold(false)
	t.SetStyles(s)

	return t
}

// activityRows builds one row per activity in the character's room.
// The last column says why an activity cannot start right now.
func activityRows(s sim.State, cat *sim.Catalog) ([]table.Row, []string) {
	list := cat.InRoom(s.Room)
	rows := make([]table.Row, len(list))
	ids := make([]string, len(list))
	for i, a := range list {
		status := "ready"
		switch {
		case s.Active != nil && s.Active.ActivityID == a.ID:
			status = "doing"
		case s.Busy():
			status = "busy"
		case !a.Available(s):
			status = "locked"
		}
		rows[i] = table.Row{
			a.Name,
			formatDuration(a.Duration),
			a.Effect.String(),
			status,
		}
		ids[i] = a.ID
	}
	return rows, ids
}

// formatDuration renders game minutes as "1h 30m" or "20m".
func formatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}
