package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/dreamstory/internal/sim"
)

// Layout constants
const (
	barWidth   = 20
	labelWidth = 11
	panelWidth = 44
)

var (
	colorGood = lipgloss.Color("2")
	colorWarn = lipgloss.Color("3")
	colorBad  = lipgloss.Color("1")
	colorDim  = lipgloss.Color("241")
	colorText = lipgloss.Color("229")
	colorEdge = lipgloss.Color("240")
	colorTab  = lipgloss.Color("57")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	dimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle  = lipgloss.NewStyle().Foreground(colorBad)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorEdge).Padding(0, 1)
	activeTab   = lipgloss.NewStyle().Bold(true).Foreground(colorText).Background(colorTab).Padding(0, 1)
	inactiveTab = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)
)

// needRow describes how one need is shown. Inverse needs are good when low.
type needRow struct {
	label   string
	value   func(sim.Needs) float64
	inverse bool
}

var needRows = []needRow{
	{"Health", func(n sim.Needs) float64 { return n.Health }, false},
	{"Energy", func(n sim.Needs) float64 { return n.Energy }, false},
	{"Hunger", func(n sim.Needs) float64 { return n.Hunger }, true},
	{"Hygiene", func(n sim.Needs) float64 { return n.Hygiene }, false},
	{"Happiness", func(n sim.Needs) float64 { return n.Happiness }, false},
	{"Sleepiness", func(n sim.Needs) float64 { return n.Sleepiness }, true},
}

// statColor grades a need: 70 and up is good, 40 and up is fair.
func statColor(value float64, inverse bool) lipgloss.Color {
	if inverse {
		value = 100 - value
	}
	switch {
	case value >= 70:
		return colorGood
	case value >= 40:
		return colorWarn
	default:
		return colorBad
	}
}

// bar draws a width-cell gauge filled to value percent.
func bar(value float64, width int) string {
	filled := int(math.Round(sim.Clamp(value) / 100 * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// renderHeader renders the day, clock and speed line.
func renderHeader(s sim.State) string {
	parts := []string{
		fmt.Sprintf("Day %d", s.Day),
		sim.FormatClock(s.ClockMinutes),
		sim.PeriodOf(s.ClockMinutes).String(),
		s.Room.Title(),
		fmt.Sprintf("%gx", s.Speed),
	}
	line := titleStyle.Render("DREAM STORY") + "  " + strings.Join(parts, "  |  ")
	if s.Paused {
		line += "  " + errorStyle.Bold(true).Render("PAUSED")
	}
	return line
}

// renderNeeds renders the need gauges.
func renderNeeds(n sim.Needs) string {
	var b strings.Builder
	for i, row := range needRows {
		if i > 0 {
			b.WriteString("\n")
		}
		v := row.value(n)
		style := lipgloss.NewStyle().Foreground(statColor(v, row.inverse))
		fmt.Fprintf(&b, "%-*s %s %3.0f", labelWidth, row.label, style.Render(bar(v, barWidth)), v)
	}
	return panelStyle.Width(panelWidth).Render(b.String())
}

// renderActivity renders the running activity, or an idle line.
func renderActivity(s sim.State, cat *sim.Catalog) string {
	if s.Active == nil {
		return panelStyle.Width(panelWidth).Render(dimStyle.Render("Idle. Pick something to do."))
	}
	a, ok := cat.Get(s.Active.ActivityID)
	if !ok {
		return panelStyle.Width(panelWidth).Render(s.Active.ActivityID)
	}
	done := 100 * (1 - s.Active.MinutesRemaining/float64(a.Duration))
	left := int(math.Ceil(s.Active.MinutesRemaining))
	body := fmt.Sprintf("%s\n%s %d min left",
		titleStyle.Render(a.Name),
		lipgloss.NewStyle().Foreground(colorGood).Render(bar(done, barWidth)),
		left,
	)
	return panelStyle.Width(panelWidth).Render(body)
}

// renderRooms renders the room tabs with their number keys.
func renderRooms(current sim.Room) string {
	tabs := make([]string, len(sim.Rooms))
	for i, r := range sim.Rooms {
		label := fmt.Sprintf("%d %s", i+1, r.Title())
		if r == current {
			tabs[i] = activeTab.Render(label)
		} else {
			tabs[i] = inactiveTab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
