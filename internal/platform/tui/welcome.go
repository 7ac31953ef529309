package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const welcomeText = `You live alone in a small flat: bedroom, living room,
kitchen, gym and bathroom. Every quarter hour you get a little
hungrier, sleepier and grubbier, and a little more tired.

Keep your needs in the green. Your health follows them.
Pick an activity with the arrow keys and press enter.
Moving to another room is 1 to 5, and ? shows every key.

The clock starts at 07:00 on day 1.`

// renderWelcome renders the intro screen shown before a new game starts.
func renderWelcome(width int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("DREAM STORY"))
	b.WriteString("\n\n")
	b.WriteString(welcomeText)
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(colorGood).Render("Press any key to begin"))

	box := panelStyle.Padding(1, 3).Render(b.String())
	if width == 0 {
		return box
	}

	lines := strings.Split(box, "\n")
	for i, line := range lines {
		lines[i] = centerText(line, width)
	}
	return strings.Join(lines, "\n")
}
