package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/aion/cli"
)

// statusLeft describes the round: number, acting side and remaining points.
func (m Model) statusLeft() string {
	b := m.session.Engine.Battle
	if winner, over := b.Outcome(); over {
		return fmt.Sprintf(" Round %d | %s side won", b.Round(), winner)
	}
	return fmt.Sprintf(" Round %d | %s side | AP %d", b.Round(), b.Acting(), b.Pool())
}

// statusRight describes the active unit, shortened when the bar is narrow.
func (m Model) statusRight(room int) string {
	cur := m.session.Engine.Battle.Current()
	if cur == nil {
		return ""
	}
	full := fmt.Sprintf("%s HP %d/%d MP %d/%d Charge %d%% ",
		cur.Name, cur.Health(), cur.MaxHealth(), cur.Mana(), cur.MaxMana(), cur.Charge())
	if lipgloss.Width(full) <= room {
		return full
	}
	return fmt.Sprintf("%s %d/%d ", cur.Name, cur.Health(), cur.MaxHealth())
}

// renderStatusBar produces a full-width inverted status line.
func (m Model) renderStatusBar() string {
	left := m.statusLeft()
	right := m.statusRight(m.width - lipgloss.Width(left) - 2)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return cli.StyleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
