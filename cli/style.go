package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LineKind identifies the type of a battle log line for styling.
type LineKind int

const (
	KindNarration LineKind = iota
	KindHit
	KindCritical
	KindMiss
	KindEffect
	KindRound
	KindTurn
	KindRejected
	KindOutcome
	KindSystem
	KindTrace
)

var (
	styleNarration = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	styleHit       = lipgloss.NewStyle().Foreground(lipgloss.Color("209"))
	styleCritical  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleMiss      = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	styleEffect    = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	styleRound     = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	styleTurn      = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	styleRejected  = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	styleOutcome   = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	styleSystem    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	styleTrace     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	// StyleInput renders echoed commands and the prompt.
	StyleInput = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))

	// StyleStatusBar renders the TUI status line.
	StyleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)
)

// Classify determines what kind of output line this is from the wording the
// engine uses.
func Classify(line string) LineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return KindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return KindSystem
	case strings.HasPrefix(line, "Critical!"):
		return KindCritical
	case strings.Contains(line, " damage from "), strings.Contains(line, " absorbs "):
		return KindHit
	case strings.Contains(line, " evades "):
		return KindMiss
	case strings.Contains(line, " gains "), strings.Contains(line, " wears off "),
		strings.Contains(line, " is affected by "):
		return KindEffect
	case strings.HasPrefix(line, "-- "):
		return KindRound
	case strings.HasSuffix(line, "'s turn."):
		return KindTurn
	case strings.Contains(line, " wins the battle"), strings.HasPrefix(line, "The battle is over"):
		return KindOutcome
	case strings.Contains(line, " cannot use "),
		strings.Contains(line, " doesn't know "),
		strings.HasPrefix(line, "There is no "),
		strings.HasPrefix(line, "I don't know how"),
		strings.HasSuffix(line, " is already down."):
		return KindRejected
	default:
		return KindNarration
	}
}

// Render applies the style for kind.
func Render(line string, kind LineKind) string {
	switch kind {
	case KindHit:
		return styleHit.Render(line)
	case KindCritical:
		return styleCritical.Render(line)
	case KindMiss:
		return styleMiss.Render(line)
	case KindEffect:
		return styleEffect.Render(line)
	case KindRound:
		return styleRound.Render(line)
	case KindTurn:
		return styleTurn.Render(line)
	case KindRejected:
		return styleRejected.Render(line)
	case KindOutcome:
		return styleOutcome.Render(line)
	case KindSystem:
		return styleSystem.Render(line)
	case KindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarration.Render(line)
	}
}
