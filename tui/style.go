package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/nathoo/aion/cli"
)

// logLine stores an unstyled line with its classification so the log can
// be re-wrapped when the terminal is resized.
type logLine struct {
	text  string
	kind  cli.LineKind
	input bool
}

func newLogLines(input string, lines []string, system bool) []logLine {
	var out []logLine
	if input != "" {
		out = append(out, logLine{text: "> " + input, input: true})
	}
	for _, l := range lines {
		kind := cli.Classify(l)
		if system {
			l = "[" + l + "]"
			kind = cli.KindSystem
		}
		out = append(out, logLine{text: l, kind: kind})
	}
	// Blank separator between commands.
	return append(out, logLine{})
}

// renderLog wraps every line to width and styles it.
func renderLog(lines []logLine, width int) string {
	if width < 10 {
		width = 10
	}
	styled := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.text == "" {
			styled = append(styled, "")
			continue
		}
		wrapped := ansi.Wordwrap(l.text, width, "")
		if l.input {
			styled = append(styled, cli.StyleInput.Render(wrapped))
			continue
		}
		styled = append(styled, cli.Render(wrapped, l.kind))
	}
	return strings.Join(styled, "\n")
}
