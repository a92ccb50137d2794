// Package cli provides the line-oriented battle driver: terminal I/O, output
// styling and meta-command dispatch for the Aion combat engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/aion/engine"
	"github.com/nathoo/aion/engine/state"
)

// CLI reads battle commands line by line and prints the results.
type CLI struct {
	Session
	In        io.Reader
	Out       io.Writer
	Plain     bool // no lipgloss styling
	EchoInput bool // echo each input line after the prompt (for script playback)
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) *CLI {
	return &CLI{
		Session: Session{Engine: eng, Defs: defs, SaveDir: DefaultSaveDir()},
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run shows the intro and the opening of the battle, then loops:
// prompt, input, dispatch, output. It returns on /quit or end of input.
func (c *CLI) Run() {
	if c.Defs.Battle.Intro != "" {
		c.printLine(c.Defs.Battle.Intro)
		c.printLine("")
	}
	c.printLines(c.Engine.Opening().Output)

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			lines, quit := c.Meta(input)
			for _, l := range lines {
				c.printSystem(l)
			}
			if quit {
				return
			}
			continue
		}

		cmd, ok := c.Expand(input)
		if !ok {
			c.printLine("Nothing to repeat.")
			continue
		}
		c.printLines(c.Command(cmd))
	}
}

func (c *CLI) printLines(lines []string) {
	for _, l := range lines {
		c.printLine(l)
	}
}

func (c *CLI) printLine(text string) {
	if !c.Plain && text != "" {
		text = Render(text, Classify(text))
	}
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	c.printLine("[" + text + "]")
}
