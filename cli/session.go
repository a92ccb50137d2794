package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nathoo/aion/engine"
	"github.com/nathoo/aion/engine/save"
	"github.com/nathoo/aion/engine/state"
	"github.com/nathoo/aion/types"
)

// Session holds what both front ends share: the engine, the save directory
// and the trace toggle. Meta-commands are handled here.
type Session struct {
	Engine  *engine.Engine
	Defs    *state.Defs
	SaveDir string
	Trace   bool

	last string // for "again"/"g"
}

// DefaultSaveDir returns ~/.aion/saves.
func DefaultSaveDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".aion", "saves")
}

// Meta dispatches a meta-command. It returns the output lines and whether
// the program should exit.
func (s *Session) Meta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil, false
	}
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true
	case "/save":
		return s.save(arg), false
	case "/load":
		return s.load(arg), false
	case "/help":
		return HelpLines(), false
	case "/state":
		return s.state(), false
	case "/trace":
		s.Trace = !s.Trace
		if s.Trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false
	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (s *Session) savePath(name string) (string, error) {
	if name == "" {
		name = "quicksave"
	}
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid save name %q", name)
	}
	return filepath.Join(s.SaveDir, name+".json"), nil
}

func (s *Session) save(name string) []string {
	path, err := s.savePath(name)
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	data, err := s.Engine.Save()
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	if err := os.MkdirAll(s.SaveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("Battle saved to %s.", strings.TrimSuffix(filepath.Base(path), ".json"))}
}

func (s *Session) load(name string) []string {
	path, err := s.savePath(name)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	sd, err := save.Load(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	if err := s.Engine.Restore(sd); err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	out := []string{fmt.Sprintf("Battle loaded from %s (round %d).", strings.TrimSuffix(filepath.Base(path), ".json"), sd.Round)}
	return append(out, s.Engine.Step("queue").Output...)
}

func (s *Session) state() []string {
	e := s.Engine
	b := e.Battle
	out := []string{
		fmt.Sprintf("Encounter: %s", e.Encounter),
		fmt.Sprintf("Round: %d (%s side, pool %d)", b.Round(), b.Acting(), b.Pool()),
	}
	if cur := b.Current(); cur != nil {
		out = append(out, fmt.Sprintf("Active: %s", cur.ID))
	}
	out = append(out,
		fmt.Sprintf("RNG: seed %d, position %d", e.RNG.Seed(), e.RNG.Position()),
		fmt.Sprintf("Commands: %d", len(e.CommandLog)),
	)
	if winner, over := b.Outcome(); over {
		out = append(out, fmt.Sprintf("Winner: %s", winner))
	}
	return out
}

// Expand turns "again" or "g" into the last battle command and remembers
// anything else. It reports false when there is nothing to repeat.
func (s *Session) Expand(input string) (string, bool) {
	switch strings.ToLower(input) {
	case "again", "g":
		if s.last == "" {
			return "", false
		}
		return s.last, true
	}
	s.last = input
	return input, true
}

// Command runs one battle command, with the event trace appended while
// tracing is on.
func (s *Session) Command(input string) []string {
	result := s.Engine.Step(input)
	if !s.Trace {
		return result.Output
	}
	return append(result.Output, TraceLines(result)...)
}

// TraceLines formats the events of a result for /trace output.
func TraceLines(result types.Result) []string {
	if len(result.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(result.Events))}
	for _, e := range result.Events {
		keys := make([]string, 0, len(e.Data))
		for k := range e.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := []string{e.Type}
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, e.Data[k]))
		}
		lines = append(lines, "[trace]   "+strings.Join(parts, " "))
	}
	return lines
}

// HelpLines lists the meta-commands and battle commands.
func HelpLines() []string {
	return []string{
		"System:",
		"  /save [name]  Save the battle (default: quicksave)",
		"  /load [name]  Load a battle (default: quicksave)",
		"  /quit         Exit",
		"  /help         Show this help",
		"  /state        Debug: scheduler and RNG state",
		"  /trace        Toggle event trace output",
		"",
		"Battle commands:",
		"  use <move> [on <target>, ...]  Use a move (u, cast). \"all\" hits the whole side",
		"  pass (z)                       End the side's turn",
		"  status (st)                    Show both rosters",
		"  moves (m)                      List the active unit's moves",
		"  queue (q)                      Show the turn order",
		"  again (g)                      Repeat your last command",
	}
}
