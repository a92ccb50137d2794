// Package engine provides the Step() orchestrator that wires together
// parsing, the turn scheduler, move resolution and event reporting into a
// single command.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nathoo/aion/config"
	"github.com/nathoo/aion/engine/battle"
	"github.com/nathoo/aion/engine/effects"
	"github.com/nathoo/aion/engine/events"
	"github.com/nathoo/aion/engine/parser"
	"github.com/nathoo/aion/engine/resolve"
	"github.com/nathoo/aion/engine/save"
	"github.com/nathoo/aion/engine/state"
	"github.com/nathoo/aion/types"
)

// Engine holds the battle definitions and the running battle.
type Engine struct {
	Defs       *state.Defs
	Settings   config.Battle
	Encounter  string
	RNG        *RNG
	Battle     *battle.Scheduler
	CommandLog []string

	recorder *events.Recorder
	extra    []battle.Observer
	names    map[string]string
	opening  []types.Event
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver adds an observer that receives every combat notification
// alongside the engine's own recorder and logger.
func WithObserver(o battle.Observer) Option {
	return func(e *Engine) { e.extra = append(e.extra, o) }
}

// New builds the rosters of an encounter and activates the first unit.
// An empty encounterID selects the battle's default encounter.
func New(defs *state.Defs, settings config.Battle, encounterID string, opts ...Option) (*Engine, error) {
	if encounterID == "" {
		encounterID = defs.Battle.Encounter
	}
	e := &Engine{
		Defs:       defs,
		Settings:   settings,
		Encounter:  encounterID,
		CommandLog: []string{},
		recorder:   events.NewRecorder(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.build(NewRNG(settings.Seed)); err != nil {
		return nil, err
	}
	if err := e.advance(); err != nil {
		return nil, fmt.Errorf("starting battle: %w", err)
	}
	e.opening = e.recorder.Drain()
	return e, nil
}

// build creates fresh units and a scheduler drawing from rng.
func (e *Engine) build(rng *RNG) error {
	friendly, enemy, err := state.Roster(e.Defs, e.Encounter)
	if err != nil {
		return err
	}
	if err := battle.CheckRoster(friendly, enemy); err != nil {
		for _, u := range unwrapJoined(err) {
			slog.Warn("unit has no elemental profile, all damage will be neutral", "error", u)
		}
	}

	e.names = map[string]string{}
	for _, u := range append(append([]*battle.Unit(nil), friendly...), enemy...) {
		e.names[u.ID] = u.Name
	}

	observer := events.Multi{e.recorder, events.NewLogger(nil)}
	observer = append(observer, e.extra...)

	e.RNG = rng
	e.Battle = battle.NewScheduler(e.Settings.Combat, rng, observer, friendly, enemy, e.Settings.StartingSide())
	return nil
}

func unwrapJoined(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

// Opening returns the events and text of the battle start: the first round
// and the first active unit. It returns them once.
func (e *Engine) Opening() types.Result {
	var result types.Result
	result.Events = e.opening
	e.opening = nil
	for _, ev := range result.Events {
		result.Output = append(result.Output, events.Describe(ev, e.names))
	}
	return result
}

// Step processes one command for the active unit and returns the result.
func (e *Engine) Step(input string) types.Result {
	var result types.Result

	// 0. Battle over: block all battle commands.
	if winner, over := e.Battle.Outcome(); over {
		result.Output = append(result.Output,
			fmt.Sprintf("The battle is over, the %s side won. Use /load to restore a save or /quit to exit.", winner))
		return result
	}

	// 1. Parse input.
	intent := parser.Parse(input)

	// 2. Empty input.
	current := e.Battle.Current()
	if current == nil {
		if err := e.advance(); err != nil {
			result.Output = append(result.Output, fmt.Sprintf("The battle cannot continue: %v", err))
			return result
		}
		e.collect(&result)
		current = e.Battle.Current()
	}
	if intent.Verb == "" {
		result.Output = append(result.Output, fmt.Sprintf("What will %s do?", current.Name))
		return result
	}

	switch intent.Verb {
	case "status":
		result.Output = e.statusLines()
		return result
	case "moves":
		result.Output = e.moveLines(current)
		return result
	case "queue":
		result.Output = e.queueLines()
		return result
	case "help":
		result.Output = helpLines()
		return result
	case "use", "pass":
	default:
		result.Output = append(result.Output, fmt.Sprintf("I don't know how to %q. Type help for commands.", intent.Verb))
		return result
	}

	// 3. Actions: resolve, then log only what actually happened.
	if intent.Verb == "pass" {
		e.Battle.Forfeit()
		result.Output = append(result.Output, fmt.Sprintf("%s ends the %s side's turn.", current.Name, current.Side))
	} else {
		move, targets, msg := e.resolveUse(current, intent)
		if msg != "" {
			result.Output = append(result.Output, msg)
			return result
		}
		if err := current.CheckMove(move, e.Battle.Pool()); err != nil {
			result.Output = append(result.Output, fmt.Sprintf("%s cannot use %s: %v.", current.Name, moveName(move), err))
			return result
		}
		result.Output = append(result.Output, fmt.Sprintf("%s uses %s.", current.Name, moveName(move)))
		current.UseMove(e.Battle, move, targets)
	}
	e.CommandLog = append(e.CommandLog, input)

	// 4. Outcome, or hand the turn to the next unit.
	if winner, over := e.Battle.Outcome(); over {
		e.collect(&result)
		result.Output = append(result.Output, fmt.Sprintf("The %s side wins the battle!", winner))
		return result
	}
	if err := e.advance(); err != nil {
		slog.Error("scheduler failed", "error", err)
		e.collect(&result)
		result.Output = append(result.Output, fmt.Sprintf("The battle cannot continue: %v", err))
		return result
	}
	e.collect(&result)
	return result
}

// advance hands the turn to the next queued unit. Once every unit of the
// acting side has had its turn, points left in the pool are forfeited and
// the other side's round starts.
func (e *Engine) advance() error {
	_, err := e.Battle.Advance()
	if errors.Is(err, battle.ErrQueueExhausted) {
		slog.Debug("forfeiting unused points", "side", e.Battle.Acting(), "pool", e.Battle.Pool())
		e.Battle.Forfeit()
		_, err = e.Battle.Advance()
	}
	return err
}

// Over reports whether one side has been wiped out.
func (e *Engine) Over() bool {
	_, over := e.Battle.Outcome()
	return over
}

func (e *Engine) collect(result *types.Result) {
	for _, ev := range e.recorder.Drain() {
		result.Events = append(result.Events, ev)
		result.Output = append(result.Output, events.Describe(ev, e.names))
	}
}

// resolveUse finds the move and targets named by a use intent. A non-empty
// message means the command was rejected before any roll.
func (e *Engine) resolveUse(u *battle.Unit, intent types.Intent) (*types.MoveDef, []*battle.Unit, string) {
	if intent.Object == "" {
		return nil, nil, "Use which move?"
	}
	move, err := resolve.Move(u, intent.Object)
	if err != nil {
		return nil, nil, rejection(err)
	}
	targets, err := resolve.Targets(e.Battle, u, move, intent.Targets)
	if err != nil {
		return nil, nil, rejection(err)
	}
	return move, targets, ""
}

// rejection turns a resolve error into a line for the player.
func rejection(err error) string {
	var (
		notFound *resolve.NotFoundError
		down     *resolve.DownError
		unknown  *resolve.UnknownMoveError
		ambig    *resolve.AmbiguityError
	)
	switch {
	case errors.As(err, &unknown):
		return fmt.Sprintf("%s doesn't know %q.", unknown.Unit.Name, unknown.Name)
	case errors.As(err, &notFound):
		return fmt.Sprintf("There is no %q in this battle.", notFound.Name)
	case errors.As(err, &down):
		return fmt.Sprintf("%s is already down.", down.Unit.Name)
	case errors.As(err, &ambig):
		return fmt.Sprintf("Which %s? (%s)", ambig.Name, strings.Join(ambig.Candidates, ", "))
	case errors.Is(err, resolve.ErrNoTargets):
		return "There is nobody to target."
	default:
		return err.Error()
	}
}

func moveName(m *types.MoveDef) string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

func (e *Engine) statusLines() []string {
	var out []string
	for _, side := range []types.Side{types.Friendly, types.Enemy} {
		out = append(out, strings.ToUpper(side.String()[:1])+side.String()[1:]+":")
		for _, u := range e.Battle.Roster(side) {
			line := "  " + u.String()
			if b := u.Buffs(); b != (effects.Buffs{}) {
				line += fmt.Sprintf(" atk%+d def%+d agi%+d", b.Attack, b.Defense, b.Agility)
			}
			switch {
			case !u.IsAlive():
				line += " [down]"
			case u.IsActive():
				line += " [active]"
			}
			out = append(out, line)
		}
	}
	return out
}

func (e *Engine) moveLines(u *battle.Unit) []string {
	out := []string{fmt.Sprintf("%s's moves (pool %d):", u.Name, e.Battle.Pool())}
	list := u.Moves()
	if ult := u.Ultimate(); ult != nil {
		list = append(list, ult)
	}
	for _, m := range list {
		mark := " "
		if !u.CanAct(m, e.Battle.Pool()) {
			mark = "x"
		}
		line := fmt.Sprintf(" %s %-12s %-8s AP %d  MP %d  HP %d", mark, m.ID, m.Element, m.ActionPointCost, m.ManaCost, m.HealthCost)
		if m.Ultimate {
			line += fmt.Sprintf("  ultimate (%d%%)", u.Charge())
		}
		out = append(out, line)
	}
	return out
}

func (e *Engine) queueLines() []string {
	s := e.Battle
	out := []string{fmt.Sprintf("Round %d, %s side, %d points left.", s.Round(), s.Acting(), s.Pool())}
	if cur := s.Current(); cur != nil {
		out = append(out, "Acting: "+cur.Name)
	}
	var names []string
	for _, u := range s.Queue() {
		names = append(names, u.Name)
	}
	if len(names) > 0 {
		out = append(out, "Next: "+strings.Join(names, ", "))
	}
	return out
}

func helpLines() []string {
	return []string{
		"use <move> [on <target>, <target>]  Use a move (cast, u). \"all\" targets the whole side.",
		"pass                                Give up the side's remaining points (skip, z).",
		"status                              Show both rosters (st).",
		"moves                               List the active unit's moves (m).",
		"queue                               Show the turn order (q).",
	}
}

// Save serializes the running battle.
func (e *Engine) Save() ([]byte, error) {
	return save.Save(e.Defs, e.Encounter, e.Battle, e.RNG, e.CommandLog)
}

// Restore replaces the running battle with a saved one. The engine is left
// untouched when the save does not apply.
func (e *Engine) Restore(sd *save.SaveData) error {
	if sd == nil {
		return errors.New("no save data")
	}
	prev := *e
	e.Encounter = sd.Encounter
	if err := e.build(RestoreRNG(sd.RNGSeed, sd.RNGPosition)); err != nil {
		*e = prev
		return fmt.Errorf("restoring battle: %w", err)
	}
	if err := save.Apply(sd, e.Battle, e.Defs); err != nil {
		*e = prev
		return fmt.Errorf("restoring battle: %w", err)
	}
	e.CommandLog = append([]string{}, sd.CommandLog...)
	e.recorder.Drain()
	e.opening = nil
	return nil
}
