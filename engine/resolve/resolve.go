// Package resolve maps the move and unit names typed by a player to the
// moves and units of a running battle.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/aion/engine/battle"
	"github.com/nathoo/aion/types"
)

// ErrNoTargets is returned when a move has no default target left.
var ErrNoTargets = errors.New("nobody to target")

// AmbiguityError indicates multiple units matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("which %s? (%s)", e.Name, strings.Join(e.Candidates, ", "))
}

// NotFoundError indicates no unit matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("there is no %q in this battle", e.Name)
}

// DownError indicates the named unit has no health left.
type DownError struct {
	Unit *battle.Unit
}

func (e *DownError) Error() string {
	return fmt.Sprintf("%s is already down", e.Unit.Name)
}

// UnknownMoveError indicates the unit has no move by that name.
type UnknownMoveError struct {
	Unit *battle.Unit
	Name string
}

func (e *UnknownMoveError) Error() string {
	return fmt.Sprintf("%s doesn't know %q", e.Unit.Name, e.Name)
}

// Move finds one of u's moves, its ultimate included, by ID or name.
func Move(u *battle.Unit, name string) (*types.MoveDef, error) {
	candidates := u.Moves()
	if ult := u.Ultimate(); ult != nil {
		candidates = append(candidates, ult)
	}
	q := normalize(name)
	for _, m := range candidates {
		if normalize(m.ID) == q || normalize(m.Name) == q {
			return m, nil
		}
	}
	return nil, &UnknownMoveError{Unit: u, Name: name}
}

// Unit finds a unit by ID or full name, falling back to a single word of
// its name ("frost" for "Jack Frost").
func Unit(units []*battle.Unit, name string) (*battle.Unit, error) {
	q := normalize(name)
	var exact, partial []*battle.Unit
	for _, u := range units {
		switch {
		case normalize(u.ID) == q || normalize(u.Name) == q:
			exact = append(exact, u)
		case hasWord(u.Name, q):
			partial = append(partial, u)
		}
	}

	matches := exact
	if len(matches) == 0 {
		matches = partial
	}
	switch len(matches) {
	case 0:
		return nil, &NotFoundError{Name: name}
	case 1:
		if !matches[0].IsAlive() {
			return nil, &DownError{Unit: matches[0]}
		}
		return matches[0], nil
	default:
		ids := make([]string, 0, len(matches))
		for _, u := range matches {
			ids = append(ids, u.ID)
		}
		return nil, &AmbiguityError{Name: name, Candidates: ids}
	}
}

// Targets picks the targets of actor's move. Without names, passive moves
// target the actor and other moves the first living opponent. "all" selects
// every living unit on the side the move naturally aims at.
func Targets(s *battle.Scheduler, actor *battle.Unit, move *types.MoveDef, names []string) ([]*battle.Unit, error) {
	side := actor.Side.Opposite()
	if move.Element == types.Passive {
		side = actor.Side
	}

	if len(names) == 0 {
		if move.Element == types.Passive {
			return []*battle.Unit{actor}, nil
		}
		for _, u := range s.Roster(side) {
			if u.IsAlive() {
				return []*battle.Unit{u}, nil
			}
		}
		return nil, ErrNoTargets
	}

	everyone := append(append([]*battle.Unit(nil), s.Roster(types.Friendly)...), s.Roster(types.Enemy)...)
	var targets []*battle.Unit
	for _, name := range names {
		if strings.EqualFold(name, "all") {
			for _, u := range s.Roster(side) {
				if u.IsAlive() {
					targets = append(targets, u)
				}
			}
			continue
		}
		u, err := Unit(everyone, name)
		if err != nil {
			return nil, err
		}
		targets = append(targets, u)
	}
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}
	return targets, nil
}

// normalize lowercases and joins words with underscores, so "mega fire"
// matches the ID "mega_fire".
func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

func hasWord(name, q string) bool {
	for _, w := range strings.Fields(strings.ToLower(name)) {
		if w == q {
			return true
		}
	}
	return false
}
