package loader

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/nathoo/aion/engine/state"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Buff and debuff deltas are bounded per effect.
const (
	minModifier = -3
	maxModifier = 3
)

// validate checks the compiled defs for referential integrity and
// consistency. Problems already recorded by compile are reported with the
// rest.
func validate(defs *state.Defs, ve *ValidationError) error {
	if defs.Battle.Title == "" {
		ve.errorf("Battle.title is required")
	}

	switch {
	case len(defs.Encounters) == 0:
		ve.errorf("at least one Encounter is required")
	case defs.Battle.Encounter == "":
		ve.errorf("Battle.encounter is required when more than one encounter is defined")
	default:
		if _, ok := defs.Encounters[defs.Battle.Encounter]; !ok {
			ve.errorf("default encounter %q not found in defined encounters", defs.Battle.Encounter)
		}
	}

	for _, id := range sortedKeys(defs.Effects) {
		eff := defs.Effects[id]
		if eff.Duration <= 0 {
			ve.errorf("effect %q must last at least one turn", id)
		}
		for name, v := range map[string]int{"attack": eff.Attack, "defense": eff.Defense, "agility": eff.Agility} {
			if v < minModifier || v > maxModifier {
				ve.errorf("effect %q %s modifier %d is outside [%d, %d]", id, name, v, minModifier, maxModifier)
			}
		}
	}

	for _, id := range sortedKeys(defs.Moves) {
		m := defs.Moves[id]
		if m.MinDamage < 0 || m.MaxDamage < 0 {
			ve.errorf("move %q has negative damage", id)
		}
		if m.MinDamage > m.MaxDamage {
			ve.errorf("move %q minimum damage %d exceeds maximum %d", id, m.MinDamage, m.MaxDamage)
		}
		if m.HealthCost < 0 || m.ManaCost < 0 || m.ActionPointCost < 0 {
			ve.errorf("move %q has a negative cost", id)
		}
		if m.HealingAmount < 0 {
			ve.errorf("move %q has negative healing", id)
		}
	}

	for _, id := range sortedKeys(defs.Kinds) {
		for _, m := range defs.Kinds[id].Moves {
			if m.Ultimate {
				ve.warnf("aion %q lists ultimate move %q as a regular move", id, m.ID)
			}
		}
	}

	for _, id := range sortedKeys(defs.Units) {
		u := defs.Units[id]
		if u.Kind == "" {
			ve.warnf("unit %q has no aion; it has no moves and takes neutral damage", id)
		} else if _, ok := defs.Kinds[u.Kind]; !ok {
			ve.errorf("unit %q references undefined aion %q", id, u.Kind)
		}
		for _, eq := range u.Equipment {
			if _, ok := defs.Equipment[eq]; !ok {
				ve.errorf("unit %q references undefined equipment %q", id, eq)
			}
		}
		if u.Ultimate != "" {
			m, ok := defs.Moves[u.Ultimate]
			switch {
			case !ok:
				ve.errorf("unit %q references undefined ultimate %q", id, u.Ultimate)
			case !m.Ultimate:
				ve.errorf("unit %q ultimate %q is not marked ultimate", id, u.Ultimate)
			}
		}
		if u.MaxHealth <= 0 {
			ve.errorf("unit %q must have positive health", id)
		}
		if u.MaxMana < 0 {
			ve.errorf("unit %q has negative mana", id)
		}
		if u.PointsPerTurn < 0 {
			ve.errorf("unit %q has negative points per turn", id)
		}
	}

	for _, id := range sortedKeys(defs.Encounters) {
		enc := defs.Encounters[id]
		if len(enc.Friendly) == 0 || len(enc.Enemy) == 0 {
			ve.errorf("encounter %q needs units on both sides", id)
		}
		for _, uid := range append(append([]string(nil), enc.Friendly...), enc.Enemy...) {
			if _, ok := defs.Units[uid]; !ok {
				ve.errorf("encounter %q references undefined unit %q", id, uid)
			}
		}
	}

	for _, w := range ve.Warnings {
		slog.Warn("battle data", "warning", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
