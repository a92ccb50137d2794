// Package state holds the immutable battle definitions and builds the
// runtime rosters from them.
package state

import (
	"errors"
	"fmt"

	"github.com/nathoo/aion/engine/battle"
	"github.com/nathoo/aion/types"
)

// Lookup failures. Returned wrapped with the offending ID.
var (
	ErrUnknownEncounter = errors.New("unknown encounter")
	ErrUnknownUnit      = errors.New("unknown unit")
	ErrUnknownKind      = errors.New("unknown kind")
	ErrUnknownEquipment = errors.New("unknown equipment")
	ErrUnknownMove      = errors.New("unknown move")
)

// Defs holds the immutable battle definitions loaded from Lua.
// Pointers are shared by every unit built from them and never mutated.
type Defs struct {
	Battle     types.BattleDef
	Effects    map[string]*types.EffectTemplate
	Moves      map[string]*types.MoveDef
	Kinds      map[string]*types.KindDef
	Equipment  map[string]*types.EquipmentDef
	Units      map[string]types.UnitDef
	Encounters map[string]types.EncounterDef
}

// NewDefs returns empty definitions with every map allocated.
func NewDefs() *Defs {
	return &Defs{
		Effects:    map[string]*types.EffectTemplate{},
		Moves:      map[string]*types.MoveDef{},
		Kinds:      map[string]*types.KindDef{},
		Equipment:  map[string]*types.EquipmentDef{},
		Units:      map[string]types.UnitDef{},
		Encounters: map[string]types.EncounterDef{},
	}
}

// Effect returns the effect template with the given ID, or nil.
func (d *Defs) Effect(id string) *types.EffectTemplate {
	return d.Effects[id]
}

// Move returns the move with the given ID.
func (d *Defs) Move(id string) (*types.MoveDef, error) {
	m, ok := d.Moves[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownMove, id)
	}
	return m, nil
}

// Roster builds both sides of an encounter. An empty encounterID selects
// the battle's default encounter. A unit template listed more than once
// gets numbered instance IDs ("slime", "slime#2", ...).
func Roster(d *Defs, encounterID string) (friendly, enemy []*battle.Unit, err error) {
	if encounterID == "" {
		encounterID = d.Battle.Encounter
	}
	enc, ok := d.Encounters[encounterID]
	if !ok {
		return nil, nil, fmt.Errorf("%w %q", ErrUnknownEncounter, encounterID)
	}

	seen := map[string]int{}
	build := func(ids []string, side types.Side) ([]*battle.Unit, error) {
		units := make([]*battle.Unit, 0, len(ids))
		for _, id := range ids {
			u, err := BuildUnit(d, id, side)
			if err != nil {
				return nil, fmt.Errorf("encounter %q: %w", encounterID, err)
			}
			seen[id]++
			if n := seen[id]; n > 1 {
				u.ID = fmt.Sprintf("%s#%d", id, n)
				u.Name = fmt.Sprintf("%s #%d", u.Name, n)
			}
			units = append(units, u)
		}
		return units, nil
	}

	if friendly, err = build(enc.Friendly, types.Friendly); err != nil {
		return nil, nil, err
	}
	if enemy, err = build(enc.Enemy, types.Enemy); err != nil {
		return nil, nil, err
	}
	return friendly, enemy, nil
}

// BuildUnit resolves a unit template's kind, equipment and ultimate and
// returns a fresh unit for side.
func BuildUnit(d *Defs, unitID string, side types.Side) (*battle.Unit, error) {
	def, ok := d.Units[unitID]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownUnit, unitID)
	}

	var kind *types.KindDef
	if def.Kind != "" {
		if kind, ok = d.Kinds[def.Kind]; !ok {
			return nil, fmt.Errorf("unit %q: %w %q", unitID, ErrUnknownKind, def.Kind)
		}
	}

	equipment := make([]*types.EquipmentDef, 0, len(def.Equipment))
	for _, id := range def.Equipment {
		eq, ok := d.Equipment[id]
		if !ok {
			return nil, fmt.Errorf("unit %q: %w %q", unitID, ErrUnknownEquipment, id)
		}
		equipment = append(equipment, eq)
	}

	var ultimate *types.MoveDef
	if def.Ultimate != "" {
		m, err := d.Move(def.Ultimate)
		if err != nil {
			return nil, fmt.Errorf("unit %q ultimate: %w", unitID, err)
		}
		ultimate = m
	}

	return battle.NewUnit(def, side, kind, equipment, ultimate), nil
}
