package battle

import (
	"fmt"

	"github.com/nathoo/aion/engine/effects"
	"github.com/nathoo/aion/types"
)

// EffectState is the serializable form of an active effect.
type EffectState struct {
	Template  string `json:"template"`
	Name      string `json:"name"`
	Remaining int    `json:"remaining"`
	Attack    int    `json:"attack"`
	Defense   int    `json:"defense"`
	Agility   int    `json:"agility"`
}

// UnitState captures every mutable field of a unit.
type UnitState struct {
	ID      string        `json:"id"`
	Health  int           `json:"health"`
	Mana    int           `json:"mana"`
	Charge  int           `json:"charge"`
	Active  bool          `json:"active"`
	Buffs   effects.Buffs `json:"buffs"`
	Effects []EffectState `json:"effects"`
}

// Snapshot returns the unit's mutable state.
func (u *Unit) Snapshot() UnitState {
	st := UnitState{
		ID:      u.ID,
		Health:  u.health,
		Mana:    u.mana,
		Charge:  u.charge,
		Active:  u.active,
		Buffs:   u.effects.Totals(),
		Effects: []EffectState{},
	}
	for _, e := range u.effects.Active() {
		es := EffectState{
			Name:      e.Name,
			Remaining: e.Remaining,
			Attack:    e.Attack,
			Defense:   e.Defense,
			Agility:   e.Agility,
		}
		if e.Template != nil {
			es.Template = e.Template.ID
		}
		st.Effects = append(st.Effects, es)
	}
	return st
}

// Restore overwrites the unit's mutable state. templates resolves effect
// template IDs; unknown IDs keep the stored deltas without a template.
func (u *Unit) Restore(st UnitState, templates func(id string) *types.EffectTemplate) error {
	if st.ID != u.ID {
		return fmt.Errorf("restoring unit %q from state of %q", u.ID, st.ID)
	}
	if st.Health < 0 || st.Health > u.maxHealth {
		return fmt.Errorf("unit %q: health %d outside [0, %d]", u.ID, st.Health, u.maxHealth)
	}
	if st.Mana < 0 || st.Mana > u.maxMana {
		return fmt.Errorf("unit %q: mana %d outside [0, %d]", u.ID, st.Mana, u.maxMana)
	}

	active := make([]*types.EffectInstance, 0, len(st.Effects))
	for _, es := range st.Effects {
		inst := &types.EffectInstance{
			Name:      es.Name,
			Remaining: es.Remaining,
			Attack:    es.Attack,
			Defense:   es.Defense,
			Agility:   es.Agility,
		}
		if templates != nil && es.Template != "" {
			inst.Template = templates(es.Template)
		}
		active = append(active, inst)
	}

	u.health = st.Health
	u.mana = st.Mana
	u.SetCharge(st.Charge)
	u.active = st.Active
	u.effects.Restore(active)
	return nil
}
