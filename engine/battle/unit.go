// Package battle holds the per-unit combat state, move resolution, and the
// turn scheduler that drives the shared action-point economy.
package battle

import (
	"errors"
	"fmt"

	"github.com/nathoo/aion/engine/effects"
	"github.com/nathoo/aion/engine/formula"
	"github.com/nathoo/aion/types"
)

// MaxCharge is the charge percentage that unlocks a unit's ultimate.
const MaxCharge = 100

// ErrMissingProfile is reported at setup for units without an affinity table.
var ErrMissingProfile = errors.New("no elemental profile configured")

// Unit is a mutable battle participant.
// Health, mana, charge and buffs are only changed through guarded methods.
type Unit struct {
	ID   string
	Name string
	Side types.Side
	Kind string

	maxHealth     int
	health        int
	maxMana       int
	mana          int
	stats         types.Stats
	pointsPerTurn int
	charge        int
	active        bool

	ultimate *types.MoveDef
	moves    []*types.MoveDef
	profile  *types.ElementalProfile
	effects  *effects.Tracker
	observer Observer
}

// NewUnit builds a unit from its template, its kind and its equipment.
// Equipment stat modifiers are added to the base stats and equipment moves
// are merged after the kind's moves, dropping duplicates. kind may be nil.
func NewUnit(def types.UnitDef, side types.Side, kind *types.KindDef, equipment []*types.EquipmentDef, ultimate *types.MoveDef) *Unit {
	u := &Unit{
		ID:            def.ID,
		Name:          def.Name,
		Side:          side,
		Kind:          def.Kind,
		maxHealth:     def.MaxHealth,
		health:        def.MaxHealth,
		maxMana:       def.MaxMana,
		mana:          def.MaxMana,
		stats:         def.Stats,
		pointsPerTurn: def.PointsPerTurn,
		ultimate:      ultimate,
		effects:       effects.NewTracker(),
	}
	if u.Name == "" {
		u.Name = def.ID
	}

	seen := map[string]bool{}
	addMoves := func(moves []*types.MoveDef) {
		for _, m := range moves {
			if m == nil || seen[moveKey(m)] {
				continue
			}
			seen[moveKey(m)] = true
			u.moves = append(u.moves, m)
		}
	}

	if kind != nil {
		u.profile = kind.Profile
		addMoves(kind.Moves)
	}
	for _, eq := range equipment {
		if eq == nil {
			continue
		}
		u.stats.Strength += eq.Modifiers.Strength
		u.stats.Magic += eq.Modifiers.Magic
		u.stats.Endurance += eq.Modifiers.Endurance
		u.stats.Agility += eq.Modifiers.Agility
		u.stats.Luck += eq.Modifiers.Luck
		addMoves(eq.ExtraMoves)
	}
	return u
}

func moveKey(m *types.MoveDef) string {
	if m.ID != "" {
		return m.ID
	}
	return fmt.Sprintf("%p", m)
}

// CheckRoster reports every unit that has no elemental profile. The battle
// can still run: such units take neutral damage from every element.
func CheckRoster(units ...[]*Unit) error {
	var errs []error
	for _, roster := range units {
		for _, u := range roster {
			if u.profile == nil {
				errs = append(errs, fmt.Errorf("unit %q (kind %q): %w", u.ID, u.Kind, ErrMissingProfile))
			}
		}
	}
	return errors.Join(errs...)
}

func (u *Unit) Health() int        { return u.health }
func (u *Unit) MaxHealth() int     { return u.maxHealth }
func (u *Unit) Mana() int          { return u.mana }
func (u *Unit) MaxMana() int       { return u.maxMana }
func (u *Unit) Charge() int        { return u.charge }
func (u *Unit) Stats() types.Stats { return u.stats }
func (u *Unit) PointsPerTurn() int { return u.pointsPerTurn }
func (u *Unit) IsActive() bool     { return u.active }

// IsAlive reports whether the unit still has health. Dead units stay in
// their roster but are never queued again.
func (u *Unit) IsAlive() bool { return u.health > 0 }

// Ultimate returns the unit's designated ultimate move, or nil.
func (u *Unit) Ultimate() *types.MoveDef { return u.ultimate }

// Moves returns the unit's active move list.
func (u *Unit) Moves() []*types.MoveDef {
	return append([]*types.MoveDef(nil), u.moves...)
}

// Profile returns the shared elemental profile, or nil.
func (u *Unit) Profile() *types.ElementalProfile { return u.profile }

// Buffs returns the cumulative buff totals.
func (u *Unit) Buffs() effects.Buffs { return u.effects.Totals() }

// Effects returns the active effect instances.
func (u *Unit) Effects() []*types.EffectInstance { return u.effects.Active() }

// SetObserver attaches the notification sink.
func (u *Unit) SetObserver(o Observer) { u.observer = o }

func (u *Unit) notify() Observer {
	if u.observer == nil {
		return NopObserver{}
	}
	return u.observer
}

// SetActive marks the unit as the one that may act now.
func (u *Unit) SetActive() {
	u.active = true
	u.notify().OnUnitActivated(u)
}

// AddHealth heals up to the maximum. Non-positive amounts are ignored, and
// so is a dead unit: death is final.
func (u *Unit) AddHealth(amount int) {
	if amount <= 0 || !u.IsAlive() {
		return
	}
	u.health = min(u.maxHealth, u.health+amount)
}

// RemoveHealth subtracts health, flooring at zero. It fails without
// mutation for negative amounts or a unit that is already dead.
func (u *Unit) RemoveHealth(amount int) bool {
	if amount < 0 || u.health <= 0 {
		return false
	}
	u.health = max(0, u.health-amount)
	return true
}

// AddMana restores mana up to the maximum. Non-positive amounts are ignored.
func (u *Unit) AddMana(amount int) {
	if amount <= 0 {
		return
	}
	u.mana = min(u.maxMana, u.mana+amount)
}

// RemoveMana spends mana. It fails without mutation if the unit cannot pay.
func (u *Unit) RemoveMana(amount int) bool {
	if amount < 0 || amount > u.mana {
		return false
	}
	u.mana -= amount
	return true
}

// AddCharge changes the charge percentage, clamped to [0, MaxCharge].
func (u *Unit) AddCharge(delta int) {
	u.SetCharge(u.charge + delta)
}

// SetCharge sets the charge percentage, clamped to [0, MaxCharge].
func (u *Unit) SetCharge(v int) {
	u.charge = max(0, min(MaxCharge, v))
}

// ApplyEffect attaches a new instance of template to the unit.
func (u *Unit) ApplyEffect(template *types.EffectTemplate) *types.EffectInstance {
	return u.effects.Apply(template, func(e *types.EffectInstance) {
		u.notify().OnEffectStarted(u, e)
	})
}

// tickEffects advances the unit's own effects by one of its turns.
func (u *Unit) tickEffects() {
	u.effects.Tick(func(e *types.EffectInstance) {
		u.notify().OnEffectEnded(u, e)
	})
}

func (u *Unit) combatant() formula.Combatant {
	b := u.effects.Totals()
	return formula.Combatant{
		Stats:       u.stats,
		AttackBuff:  b.Attack,
		DefenseBuff: b.Defense,
		AgilityBuff: b.Agility,
		Profile:     u.profile,
	}
}

func (u *Unit) String() string {
	return fmt.Sprintf("%s (%d/%d HP, %d/%d MP, %d%%)", u.Name, u.health, u.maxHealth, u.mana, u.maxMana, u.charge)
}
