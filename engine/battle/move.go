package battle

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nathoo/aion/engine/formula"
	"github.com/nathoo/aion/types"
)

// Reasons a unit cannot use a move.
var (
	ErrNoMove             = errors.New("no move given")
	ErrInactive           = errors.New("unit is not active")
	ErrInsufficientMana   = errors.New("not enough mana")
	ErrInsufficientHealth = errors.New("not enough health")
	ErrInsufficientPoints = errors.New("not enough action points")
	ErrUltimateNotCharged = errors.New("ultimate is not fully charged")
	ErrNotOwnUltimate     = errors.New("move is not the unit's ultimate")
	ErrUltimateMismatch   = errors.New("designated ultimate is not flagged ultimate")
)

// CheckMove returns nil if the unit may use move with the given pool, or
// the first failed precondition.
func (u *Unit) CheckMove(move *types.MoveDef, pool int) error {
	switch {
	case move == nil:
		return ErrNoMove
	case !u.active:
		return ErrInactive
	case u.mana < move.ManaCost:
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientMana, move.ManaCost, u.mana)
	case u.health <= move.HealthCost:
		return fmt.Errorf("%w: need more than %d, have %d", ErrInsufficientHealth, move.HealthCost, u.health)
	case pool < move.ActionPointCost:
		return fmt.Errorf("%w: need %d, pool has %d", ErrInsufficientPoints, move.ActionPointCost, pool)
	}

	isDesignated := u.ultimate != nil && move == u.ultimate
	switch {
	case move.Ultimate && !isDesignated:
		return ErrNotOwnUltimate
	case isDesignated && !move.Ultimate:
		return ErrUltimateMismatch
	case move.Ultimate && u.charge != MaxCharge:
		return fmt.Errorf("%w: %d%%", ErrUltimateNotCharged, u.charge)
	}
	return nil
}

// CanAct reports whether the unit may use move with the given pool.
func (u *Unit) CanAct(move *types.MoveDef, pool int) bool {
	return u.CheckMove(move, pool) == nil
}

// UseMove resolves move against targets in order. It returns false and
// changes nothing if the unit cannot act. On success the unit becomes
// inactive, its own effects tick once, and the move is resolved as
// defensive (Passive element) or offensive. Dead targets are skipped
// without rolls or notifications; the costs are paid regardless.
func (u *Unit) UseMove(s *Scheduler, move *types.MoveDef, targets []*Unit) bool {
	if err := u.CheckMove(move, s.Pool()); err != nil {
		slog.Debug("move rejected", "unit", u.ID, "move", moveID(move), "reason", err)
		return false
	}

	u.active = false
	u.tickEffects()

	if !formula.RollChance(s.rolls, move.Chance) {
		u.fizzle(s, move, targets)
		return true
	}
	if move.Element == types.Passive {
		u.resolveDefensive(s, move, targets)
	} else {
		u.resolveOffensive(s, move, targets)
	}
	return true
}

func (u *Unit) resolveDefensive(s *Scheduler, move *types.MoveDef, targets []*Unit) {
	for _, t := range targets {
		if !t.IsAlive() {
			continue
		}
		if move.Effect != nil {
			t.ApplyEffect(move.Effect)
		}
		t.AddHealth(max(0, min(move.HealingAmount, t.maxHealth)))
		u.notify().OnMoveHit(move, t, false, false, 0)
	}

	u.payCosts(move)
	s.spend(move.ActionPointCost)

	slog.Debug("defensive move resolved",
		"unit", u.ID, "move", move.ID, "targets", len(targets), "pool", s.Pool())
}

func (u *Unit) resolveOffensive(s *Scheduler, move *types.MoveDef, targets []*Unit) {
	c := s.settings
	physical := formula.IsPhysical(move.Element)
	attacker := u.combatant()

	anyEvaded, anyCritical := false, false
	for _, t := range targets {
		// A target can fall earlier in the same list.
		if !t.IsAlive() {
			continue
		}
		defender := t.combatant()
		evaded := formula.RollEvasion(s.rolls, c,
			u.stats.Agility, u.stats.Luck,
			t.stats.Agility, t.stats.Luck, defender.AgilityBuff)
		if evaded {
			anyEvaded = true
			u.notify().OnMoveMiss(move, t)
			continue
		}

		critical := formula.RollCritical(s.rolls, c, u.stats.Luck, attacker.AgilityBuff, physical)
		damage, affinity := formula.ComputeDamage(s.rolls, c, move, attacker, defender, critical, physical)
		if critical {
			anyCritical = true
		}
		if affinity == types.Weak {
			u.AddCharge(c.WeakHitCharge)
		}
		if move.Effect != nil {
			t.ApplyEffect(move.Effect)
		}

		absorbed := affinity == types.Absorb
		if absorbed {
			t.AddHealth(damage)
		} else {
			t.RemoveHealth(damage)
		}
		u.notify().OnMoveHit(move, t, critical, absorbed, damage)
	}

	u.payCosts(move)
	if move.Ultimate {
		u.SetCharge(0)
	}

	// First match wins; the pool may go negative.
	cost := float64(move.ActionPointCost)
	switch {
	case anyEvaded && !move.Ultimate:
		s.spend(formula.Round(cost * c.APEvasionPunishmentMultiplier))
	case anyCritical:
		s.spend(formula.Round(cost * c.APRewardMultiplier))
		u.AddCharge(c.CriticalHitCharge)
	default:
		s.spend(move.ActionPointCost)
	}

	slog.Debug("offensive move resolved",
		"unit", u.ID, "move", move.ID, "targets", len(targets),
		"evaded", anyEvaded, "critical", anyCritical, "pool", s.Pool(), "charge", u.charge)
}

// fizzle resolves a move that failed its own chance roll: every living
// target sees a miss and the costs are paid at face value.
func (u *Unit) fizzle(s *Scheduler, move *types.MoveDef, targets []*Unit) {
	for _, t := range targets {
		if t.IsAlive() {
			u.notify().OnMoveMiss(move, t)
		}
	}
	u.payCosts(move)
	if move.Ultimate {
		u.SetCharge(0)
	}
	s.spend(move.ActionPointCost)

	slog.Debug("move failed", "unit", u.ID, "move", move.ID, "chance", move.Chance, "pool", s.Pool())
}

func (u *Unit) payCosts(move *types.MoveDef) {
	// CheckMove guarantees both payments succeed.
	u.RemoveHealth(move.HealthCost)
	u.RemoveMana(move.ManaCost)
}

func moveID(m *types.MoveDef) string {
	if m == nil {
		return ""
	}
	return m.ID
}
