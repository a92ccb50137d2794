// Package formula holds the pure combat math: critical and evasion rolls,
// damage computation, and the elemental affinity lookup.
//
// Every multiplicative damage stage rounds to the nearest integer with ties
// to even (math.RoundToEven). Products are formed before quotients so that
// exact halves such as 11.5 stay exact in binary floating point.
package formula

import (
	"log/slog"
	"math"

	"github.com/nathoo/aion/config"
	"github.com/nathoo/aion/types"
)

// Roller is the random source consumed by the combat math.
type Roller interface {
	// Range returns a uniform integer in [lo, hi].
	Range(lo, hi int) int
	// Percent returns a uniform real in [0, 100).
	Percent() float64
}

// Combatant is the read-only view of a unit the formulas need.
type Combatant struct {
	Stats       types.Stats
	AttackBuff  int
	DefenseBuff int
	AgilityBuff int
	Profile     *types.ElementalProfile
}

// IsPhysical reports whether an element uses strength and can crit.
func IsPhysical(e types.Element) bool {
	return e == types.Slash || e == types.Gun || e == types.Bash
}

// RollCritical rolls for a critical hit. Non-physical attacks never crit.
// The chance follows (luck/100)^exponent scaled by the agility buff.
func RollCritical(r Roller, c config.Combat, luck, agilityBuff int, physical bool) bool {
	if !physical {
		return false
	}
	roll := r.Range(1, 100)
	curve := math.Pow(float64(luck)/100, c.CriticalHitCurveExponent)
	buffModifier := 1 + float64(agilityBuff)*c.AgilityBuffMultiplier
	finalCurve := clamp(curve*buffModifier, 0, 1)
	return float64(roll) <= finalCurve*100
}

// RollChance reports whether a move with the given percent chance of
// working goes off. Chances of 0 or at least 100 always work and draw
// nothing from r.
func RollChance(r Roller, chance int) bool {
	if chance <= 0 || chance >= 100 {
		return true
	}
	return r.Percent() < float64(chance)
}

// EvasionChance returns the defender's evasion percentage, clamped to
// [EvasionClampMin, EvasionClampMax].
func EvasionChance(c config.Combat, attackerAgility, attackerLuck, defenderAgility, defenderLuck, defenderAgilityBuff int) float64 {
	accuracy := float64(attackerAgility)*c.AccuracyAgilityMultiplier + float64(attackerLuck)*c.AccuracyLuckMultiplier
	buffedAgility := float64(defenderAgility) * (1 + float64(defenderAgilityBuff)*c.AgilityBuffMultiplier)
	evasion := buffedAgility*c.EvasionAgilityMultiplier + float64(defenderLuck)*c.EvasionLuckMultiplier
	return clamp(100-accuracy+evasion, c.EvasionClampMin, c.EvasionClampMax)
}

// RollEvasion reports whether the defender evades the attack.
func RollEvasion(r Roller, c config.Combat, attackerAgility, attackerLuck, defenderAgility, defenderLuck, defenderAgilityBuff int) bool {
	chance := EvasionChance(c, attackerAgility, attackerLuck, defenderAgility, defenderLuck, defenderAgilityBuff)
	return r.Percent() <= chance
}

// ComputeDamage rolls and scales the damage of move from attacker to defender.
// It returns the final damage and the defender's affinity for the move's element.
func ComputeDamage(r Roller, c config.Combat, move *types.MoveDef, attacker, defender Combatant, critical, physical bool) (int, types.Affinity) {
	base := r.Range(move.MinDamage, move.MaxDamage)

	stat := attacker.Stats.Magic
	if physical {
		stat = attacker.Stats.Strength
	}
	// base * (1 + stat/100 * k), expanded to keep the product exact.
	d := float64(base)
	damage := Round(d + d*float64(stat)*c.StrengthMagicAffectMultiplier/100)

	if critical {
		damage = Round(float64(damage) * c.CriticalHitDamageMultiplier)
	}

	affinity := LookupAffinity(defender.Profile, move.Element)
	switch affinity {
	case types.Weak:
		damage = Round(float64(damage) * c.WeaknessMultiplier)
	case types.Resist:
		damage = Round(float64(damage) * c.ResistanceMultiplier)
	}

	// damage * (1 - e/(e+100)) == damage * 100 / (e+100)
	endurance := float64(defender.Stats.Endurance)
	if endurance+100 > 0 {
		damage = Round(float64(damage) * 100 / (endurance + 100))
	}

	attackMul := 1 + float64(attacker.AttackBuff)*c.BuffStepMultiplier
	defenseMul := clamp(1+float64(defender.DefenseBuff)*c.BuffStepMultiplier,
		c.DefenseBuffClampMin, c.DefenseBuffClampMax)
	damage = Round(float64(damage) * attackMul / defenseMul)

	if damage < 0 {
		damage = 0
	}
	return damage, affinity
}

// LookupAffinity returns the profile's affinity for an element.
// Almighty and Passive bypass the table. A nil profile is Neutral; it is
// reported once at battle setup, not here. An element missing from the
// profile falls back to Neutral with a warning.
func LookupAffinity(profile *types.ElementalProfile, element types.Element) types.Affinity {
	if element == types.Almighty || element == types.Passive || profile == nil {
		return types.Neutral
	}
	a, ok := profile.Affinities[element]
	if !ok {
		slog.Warn("element missing from affinity table, using neutral",
			"profile", profile.Name,
			"element", element.String())
		return types.Neutral
	}
	return a
}

// Round rounds half to even; the single rounding rule of the engine.
func Round(v float64) int {
	return int(math.RoundToEven(v))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
