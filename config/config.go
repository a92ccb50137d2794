// Package config holds the tunable combat settings and their YAML loader.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/aion/types"
)

// Battle is the top-level settings document.
type Battle struct {
	LogLevel  string `yaml:"log_level"` // debug, info, warn, error
	Seed      int64  `yaml:"seed"`
	FirstSide string `yaml:"first_side"` // "friendly" or "enemy"
	Combat    Combat `yaml:"combat"`
}

// Combat holds every multiplier and bound used by the combat math
// and the action-point economy.
type Combat struct {
	WeaknessMultiplier            float64 `yaml:"weakness_multiplier"`
	ResistanceMultiplier          float64 `yaml:"resistance_multiplier"`
	StrengthMagicAffectMultiplier float64 `yaml:"strength_magic_affect_multiplier"`
	CriticalHitDamageMultiplier   float64 `yaml:"critical_hit_damage_multiplier"`
	CriticalHitCurveExponent      float64 `yaml:"critical_hit_curve_exponent"` // 2 = exponential, 1 = linear

	APEvasionPunishmentMultiplier float64 `yaml:"ap_evasion_punishment_multiplier"`
	APRewardMultiplier            float64 `yaml:"ap_reward_multiplier"`

	AccuracyAgilityMultiplier float64 `yaml:"accuracy_agility_multiplier"`
	AccuracyLuckMultiplier    float64 `yaml:"accuracy_luck_multiplier"`
	EvasionAgilityMultiplier  float64 `yaml:"evasion_agility_multiplier"`
	EvasionLuckMultiplier     float64 `yaml:"evasion_luck_multiplier"`
	EvasionClampMin           float64 `yaml:"evasion_clamp_min"`
	EvasionClampMax           float64 `yaml:"evasion_clamp_max"`

	// AgilityBuffMultiplier scales the agility buff's effect on evasion and crit chance.
	AgilityBuffMultiplier float64 `yaml:"agility_buff_multiplier"`

	// BuffStepMultiplier is the damage scaling per attack/defense buff step.
	BuffStepMultiplier  float64 `yaml:"buff_step_multiplier"`
	DefenseBuffClampMin float64 `yaml:"defense_buff_clamp_min"`
	DefenseBuffClampMax float64 `yaml:"defense_buff_clamp_max"`

	// Charge percentage gained by the attacker.
	WeakHitCharge     int `yaml:"weak_hit_charge"`
	CriticalHitCharge int `yaml:"critical_hit_charge"`
}

// DefaultCombat returns the stock tuning.
func DefaultCombat() Combat {
	return Combat{
		WeaknessMultiplier:            1.5,
		ResistanceMultiplier:          0.25,
		StrengthMagicAffectMultiplier: 0.5,
		CriticalHitDamageMultiplier:   2,
		CriticalHitCurveExponent:      2,
		APEvasionPunishmentMultiplier: 2,
		APRewardMultiplier:            0.5,
		AccuracyAgilityMultiplier:     1.2,
		AccuracyLuckMultiplier:        0.3,
		EvasionAgilityMultiplier:      1.5,
		EvasionLuckMultiplier:         0.5,
		EvasionClampMin:               5,
		EvasionClampMax:               95,
		AgilityBuffMultiplier:         0.05,
		BuffStepMultiplier:            0.25,
		DefenseBuffClampMin:           0.25,
		DefenseBuffClampMax:           1.75,
		WeakHitCharge:                 10,
		CriticalHitCharge:             20,
	}
}

// DefaultBattle returns Battle settings with sensible defaults.
func DefaultBattle() Battle {
	return Battle{
		LogLevel:  "info",
		FirstSide: "friendly",
		Combat:    DefaultCombat(),
	}
}

// LoadBattle loads battle settings from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadBattle(path string) (Battle, error) {
	cfg := DefaultBattle()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// StartingSide returns the side that acts in the first round.
func (b Battle) StartingSide() types.Side {
	if b.FirstSide == "enemy" {
		return types.Enemy
	}
	return types.Friendly
}

// Validate reports settings that would break the combat math.
func (b Battle) Validate() error {
	var errs []error

	switch b.FirstSide {
	case "", "friendly", "enemy":
	default:
		errs = append(errs, fmt.Errorf("first_side %q must be friendly or enemy", b.FirstSide))
	}

	c := b.Combat
	if c.EvasionClampMin > c.EvasionClampMax {
		errs = append(errs, fmt.Errorf("evasion_clamp_min %.2f exceeds evasion_clamp_max %.2f",
			c.EvasionClampMin, c.EvasionClampMax))
	}
	if c.DefenseBuffClampMin <= 0 || c.DefenseBuffClampMin > c.DefenseBuffClampMax {
		errs = append(errs, fmt.Errorf("defense buff clamp [%.2f, %.2f] must be positive and ordered",
			c.DefenseBuffClampMin, c.DefenseBuffClampMax))
	}

	negatives := map[string]float64{
		"weakness_multiplier":              c.WeaknessMultiplier,
		"resistance_multiplier":            c.ResistanceMultiplier,
		"strength_magic_affect_multiplier": c.StrengthMagicAffectMultiplier,
		"critical_hit_damage_multiplier":   c.CriticalHitDamageMultiplier,
		"critical_hit_curve_exponent":      c.CriticalHitCurveExponent,
		"ap_evasion_punishment_multiplier": c.APEvasionPunishmentMultiplier,
		"ap_reward_multiplier":             c.APRewardMultiplier,
	}
	for _, key := range sortedKeys(negatives) {
		if negatives[key] < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", key))
		}
	}
	if c.WeakHitCharge < 0 || c.CriticalHitCharge < 0 {
		errs = append(errs, errors.New("charge increments must not be negative"))
	}

	return errors.Join(errs...)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
