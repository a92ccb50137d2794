// Package effects tracks the timed stat modifiers attached to one unit.
// Buff totals are always the clamped sum of the active effects' deltas.
package effects

import (
	"github.com/nathoo/aion/types"
)

// MaxBuff bounds each cumulative buff total in both directions.
const MaxBuff = 3

// Buffs are the cumulative attack/defense/agility modifiers of a unit.
type Buffs struct {
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Agility int `json:"agility"`
}

// Tracker owns a unit's active effects and derived buff totals.
type Tracker struct {
	active []*types.EffectInstance
	totals Buffs
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Apply instantiates template, adds it to the active list and fires started.
// The instance lives for template.Duration of the owner's turns.
func (t *Tracker) Apply(template *types.EffectTemplate, started func(*types.EffectInstance)) *types.EffectInstance {
	inst := &types.EffectInstance{
		Name:      template.Name,
		Template:  template,
		Remaining: template.Duration,
		Attack:    template.Attack,
		Defense:   template.Defense,
		Agility:   template.Agility,
	}
	t.active = append(t.active, inst)
	t.rebuild()
	if started != nil {
		started(inst)
	}
	return inst
}

// Tick decrements every active effect by one turn and removes the expired
// ones, firing ended for each in list order after the totals are updated.
// Returns the expired instances.
func (t *Tracker) Tick(ended func(*types.EffectInstance)) []*types.EffectInstance {
	// Phase one: count down and collect.
	var expired []int
	for i, e := range t.active {
		e.Remaining--
		if e.Remaining <= 0 {
			expired = append(expired, i)
		}
	}
	if len(expired) == 0 {
		return nil
	}

	// Phase two: compact the list without the expired entries.
	removed := make([]*types.EffectInstance, 0, len(expired))
	kept := t.active[:0]
	next := 0
	for i, e := range t.active {
		if next < len(expired) && expired[next] == i {
			removed = append(removed, e)
			next++
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(t.active); i++ {
		t.active[i] = nil
	}
	t.active = kept
	t.rebuild()

	if ended != nil {
		for _, e := range removed {
			ended(e)
		}
	}
	return removed
}

// Restore replaces the active list, used when loading a snapshot.
func (t *Tracker) Restore(active []*types.EffectInstance) {
	t.active = append([]*types.EffectInstance(nil), active...)
	t.rebuild()
}

// Active returns a copy of the active effect list.
func (t *Tracker) Active() []*types.EffectInstance {
	return append([]*types.EffectInstance(nil), t.active...)
}

// Len returns the number of active effects.
func (t *Tracker) Len() int {
	return len(t.active)
}

// Totals returns the current buff totals.
func (t *Tracker) Totals() Buffs {
	return t.totals
}

func (t *Tracker) rebuild() {
	var sum Buffs
	for _, e := range t.active {
		sum.Attack += e.Attack
		sum.Defense += e.Defense
		sum.Agility += e.Agility
	}
	t.totals = Buffs{
		Attack:  Clamp(sum.Attack),
		Defense: Clamp(sum.Defense),
		Agility: Clamp(sum.Agility),
	}
}

// Clamp bounds a buff total to [-MaxBuff, MaxBuff].
func Clamp(v int) int {
	if v > MaxBuff {
		return MaxBuff
	}
	if v < -MaxBuff {
		return -MaxBuff
	}
	return v
}
