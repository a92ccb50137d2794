// Package events turns combat notifications into records, log lines and
// readable text. Every type here is a battle.Observer.
package events

import (
	"fmt"
	"log/slog"

	"github.com/nathoo/aion/engine/battle"
	"github.com/nathoo/aion/types"
)

// Event types.
const (
	MoveHit       = "move_hit"
	MoveMissed    = "move_missed"
	EffectStarted = "effect_started"
	EffectEnded   = "effect_ended"
	UnitActivated = "unit_activated"
	RoundStarted  = "round_started"
)

// Recorder collects notifications as types.Event values.
type Recorder struct {
	events []types.Event
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(typ string, data map[string]any) {
	r.events = append(r.events, types.Event{Type: typ, Data: data})
}

// Events returns everything recorded since the last Drain.
func (r *Recorder) Events() []types.Event {
	return append([]types.Event(nil), r.events...)
}

// Drain returns the recorded events and clears the buffer.
func (r *Recorder) Drain() []types.Event {
	out := r.events
	r.events = nil
	return out
}

func (r *Recorder) OnMoveHit(move *types.MoveDef, target *battle.Unit, critical, absorbed bool, damage int) {
	r.add(MoveHit, map[string]any{
		"move":     move.ID,
		"target":   target.ID,
		"critical": critical,
		"absorbed": absorbed,
		"damage":   damage,
		"health":   target.Health(),
	})
}

func (r *Recorder) OnMoveMiss(move *types.MoveDef, target *battle.Unit) {
	r.add(MoveMissed, map[string]any{"move": move.ID, "target": target.ID})
}

func (r *Recorder) OnEffectStarted(owner *battle.Unit, e *types.EffectInstance) {
	r.add(EffectStarted, map[string]any{"unit": owner.ID, "effect": e.Name, "remaining": e.Remaining})
}

func (r *Recorder) OnEffectEnded(owner *battle.Unit, e *types.EffectInstance) {
	r.add(EffectEnded, map[string]any{"unit": owner.ID, "effect": e.Name})
}

func (r *Recorder) OnUnitActivated(u *battle.Unit) {
	r.add(UnitActivated, map[string]any{"unit": u.ID})
}

func (r *Recorder) OnRoundStarted(side types.Side, pool int, ending *battle.Unit) {
	data := map[string]any{"side": side.String(), "pool": pool}
	if ending != nil {
		data["ending"] = ending.ID
	}
	r.add(RoundStarted, data)
}

// Logger writes every notification at debug level.
type Logger struct {
	log *slog.Logger
}

// NewLogger wraps l, or slog.Default() when l is nil.
func NewLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return Logger{log: l}
}

func (l Logger) OnMoveHit(move *types.MoveDef, target *battle.Unit, critical, absorbed bool, damage int) {
	l.log.Debug("move hit",
		"move", move.ID, "target", target.ID,
		"critical", critical, "absorbed", absorbed, "damage", damage, "health", target.Health())
}

func (l Logger) OnMoveMiss(move *types.MoveDef, target *battle.Unit) {
	l.log.Debug("move missed", "move", move.ID, "target", target.ID)
}

func (l Logger) OnEffectStarted(owner *battle.Unit, e *types.EffectInstance) {
	l.log.Debug("effect started", "unit", owner.ID, "effect", e.Name, "remaining", e.Remaining)
}

func (l Logger) OnEffectEnded(owner *battle.Unit, e *types.EffectInstance) {
	l.log.Debug("effect ended", "unit", owner.ID, "effect", e.Name)
}

func (l Logger) OnUnitActivated(u *battle.Unit) {
	l.log.Debug("unit activated", "unit", u.ID)
}

func (l Logger) OnRoundStarted(side types.Side, pool int, ending *battle.Unit) {
	attrs := []any{"side", side.String(), "pool", pool}
	if ending != nil {
		attrs = append(attrs, "ending", ending.ID)
	}
	l.log.Debug("round started", attrs...)
}

// Multi fans every notification out to each observer in order.
type Multi []battle.Observer

func (m Multi) OnMoveHit(move *types.MoveDef, target *battle.Unit, critical, absorbed bool, damage int) {
	for _, o := range m {
		o.OnMoveHit(move, target, critical, absorbed, damage)
	}
}

func (m Multi) OnMoveMiss(move *types.MoveDef, target *battle.Unit) {
	for _, o := range m {
		o.OnMoveMiss(move, target)
	}
}

func (m Multi) OnEffectStarted(owner *battle.Unit, e *types.EffectInstance) {
	for _, o := range m {
		o.OnEffectStarted(owner, e)
	}
}

func (m Multi) OnEffectEnded(owner *battle.Unit, e *types.EffectInstance) {
	for _, o := range m {
		o.OnEffectEnded(owner, e)
	}
}

func (m Multi) OnUnitActivated(u *battle.Unit) {
	for _, o := range m {
		o.OnUnitActivated(u)
	}
}

func (m Multi) OnRoundStarted(side types.Side, pool int, ending *battle.Unit) {
	for _, o := range m {
		o.OnRoundStarted(side, pool, ending)
	}
}

// Describe renders an event as one line of battle text. names maps unit IDs
// to display names; IDs without an entry are printed as is.
func Describe(e types.Event, names map[string]string) string {
	name := func(key string) string {
		id, _ := e.Data[key].(string)
		if n, ok := names[id]; ok {
			return n
		}
		return id
	}

	switch e.Type {
	case MoveHit:
		damage, _ := e.Data["damage"].(int)
		move, _ := e.Data["move"].(string)
		switch {
		case e.Data["absorbed"] == true:
			return fmt.Sprintf("%s absorbs %s and recovers %d HP.", name("target"), move, damage)
		case damage == 0:
			return fmt.Sprintf("%s is affected by %s.", name("target"), move)
		case e.Data["critical"] == true:
			return fmt.Sprintf("Critical! %s takes %d damage from %s.", name("target"), damage, move)
		}
		return fmt.Sprintf("%s takes %d damage from %s.", name("target"), damage, move)
	case MoveMissed:
		return fmt.Sprintf("%s evades %s.", name("target"), e.Data["move"])
	case EffectStarted:
		return fmt.Sprintf("%s gains %s for %v turns.", name("unit"), e.Data["effect"], e.Data["remaining"])
	case EffectEnded:
		return fmt.Sprintf("%s wears off %s.", e.Data["effect"], name("unit"))
	case UnitActivated:
		return fmt.Sprintf("%s's turn.", name("unit"))
	case RoundStarted:
		return fmt.Sprintf("-- %s side, %v points --", e.Data["side"], e.Data["pool"])
	}
	return e.Type
}
