package battle

import "github.com/nathoo/aion/types"

// Observer receives combat notifications. Calls are synchronous and happen
// in resolution order; implementations must not mutate combat state.
type Observer interface {
	OnMoveHit(move *types.MoveDef, target *Unit, critical, absorbed bool, damage int)
	OnMoveMiss(move *types.MoveDef, target *Unit)
	OnEffectStarted(owner *Unit, effect *types.EffectInstance)
	OnEffectEnded(owner *Unit, effect *types.EffectInstance)
	OnUnitActivated(unit *Unit)
	OnRoundStarted(side types.Side, pool int, ending *Unit)
}

// NopObserver ignores every notification. Embed it to implement a subset.
type NopObserver struct{}

func (NopObserver) OnMoveHit(*types.MoveDef, *Unit, bool, bool, int) {}
func (NopObserver) OnMoveMiss(*types.MoveDef, *Unit)                 {}
func (NopObserver) OnEffectStarted(*Unit, *types.EffectInstance)     {}
func (NopObserver) OnEffectEnded(*Unit, *types.EffectInstance)       {}
func (NopObserver) OnUnitActivated(*Unit)                            {}
func (NopObserver) OnRoundStarted(types.Side, int, *Unit)            {}
