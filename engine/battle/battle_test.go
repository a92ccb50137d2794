package battle

import (
	"fmt"

	"github.com/nathoo/aion/config"
	"github.com/nathoo/aion/types"
)

// scriptedRoller replays fixed draws in order. Exhausted integer draws
// return the low bound; exhausted percent draws never evade.
type scriptedRoller struct {
	ints     []int
	percents []float64
}

func (s *scriptedRoller) Range(lo, hi int) int {
	if len(s.ints) == 0 {
		return lo
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

func (s *scriptedRoller) Percent() float64 {
	if len(s.percents) == 0 {
		return 99.9
	}
	v := s.percents[0]
	s.percents = s.percents[1:]
	return v
}

// recorder logs notifications as short strings.
type recorder struct {
	log []string
}

func (r *recorder) OnMoveHit(move *types.MoveDef, target *Unit, critical, absorbed bool, damage int) {
	r.log = append(r.log, fmt.Sprintf("hit %s %s crit=%t absorbed=%t dmg=%d", move.ID, target.ID, critical, absorbed, damage))
}

func (r *recorder) OnMoveMiss(move *types.MoveDef, target *Unit) {
	r.log = append(r.log, fmt.Sprintf("miss %s %s", move.ID, target.ID))
}

func (r *recorder) OnEffectStarted(owner *Unit, e *types.EffectInstance) {
	r.log = append(r.log, fmt.Sprintf("start %s %s", e.Name, owner.ID))
}

func (r *recorder) OnEffectEnded(owner *Unit, e *types.EffectInstance) {
	r.log = append(r.log, fmt.Sprintf("end %s %s", e.Name, owner.ID))
}

func (r *recorder) OnUnitActivated(u *Unit) {
	r.log = append(r.log, "active "+u.ID)
}

func (r *recorder) OnRoundStarted(side types.Side, pool int, ending *Unit) {
	id := "-"
	if ending != nil {
		id = ending.ID
	}
	r.log = append(r.log, fmt.Sprintf("round %s pool=%d ending=%s", side, pool, id))
}

func (r *recorder) reset() { r.log = nil }

func profile(overrides map[types.Element]types.Affinity) *types.ElementalProfile {
	p := &types.ElementalProfile{Name: "test", Affinities: map[types.Element]types.Affinity{}}
	for _, e := range types.TableElements {
		p.Affinities[e] = types.Neutral
	}
	for e, a := range overrides {
		p.Affinities[e] = a
	}
	return p
}

type unitOpts struct {
	hp, mp, ppt int
	stats       types.Stats
	profile     *types.ElementalProfile
	ultimate    *types.MoveDef
	moves       []*types.MoveDef
}

func newUnit(id string, side types.Side, o unitOpts) *Unit {
	if o.hp == 0 {
		o.hp = 100
	}
	if o.mp == 0 {
		o.mp = 50
	}
	if o.profile == nil {
		o.profile = profile(nil)
	}
	def := types.UnitDef{
		ID: id, Name: id, Kind: "k-" + id,
		MaxHealth: o.hp, MaxMana: o.mp, PointsPerTurn: o.ppt,
		Stats: o.stats,
	}
	kind := &types.KindDef{ID: "k-" + id, Profile: o.profile, Moves: o.moves}
	return NewUnit(def, side, kind, nil, o.ultimate)
}

func slashMove(dmg, ap int) *types.MoveDef {
	return &types.MoveDef{ID: "slash", Name: "Slash", Element: types.Slash, MinDamage: dmg, MaxDamage: dmg, ActionPointCost: ap}
}

// duel builds a one-on-one battle and activates the attacker.
func duel(a, b *Unit, rolls *scriptedRoller, obs Observer) *Scheduler {
	s := NewScheduler(config.DefaultCombat(), rolls, obs, []*Unit{a}, []*Unit{b}, types.Friendly)
	if _, err := s.Advance(); err != nil {
		panic(err)
	}
	return s
}
