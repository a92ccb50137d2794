package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/aion/config"
	"github.com/nathoo/aion/engine/battle"
	"github.com/nathoo/aion/types"
)

type lowRoller struct{}

func (lowRoller) Range(lo, _ int) int { return lo }
func (lowRoller) Percent() float64    { return 0 }

var (
	agi      = &types.MoveDef{ID: "agi", Name: "Agi", Element: types.Fire}
	megaFire = &types.MoveDef{ID: "mega_fire", Name: "Mega Fire", Element: types.Fire}
	dia      = &types.MoveDef{ID: "dia", Name: "Dia", Element: types.Passive}
	finale   = &types.MoveDef{ID: "finale", Name: "Finale", Element: types.Almighty, Ultimate: true}
)

func unit(id, name string, side types.Side) *battle.Unit {
	kind := &types.KindDef{ID: "k", Moves: []*types.MoveDef{agi, megaFire, dia}}
	return battle.NewUnit(types.UnitDef{ID: id, Name: name, MaxHealth: 10, PointsPerTurn: 1}, side, kind, nil, finale)
}

// field returns Hero and Pixie against Jack Frost, King Frost and a Slime.
func field() (*battle.Scheduler, []*battle.Unit, []*battle.Unit) {
	friendly := []*battle.Unit{unit("hero", "Hero", types.Friendly), unit("pixie", "Pixie", types.Friendly)}
	enemy := []*battle.Unit{
		unit("jack_frost", "Jack Frost", types.Enemy),
		unit("king_frost", "King Frost", types.Enemy),
		unit("slime", "Slime", types.Enemy),
	}
	s := battle.NewScheduler(config.DefaultCombat(), lowRoller{}, nil, friendly, enemy, types.Friendly)
	return s, friendly, enemy
}

func TestMove(t *testing.T) {
	u := unit("hero", "Hero", types.Friendly)

	tests := []struct {
		name string
		want *types.MoveDef
	}{
		{"agi", agi},
		{"AGI", agi},
		{"mega_fire", megaFire},
		{"mega fire", megaFire},
		{"Mega Fire", megaFire},
		{"finale", finale},
	}
	for _, tt := range tests {
		m, err := Move(u, tt.name)
		require.NoError(t, err, tt.name)
		assert.Same(t, tt.want, m, tt.name)
	}

	_, err := Move(u, "bufu")
	var unknown *UnknownMoveError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, `Hero doesn't know "bufu"`, err.Error())
}

func TestUnit(t *testing.T) {
	_, friendly, enemy := field()
	all := append(append([]*battle.Unit(nil), friendly...), enemy...)

	tests := []struct {
		name string
		want string
	}{
		{"hero", "hero"},
		{"PIXIE", "pixie"},
		{"jack_frost", "jack_frost"},
		{"king frost", "king_frost"},
		{"Jack Frost", "jack_frost"},
		{"jack", "jack_frost"},
	}
	for _, tt := range tests {
		u, err := Unit(all, tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, u.ID, tt.name)
	}
}

func TestUnit_Errors(t *testing.T) {
	_, friendly, enemy := field()
	all := append(append([]*battle.Unit(nil), friendly...), enemy...)

	_, err := Unit(all, "frost")
	var ambig *AmbiguityError
	require.ErrorAs(t, err, &ambig)
	assert.Equal(t, []string{"jack_frost", "king_frost"}, ambig.Candidates)
	assert.Equal(t, "which frost? (jack_frost, king_frost)", err.Error())

	_, err = Unit(all, "dragon")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "dragon", notFound.Name)

	enemy[2].RemoveHealth(100)
	_, err = Unit(all, "slime")
	var down *DownError
	require.ErrorAs(t, err, &down)
	assert.Same(t, enemy[2], down.Unit)
	assert.Equal(t, "Slime is already down", err.Error())
}

func TestTargets_Defaults(t *testing.T) {
	s, friendly, enemy := field()
	hero := friendly[0]

	got, err := Targets(s, hero, agi, nil)
	require.NoError(t, err)
	assert.Equal(t, []*battle.Unit{enemy[0]}, got, "first living opponent")

	got, err = Targets(s, hero, dia, nil)
	require.NoError(t, err)
	assert.Equal(t, []*battle.Unit{hero}, got, "passive moves default to the user")

	enemy[0].RemoveHealth(100)
	got, err = Targets(s, hero, agi, nil)
	require.NoError(t, err)
	assert.Equal(t, []*battle.Unit{enemy[1]}, got)

	for _, u := range enemy {
		u.RemoveHealth(100)
	}
	_, err = Targets(s, hero, agi, nil)
	assert.ErrorIs(t, err, ErrNoTargets)
	_, err = Targets(s, hero, agi, []string{"all"})
	assert.ErrorIs(t, err, ErrNoTargets)
}

func TestTargets_Named(t *testing.T) {
	s, friendly, enemy := field()
	hero := friendly[0]

	got, err := Targets(s, hero, agi, []string{"slime", "jack"})
	require.NoError(t, err)
	assert.Equal(t, []*battle.Unit{enemy[2], enemy[0]}, got)

	got, err = Targets(s, hero, agi, []string{"All"})
	require.NoError(t, err)
	assert.Equal(t, enemy, got)

	got, err = Targets(s, hero, dia, []string{"all"})
	require.NoError(t, err)
	assert.Equal(t, friendly, got, "all follows the move's side")

	got, err = Targets(s, hero, dia, []string{"slime"})
	require.NoError(t, err)
	assert.Equal(t, []*battle.Unit{enemy[2]}, got, "an explicit name may cross sides")

	_, err = Targets(s, hero, agi, []string{"slime", "dragon"})
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
