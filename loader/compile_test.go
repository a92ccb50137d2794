package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/aion/types"
)

// collect runs src in a fresh sandboxed VM and returns what it defined.
func collect(t *testing.T, src string) *collector {
	t.Helper()
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	t.Cleanup(L.Close)
	openSafeLibs(L)
	sandbox(L)
	coll := &collector{}
	registerAPI(L, coll)
	require.NoError(t, L.DoString(src))
	return coll
}

func TestSortedLuaFiles(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"units.lua", "battle.lua", "moves.lua"}, []string{"battle.lua", "moves.lua", "units.lua"}},
		{[]string{"b.lua", "a.lua"}, []string{"a.lua", "b.lua"}},
		{[]string{"battle.lua"}, []string{"battle.lua"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sortedLuaFiles(tt.in))
	}
}

func TestCompile_DamageForms(t *testing.T) {
	coll := collect(t, `
Battle { title = "T" }
Move "fixed" { element = "gun", damage = 7 }
Move "ranged" { element = "ice", damage = {3, 9} }
Move "none" { element = "passive", healing = 5 }
`)
	ve := &ValidationError{}
	defs, err := compile(coll, ve)
	require.NoError(t, err)
	assert.Empty(t, ve.Errors)

	assert.Equal(t, [2]int{7, 7}, [2]int{defs.Moves["fixed"].MinDamage, defs.Moves["fixed"].MaxDamage})
	assert.Equal(t, [2]int{3, 9}, [2]int{defs.Moves["ranged"].MinDamage, defs.Moves["ranged"].MaxDamage})
	assert.Equal(t, 0, defs.Moves["none"].MaxDamage)
	assert.Equal(t, types.Passive, defs.Moves["none"].Element)
}

func TestCompile_ElementNamesAreCaseInsensitive(t *testing.T) {
	coll := collect(t, `
Battle { title = "T" }
Move "zio" { element = "Electric" }
Aion "a" { affinities = { FIRE = "Weak" } }
`)
	ve := &ValidationError{}
	defs, err := compile(coll, ve)
	require.NoError(t, err)
	assert.Empty(t, ve.Errors)
	assert.Equal(t, types.Electric, defs.Moves["zio"].Element)
	assert.Equal(t, types.Weak, defs.Kinds["a"].Profile.Affinities[types.Fire])
}

func TestCompile_RecordsProblems(t *testing.T) {
	coll := collect(t, `
Battle { title = "T" }
Effect "e" { duration = 1 }
Effect "e" { duration = 2 }
Move "m" { element = "plasma" }
Move "n" { }
Move "o" { element = "fire", effect = "ghost" }
Aion "a" { affinities = { fire = "immune", almighty = "weak", aether = "weak" }, moves = { "nope" } }
Equipment "sword" { moves = { "missing" } }
`)
	ve := &ValidationError{}
	_, err := compile(coll, ve)
	require.NoError(t, err)

	for _, want := range []string{
		`effect "e" is defined more than once`,
		`move "m" has unknown element "plasma"`,
		`move "n" has no element`,
		`move "o" references undefined effect "ghost"`,
		`aion "a" has unknown affinity "immune" for fire`,
		`aion "a" has an affinity for unknown element "almighty"`,
		`aion "a" has an affinity for unknown element "aether"`,
		`aion "a" references undefined move "nope"`,
		`equipment "sword" references undefined move "missing"`,
	} {
		assert.Contains(t, ve.Errors, want)
	}
	assert.Len(t, ve.Errors, 9)
}

func TestCompile_AffinityWarnings(t *testing.T) {
	coll := collect(t, `
Battle { title = "T" }
Aion "bare" { }
Aion "partial" { affinities = { slash = "resist", bash = "resist", gun = "resist", fire = "resist", ice = "resist", electric = "resist", wind = "resist" } }
`)
	ve := &ValidationError{}
	defs, err := compile(coll, ve)
	require.NoError(t, err)

	assert.Nil(t, defs.Kinds["bare"].Profile)
	assert.Equal(t, "bare", defs.Kinds["bare"].Title)
	assert.Equal(t, types.Neutral, defs.Kinds["partial"].Profile.Affinities[types.Dark])
	assert.Equal(t, []string{
		`aion "bare" has no affinities table; its units take neutral damage from everything`,
		`aion "partial" does not list light, dark; treating them as neutral`,
	}, ve.Warnings)
}

func TestCompile_MoveChance(t *testing.T) {
	coll := collect(t, `
Battle { title = "T" }
Move "sure" { element = "fire" }
Move "shaky" { element = "ice", chance = 80 }
Move "never" { element = "gun", chance = 0 }
Move "over" { element = "gun", chance = 150 }
`)
	ve := &ValidationError{}
	defs, err := compile(coll, ve)
	require.NoError(t, err)

	assert.Equal(t, 100, defs.Moves["sure"].Chance)
	assert.Equal(t, 80, defs.Moves["shaky"].Chance)
	assert.Equal(t, []string{
		`move "never" chance 0 is outside [1, 100]`,
		`move "over" chance 150 is outside [1, 100]`,
	}, ve.Errors)
}
