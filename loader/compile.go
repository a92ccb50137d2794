// Package loader loads Lua battle data into Go structs at startup.
// The Lua VM is discarded after loading, no Lua runs during a battle.
package loader

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/aion/engine/state"
	"github.com/nathoo/aion/types"
)

// rawDef holds a constructor table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStringList returns the string elements of an array field, in order.
func getStringList(tbl *lua.LTable, key string) []string {
	arr := getTable(tbl, key)
	if arr == nil {
		return nil
	}
	var out []string
	for i := 1; i <= arr.MaxN(); i++ {
		if s, ok := arr.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// getStats reads the five base attributes from a table.
func getStats(tbl *lua.LTable) types.Stats {
	return types.Stats{
		Strength:  getInt(tbl, "strength"),
		Magic:     getInt(tbl, "magic"),
		Endurance: getInt(tbl, "endurance"),
		Agility:   getInt(tbl, "agility"),
		Luck:      getInt(tbl, "luck"),
	}
}

// compile converts all collected Lua data into Defs. Structural failures
// return an error; problems with individual definitions are recorded in ve
// so that every one of them is reported at once.
func compile(coll *collector, ve *ValidationError) (*state.Defs, error) {
	defs := state.NewDefs()

	if coll.battle == nil {
		return nil, fmt.Errorf("no Battle{} definition found")
	}
	defs.Battle = compileBattle(coll.battle)

	// Effects first: moves reference them.
	for _, raw := range coll.effects {
		if _, dup := defs.Effects[raw.id]; dup {
			ve.errorf("effect %q is defined more than once", raw.id)
			continue
		}
		defs.Effects[raw.id] = compileEffect(raw)
	}

	for _, raw := range coll.moves {
		if _, dup := defs.Moves[raw.id]; dup {
			ve.errorf("move %q is defined more than once", raw.id)
			continue
		}
		defs.Moves[raw.id] = compileMove(raw, defs, ve)
	}

	for _, raw := range coll.kinds {
		if _, dup := defs.Kinds[raw.id]; dup {
			ve.errorf("aion %q is defined more than once", raw.id)
			continue
		}
		defs.Kinds[raw.id] = compileKind(raw, defs, ve)
	}

	for _, raw := range coll.equipment {
		if _, dup := defs.Equipment[raw.id]; dup {
			ve.errorf("equipment %q is defined more than once", raw.id)
			continue
		}
		defs.Equipment[raw.id] = compileEquipment(raw, defs, ve)
	}

	for _, raw := range coll.units {
		if _, dup := defs.Units[raw.id]; dup {
			ve.errorf("unit %q is defined more than once", raw.id)
			continue
		}
		defs.Units[raw.id] = compileUnit(raw)
	}

	for _, raw := range coll.encounters {
		if _, dup := defs.Encounters[raw.id]; dup {
			ve.errorf("encounter %q is defined more than once", raw.id)
			continue
		}
		defs.Encounters[raw.id] = types.EncounterDef{
			ID:       raw.id,
			Friendly: getStringList(raw.table, "friendly"),
			Enemy:    getStringList(raw.table, "enemy"),
		}
	}

	// A single encounter is the default when none is named.
	if defs.Battle.Encounter == "" && len(defs.Encounters) == 1 {
		for id := range defs.Encounters {
			defs.Battle.Encounter = id
		}
	}

	return defs, nil
}

func compileBattle(tbl *lua.LTable) types.BattleDef {
	return types.BattleDef{
		Title:     getString(tbl, "title"),
		Author:    getString(tbl, "author"),
		Version:   getString(tbl, "version"),
		Encounter: getString(tbl, "encounter"),
		Intro:     getString(tbl, "intro"),
	}
}

func compileEffect(raw rawDef) *types.EffectTemplate {
	tbl := raw.table
	eff := &types.EffectTemplate{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Duration:    getInt(tbl, "duration"),
		Attack:      getInt(tbl, "attack"),
		Defense:     getInt(tbl, "defense"),
		Agility:     getInt(tbl, "agility"),
	}
	if eff.Name == "" {
		eff.Name = raw.id
	}
	return eff
}

func compileMove(raw rawDef, defs *state.Defs, ve *ValidationError) *types.MoveDef {
	tbl := raw.table
	m := &types.MoveDef{
		ID:              raw.id,
		Name:            getString(tbl, "name"),
		Description:     getString(tbl, "description"),
		HealthCost:      getInt(tbl, "health_cost"),
		ManaCost:        getInt(tbl, "mana_cost"),
		ActionPointCost: getInt(tbl, "ap_cost"),
		Ultimate:        getBool(tbl, "ultimate", false),
		HealingAmount:   getInt(tbl, "healing"),
	}
	if m.Name == "" {
		m.Name = raw.id
	}

	m.Chance = 100
	if v, ok := tbl.RawGetString("chance").(lua.LNumber); ok {
		m.Chance = int(v)
		if m.Chance < 1 || m.Chance > 100 {
			ve.errorf("move %q chance %d is outside [1, 100]", raw.id, m.Chance)
		}
	}

	name := strings.ToLower(getString(tbl, "element"))
	if name == "" {
		ve.errorf("move %q has no element", raw.id)
	} else if el, ok := types.ParseElement(name); ok {
		m.Element = el
	} else {
		ve.errorf("move %q has unknown element %q", raw.id, name)
	}

	// damage = 12 or damage = {10, 15}
	switch d := tbl.RawGetString("damage").(type) {
	case lua.LNumber:
		m.MinDamage, m.MaxDamage = int(d), int(d)
	case *lua.LTable:
		m.MinDamage = int(lua.LVAsNumber(d.RawGetInt(1)))
		m.MaxDamage = int(lua.LVAsNumber(d.RawGetInt(2)))
	}

	if id := getString(tbl, "effect"); id != "" {
		if eff, ok := defs.Effects[id]; ok {
			m.Effect = eff
		} else {
			ve.errorf("move %q references undefined effect %q", raw.id, id)
		}
	}
	return m
}

// compileKind builds an Aion kind. A kind without an affinities table gets
// no profile at all; elements left out of a present table are neutral.
func compileKind(raw rawDef, defs *state.Defs, ve *ValidationError) *types.KindDef {
	tbl := raw.table
	k := &types.KindDef{
		ID:          raw.id,
		Title:       getString(tbl, "title"),
		Description: getString(tbl, "description"),
	}
	if k.Title == "" {
		k.Title = raw.id
	}

	if aff := getTable(tbl, "affinities"); aff == nil {
		ve.warnf("aion %q has no affinities table; its units take neutral damage from everything", raw.id)
	} else {
		profile := &types.ElementalProfile{Name: raw.id, Affinities: map[types.Element]types.Affinity{}}
		aff.ForEach(func(key, value lua.LValue) {
			elName := strings.ToLower(lua.LVAsString(key))
			affName := strings.ToLower(lua.LVAsString(value))
			el, ok := types.ParseElement(elName)
			if !ok || el == types.Almighty || el == types.Passive {
				ve.errorf("aion %q has an affinity for unknown element %q", raw.id, elName)
				return
			}
			a, ok := types.ParseAffinity(affName)
			if !ok {
				ve.errorf("aion %q has unknown affinity %q for %s", raw.id, affName, elName)
				return
			}
			profile.Affinities[el] = a
		})
		var missing []string
		for _, el := range types.TableElements {
			if _, ok := profile.Affinities[el]; !ok {
				profile.Affinities[el] = types.Neutral
				missing = append(missing, el.String())
			}
		}
		if len(missing) > 0 {
			ve.warnf("aion %q does not list %s; treating them as neutral", raw.id, strings.Join(missing, ", "))
		}
		k.Profile = profile
	}

	k.Moves = resolveMoves(defs, getStringList(tbl, "moves"), "aion "+quote(raw.id), ve)
	return k
}

func compileEquipment(raw rawDef, defs *state.Defs, ve *ValidationError) *types.EquipmentDef {
	tbl := raw.table
	eq := &types.EquipmentDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Type:        getString(tbl, "type"),
		Modifiers:   getStats(tbl),
	}
	if eq.Name == "" {
		eq.Name = raw.id
	}
	eq.ExtraMoves = resolveMoves(defs, getStringList(tbl, "moves"), "equipment "+quote(raw.id), ve)
	return eq
}

func compileUnit(raw rawDef) types.UnitDef {
	tbl := raw.table
	u := types.UnitDef{
		ID:            raw.id,
		Name:          getString(tbl, "name"),
		Kind:          getString(tbl, "aion"),
		MaxHealth:     getInt(tbl, "health"),
		MaxMana:       getInt(tbl, "mana"),
		PointsPerTurn: getInt(tbl, "points"),
		Stats:         getStats(tbl),
		Equipment:     getStringList(tbl, "equipment"),
		Ultimate:      getString(tbl, "ultimate"),
	}
	if u.Name == "" {
		u.Name = raw.id
	}
	return u
}

func resolveMoves(defs *state.Defs, ids []string, owner string, ve *ValidationError) []*types.MoveDef {
	var out []*types.MoveDef
	for _, id := range ids {
		m, ok := defs.Moves[id]
		if !ok {
			ve.errorf("%s references undefined move %q", owner, id)
			continue
		}
		out = append(out, m)
	}
	return out
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
