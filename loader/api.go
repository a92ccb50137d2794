package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Battle { title = "...", encounter = "...", ... }
	L.SetGlobal("Battle", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.battle = tbl
		return 0
	}))

	registerCurried(L, "Effect", func(id string, tbl *lua.LTable) {
		coll.effects = append(coll.effects, rawDef{id: id, table: tbl})
	})
	registerCurried(L, "Move", func(id string, tbl *lua.LTable) {
		coll.moves = append(coll.moves, rawDef{id: id, table: tbl})
	})
	registerCurried(L, "Aion", func(id string, tbl *lua.LTable) {
		coll.kinds = append(coll.kinds, rawDef{id: id, table: tbl})
	})
	registerCurried(L, "Equipment", func(id string, tbl *lua.LTable) {
		coll.equipment = append(coll.equipment, rawDef{id: id, table: tbl})
	})
	registerCurried(L, "Unit", func(id string, tbl *lua.LTable) {
		coll.units = append(coll.units, rawDef{id: id, table: tbl})
	})
	registerCurried(L, "Encounter", func(id string, tbl *lua.LTable) {
		coll.encounters = append(coll.encounters, rawDef{id: id, table: tbl})
	})
}

// registerCurried registers a constructor of the form Name "id" { ... }:
// Name("id") returns a function that takes the definition table.
func registerCurried(L *lua.LState, name string, add func(id string, tbl *lua.LTable)) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			add(id, tbl)
			return 0
		}))
		return 1
	}))
}
