package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/aion/engine/state"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	battle     *lua.LTable
	effects    []rawDef
	moves      []rawDef
	kinds      []rawDef
	equipment  []rawDef
	units      []rawDef
	encounters []rawDef
}

// safeLibs are the only standard libraries battle files can reach.
var safeLibs = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// blockedGlobals are removed after the safe libraries are open.
var blockedGlobals = []string{
	"dofile", "loadfile", "load", "loadstring",
	"rawset", "rawget", "rawequal",
	"collectgarbage",
}

// Load runs every .lua file in dir, compiles the definitions, checks their
// references and returns the immutable Defs. No Lua state survives the call.
func Load(dir string) (*state.Defs, error) {
	files, err := discover(dir)
	if err != nil {
		return nil, err
	}

	L := newVM()
	defer L.Close()

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range files {
		slog.Debug("loading battle file", "dir", dir, "file", f)
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	ve := &ValidationError{}
	defs, err := compile(coll, ve)
	if err != nil {
		return nil, fmt.Errorf("compiling battle data: %w", err)
	}
	if err := validate(defs, ve); err != nil {
		return nil, err
	}

	slog.Debug("battle data loaded",
		"title", defs.Battle.Title,
		"moves", len(defs.Moves),
		"units", len(defs.Units),
		"encounters", len(defs.Encounters))
	return defs, nil
}

// discover lists the .lua files of dir in load order.
func discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading battle directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".lua") {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	return sortedLuaFiles(files), nil
}

// sortedLuaFiles puts battle.lua first and the rest in name order, so the
// header is always defined before anything refers to it.
func sortedLuaFiles(files []string) []string {
	out := make([]string, 0, len(files))
	var rest []string
	for _, f := range files {
		if f == "battle.lua" {
			out = append(out, f)
			continue
		}
		rest = append(rest, f)
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// newVM returns a Lua state with only the safe libraries open.
func newVM() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	return L
}

func openSafeLibs(L *lua.LState) {
	for _, lib := range safeLibs {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// sandbox strips the loaders and raw accessors, and the unseeded generator
// in math, so a battle file always compiles to the same data.
func sandbox(L *lua.LState) {
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	if math, ok := L.GetGlobal(lua.MathLibName).(*lua.LTable); ok {
		math.RawSetString("random", lua.LNil)
		math.RawSetString("randomseed", lua.LNil)
	}
}
