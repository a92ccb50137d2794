package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/aion/cli"
	"github.com/nathoo/aion/config"
	"github.com/nathoo/aion/engine"
	"github.com/nathoo/aion/engine/state"
	"github.com/nathoo/aion/types"
)

func TestHistory_PrevStopsAtOldest(t *testing.T) {
	h := NewHistory(5)
	h.Push("use agi")
	h.Push("pass")
	h.Push("status")

	for _, want := range []string{"status", "pass", "use agi", "use agi"} {
		got, ok := h.Prev("")
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestHistory_NextReturnsDraft(t *testing.T) {
	h := NewHistory(5)
	h.Push("use agi")
	h.Push("pass")

	h.Prev("use di")
	h.Prev("")

	next, ok := h.Next()
	require.True(t, ok)
	assert.Equal(t, "pass", next)

	next, ok = h.Next()
	require.True(t, ok)
	assert.Equal(t, "use di", next, "walking past the newest entry restores the draft")

	_, ok = h.Next()
	assert.False(t, ok)
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	_, ok := h.Prev("x")
	assert.False(t, ok)
	_, ok = h.Next()
	assert.False(t, ok)
}

func TestHistory_LimitAndDuplicates(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("a")
	assert.Equal(t, 1, h.Len())

	h.Push("b")
	h.Push("c")
	assert.Equal(t, 2, h.Len())

	prev, _ := h.Prev("")
	assert.Equal(t, "c", prev)
	prev, _ = h.Prev("")
	assert.Equal(t, "b", prev)
	prev, _ = h.Prev("")
	assert.Equal(t, "b", prev, "a was evicted")
}

func TestHistory_PushResetsBrowsing(t *testing.T) {
	h := NewHistory(5)
	h.Push("a")
	h.Push("b")
	h.Prev("")
	h.Prev("")
	h.Push("c")

	prev, _ := h.Prev("")
	assert.Equal(t, "c", prev)
}

func TestNewLogLines(t *testing.T) {
	lines := newLogLines("use agi", []string{"Slime takes 15 damage from agi.", "Hero's turn."}, false)
	require.Len(t, lines, 4)
	assert.Equal(t, logLine{text: "> use agi", input: true}, lines[0])
	assert.Equal(t, cli.KindHit, lines[1].kind)
	assert.Equal(t, cli.KindTurn, lines[2].kind)
	assert.Equal(t, logLine{}, lines[3])

	sys := newLogLines("", []string{"Battle saved to q."}, true)
	assert.Equal(t, logLine{text: "[Battle saved to q.]", kind: cli.KindSystem}, sys[0])
}

func TestRenderLog_Wraps(t *testing.T) {
	lines := []logLine{{text: "Slime takes fifteen damage from a very long spell name."}}
	out := renderLog(lines, 20)
	for _, l := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(l), 20, l)
	}
	assert.Contains(t, out, "Slime takes fifteen")
}

// testSession returns a session for a hero against one fire-weak slime.
func testSession(t *testing.T) *cli.Session {
	t.Helper()
	d := state.NewDefs()
	d.Battle = types.BattleDef{Title: "TUI Battle", Version: "1.0", Author: "Test", Encounter: "field", Intro: "A slime appears."}

	weak := map[types.Element]types.Affinity{}
	for _, el := range types.TableElements {
		weak[el] = types.Neutral
	}
	weak[types.Fire] = types.Weak
	d.Moves["agi"] = &types.MoveDef{ID: "agi", Name: "Agi", Element: types.Fire, MinDamage: 10, MaxDamage: 10, ManaCost: 3, ActionPointCost: 2}
	d.Kinds["human"] = &types.KindDef{ID: "human", Moves: []*types.MoveDef{d.Moves["agi"]}}
	d.Kinds["slime"] = &types.KindDef{ID: "slime", Profile: &types.ElementalProfile{Name: "slime", Affinities: weak}}
	d.Units["hero"] = types.UnitDef{ID: "hero", Name: "Hero", Kind: "human", MaxHealth: 50, MaxMana: 10, PointsPerTurn: 3}
	d.Units["slime"] = types.UnitDef{ID: "slime", Name: "Slime", Kind: "slime", MaxHealth: 30, PointsPerTurn: 2}
	d.Encounters["field"] = types.EncounterDef{ID: "field", Friendly: []string{"hero"}, Enemy: []string{"slime"}}

	settings := config.DefaultBattle()
	settings.Seed = 3
	settings.Combat.EvasionClampMin = 0
	settings.Combat.EvasionClampMax = 0
	eng, err := engine.New(d, settings, "")
	require.NoError(t, err)
	return &cli.Session{Engine: eng, Defs: d, SaveDir: t.TempDir()}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	mm, ok := next.(Model)
	require.True(t, ok)
	return mm
}

func enter(t *testing.T, m Model, input string) Model {
	t.Helper()
	m.input.SetValue(input)
	return update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func logText(m Model) string {
	var lines []string
	for _, l := range m.log {
		lines = append(lines, l.text)
	}
	return strings.Join(lines, "\n")
}

func readyModel(t *testing.T) Model {
	t.Helper()
	m := New(testSession(t))
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return update(t, m, m.opening()())
}

func TestModel_Opening(t *testing.T) {
	m := readyModel(t)

	text := logText(m)
	assert.Contains(t, text, "TUI Battle v1.0 by Test")
	assert.Contains(t, text, "A slime appears.")
	assert.Contains(t, text, "-- friendly side, 3 points --")
	assert.Contains(t, text, "Hero's turn.")
	assert.Contains(t, m.View(), "Round 1 | friendly side | AP 3")
}

func TestModel_BattleCommand(t *testing.T) {
	m := readyModel(t)
	m = enter(t, m, "use agi")

	text := logText(m)
	assert.Contains(t, text, "> use agi")
	assert.Contains(t, text, "Slime takes 15 damage from agi.")
	assert.Empty(t, m.input.Value())
	assert.Equal(t, " Round 2 | enemy side | AP 2", m.statusLeft())
	assert.Equal(t, "Slime HP 15/30 MP 0/0 Charge 0% ", m.statusRight(80))
	assert.Equal(t, "Slime 15/30 ", m.statusRight(5))
}

func TestModel_Again(t *testing.T) {
	m := readyModel(t)
	m = enter(t, m, "g")
	assert.Contains(t, logText(m), "[Nothing to repeat.]")

	m = enter(t, m, "pass")
	m = enter(t, m, "again")
	assert.Contains(t, logText(m), "Slime ends the enemy side's turn.")
	assert.Equal(t, []string{"pass", "pass"}, m.session.Engine.CommandLog)
}

func TestModel_MetaCommands(t *testing.T) {
	m := readyModel(t)

	m = enter(t, m, "/trace")
	assert.True(t, m.session.Trace)
	m = enter(t, m, "use agi")
	assert.Contains(t, logText(m), "[trace] Events: 3")

	m = enter(t, m, "/save slot1")
	assert.Contains(t, logText(m), "[Battle saved to slot1.]")

	m = enter(t, m, "/bogus")
	assert.Contains(t, logText(m), "[Unknown command: /bogus. Type /help for available commands.]")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "empty input does nothing")
	m = next.(Model)

	m.input.SetValue("/quit")
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, next.(Model).quitting)
	assert.Empty(t, next.(Model).View())
}

func TestModel_HistoryKeys(t *testing.T) {
	m := readyModel(t)
	m = enter(t, m, "status")
	m = enter(t, m, "moves")

	m.input.SetValue("qu")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "moves", m.input.Value())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "status", m.input.Value())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "qu", m.input.Value())
}

func TestModel_NotReady(t *testing.T) {
	m := New(testSession(t))
	assert.Equal(t, "Loading...", m.View())
}

func TestModel_StatusAfterVictory(t *testing.T) {
	m := readyModel(t)
	m.session.Engine.Battle.Roster(types.Enemy)[0].RemoveHealth(100)
	assert.Equal(t, " Round 1 | friendly side won", m.statusLeft())
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "Shrine v0.1 by Tester", header(types.BattleDef{Title: "Shrine", Version: "0.1", Author: "Tester"}))
	assert.Equal(t, "Shrine by Tester", header(types.BattleDef{Title: "Shrine", Author: "Tester"}))
	assert.Equal(t, "Shrine", header(types.BattleDef{Title: "Shrine"}))
}
