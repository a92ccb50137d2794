// Package save implements JSON serialization and deserialization of a
// battle in progress.
package save

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nathoo/aion/engine/battle"
	"github.com/nathoo/aion/engine/state"
	"github.com/nathoo/aion/types"
)

// ErrMismatch is returned by Apply when the save belongs to another battle.
var ErrMismatch = errors.New("save does not match the loaded battle")

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     string             `json:"version"`
	Battle      string             `json:"battle"`
	Encounter   string             `json:"encounter"`
	Round       int                `json:"round"`
	Acting      string             `json:"acting"`
	Pool        int                `json:"pool"`
	Queue       []string           `json:"queue"`
	Current     string             `json:"current"`
	RNGSeed     int64              `json:"rng_seed"`
	RNGPosition int64              `json:"rng_position"`
	Units       []battle.UnitState `json:"units"`
	CommandLog  []string           `json:"command_log"`
}

// RNGState is the part of the random source a save records.
type RNGState interface {
	Seed() int64
	Position() int64
}

// Save serializes a battle to JSON bytes.
func Save(defs *state.Defs, encounter string, s *battle.Scheduler, rng RNGState, commands []string) ([]byte, error) {
	data := SaveData{
		Version:     defs.Battle.Version,
		Battle:      defs.Battle.Title,
		Encounter:   encounter,
		Round:       s.Round(),
		Acting:      s.Acting().String(),
		Pool:        s.Pool(),
		Queue:       []string{},
		RNGSeed:     rng.Seed(),
		RNGPosition: rng.Position(),
		Units:       []battle.UnitState{},
		CommandLog:  append([]string{}, commands...),
	}
	for _, u := range s.Queue() {
		data.Queue = append(data.Queue, u.ID)
	}
	if cur := s.Current(); cur != nil {
		data.Current = cur.ID
	}
	for _, side := range []types.Side{types.Friendly, types.Enemy} {
		for _, u := range s.Roster(side) {
			data.Units = append(data.Units, u.Snapshot())
		}
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if _, ok := types.ParseSide(sd.Acting); !ok {
		return nil, fmt.Errorf("acting side %q must be friendly or enemy", sd.Acting)
	}
	// Ensure slices are never nil after load.
	if sd.Queue == nil {
		sd.Queue = []string{}
	}
	if sd.Units == nil {
		sd.Units = []battle.UnitState{}
	}
	if sd.CommandLog == nil {
		sd.CommandLog = []string{}
	}
	return &sd, nil
}

// Apply restores every unit and the turn state of s from sd. The scheduler
// must have been built from the same encounter. The random source is not
// touched; callers rebuild it from RNGSeed and RNGPosition.
func Apply(sd *SaveData, s *battle.Scheduler, defs *state.Defs) error {
	if sd.Battle != defs.Battle.Title {
		return fmt.Errorf("%w: saved %q, loaded %q", ErrMismatch, sd.Battle, defs.Battle.Title)
	}

	byID := map[string]*battle.Unit{}
	for _, side := range []types.Side{types.Friendly, types.Enemy} {
		for _, u := range s.Roster(side) {
			byID[u.ID] = u
		}
	}
	if len(sd.Units) != len(byID) {
		return fmt.Errorf("%w: %d units saved, %d in battle", ErrMismatch, len(sd.Units), len(byID))
	}
	for _, st := range sd.Units {
		if _, ok := byID[st.ID]; !ok {
			return fmt.Errorf("%w: unknown unit %q", ErrMismatch, st.ID)
		}
	}

	for _, st := range sd.Units {
		if err := byID[st.ID].Restore(st, defs.Effect); err != nil {
			return fmt.Errorf("applying save: %w", err)
		}
	}

	acting, _ := types.ParseSide(sd.Acting)
	if err := s.Restore(acting, sd.Pool, sd.Round, sd.Queue, sd.Current); err != nil {
		return fmt.Errorf("applying save: %w", err)
	}
	return nil
}
