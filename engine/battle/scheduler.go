package battle

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/nathoo/aion/config"
	"github.com/nathoo/aion/engine/formula"
	"github.com/nathoo/aion/types"
)

var (
	// ErrNoEligibleUnits is returned by Advance when the acting side has no
	// living unit to queue. It signals corrupted rosters or a finished battle.
	ErrNoEligibleUnits = errors.New("no eligible units to act")

	// ErrQueueExhausted is returned by Advance when every queued unit of the
	// round has acted but the pool still holds points. The caller decides
	// what happens to them, usually with Forfeit.
	ErrQueueExhausted = errors.New("turn queue is exhausted")
)

// Scheduler decides whose turn it is. It owns the shared action-point
// pool of the acting side and the ordered queue of the current round.
//
// A new round is computed only when Advance finds the pool at or below
// zero. Units still queued from the previous round are discarded then, and
// a move that spends the last points does not truncate the queue by itself.
type Scheduler struct {
	settings config.Combat
	rolls    formula.Roller
	observer Observer

	friendly []*Unit
	enemy    []*Unit

	acting  types.Side
	pool    int
	queue   []*Unit
	current *Unit
	ending  *Unit
	round   int
}

// NewScheduler wires both rosters to one battle. first is the side that acts
// in the first round. Every unit reports to observer.
func NewScheduler(settings config.Combat, rolls formula.Roller, observer Observer, friendly, enemy []*Unit, first types.Side) *Scheduler {
	if observer == nil {
		observer = NopObserver{}
	}
	s := &Scheduler{
		settings: settings,
		rolls:    rolls,
		observer: observer,
		friendly: friendly,
		enemy:    enemy,
		// StartRound flips the flag, so begin on the other side.
		acting: first.Opposite(),
	}
	for _, u := range s.all() {
		u.SetObserver(observer)
	}
	return s
}

// Pool returns the shared action points of the acting side.
func (s *Scheduler) Pool() int { return s.pool }

// Acting returns the side whose units are queued.
func (s *Scheduler) Acting() types.Side { return s.acting }

// Round returns the number of rounds started so far.
func (s *Scheduler) Round() int { return s.round }

// Current returns the unit returned by the last Advance, or nil.
func (s *Scheduler) Current() *Unit { return s.current }

// EndingUnit returns the unit that was active when the last round rolled
// over, so presentation code can finish its turn.
func (s *Scheduler) EndingUnit() *Unit { return s.ending }

// Settings returns the combat tuning in use.
func (s *Scheduler) Settings() config.Combat { return s.settings }

// Queue returns the units still waiting in the current round.
func (s *Scheduler) Queue() []*Unit {
	return append([]*Unit(nil), s.queue...)
}

// Roster returns the units of one side in spawn order, dead ones included.
func (s *Scheduler) Roster(side types.Side) []*Unit {
	if side == types.Enemy {
		return append([]*Unit(nil), s.enemy...)
	}
	return append([]*Unit(nil), s.friendly...)
}

// StartRound hands the turn to the other side: the pool becomes the sum of
// PointsPerTurn over that side's living units and the queue is rebuilt from
// them by descending agility. Ties keep roster order.
func (s *Scheduler) StartRound() {
	incoming := s.acting.Opposite()
	s.ending = s.current

	pool := 0
	for _, u := range s.living(incoming) {
		pool += u.pointsPerTurn
	}
	s.pool = pool
	s.acting = incoming
	s.queue = s.orderedQueue(incoming)
	s.round++

	slog.Debug("round started",
		"round", s.round, "side", incoming.String(), "pool", s.pool, "queued", len(s.queue))
	s.observer.OnRoundStarted(incoming, s.pool, s.ending)
}

// Advance returns the unit that should act next and marks it active.
// It starts a new round first if the pool is exhausted. Units that died
// while queued are skipped. An empty queue is an error: ErrNoEligibleUnits
// when the acting side has nobody alive, ErrQueueExhausted when everyone
// has acted and points remain.
func (s *Scheduler) Advance() (*Unit, error) {
	if s.pool <= 0 {
		s.StartRound()
	}

	for len(s.queue) > 0 {
		u := s.queue[0]
		s.queue = s.queue[1:]
		if !u.IsAlive() {
			continue
		}
		if s.current != nil && s.current != u {
			s.current.active = false
		}
		s.current = u
		u.SetActive()
		return u, nil
	}

	if len(s.living(s.acting)) == 0 {
		return nil, fmt.Errorf("advancing %s side in round %d: %w", s.acting, s.round, ErrNoEligibleUnits)
	}
	if s.current != nil {
		s.current.active = false
	}
	return nil, fmt.Errorf("advancing %s side in round %d with %d points left: %w",
		s.acting, s.round, s.pool, ErrQueueExhausted)
}

// Forfeit drops the acting side's remaining points so that the next
// Advance starts the other side's round. A negative pool is left as is.
func (s *Scheduler) Forfeit() {
	if s.pool > 0 {
		s.pool = 0
	}
}

// Outcome reports the winning side once one roster has no living unit.
func (s *Scheduler) Outcome() (types.Side, bool) {
	friendlyUp := len(s.living(types.Friendly)) > 0
	enemyUp := len(s.living(types.Enemy)) > 0
	switch {
	case friendlyUp && !enemyUp:
		return types.Friendly, true
	case enemyUp && !friendlyUp:
		return types.Enemy, true
	}
	return 0, false
}

// Restore sets the turn state, used when loading a snapshot. The queue is
// given as unit IDs; unknown IDs are an error.
func (s *Scheduler) Restore(acting types.Side, pool, round int, queue []string, current string) error {
	byID := map[string]*Unit{}
	for _, u := range s.all() {
		byID[u.ID] = u
	}
	q := make([]*Unit, 0, len(queue))
	for _, id := range queue {
		u, ok := byID[id]
		if !ok {
			return fmt.Errorf("restoring queue: unknown unit %q", id)
		}
		q = append(q, u)
	}
	var cur *Unit
	if current != "" {
		u, ok := byID[current]
		if !ok {
			return fmt.Errorf("restoring current unit: unknown unit %q", current)
		}
		cur = u
	}
	s.acting, s.pool, s.round, s.queue, s.current = acting, pool, round, q, cur
	return nil
}

// spend removes points from the pool. The pool may go negative.
func (s *Scheduler) spend(points int) {
	s.pool -= points
}

func (s *Scheduler) living(side types.Side) []*Unit {
	roster := s.friendly
	if side == types.Enemy {
		roster = s.enemy
	}
	var out []*Unit
	for _, u := range roster {
		if u.IsAlive() {
			out = append(out, u)
		}
	}
	return out
}

func (s *Scheduler) orderedQueue(side types.Side) []*Unit {
	q := s.living(side)
	sort.SliceStable(q, func(i, j int) bool {
		return q[i].stats.Agility > q[j].stats.Agility
	})
	return q
}

func (s *Scheduler) all() []*Unit {
	return append(append([]*Unit(nil), s.friendly...), s.enemy...)
}
