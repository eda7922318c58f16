// Package engine is the simulation core: action methods invoked between
// ticks and the tick orchestrator that advances the world. The engine holds
// no entity state of its own; everything lives behind the store interface.
package engine

import (
	"sync"

	"github.com/google/uuid"

	"github.com/talgya/supply-lines/internal/entropy"
	"github.com/talgya/supply-lines/internal/players"
	"github.com/talgya/supply-lines/internal/store"
	"github.com/talgya/supply-lines/internal/tuning"
	"github.com/talgya/supply-lines/internal/world"
)

// Simulation wires the store, random source, and tuning into one world.
// One mutex serializes actions and ticks: actions validate preconditions
// against consistent state, mutate, and return — rejected actions leave no
// side effect.
type Simulation struct {
	mu sync.Mutex

	store store.Store
	rng   entropy.Source
	tn    tuning.Tuning

	tick   uint64 // Last processed tick
	week   int
	season int

	// Season zone scores per faction, recomputed at weekly boundaries.
	seasonScores map[string]int64

	pending []Event

	// OnEvents receives every flushed event batch (called outside the lock).
	OnEvents func([]Event)

	// OnSeasonEnd fires after scores are final and before the world resets.
	OnSeasonEnd func(season int, scores map[string]int64)
}

// New creates a simulation over the given store.
func New(st store.Store, rng entropy.Source, tn tuning.Tuning) *Simulation {
	return &Simulation{
		store:        st,
		rng:          rng,
		tn:           tn,
		seasonScores: make(map[string]int64),
	}
}

// CurrentTick returns the most recently processed tick.
func (s *Simulation) CurrentTick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Calendar returns the current week and season counters.
func (s *Simulation) Calendar() (week, season int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.week, s.season
}

// SeasonScores returns a copy of the current season standings.
func (s *Simulation) SeasonScores() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.seasonScores))
	for k, v := range s.seasonScores {
		out[k] = v
	}
	return out
}

// RestoreClock reinstates persisted tick/week/season counters on boot.
func (s *Simulation) RestoreClock(tick uint64, week, season int, scores map[string]int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick = tick
	s.week = week
	s.season = season
	if scores != nil {
		s.seasonScores = scores
	}
}

// Tuning exposes the active balance configuration (read-only by convention).
func (s *Simulation) Tuning() tuning.Tuning {
	return s.tn
}

// Store exposes the underlying store for adapters (read paths, persistence).
func (s *Simulation) Store() store.Store {
	return s.store
}

func (s *Simulation) emit(t EventType, actorID, actorType string, data map[string]any) {
	s.pending = append(s.pending, Event{
		Type:      t,
		Tick:      s.tick,
		ActorID:   actorID,
		ActorType: actorType,
		Data:      data,
	})
}

func (s *Simulation) takePending() []Event {
	evts := s.pending
	s.pending = nil
	return evts
}

func (s *Simulation) deliver(evts []Event) {
	if len(evts) > 0 && s.OnEvents != nil {
		s.OnEvents(evts)
	}
}

// do runs one action under the lock. On rejection the pending event buffer
// is discarded, so failed actions emit nothing and mutate nothing.
func (s *Simulation) do(fn func() (any, error)) (any, error) {
	s.mu.Lock()
	data, err := fn()
	var evts []Event
	if err == nil {
		evts = s.takePending()
	} else {
		s.pending = nil
	}
	s.mu.Unlock()
	s.deliver(evts)
	return data, err
}

// beginAction validates the shared action preconditions: player exists, has
// not acted this tick, and is under the daily cap. Callers mutate only
// after all of their own preconditions pass, then call commitAction.
func (s *Simulation) beginAction(playerID string) (*players.Player, error) {
	p, ok := s.store.Player(playerID)
	if !ok {
		return nil, rejectf(ErrNotFound, "player %s not found", playerID)
	}
	if p.LastActionTick >= s.tick+1 {
		return nil, rejectf(ErrRateLimit, "already acted this tick")
	}
	if p.ActionsToday >= s.tn.DailyActionCap {
		return nil, rejectf(ErrRateLimit, "daily action cap reached")
	}
	return p, nil
}

// commitAction records the accepted action against the player's rate limits.
func (s *Simulation) commitAction(p *players.Player, action string) {
	p.LastActionTick = s.tick + 1
	p.ActionsToday++
	s.store.PutPlayer(p)
	s.emit(EventPlayerAction, p.ID, ActorPlayer, map[string]any{"action": action})
}

// Join creates a new player at the given hub zone. Not tick-gated: joining
// is an adapter concern, not a world action.
func (s *Simulation) Join(name, zoneID string) (*players.Player, error) {
	data, err := s.do(func() (any, error) {
		z, ok := s.store.Zone(zoneID)
		if !ok {
			return nil, rejectf(ErrNotFound, "zone %s not found", zoneID)
		}
		if z.Kind != world.ZoneHub {
			return nil, rejectf(ErrPrecondition, "players join at hub zones")
		}
		p := players.NewPlayer(uuid.NewString(), name, zoneID, s.tn.StartingCredits)
		p.JoinedTick = s.tick
		s.store.PutPlayer(p)
		s.emit(EventPlayerJoined, p.ID, ActorPlayer, map[string]any{"name": name, "zone_id": zoneID})
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return data.(*players.Player), nil
}
