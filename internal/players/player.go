// Package players defines player and unit entities.
// All actors here are external agents driving the simulation through the
// action surface; there is no NPC cognition.
package players

import (
	"github.com/talgya/supply-lines/internal/shipping"
	"github.com/talgya/supply-lines/internal/world"
)

// Reputation bounds.
const (
	ReputationMin = 0
	ReputationMax = 1000
)

// Player is one agent in the economy.
type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	LocationID string `json:"location_id"`
	FactionID  string `json:"faction_id,omitempty"`

	// Credits plus the twelve resource quantities form the inventory.
	Credits   int64                  `json:"credits"`
	Inventory map[world.Resource]int `json:"inventory"`

	Reputation int `json:"reputation"` // 0..1000

	// One accepted action per tick: LastActionTick must be < the current
	// tick to act again. ActionsToday resets every sim-day.
	ActionsToday   int    `json:"actions_today"`
	LastActionTick uint64 `json:"last_action_tick"`

	Licenses map[shipping.Class]bool `json:"licenses"`

	JoinedTick uint64 `json:"joined_tick"`
}

// NewPlayer creates a player at the given zone with starting credits.
func NewPlayer(id, name, locationID string, credits int64) *Player {
	return &Player{
		ID:         id,
		Name:       name,
		LocationID: locationID,
		Credits:    credits,
		Inventory:  map[world.Resource]int{},
		Reputation: 100,
		Licenses:   map[shipping.Class]bool{shipping.ClassCourier: true},
	}
}

// Has reports whether the player holds at least qty of the resource.
func (p *Player) Has(res world.Resource, qty int) bool {
	return p.Inventory[res] >= qty
}

// AdjustReputation moves reputation by delta, clamped to [0, 1000].
func (p *Player) AdjustReputation(delta int) {
	p.Reputation += delta
	if p.Reputation < ReputationMin {
		p.Reputation = ReputationMin
	}
	if p.Reputation > ReputationMax {
		p.Reputation = ReputationMax
	}
}

// ContractCap returns how many contracts the player may hold concurrently.
// Scales with reputation tier.
func (p *Player) ContractCap() int {
	return 2 + p.Reputation/250
}
