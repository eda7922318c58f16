// Package contracts defines player-posted work orders and their state
// machine. Lifecycle transitions live in the engine; this package holds the
// entity and the pure validity rules.
package contracts

import (
	"strings"

	"github.com/talgya/supply-lines/internal/world"
)

// Kind is the contract work type.
type Kind string

const (
	KindHaul   Kind = "haul"   // Deliver goods to a destination zone
	KindSupply Kind = "supply" // Supply-run to a zone (SU deposit is a separate action)
	KindScout  Kind = "scout"  // Produce fresh intel on a target
)

// NormalizeKind canonicalizes a client-supplied kind string.
// Returns "" for anything unknown.
func NormalizeKind(s string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindHaul:
		return KindHaul
	case KindSupply:
		return KindSupply
	case KindScout:
		return KindScout
	default:
		return ""
	}
}

// Status is the contract lifecycle state.
type Status string

const (
	StatusOpen      Status = "open"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusExpired   Status = "expired"
)

// TargetType for scout contracts.
const (
	TargetZone  = "zone"
	TargetRoute = "route"
)

// Contract is a posted work order. Reward and bonus credits are escrowed
// from the poster at creation and released on completion, or refunded on
// expiry/withdrawal. Exactly one acceptor.
type Contract struct {
	ID         string `json:"id"`
	Kind       Kind   `json:"kind"`
	PosterID   string `json:"poster_id"`
	AcceptedBy string `json:"accepted_by,omitempty"`

	// Haul / supply details.
	Resource   world.Resource `json:"resource,omitempty"`
	Quantity   int            `json:"quantity,omitempty"`
	FromZoneID string         `json:"from_zone_id,omitempty"`
	ToZoneID   string         `json:"to_zone_id,omitempty"`

	// Scout details.
	TargetType string `json:"target_type,omitempty"`
	TargetID   string `json:"target_id,omitempty"`

	DeadlineTick uint64 `json:"deadline_tick"`

	RewardCredits    int64 `json:"reward_credits"`
	RewardReputation int   `json:"reward_reputation"`

	// Optional early-completion bonus.
	BonusDeadlineTick uint64 `json:"bonus_deadline_tick,omitempty"`
	BonusCredits      int64  `json:"bonus_credits,omitempty"`

	Status       Status `json:"status"`
	CreatedTick  uint64 `json:"created_tick"`
	AcceptedTick uint64 `json:"accepted_tick,omitempty"`
}

// Escrow returns the total credits escrowed from the poster at creation.
func (c *Contract) Escrow() int64 {
	return c.RewardCredits + c.BonusCredits
}

// Payout returns the credits owed on completion at the given tick,
// including the bonus when the bonus deadline was met.
func (c *Contract) Payout(tick uint64) int64 {
	total := c.RewardCredits
	if c.BonusCredits > 0 && c.BonusDeadlineTick > 0 && tick <= c.BonusDeadlineTick {
		total += c.BonusCredits
	}
	return total
}

// Terminal reports whether the contract has reached a final state.
func (c *Contract) Terminal() bool {
	switch c.Status {
	case StatusCompleted, StatusFailed, StatusExpired:
		return true
	default:
		return false
	}
}
