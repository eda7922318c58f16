// Package economy provides the per-zone order books and the continuous
// double auction that matches them.
package economy

import "github.com/talgya/supply-lines/internal/world"

// Side is the order direction.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Order is a resting limit order in a zone's book. Funds (buy) or goods
// (sell) are escrowed at placement; quantity only ever decreases, and an
// order is exhausted — not deleted — when it reaches zero.
type Order struct {
	ID               uint64         `json:"id"`
	PlayerID         string         `json:"player_id"`
	ZoneID           string         `json:"zone_id"`
	Resource         world.Resource `json:"resource"`
	Side             Side           `json:"side"`
	Price            int64          `json:"price"` // Limit price per unit, credits
	Quantity         int            `json:"quantity"`
	OriginalQuantity int            `json:"original_quantity"`
	PlacedTick       uint64         `json:"placed_tick"`
	Cancelled        bool           `json:"cancelled,omitempty"`
}

// Exhausted reports whether the order has no remaining quantity.
func (o *Order) Exhausted() bool {
	return o.Quantity <= 0
}

// Open reports whether the order still participates in matching.
func (o *Order) Open() bool {
	return !o.Cancelled && !o.Exhausted()
}

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// AdvancedKind distinguishes the two advanced order flavors that
// materialize into regular orders during tick processing.
type AdvancedKind string

const (
	// AdvancedConditional fires once when the book's best opposing price
	// crosses the trigger.
	AdvancedConditional AdvancedKind = "conditional"
	// AdvancedTimeWeighted slices the total quantity into fixed tranches
	// released every interval.
	AdvancedTimeWeighted AdvancedKind = "time_weighted"
)

// AdvancedOrder is a standing instruction owned by the tick engine. Escrow
// happens at materialization, not at creation; a tranche that the player can
// no longer fund cancels the remainder.
type AdvancedOrder struct {
	ID       uint64         `json:"id"`
	PlayerID string         `json:"player_id"`
	ZoneID   string         `json:"zone_id"`
	Resource world.Resource `json:"resource"`
	Side     Side           `json:"side"`
	Price    int64          `json:"price"` // Limit price for materialized orders
	Kind     AdvancedKind   `json:"kind"`

	// Conditional trigger: fire when best opposing price is at or beyond
	// TriggerPrice (below for buys, above for sells).
	TriggerPrice int64 `json:"trigger_price,omitempty"`

	// Time-weighted schedule.
	SliceQuantity int    `json:"slice_quantity,omitempty"`
	EveryTicks    uint64 `json:"every_ticks,omitempty"`
	NextTick      uint64 `json:"next_tick,omitempty"`

	Remaining   int    `json:"remaining"`
	CreatedTick uint64 `json:"created_tick"`
}

// Triggered reports whether the best opposing price satisfies a
// conditional order's trigger: buy when the market falls to the trigger,
// sell when it rises to it.
func (ao *AdvancedOrder) Triggered(best int64) bool {
	if ao.Kind != AdvancedConditional {
		return false
	}
	if ao.Side == SideBuy {
		return best <= ao.TriggerPrice
	}
	return best >= ao.TriggerPrice
}
