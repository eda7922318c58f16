// Package shipping defines shipments and their fixed class specifications.
package shipping

import "github.com/talgya/supply-lines/internal/world"

// Class is the shipment vehicle class. Each class requires a license.
type Class string

const (
	ClassCourier Class = "courier"
	ClassFreight Class = "freight"
	ClassConvoy  Class = "convoy"
)

// Spec holds the fixed characteristics of a shipment class.
// These are design constants, not tuning values.
type Spec struct {
	Capacity   int     // Max total cargo units
	SpeedMod   float64 // Multiplies route distance to get leg ticks
	Visibility float64 // Multiplies interception probability
}

// Specs maps each class to its spec: couriers are small, fast, and hard to
// spot; convoys are huge, slow, and light up every raider scope on the route.
var Specs = map[Class]Spec{
	ClassCourier: {Capacity: 10, SpeedMod: 0.67, Visibility: 0.5},
	ClassFreight: {Capacity: 50, SpeedMod: 1.0, Visibility: 1.0},
	ClassConvoy:  {Capacity: 200, SpeedMod: 1.33, Visibility: 2.0},
}

// ValidClass reports whether c names a known shipment class.
func ValidClass(c Class) bool {
	_, ok := Specs[c]
	return ok
}

// Status is the shipment lifecycle state.
type Status string

const (
	StatusInTransit   Status = "in_transit"
	StatusArrived     Status = "arrived"
	StatusIntercepted Status = "intercepted"
)

// Shipment is cargo moving along an explicit zone path. Created by the ship
// action (cargo deducted from the player atomically); advanced and resolved
// only by the transit engine; terminal on arrived or intercepted.
type Shipment struct {
	ID       string `json:"id"`
	PlayerID string `json:"player_id"`
	Class    Class  `json:"class"`

	// Path is the ordered zone-id sequence, length >= 2.
	Path []string `json:"path"`
	// CurrentPosition indexes the zone the shipment last departed or sits at.
	CurrentPosition int `json:"current_position"`
	// TicksToNextZone counts down each tick while in transit.
	TicksToNextZone int `json:"ticks_to_next_zone"`

	Cargo     map[world.Resource]int `json:"cargo"`
	EscortIDs []string               `json:"escort_ids,omitempty"`
	Status    Status                 `json:"status"`

	CreatedTick uint64 `json:"created_tick"`
}

// CargoTotal returns the summed cargo units on board.
func (s *Shipment) CargoTotal() int {
	total := 0
	for _, qty := range s.Cargo {
		total += qty
	}
	return total
}

// Destination returns the final zone of the path.
func (s *Shipment) Destination() string {
	return s.Path[len(s.Path)-1]
}

// Active reports whether the shipment is still moving.
func (s *Shipment) Active() bool {
	return s.Status == StatusInTransit
}
