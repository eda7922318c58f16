package players

// UnitKind is the combat role of a unit.
type UnitKind string

const (
	UnitEscort UnitKind = "escort" // Assigned to a shipment; defends it
	UnitRaider UnitKind = "raider" // Assigned to a route; preys on traffic
)

// Unit is an escort or raider squad. A unit has at most one assignment:
// a shipment ID for escorts, a route ID for raiders.
type Unit struct {
	ID         string   `json:"id"`
	OwnerID    string   `json:"owner_id"`
	Kind       UnitKind `json:"kind"`
	LocationID string   `json:"location_id"`

	Strength int `json:"strength"`
	Speed    int `json:"speed"`

	// Maintenance is the per-tick upkeep in credits. Units desert
	// (are destroyed) after sustained non-payment.
	Maintenance int64  `json:"maintenance"`
	UnpaidTicks int    `json:"unpaid_ticks"`
	Assignment  string `json:"assignment,omitempty"`

	// ForSalePrice lists the unit on the hiring market when > 0.
	// Listing requires the unit unassigned and at a hub zone.
	ForSalePrice int64 `json:"for_sale_price,omitempty"`
}

// Assigned reports whether the unit is currently deployed.
func (u *Unit) Assigned() bool {
	return u.Assignment != ""
}
