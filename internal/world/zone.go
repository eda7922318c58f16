// Package world provides the zone graph, routes, and spatial data structures.
// Zones are the nodes of a directed route graph rather than a tile grid;
// every distance in the game is expressed in ticks along a route.
package world

// ZoneKind enumerates the six zone archetypes.
type ZoneKind uint8

const (
	ZoneHub         ZoneKind = iota // Trade hub — markets, unit hiring, licenses
	ZoneExtraction                  // Mines — ore, fuel, raw minerals
	ZoneField                       // Farmland — grain, timber, textiles; regenerates
	ZoneRefinery                    // Industry — converts raw goods into finished ones
	ZoneOutpost                     // Garrison — unit production, capture targets
	ZoneCrossroads                  // Waypoint — no production, high route density
)

// KindName returns a human-readable zone kind name.
func KindName(k ZoneKind) string {
	switch k {
	case ZoneHub:
		return "hub"
	case ZoneExtraction:
		return "extraction"
	case ZoneField:
		return "field"
	case ZoneRefinery:
		return "refinery"
	case ZoneOutpost:
		return "outpost"
	case ZoneCrossroads:
		return "crossroads"
	default:
		return "unknown"
	}
}

// ZoneState is derived from SupplyLevel via fixed thresholds.
type ZoneState string

const (
	StateSupplied  ZoneState = "supplied"  // SupplyLevel >= 100
	StateStrained  ZoneState = "strained"  // SupplyLevel >= 50
	StateCritical  ZoneState = "critical"  // SupplyLevel > 0
	StateCollapsed ZoneState = "collapsed" // SupplyLevel == 0
)

// Supply thresholds. These are rules of the world, not tuning knobs.
const (
	SupplyFullThreshold     = 100.0
	SupplyStrainedThreshold = 50.0
	SupplyMax               = 100.0
)

// Zone is a node on the map: a place players stand in, extract from,
// trade at, and factions hold by feeding it Supply Units every tick.
type Zone struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Kind ZoneKind `json:"kind"`

	// OwnerID is the controlling faction, empty when neutral.
	// Cleared by the burn engine exactly when supply collapses to 0.
	OwnerID string `json:"owner_id,omitempty"`

	SupplyLevel      float64 `json:"supply_level"`      // 0..100, derived state via State()
	BurnRate         float64 `json:"burn_rate"`         // SU consumed per tick; 0 = never degrades
	ComplianceStreak int     `json:"compliance_streak"` // Consecutive fully-supplied ticks
	SUStockpile      float64 `json:"su_stockpile"`      // Deposited Supply Units awaiting burn

	// Resources present in the zone itself (field stocks, mine veins).
	Resources map[Resource]int `json:"resources"`

	// ResourceCapacity caps what field regeneration can restore.
	ResourceCapacity map[Resource]int `json:"resource_capacity,omitempty"`

	ProductionCapacity int `json:"production_capacity"` // Units of output per produce action
	GarrisonLevel      int `json:"garrison_level"`

	MedkitStockpile float64 `json:"medkit_stockpile"`
	CommsStockpile  float64 `json:"comms_stockpile"`
}

// State derives the zone's supply state from its supply level.
func (z *Zone) State() ZoneState {
	switch {
	case z.SupplyLevel >= SupplyFullThreshold:
		return StateSupplied
	case z.SupplyLevel >= SupplyStrainedThreshold:
		return StateStrained
	case z.SupplyLevel > 0:
		return StateCritical
	default:
		return StateCollapsed
	}
}

// Owned reports whether a faction currently holds the zone.
func (z *Zone) Owned() bool {
	return z.OwnerID != ""
}

// Route is a directed edge between two zones. A logical bidirectional
// connection is two Route records. Immutable after world generation.
type Route struct {
	ID       string  `json:"id"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Distance int     `json:"distance"` // Travel time in ticks at freight speed
	Capacity int     `json:"capacity"` // Concurrent shipments before congestion doubles leg time
	BaseRisk float64 `json:"base_risk"`
	// Chokepoint amplifies interception risk independent of base risk. >= 1.
	Chokepoint float64 `json:"chokepoint"`
}
