// Package intel provides scan reports and their read-time freshness decay.
// Freshness is never stored: it is derived from (now − gatheredAt) so a
// report ages without anyone touching it.
package intel

// Freshness categories.
type Freshness string

const (
	Fresh   Freshness = "fresh"
	Stale   Freshness = "stale"
	Expired Freshness = "expired"
)

// Scan target types.
const (
	TargetTypeZone  = "zone"
	TargetTypeRoute = "route"
)

// Default age bands, in ticks.
const (
	DefaultFreshTicks = 72  // Half a sim-day
	DefaultStaleTicks = 216 // A day and a half
)

// Report is a snapshot of a zone or route taken by a scan action. Reports
// are auto-shared with the scanning player's faction at creation time.
type Report struct {
	ID        string `json:"id"`
	PlayerID  string `json:"player_id"`
	FactionID string `json:"faction_id,omitempty"`

	TargetType string `json:"target_type"` // "zone" or "route"
	TargetID   string `json:"target_id"`

	GatheredAt uint64 `json:"gathered_at"`

	// SignalQuality in [0, 100]; degraded by the target's comms defense.
	SignalQuality float64 `json:"signal_quality"`

	// Data is the state snapshot captured at scan time.
	Data map[string]any `json:"data"`
}

// FreshnessAt classifies the report's age at the given tick.
func (r *Report) FreshnessAt(now, freshTicks, staleTicks uint64) Freshness {
	if now < r.GatheredAt {
		return Fresh
	}
	age := now - r.GatheredAt
	switch {
	case age < freshTicks:
		return Fresh
	case age < staleTicks:
		return Stale
	default:
		return Expired
	}
}
