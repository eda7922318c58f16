// Supply burn — the per-tick hysteresis state machine that makes territory
// expensive to hold. Pure per-zone logic, no cross-zone interaction.
package engine

import "github.com/talgya/supply-lines/internal/world"

// processSupplyBurn feeds every owned, burning zone from its SU stockpile
// and degrades the ones that cannot pay. Threshold crossings emit
// zone_state_changed; collapse clears ownership.
func (s *Simulation) processSupplyBurn(tick uint64) error {
	for _, z := range s.store.Zones() {
		if !z.Owned() || z.BurnRate <= 0 {
			continue
		}

		prevState := z.State()
		prevSupply := z.SupplyLevel

		if z.SUStockpile >= z.BurnRate {
			// Fully paid: the burn just consumed sustains supply this tick,
			// so the level reflects the stockpile before deduction.
			before := z.SUStockpile
			z.SUStockpile -= z.BurnRate
			z.SupplyLevel = min(world.SupplyMax, before/z.BurnRate*100)
			if prevSupply >= world.SupplyFullThreshold {
				z.ComplianceStreak++
			}
		} else {
			deficit := z.BurnRate - z.SUStockpile
			z.SUStockpile = 0
			z.SupplyLevel -= deficit / z.BurnRate * 25
			if z.SupplyLevel < 0 {
				z.SupplyLevel = 0
			}
			z.ComplianceStreak = 0
		}

		newState := z.State()
		if newState != prevState {
			s.emit(EventZoneStateChanged, z.ID, ActorSystem, map[string]any{
				"zone_id":      z.ID,
				"from":         string(prevState),
				"to":           string(newState),
				"supply_level": z.SupplyLevel,
			})
		}

		// Collapse invariant: a burning zone at zero supply has no owner.
		if z.SupplyLevel == 0 && z.Owned() {
			prevOwner := z.OwnerID
			z.OwnerID = ""
			s.emit(EventZoneCaptured, z.ID, ActorSystem, map[string]any{
				"zone_id":    z.ID,
				"new_owner":  nil,
				"prev_owner": prevOwner,
				"reason":     "collapse",
			})
		}

		s.store.PutZone(z)
	}
	return nil
}
