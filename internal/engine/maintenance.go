package engine

import "github.com/talgya/supply-lines/internal/players"

// processMaintenance charges every unit's per-tick upkeep to its owner.
// Unpaid units accrue UnpaidTicks and desert once the grace period runs
// out; a deserting escort is pulled off its shipment first.
func (s *Simulation) processMaintenance(tick uint64) error {
	for _, u := range s.store.Units() {
		p, ok := s.store.Player(u.OwnerID)
		if !ok {
			// Orphaned unit: owner record gone, unit disbands.
			s.store.DeleteUnit(u.ID)
			continue
		}

		if p.Credits >= u.Maintenance {
			p.Credits -= u.Maintenance
			u.UnpaidTicks = 0
			s.store.PutPlayer(p)
			s.store.PutUnit(u)
			continue
		}

		u.UnpaidTicks++
		if u.UnpaidTicks < s.tn.MaintenanceGraceTicks {
			s.store.PutUnit(u)
			continue
		}

		if u.Kind == players.UnitEscort && u.Assignment != "" {
			if sh, ok := s.store.Shipment(u.Assignment); ok {
				s.removeEscort(sh, u)
				s.store.PutShipment(sh)
			}
		}
		s.store.DeleteUnit(u.ID)
		s.emit(EventUnitDeserted, u.OwnerID, ActorSystem, map[string]any{
			"unit_id":      u.ID,
			"kind":         string(u.Kind),
			"unpaid_ticks": u.UnpaidTicks,
		})
	}
	return nil
}
