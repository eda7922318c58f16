// Background world upkeep: resource regeneration, stockpile decay, daily
// counters, and intel garbage collection.
package engine

import "math"

// processFieldRegen regrows extractable resources toward each zone's
// capacity at a fixed fractional rate.
func (s *Simulation) processFieldRegen(tick uint64) error {
	for _, z := range s.store.Zones() {
		if len(z.ResourceCapacity) == 0 {
			continue
		}
		changed := false
		for res, cap := range z.ResourceCapacity {
			cur := z.Resources[res]
			if cur >= cap {
				continue
			}
			regen := int(math.Ceil(float64(cap) * s.tn.FieldRegen))
			if cur+regen > cap {
				regen = cap - cur
			}
			if regen > 0 {
				z.Resources[res] = cur + regen
				changed = true
			}
		}
		if changed {
			s.store.PutZone(z)
		}
	}
	return nil
}

// processStockpileDecay erodes fortification stockpiles on a slow cadence:
// medkits spoil faster than comms gear.
func (s *Simulation) processStockpileDecay(tick uint64) error {
	decayMedkits := s.tn.MedkitDecayEvery > 0 && tick%uint64(s.tn.MedkitDecayEvery) == 0
	decayComms := s.tn.CommsDecayEvery > 0 && tick%uint64(s.tn.CommsDecayEvery) == 0
	if !decayMedkits && !decayComms {
		return nil
	}
	for _, z := range s.store.Zones() {
		changed := false
		if decayMedkits && z.MedkitStockpile > 0 {
			z.MedkitStockpile = math.Max(0, z.MedkitStockpile*(1-s.tn.StockpileDecay))
			changed = true
		}
		if decayComms && z.CommsStockpile > 0 {
			z.CommsStockpile = math.Max(0, z.CommsStockpile*(1-s.tn.StockpileDecay))
			changed = true
		}
		if changed {
			s.store.PutZone(z)
		}
	}
	return nil
}

// processDailyReset zeroes every player's action counter at day boundaries.
func (s *Simulation) processDailyReset(tick uint64) error {
	if tick == 0 || tick%uint64(s.tn.TicksPerDay) != 0 {
		return nil
	}
	for _, p := range s.store.Players() {
		if p.ActionsToday != 0 {
			p.ActionsToday = 0
			s.store.PutPlayer(p)
		}
	}
	return nil
}

// processIntelGC deletes expired reports on a slow cadence. Freshness is
// derived at read time, so this is storage hygiene rather than correctness.
func (s *Simulation) processIntelGC(tick uint64) error {
	if s.tn.IntelGCEvery <= 0 || tick%uint64(s.tn.IntelGCEvery) != 0 {
		return nil
	}
	stale := uint64(s.tn.IntelStaleTicks)
	for _, r := range s.store.IntelReports() {
		if tick >= r.GatheredAt && tick-r.GatheredAt >= stale {
			s.store.DeleteIntel(r.ID)
		}
	}
	return nil
}
