// Seasonal calendar: weekly scoring and the end-of-season reset.
package engine

import (
	"github.com/talgya/supply-lines/internal/contracts"
	"github.com/talgya/supply-lines/internal/shipping"
)

// processCalendar advances week and season counters. At each week boundary
// factions score their held territory; at the season boundary standings are
// frozen, the OnSeasonEnd hook fires, and the world resets.
func (s *Simulation) processCalendar(tick uint64) error {
	if tick == 0 || tick%uint64(s.tn.TicksPerWeek) != 0 {
		return nil
	}

	s.week++
	s.scoreWeek()
	s.emit(EventWeekAdvanced, "", ActorSystem, map[string]any{
		"week":   s.week,
		"season": s.season,
	})

	if s.week < s.tn.WeeksPerSeason {
		return nil
	}

	scores := make(map[string]int64, len(s.seasonScores))
	for k, v := range s.seasonScores {
		scores[k] = v
	}
	season := s.season
	s.emit(EventSeasonEnded, "", ActorSystem, map[string]any{
		"season": season,
		"scores": scores,
	})
	if s.OnSeasonEnd != nil {
		// Hook runs under the lock so archives see the pre-reset world.
		s.OnSeasonEnd(season, scores)
	}

	s.resetSeason()
	return nil
}

// scoreWeek credits each faction for the supplied territory it holds:
// supply level over ten plus the compliance streak, per zone.
func (s *Simulation) scoreWeek() {
	for _, z := range s.store.Zones() {
		if !z.Owned() || z.BurnRate <= 0 {
			continue
		}
		s.seasonScores[z.OwnerID] += int64(z.SupplyLevel/10) + int64(z.ComplianceStreak)
	}
}

// resetSeason returns the world to a neutral baseline: escrow refunded,
// transient entities cleared, territory released, clock rewound.
func (s *Simulation) resetSeason() {
	// Refund resting market escrow. Cancelled orders already paid theirs out.
	for _, o := range s.store.OpenOrders() {
		if !o.Open() {
			continue
		}
		if p, ok := s.store.Player(o.PlayerID); ok {
			s.refundOrder(p, o)
			s.store.PutPlayer(p)
		}
		o.Cancelled = true
		s.store.PutOrder(o)
	}
	for _, ao := range s.store.AdvancedOrders() {
		s.store.DeleteAdvancedOrder(ao.ID)
	}

	// Refund contract escrow: open contracts expire, active ones fail
	// without the reputation hit since the season ended under them.
	for _, c := range s.store.Contracts() {
		if c.Terminal() {
			continue
		}
		s.refundPoster(c)
		if c.Status == contracts.StatusOpen {
			c.Status = contracts.StatusExpired
		} else {
			c.Status = contracts.StatusFailed
		}
		s.store.PutContract(c)
	}

	// In-flight cargo returns nothing; the shipment record closes out.
	for _, sh := range s.store.ActiveShipments() {
		s.releaseEscorts(sh, sh.Path[sh.CurrentPosition])
		sh.Status = shipping.StatusIntercepted
		s.store.PutShipment(sh)
	}

	for _, r := range s.store.IntelReports() {
		s.store.DeleteIntel(r.ID)
	}

	// Territory releases; stockpiles and streaks clear with it.
	for _, z := range s.store.Zones() {
		z.OwnerID = ""
		z.SupplyLevel = 0
		z.SUStockpile = 0
		z.ComplianceStreak = 0
		z.MedkitStockpile = 0
		z.CommsStockpile = 0
		s.store.PutZone(z)
	}

	// Players persist across seasons: credits, inventory, reputation,
	// licenses all carry over.
	s.week = 0
	s.season++
	s.seasonScores = make(map[string]int64)
	s.tick = 0
}
