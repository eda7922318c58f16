// Shipment transit — advances shipments along their paths, rolls for
// interception on each completed leg, and resolves escort-vs-raider combat.
package engine

import (
	"math"

	"github.com/google/uuid"

	"github.com/talgya/supply-lines/internal/players"
	"github.com/talgya/supply-lines/internal/shipping"
	"github.com/talgya/supply-lines/internal/world"
)

// InterceptionProbability computes the chance a shipment is intercepted on
// the route it just traversed. Pure; clamped to [0, 0.95] regardless of
// input magnitudes.
//
// The raid-resistance division applies only when the destination zone is
// faction-owned (destEff is the destination's efficiency bundle).
func InterceptionProbability(route *world.Route, visibility float64, escortStrength, raiderStrength float64, destEff world.Efficiency, destOwned bool) float64 {
	p := route.BaseRisk * route.Chokepoint * visibility
	p += 0.05 * raiderStrength

	if escortStrength >= raiderStrength {
		p *= math.Max(0.1, 1-escortStrength*0.1)
	} else {
		deficit := raiderStrength - escortStrength
		p *= math.Max(0.2, 1-deficit*0.05)
	}

	if destOwned && destEff.RaidResistance > 0 {
		p /= destEff.RaidResistance
	}

	if p < 0 {
		return 0
	}
	if p > 0.95 {
		return 0.95
	}
	return p
}

// combatBand maps an escort strength advantage to its outcome.
type combatBand struct {
	cargoLoss      float64 // Fraction of each cargo stack lost
	raiderLossHalf bool    // Destroy half the raiders
	escortLossOne  bool    // Destroy a single escort
	escortLossMost bool    // Destroy ~75% of the escorts
}

func bandForAdvantage(advantage float64) combatBand {
	switch {
	case advantage > 10:
		return combatBand{cargoLoss: 0.10, raiderLossHalf: true}
	case advantage > 0:
		return combatBand{cargoLoss: 0.25}
	case advantage > -10:
		return combatBand{cargoLoss: 0.50, escortLossOne: true}
	default:
		return combatBand{cargoLoss: 0.75, escortLossMost: true}
	}
}

// processShipments advances every active shipment by one tick.
func (s *Simulation) processShipments(tick uint64) error {
	for _, sh := range s.store.ActiveShipments() {
		sh.TicksToNextZone--
		if sh.TicksToNextZone > 0 {
			s.store.PutShipment(sh)
			continue
		}

		// Countdown exhausted: evaluate the leg just traversed. Reaching the
		// path's last zone completes the shipment inside advanceShipment.
		if sh.CurrentPosition+1 >= len(sh.Path) {
			s.completeShipment(sh)
			continue
		}
		s.evaluateLeg(sh)
	}
	return nil
}

// evaluateLeg rolls interception on the route just traversed and either
// advances the shipment or resolves combat.
func (s *Simulation) evaluateLeg(sh *shipping.Shipment) {
	fromID := sh.Path[sh.CurrentPosition]
	toID := sh.Path[sh.CurrentPosition+1]
	route, ok := s.store.RouteBetween(fromID, toID)
	if !ok {
		// Route vanished from under the shipment (season reset edge).
		// Fail safely as a total loss without combat.
		sh.Status = shipping.StatusIntercepted
		s.releaseEscorts(sh, toID)
		s.store.PutShipment(sh)
		s.emit(EventShipmentIntercepted, sh.PlayerID, ActorSystem, map[string]any{
			"shipment_id": sh.ID, "reason": "route_lost",
		})
		return
	}

	spec := shipping.Specs[sh.Class]
	escortStr := s.aggregateStrength(s.store.UnitsByAssignment(sh.ID))
	raiderStr := s.aggregateStrength(s.store.UnitsByAssignment(route.ID))

	dest, destOK := s.store.Zone(sh.Destination())
	destEff := world.Neutral
	destOwned := false
	if destOK {
		// Medkit bonus works off the stockpile alone; raid resistance only
		// shields faction-owned destinations.
		destEff = world.ZoneEffectiveness(dest)
		destOwned = dest.Owned()
	}

	p := InterceptionProbability(route, spec.Visibility, escortStr, raiderStr, destEff, destOwned)
	if s.rng.Float() < p {
		s.resolveInterception(sh, route, escortStr, raiderStr, destEff)
		return
	}

	s.advanceShipment(sh, toID)
}

// advanceShipment moves the shipment one position along its path.
func (s *Simulation) advanceShipment(sh *shipping.Shipment, atZone string) {
	sh.CurrentPosition++
	if sh.CurrentPosition >= len(sh.Path)-1 {
		s.completeShipment(sh)
		return
	}

	next, ok := s.store.RouteBetween(sh.Path[sh.CurrentPosition], sh.Path[sh.CurrentPosition+1])
	if !ok {
		sh.Status = shipping.StatusIntercepted
		s.releaseEscorts(sh, atZone)
		s.store.PutShipment(sh)
		s.emit(EventShipmentIntercepted, sh.PlayerID, ActorSystem, map[string]any{
			"shipment_id": sh.ID, "reason": "route_lost",
		})
		return
	}

	spec := shipping.Specs[sh.Class]
	sh.TicksToNextZone = s.legTicksOn(next, spec, sh.ID)
	s.store.PutShipment(sh)
	s.emit(EventShipmentMoved, sh.PlayerID, ActorSystem, map[string]any{
		"shipment_id": sh.ID,
		"at_zone":     atZone,
		"next_zone":   sh.Path[sh.CurrentPosition+1],
	})
}

// completeShipment delivers cargo, relocates the player, and frees escorts.
func (s *Simulation) completeShipment(sh *shipping.Shipment) {
	destID := sh.Destination()
	sh.CurrentPosition = len(sh.Path) - 1
	sh.Status = shipping.StatusArrived

	if p, ok := s.store.Player(sh.PlayerID); ok {
		for res, qty := range sh.Cargo {
			p.Inventory[res] += qty
		}
		p.LocationID = destID
		s.store.PutPlayer(p)
	}
	s.releaseEscorts(sh, destID)
	s.store.PutShipment(sh)

	s.emit(EventShipmentArrived, sh.PlayerID, ActorSystem, map[string]any{
		"shipment_id": sh.ID,
		"zone_id":     destID,
		"cargo":       cargoCopy(sh.Cargo),
	})
}

// resolveInterception runs escort-vs-raider combat on the given route.
func (s *Simulation) resolveInterception(sh *shipping.Shipment, route *world.Route, escortStr, raiderStr float64, destEff world.Efficiency) {
	// Destination medkit stockpiles patch up the defenders.
	effectiveEscort := escortStr * (1 + destEff.MedkitBonus)
	advantage := effectiveEscort - raiderStr
	band := bandForAdvantage(advantage)

	lost := make(map[string]int)
	totalBefore := sh.CargoTotal()
	for res, qty := range sh.Cargo {
		l := int(math.Round(float64(qty) * band.cargoLoss))
		if l > qty {
			l = qty
		}
		sh.Cargo[res] = qty - l
		if l > 0 {
			lost[string(res)] = l
		}
	}

	escorts := s.store.UnitsByAssignment(sh.ID)
	raiders := s.store.UnitsByAssignment(route.ID)
	var destroyedEscorts, destroyedRaiders int

	switch {
	case band.raiderLossHalf:
		for i := 0; i < len(raiders)/2; i++ {
			s.store.DeleteUnit(raiders[i].ID)
			destroyedRaiders++
		}
	case band.escortLossOne:
		if len(escorts) > 0 {
			s.removeEscort(sh, escorts[0])
			destroyedEscorts++
		}
	case band.escortLossMost:
		n := int(math.Ceil(float64(len(escorts)) * 0.75))
		for i := 0; i < n; i++ {
			s.removeEscort(sh, escorts[i])
			destroyedEscorts++
		}
	}

	s.emit(EventCombatResolved, sh.PlayerID, ActorSystem, map[string]any{
		"shipment_id":       sh.ID,
		"route_id":          route.ID,
		"escort_strength":   effectiveEscort,
		"raider_strength":   raiderStr,
		"advantage":         advantage,
		"cargo_loss_pct":    band.cargoLoss * 100,
		"escorts_destroyed": destroyedEscorts,
		"raiders_destroyed": destroyedRaiders,
	})

	survives := sh.CargoTotal() > 0 && band.cargoLoss < 1
	penalty := s.tn.InterceptReputationPenalty
	if survives {
		penalty /= 2
	}
	if p, ok := s.store.Player(sh.PlayerID); ok {
		p.AdjustReputation(-penalty)
		s.store.PutPlayer(p)
	}

	if survives {
		s.emit(EventShipmentPartialLoss, sh.PlayerID, ActorSystem, map[string]any{
			"shipment_id": sh.ID,
			"cargo_lost":  lost,
			"remaining":   sh.CargoTotal(),
		})
		s.advanceShipment(sh, sh.Path[sh.CurrentPosition+1])
		return
	}

	sh.Status = shipping.StatusIntercepted
	s.releaseEscorts(sh, sh.Path[sh.CurrentPosition])
	s.store.PutShipment(sh)
	s.emit(EventShipmentIntercepted, sh.PlayerID, ActorSystem, map[string]any{
		"shipment_id": sh.ID,
		"route_id":    route.ID,
		"cargo_lost":  lost,
		"outcome":     "total_loss",
		"had_cargo":   totalBefore,
	})
}

func (s *Simulation) removeEscort(sh *shipping.Shipment, u *players.Unit) {
	s.store.DeleteUnit(u.ID)
	for i, id := range sh.EscortIDs {
		if id == u.ID {
			sh.EscortIDs = append(sh.EscortIDs[:i], sh.EscortIDs[i+1:]...)
			break
		}
	}
}

// releaseEscorts unassigns surviving escorts at the given zone.
func (s *Simulation) releaseEscorts(sh *shipping.Shipment, zoneID string) {
	for _, u := range s.store.UnitsByAssignment(sh.ID) {
		u.Assignment = ""
		u.LocationID = zoneID
		s.store.PutUnit(u)
	}
}

func (s *Simulation) aggregateStrength(units []*players.Unit) float64 {
	total := 0.0
	for _, u := range units {
		total += float64(u.Strength)
	}
	return total
}

// routeLoad counts other in-transit shipments currently traversing the route.
func (s *Simulation) routeLoad(routeID, excludeID string) int {
	n := 0
	for _, sh := range s.store.ActiveShipments() {
		if sh.ID == excludeID || sh.CurrentPosition+1 >= len(sh.Path) {
			continue
		}
		r, ok := s.store.RouteBetween(sh.Path[sh.CurrentPosition], sh.Path[sh.CurrentPosition+1])
		if ok && r.ID == routeID {
			n++
		}
	}
	return n
}

// legTicksOn computes the leg countdown, doubled when the route already
// carries a full complement of shipments.
func (s *Simulation) legTicksOn(route *world.Route, spec shipping.Spec, excludeID string) int {
	t := legTicks(route.Distance, spec.SpeedMod)
	if route.Capacity > 0 && s.routeLoad(route.ID, excludeID) >= route.Capacity {
		t *= 2
	}
	return t
}

func legTicks(distance int, speedMod float64) int {
	t := int(math.Ceil(float64(distance) * speedMod))
	if t < 1 {
		t = 1
	}
	return t
}

func cargoCopy(cargo map[world.Resource]int) map[string]int {
	out := make(map[string]int, len(cargo))
	for res, qty := range cargo {
		out[string(res)] = qty
	}
	return out
}

// Ship creates a shipment. The path is supplied explicitly by the caller and
// validated leg-by-leg for route existence; cargo is deducted atomically.
func (s *Simulation) Ship(playerID string, class shipping.Class, path []string, cargo map[world.Resource]int, escortIDs []string) (*shipping.Shipment, error) {
	data, err := s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		if !shipping.ValidClass(class) {
			return nil, rejectf(ErrPrecondition, "unknown shipment class %q", class)
		}
		if !p.Licenses[class] {
			return nil, rejectf(ErrNoLicense, "no %s license", class)
		}
		if len(path) < 2 {
			return nil, rejectf(ErrPrecondition, "path needs at least two zones")
		}
		if path[0] != p.LocationID {
			return nil, rejectf(ErrNotAtLocation, "path must start at your location %s", p.LocationID)
		}
		for i := 0; i < len(path)-1; i++ {
			if _, ok := s.store.RouteBetween(path[i], path[i+1]); !ok {
				return nil, rejectf(ErrInvalidTarget, "no route %s → %s", path[i], path[i+1])
			}
		}

		spec := shipping.Specs[class]
		total := 0
		for res, qty := range cargo {
			if qty <= 0 {
				return nil, rejectf(ErrPrecondition, "cargo quantity for %s must be positive", res)
			}
			if !world.ValidResource(res) {
				return nil, rejectf(ErrPrecondition, "unknown resource %q", res)
			}
			if !p.Has(res, qty) {
				return nil, rejectf(ErrNoResource, "need %d %s, have %d", qty, res, p.Inventory[res])
			}
			total += qty
		}
		if total == 0 {
			return nil, rejectf(ErrPrecondition, "empty cargo")
		}
		if total > spec.Capacity {
			return nil, rejectf(ErrPrecondition, "cargo %d exceeds %s capacity %d", total, class, spec.Capacity)
		}

		var escorts []*players.Unit
		for _, id := range escortIDs {
			u, ok := s.store.Unit(id)
			if !ok {
				return nil, rejectf(ErrNotFound, "unit %s not found", id)
			}
			if u.OwnerID != p.ID {
				return nil, rejectf(ErrNoPermission, "unit %s is not yours", id)
			}
			if u.Kind != players.UnitEscort {
				return nil, rejectf(ErrPrecondition, "unit %s is not an escort", id)
			}
			if u.Assigned() {
				return nil, rejectf(ErrConflict, "unit %s already assigned", id)
			}
			if u.LocationID != p.LocationID {
				return nil, rejectf(ErrNotAtLocation, "escort %s is not at %s", id, p.LocationID)
			}
			escorts = append(escorts, u)
		}

		// All preconditions pass: mutate.
		for res, qty := range cargo {
			p.Inventory[res] -= qty
		}

		firstRoute, _ := s.store.RouteBetween(path[0], path[1])
		sh := &shipping.Shipment{
			ID:              uuid.NewString(),
			PlayerID:        p.ID,
			Class:           class,
			Path:            append([]string(nil), path...),
			TicksToNextZone: s.legTicksOn(firstRoute, spec, ""),
			Cargo:           make(map[world.Resource]int, len(cargo)),
			Status:          shipping.StatusInTransit,
			CreatedTick:     s.tick,
		}
		for res, qty := range cargo {
			sh.Cargo[res] = qty
		}
		for _, u := range escorts {
			u.Assignment = sh.ID
			sh.EscortIDs = append(sh.EscortIDs, u.ID)
			s.store.PutUnit(u)
		}
		s.store.PutShipment(sh)
		s.commitAction(p, "ship")
		s.emit(EventShipmentCreated, p.ID, ActorPlayer, map[string]any{
			"shipment_id": sh.ID,
			"class":       string(class),
			"path":        sh.Path,
			"cargo":       cargoCopy(sh.Cargo),
			"escorts":     len(sh.EscortIDs),
		})
		return sh, nil
	})
	if err != nil {
		return nil, err
	}
	return data.(*shipping.Shipment), nil
}

// FindRoute is the advisory pathfinder exposed to adapters. It never feeds
// shipment creation directly.
func (s *Simulation) FindRoute(fromID, toID string, mode world.CostMode) (*world.PathResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.store.Zone(fromID); !ok {
		return nil, rejectf(ErrNotFound, "zone %s not found", fromID)
	}
	if _, ok := s.store.Zone(toID); !ok {
		return nil, rejectf(ErrNotFound, "zone %s not found", toID)
	}
	res, ok := world.FindPath(s.store.Routes(), fromID, toID, mode)
	if !ok {
		return nil, rejectf(ErrInvalidTarget, "no path from %s to %s", fromID, toID)
	}
	return res, nil
}
