// Player action methods: travel, extraction, production, supply deposits,
// capture, scanning, factions, licenses. Each validates preconditions
// against current state, mutates, and appends events — or rejects with a
// stable reason code and touches nothing.
package engine

import (
	"math"

	"github.com/google/uuid"

	"github.com/talgya/supply-lines/internal/intel"
	"github.com/talgya/supply-lines/internal/shipping"
	"github.com/talgya/supply-lines/internal/world"
)

// Travel moves the player along one route to an adjacent zone.
func (s *Simulation) Travel(playerID, toZoneID string) (any, error) {
	return s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		if _, ok := s.store.Zone(toZoneID); !ok {
			return nil, rejectf(ErrNotFound, "zone %s not found", toZoneID)
		}
		if _, ok := s.store.RouteBetween(p.LocationID, toZoneID); !ok {
			return nil, rejectf(ErrInvalidTarget, "no route from %s to %s", p.LocationID, toZoneID)
		}
		p.LocationID = toZoneID
		s.commitAction(p, "travel")
		return map[string]any{"location_id": toZoneID}, nil
	})
}

// Extract draws a resource out of the zone the player stands in.
// Output scales with the zone's production bonus when the player's faction
// holds it.
func (s *Simulation) Extract(playerID string, res world.Resource) (any, error) {
	return s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		z, ok := s.store.Zone(p.LocationID)
		if !ok {
			return nil, rejectf(ErrNotFound, "zone %s not found", p.LocationID)
		}
		if z.Kind != world.ZoneExtraction && z.Kind != world.ZoneField {
			return nil, rejectf(ErrPrecondition, "%s is not an extraction or field zone", z.ID)
		}
		available := z.Resources[res]
		if available <= 0 {
			return nil, rejectf(ErrNoResource, "%s has no %s left", z.ID, res)
		}

		amount := float64(s.tn.ExtractBase)
		if z.Owned() && z.OwnerID == p.FactionID {
			amount *= world.ZoneEffectiveness(z).ProductionBonus
		}
		qty := int(amount)
		if qty > available {
			qty = available
		}

		z.Resources[res] -= qty
		p.Inventory[res] += qty
		s.store.PutZone(z)
		s.commitAction(p, "extract")
		return map[string]any{"resource": string(res), "quantity": qty}, nil
	})
}

// productionRecipes maps an output resource to its refinery inputs.
var productionRecipes = map[world.Resource]struct {
	Inputs map[world.Resource]int
	Output int
}{
	world.ResourceAlloys:     {Inputs: map[world.Resource]int{world.ResourceOre: 2, world.ResourceFuel: 1}, Output: 1},
	world.ResourceComponents: {Inputs: map[world.Resource]int{world.ResourceAlloys: 1, world.ResourceTimber: 1}, Output: 1},
	world.ResourceRations:    {Inputs: map[world.Resource]int{world.ResourceGrain: 2}, Output: 1},
	world.ResourceMedkits:    {Inputs: map[world.Resource]int{world.ResourceRations: 1, world.ResourceTextiles: 1}, Output: 1},
	world.ResourceComms:      {Inputs: map[world.Resource]int{world.ResourceComponents: 2}, Output: 1},
	world.ResourceSupply:     {Inputs: map[world.Resource]int{world.ResourceRations: 1, world.ResourceFuel: 1}, Output: 2},
}

// Produce converts inputs into an output resource at a refinery. Batches
// are capped by the zone's production capacity.
func (s *Simulation) Produce(playerID string, res world.Resource, batches int) (any, error) {
	return s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		z, ok := s.store.Zone(p.LocationID)
		if !ok {
			return nil, rejectf(ErrNotFound, "zone %s not found", p.LocationID)
		}
		if z.Kind != world.ZoneRefinery {
			return nil, rejectf(ErrPrecondition, "%s is not a refinery", z.ID)
		}
		recipe, ok := productionRecipes[res]
		if !ok {
			return nil, rejectf(ErrPrecondition, "%s cannot be produced", res)
		}
		if batches <= 0 {
			return nil, rejectf(ErrPrecondition, "batches must be positive")
		}
		if batches > z.ProductionCapacity {
			batches = z.ProductionCapacity
		}
		for in, qty := range recipe.Inputs {
			if !p.Has(in, qty*batches) {
				return nil, rejectf(ErrNoResource, "need %d %s", qty*batches, in)
			}
		}

		for in, qty := range recipe.Inputs {
			p.Inventory[in] -= qty * batches
		}
		output := float64(recipe.Output * batches)
		if z.Owned() && z.OwnerID == p.FactionID {
			output *= world.ZoneEffectiveness(z).ProductionBonus
		}
		made := int(output)
		p.Inventory[res] += made
		s.commitAction(p, "produce")
		return map[string]any{"resource": string(res), "quantity": made}, nil
	})
}

// DepositSU moves Supply Units from the player's inventory into the zone
// stockpile. The burn engine recomputes the supply level next tick.
func (s *Simulation) DepositSU(playerID string, amount int) (any, error) {
	return s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		if amount <= 0 {
			return nil, rejectf(ErrPrecondition, "amount must be positive")
		}
		z, ok := s.store.Zone(p.LocationID)
		if !ok {
			return nil, rejectf(ErrNotFound, "zone %s not found", p.LocationID)
		}
		if z.BurnRate <= 0 {
			return nil, rejectf(ErrPrecondition, "%s does not consume supply", z.ID)
		}
		if !p.Has(world.ResourceSupply, amount) {
			return nil, rejectf(ErrNoResource, "need %d supply units, have %d", amount, p.Inventory[world.ResourceSupply])
		}

		p.Inventory[world.ResourceSupply] -= amount
		z.SUStockpile += float64(amount)
		s.store.PutZone(z)
		s.commitAction(p, "deposit_su")
		s.emit(EventZoneSupplied, p.ID, ActorPlayer, map[string]any{
			"zone_id":   z.ID,
			"amount":    amount,
			"stockpile": z.SUStockpile,
		})
		return map[string]any{"stockpile": z.SUStockpile}, nil
	})
}

// DepositStockpile adds medkits or comms gear to the zone's fortification
// stockpiles (the inputs to the efficiency model).
func (s *Simulation) DepositStockpile(playerID string, res world.Resource, amount int) (any, error) {
	return s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		if amount <= 0 {
			return nil, rejectf(ErrPrecondition, "amount must be positive")
		}
		if res != world.ResourceMedkits && res != world.ResourceComms {
			return nil, rejectf(ErrPrecondition, "only medkits or comms gear can be stockpiled")
		}
		z, ok := s.store.Zone(p.LocationID)
		if !ok {
			return nil, rejectf(ErrNotFound, "zone %s not found", p.LocationID)
		}
		if !p.Has(res, amount) {
			return nil, rejectf(ErrNoResource, "need %d %s", amount, res)
		}

		p.Inventory[res] -= amount
		if res == world.ResourceMedkits {
			z.MedkitStockpile += float64(amount)
		} else {
			z.CommsStockpile += float64(amount)
		}
		s.store.PutZone(z)
		s.commitAction(p, "deposit_stockpile")
		return map[string]any{"medkits": z.MedkitStockpile, "comms": z.CommsStockpile}, nil
	})
}

// CaptureZone claims the zone the player stands in for their faction.
// An owned zone with any supply left cannot be taken; garrisoned zones need
// enough unassigned unit strength on site.
func (s *Simulation) CaptureZone(playerID string) (any, error) {
	return s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		if p.FactionID == "" {
			return nil, rejectf(ErrPrecondition, "join a faction before capturing zones")
		}
		z, ok := s.store.Zone(p.LocationID)
		if !ok {
			return nil, rejectf(ErrNotFound, "zone %s not found", p.LocationID)
		}
		if z.BurnRate <= 0 {
			return nil, rejectf(ErrPrecondition, "%s cannot be held", z.ID)
		}
		if z.OwnerID == p.FactionID {
			return nil, rejectf(ErrConflict, "your faction already holds %s", z.ID)
		}
		if z.Owned() && z.SupplyLevel > 0 {
			return nil, rejectf(ErrPrecondition, "%s is supplied and defended", z.ID)
		}
		if z.GarrisonLevel > 0 {
			strength := 0
			for _, u := range s.store.Units() {
				if u.OwnerID == p.ID && !u.Assigned() && u.LocationID == z.ID {
					strength += u.Strength
				}
			}
			// A fortified garrison absorbs part of the capture pressure, so
			// the attacker needs proportionally more strength on site.
			required := int(math.Ceil(float64(z.GarrisonLevel*10) * (1 + world.ZoneEffectiveness(z).CaptureDefense)))
			if strength < required {
				return nil, rejectf(ErrPrecondition, "garrison level %d needs %d unit strength on site", z.GarrisonLevel, required)
			}
		}

		prevOwner := z.OwnerID
		z.OwnerID = p.FactionID
		z.ComplianceStreak = 0
		s.store.PutZone(z)
		s.commitAction(p, "capture_zone")
		s.emit(EventZoneCaptured, p.ID, ActorPlayer, map[string]any{
			"zone_id":    z.ID,
			"new_owner":  p.FactionID,
			"prev_owner": prevOwner,
		})
		return map[string]any{"zone_id": z.ID, "owner_id": p.FactionID}, nil
	})
}

// Scan gathers an intel report on the player's current zone, an adjacent
// zone, or an adjacent route. Hostile comms stockpiles degrade the signal.
func (s *Simulation) Scan(playerID, targetType, targetID string) (*intel.Report, error) {
	data, err := s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}

		quality := 100.0
		var snapshot map[string]any

		switch targetType {
		case intel.TargetTypeZone:
			z, ok := s.store.Zone(targetID)
			if !ok {
				return nil, rejectf(ErrNotFound, "zone %s not found", targetID)
			}
			if targetID != p.LocationID {
				if _, adj := s.store.RouteBetween(p.LocationID, targetID); !adj {
					return nil, rejectf(ErrInvalidTarget, "zone %s is out of scan range", targetID)
				}
			}
			if z.Owned() && z.OwnerID != p.FactionID {
				quality -= world.ZoneEffectiveness(z).CommsDefense
			}
			quality += s.rng.Float()*10 - 5
			quality = math.Max(0, math.Min(100, quality))
			snapshot = zoneSnapshot(z, quality)
		case intel.TargetTypeRoute:
			r, ok := s.store.Route(targetID)
			if !ok {
				return nil, rejectf(ErrNotFound, "route %s not found", targetID)
			}
			if r.From != p.LocationID && r.To != p.LocationID {
				return nil, rejectf(ErrInvalidTarget, "route %s is out of scan range", targetID)
			}
			quality += s.rng.Float()*10 - 5
			quality = math.Max(0, math.Min(100, quality))
			snapshot = routeSnapshot(s, r, quality)
		default:
			return nil, rejectf(ErrPrecondition, "target type must be zone or route")
		}

		r := &intel.Report{
			ID:            uuid.NewString(),
			PlayerID:      p.ID,
			FactionID:     p.FactionID, // auto-share with the faction
			TargetType:    targetType,
			TargetID:      targetID,
			GatheredAt:    s.tick,
			SignalQuality: quality,
			Data:          snapshot,
		}
		s.store.PutIntel(r)
		s.commitAction(p, "scan")
		s.emit(EventIntelGathered, p.ID, ActorPlayer, map[string]any{
			"report_id":      r.ID,
			"target_type":    targetType,
			"target_id":      targetID,
			"signal_quality": quality,
		})
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return data.(*intel.Report), nil
}

// zoneSnapshot captures what a scan of the given quality reveals.
func zoneSnapshot(z *world.Zone, quality float64) map[string]any {
	snap := map[string]any{
		"kind":         world.KindName(z.Kind),
		"owner_id":     z.OwnerID,
		"state":        string(z.State()),
		"supply_level": z.SupplyLevel,
	}
	// Stockpile detail needs a clean signal.
	if quality >= 50 {
		snap["su_stockpile"] = z.SUStockpile
		snap["medkit_stockpile"] = z.MedkitStockpile
		snap["comms_stockpile"] = z.CommsStockpile
		snap["garrison_level"] = z.GarrisonLevel
	}
	return snap
}

func routeSnapshot(s *Simulation, r *world.Route, quality float64) map[string]any {
	snap := map[string]any{
		"from":       r.From,
		"to":         r.To,
		"base_risk":  r.BaseRisk,
		"chokepoint": r.Chokepoint,
	}
	if quality >= 50 {
		raiders := s.store.UnitsByAssignment(r.ID)
		snap["raider_count"] = len(raiders)
		snap["raider_strength"] = s.aggregateStrength(raiders)
	}
	return snap
}

// JoinFaction enrolls the player in a faction.
func (s *Simulation) JoinFaction(playerID, factionID string) (any, error) {
	return s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		if factionID == "" {
			return nil, rejectf(ErrPrecondition, "faction id required")
		}
		if p.FactionID != "" {
			return nil, rejectf(ErrConflict, "already in faction %s", p.FactionID)
		}
		p.FactionID = factionID
		s.commitAction(p, "join_faction")
		s.emit(EventFactionJoined, p.ID, ActorPlayer, map[string]any{"faction_id": factionID})
		return map[string]any{"faction_id": factionID}, nil
	})
}

// LeaveFaction removes the player from their faction.
func (s *Simulation) LeaveFaction(playerID string) (any, error) {
	return s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		if p.FactionID == "" {
			return nil, rejectf(ErrPrecondition, "not in a faction")
		}
		prev := p.FactionID
		p.FactionID = ""
		s.commitAction(p, "leave_faction")
		s.emit(EventFactionLeft, p.ID, ActorPlayer, map[string]any{"faction_id": prev})
		return map[string]any{}, nil
	})
}

// BuyLicense purchases a freight or convoy license at a hub.
func (s *Simulation) BuyLicense(playerID string, class shipping.Class) (any, error) {
	return s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		z, ok := s.store.Zone(p.LocationID)
		if !ok || z.Kind != world.ZoneHub {
			return nil, rejectf(ErrPrecondition, "licenses are sold at hub zones")
		}
		var cost int64
		switch class {
		case shipping.ClassFreight:
			cost = s.tn.FreightLicenseCost
		case shipping.ClassConvoy:
			cost = s.tn.ConvoyLicenseCost
		default:
			return nil, rejectf(ErrPrecondition, "class %q has no purchasable license", class)
		}
		if p.Licenses[class] {
			return nil, rejectf(ErrConflict, "already licensed for %s", class)
		}
		if p.Credits < cost {
			return nil, rejectf(ErrNoResource, "need %d credits", cost)
		}
		p.Credits -= cost
		p.Licenses[class] = true
		s.commitAction(p, "buy_license")
		return map[string]any{"class": string(class)}, nil
	})
}
