// Unit actions: production, raider deployment, recall, and the hub hiring
// market.
package engine

import (
	"github.com/google/uuid"

	"github.com/talgya/supply-lines/internal/players"
	"github.com/talgya/supply-lines/internal/world"
)

// unit production costs beyond credits.
var unitMaterials = map[players.UnitKind]map[world.Resource]int{
	players.UnitEscort: {world.ResourceAlloys: 2, world.ResourceComponents: 1},
	players.UnitRaider: {world.ResourceAlloys: 1, world.ResourceComponents: 2},
}

// ProduceUnit builds an escort or raider squad at an outpost or hub.
func (s *Simulation) ProduceUnit(playerID string, kind players.UnitKind) (*players.Unit, error) {
	data, err := s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		z, ok := s.store.Zone(p.LocationID)
		if !ok {
			return nil, rejectf(ErrNotFound, "zone %s not found", p.LocationID)
		}
		if z.Kind != world.ZoneOutpost && z.Kind != world.ZoneHub {
			return nil, rejectf(ErrPrecondition, "units are produced at outposts and hubs")
		}

		var cost int64
		switch kind {
		case players.UnitEscort:
			cost = s.tn.EscortCost
		case players.UnitRaider:
			cost = s.tn.RaiderCost
		default:
			return nil, rejectf(ErrPrecondition, "unknown unit kind %q", kind)
		}
		if p.Credits < cost {
			return nil, rejectf(ErrNoResource, "need %d credits", cost)
		}
		for res, qty := range unitMaterials[kind] {
			if !p.Has(res, qty) {
				return nil, rejectf(ErrNoResource, "need %d %s", qty, res)
			}
		}

		p.Credits -= cost
		for res, qty := range unitMaterials[kind] {
			p.Inventory[res] -= qty
		}
		u := &players.Unit{
			ID:          uuid.NewString(),
			OwnerID:     p.ID,
			Kind:        kind,
			LocationID:  z.ID,
			Strength:    10,
			Speed:       1,
			Maintenance: s.tn.UnitUpkeep,
		}
		s.store.PutUnit(u)
		s.commitAction(p, "produce_unit")
		s.emit(EventUnitProduced, p.ID, ActorPlayer, map[string]any{
			"unit_id": u.ID,
			"kind":    string(kind),
			"zone_id": z.ID,
		})
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	return data.(*players.Unit), nil
}

// AssignRaider stations a raider on a route adjacent to its location.
func (s *Simulation) AssignRaider(playerID, unitID, routeID string) (any, error) {
	return s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		u, ok := s.store.Unit(unitID)
		if !ok {
			return nil, rejectf(ErrNotFound, "unit %s not found", unitID)
		}
		if u.OwnerID != p.ID {
			return nil, rejectf(ErrNoPermission, "unit %s belongs to another player", unitID)
		}
		if u.Kind != players.UnitRaider {
			return nil, rejectf(ErrPrecondition, "only raiders patrol routes")
		}
		if u.Assigned() {
			return nil, rejectf(ErrConflict, "unit %s is already deployed", unitID)
		}
		r, ok := s.store.Route(routeID)
		if !ok {
			return nil, rejectf(ErrNotFound, "route %s not found", routeID)
		}
		if r.From != u.LocationID && r.To != u.LocationID {
			return nil, rejectf(ErrInvalidTarget, "route %s is not adjacent to the unit", routeID)
		}

		u.Assignment = routeID
		u.ForSalePrice = 0
		s.store.PutUnit(u)
		s.commitAction(p, "assign_raider")
		return map[string]any{"unit_id": unitID, "route_id": routeID}, nil
	})
}

// RecallUnit pulls a raider off its route. Escorts are released by the
// shipment lifecycle, not by recall.
func (s *Simulation) RecallUnit(playerID, unitID string) (any, error) {
	return s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		u, ok := s.store.Unit(unitID)
		if !ok {
			return nil, rejectf(ErrNotFound, "unit %s not found", unitID)
		}
		if u.OwnerID != p.ID {
			return nil, rejectf(ErrNoPermission, "unit %s belongs to another player", unitID)
		}
		if u.Kind != players.UnitRaider || !u.Assigned() {
			return nil, rejectf(ErrPrecondition, "unit %s has no route assignment", unitID)
		}

		u.Assignment = ""
		s.store.PutUnit(u)
		s.commitAction(p, "recall_unit")
		return map[string]any{"unit_id": unitID}, nil
	})
}

// ListUnit offers an idle unit for hire at a hub.
func (s *Simulation) ListUnit(playerID, unitID string, price int64) (any, error) {
	return s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		u, ok := s.store.Unit(unitID)
		if !ok {
			return nil, rejectf(ErrNotFound, "unit %s not found", unitID)
		}
		if u.OwnerID != p.ID {
			return nil, rejectf(ErrNoPermission, "unit %s belongs to another player", unitID)
		}
		if u.Assigned() {
			return nil, rejectf(ErrConflict, "unit %s is deployed", unitID)
		}
		if price <= 0 {
			return nil, rejectf(ErrPrecondition, "price must be positive")
		}
		z, ok := s.store.Zone(u.LocationID)
		if !ok || z.Kind != world.ZoneHub {
			return nil, rejectf(ErrPrecondition, "units are listed at hub zones")
		}

		u.ForSalePrice = price
		s.store.PutUnit(u)
		s.commitAction(p, "list_unit")
		return map[string]any{"unit_id": unitID, "price": price}, nil
	})
}

// UnlistUnit withdraws a hire listing.
func (s *Simulation) UnlistUnit(playerID, unitID string) (any, error) {
	return s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		u, ok := s.store.Unit(unitID)
		if !ok {
			return nil, rejectf(ErrNotFound, "unit %s not found", unitID)
		}
		if u.OwnerID != p.ID {
			return nil, rejectf(ErrNoPermission, "unit %s belongs to another player", unitID)
		}
		if u.ForSalePrice <= 0 {
			return nil, rejectf(ErrPrecondition, "unit %s is not listed", unitID)
		}

		u.ForSalePrice = 0
		s.store.PutUnit(u)
		s.commitAction(p, "unlist_unit")
		return map[string]any{"unit_id": unitID}, nil
	})
}

// HireUnit buys a listed unit. The buyer must share a hub with the unit;
// ownership and future upkeep transfer at sale.
func (s *Simulation) HireUnit(playerID, unitID string) (any, error) {
	return s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		u, ok := s.store.Unit(unitID)
		if !ok {
			return nil, rejectf(ErrNotFound, "unit %s not found", unitID)
		}
		if u.ForSalePrice <= 0 {
			return nil, rejectf(ErrPrecondition, "unit %s is not for hire", unitID)
		}
		if u.OwnerID == p.ID {
			return nil, rejectf(ErrPrecondition, "cannot hire your own unit")
		}
		if u.LocationID != p.LocationID {
			return nil, rejectf(ErrNotAtLocation, "unit %s is at %s", unitID, u.LocationID)
		}
		if p.Credits < u.ForSalePrice {
			return nil, rejectf(ErrNoResource, "need %d credits", u.ForSalePrice)
		}

		price := u.ForSalePrice
		p.Credits -= price
		if seller, ok := s.store.Player(u.OwnerID); ok {
			seller.Credits += price
			s.store.PutPlayer(seller)
		}
		u.OwnerID = p.ID
		u.ForSalePrice = 0
		u.UnpaidTicks = 0
		s.store.PutUnit(u)
		s.commitAction(p, "hire_unit")
		s.emit(EventUnitHired, p.ID, ActorPlayer, map[string]any{
			"unit_id": unitID,
			"price":   price,
		})
		return map[string]any{"unit_id": unitID, "price": price}, nil
	})
}
