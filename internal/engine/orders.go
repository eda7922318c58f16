// Market actions and settlement. Each zone/resource pair is an independent
// book; matching is synchronous with order placement, so a placed order
// either trades immediately against the resting book or rests itself.
package engine

import (
	"fmt"

	"github.com/talgya/supply-lines/internal/economy"
	"github.com/talgya/supply-lines/internal/players"
	"github.com/talgya/supply-lines/internal/world"
)

// PlaceOrder puts a limit order on the local book and settles any trades it
// crosses. Buy orders escrow credits at the limit price; sell orders escrow
// goods. Requires presence at the zone.
func (s *Simulation) PlaceOrder(playerID string, side economy.Side, res world.Resource, qty int, price int64) (any, error) {
	return s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		if !world.ValidResource(res) {
			return nil, rejectf(ErrPrecondition, "unknown resource %q", res)
		}
		if qty <= 0 || price <= 0 {
			return nil, rejectf(ErrPrecondition, "quantity and price must be positive")
		}
		z, ok := s.store.Zone(p.LocationID)
		if !ok {
			return nil, rejectf(ErrNotFound, "zone %s not found", p.LocationID)
		}

		o := &economy.Order{
			ID:               s.store.NextOrderID(),
			PlayerID:         p.ID,
			ZoneID:           z.ID,
			Side:             side,
			Resource:         res,
			Quantity:         qty,
			OriginalQuantity: qty,
			Price:            price,
			PlacedTick:       s.tick,
		}

		switch side {
		case economy.SideBuy:
			cost := price * int64(qty)
			if p.Credits < cost {
				return nil, rejectf(ErrNoResource, "need %d credits to escrow", cost)
			}
			p.Credits -= cost
		case economy.SideSell:
			if !p.Has(res, qty) {
				return nil, rejectf(ErrNoResource, "need %d %s to escrow", qty, res)
			}
			p.Inventory[res] -= qty
		default:
			return nil, rejectf(ErrPrecondition, "side must be buy or sell")
		}

		s.store.PutOrder(o)
		s.commitAction(p, "place_order")
		s.emit(EventOrderPlaced, p.ID, ActorPlayer, map[string]any{
			"order_id": o.ID,
			"zone_id":  z.ID,
			"side":     string(side),
			"resource": string(res),
			"quantity": qty,
			"price":    price,
		})

		trades := s.matchBook(z.ID, res)
		return map[string]any{"order_id": o.ID, "trades": len(trades)}, nil
	})
}

// matchBook runs the double auction for one zone/resource book and settles
// the resulting trades. Caller holds the lock.
func (s *Simulation) matchBook(zoneID string, res world.Resource) []economy.Trade {
	book := s.store.Orders(zoneID, res)
	trades := economy.MatchBook(book)
	for _, o := range book {
		s.store.PutOrder(o)
	}
	for _, t := range trades {
		s.settleTrade(t)
	}
	return trades
}

// settleTrade moves goods to the buyer and credits to the seller, refunding
// the buyer's escrow surplus when the seller's price was lower.
func (s *Simulation) settleTrade(t economy.Trade) {
	proceeds := t.Price * int64(t.Quantity)
	if buyer, ok := s.store.Player(t.BuyerID); ok {
		buyer.Inventory[t.Resource] += t.Quantity
		buyer.Credits += t.Refund
		s.store.PutPlayer(buyer)
	}
	if seller, ok := s.store.Player(t.SellerID); ok {
		seller.Credits += proceeds
		s.store.PutPlayer(seller)
	}
	s.emit(EventTradeExecuted, t.BuyerID, ActorSystem, map[string]any{
		"zone_id":   t.ZoneID,
		"resource":  string(t.Resource),
		"quantity":  t.Quantity,
		"price":     t.Price,
		"buyer_id":  t.BuyerID,
		"seller_id": t.SellerID,
	})
}

// CancelOrder withdraws the unfilled remainder of a resting order and
// refunds its escrow. Not tick-gated: cancellation is always allowed.
func (s *Simulation) CancelOrder(playerID string, orderID uint64) (any, error) {
	return s.do(func() (any, error) {
		p, ok := s.store.Player(playerID)
		if !ok {
			return nil, rejectf(ErrNotFound, "player %s not found", playerID)
		}
		o, ok := s.store.Order(orderID)
		if !ok {
			return nil, rejectf(ErrNotFound, "order %d not found", orderID)
		}
		if o.PlayerID != p.ID {
			return nil, rejectf(ErrNoPermission, "order %d belongs to another player", orderID)
		}
		if !o.Open() {
			return nil, rejectf(ErrPrecondition, "order %d is no longer open", orderID)
		}

		s.refundOrder(p, o)
		o.Cancelled = true
		s.store.PutOrder(o)
		s.store.PutPlayer(p)
		s.emit(EventOrderCancelled, p.ID, ActorPlayer, map[string]any{"order_id": orderID})
		return map[string]any{"order_id": orderID}, nil
	})
}

// refundOrder returns the remaining escrow of an open order to its owner.
func (s *Simulation) refundOrder(p *players.Player, o *economy.Order) {
	switch o.Side {
	case economy.SideBuy:
		p.Credits += o.Price * int64(o.Quantity)
	case economy.SideSell:
		p.Inventory[o.Resource] += o.Quantity
	}
}

// CreateAdvancedOrder registers a conditional or time-weighted order.
// Nothing is escrowed until a slice materializes; a slice that cannot be
// funded cancels the whole program.
func (s *Simulation) CreateAdvancedOrder(playerID string, ao *economy.AdvancedOrder) (any, error) {
	return s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		if ao == nil {
			return nil, rejectf(ErrPrecondition, "order body required")
		}
		if !world.ValidResource(ao.Resource) {
			return nil, rejectf(ErrPrecondition, "unknown resource %q", ao.Resource)
		}
		if ao.Side != economy.SideBuy && ao.Side != economy.SideSell {
			return nil, rejectf(ErrPrecondition, "side must be buy or sell")
		}
		if _, ok := s.store.Zone(ao.ZoneID); !ok {
			return nil, rejectf(ErrNotFound, "zone %s not found", ao.ZoneID)
		}
		switch ao.Kind {
		case economy.AdvancedConditional:
			if ao.TriggerPrice <= 0 || ao.Remaining <= 0 || ao.Price <= 0 {
				return nil, rejectf(ErrPrecondition, "conditional orders need trigger price, quantity, and limit price")
			}
		case economy.AdvancedTimeWeighted:
			if ao.SliceQuantity <= 0 || ao.EveryTicks <= 0 || ao.Remaining <= 0 || ao.Price <= 0 {
				return nil, rejectf(ErrPrecondition, "time-weighted orders need slice quantity, interval, total quantity, and limit price")
			}
			ao.NextTick = s.tick + ao.EveryTicks
		default:
			return nil, rejectf(ErrPrecondition, "kind must be conditional or time_weighted")
		}

		ao.ID = s.store.NextOrderID()
		ao.PlayerID = p.ID
		ao.CreatedTick = s.tick
		s.store.PutAdvancedOrder(ao)
		s.commitAction(p, "create_advanced_order")
		return map[string]any{"advanced_order_id": ao.ID}, nil
	})
}

// CancelAdvancedOrder removes a pending program. Materialized slices are
// ordinary orders and must be cancelled separately.
func (s *Simulation) CancelAdvancedOrder(playerID string, id uint64) (any, error) {
	return s.do(func() (any, error) {
		ao, ok := s.store.AdvancedOrder(id)
		if !ok {
			return nil, rejectf(ErrNotFound, "advanced order %d not found", id)
		}
		if ao.PlayerID != playerID {
			return nil, rejectf(ErrNoPermission, "advanced order %d belongs to another player", id)
		}
		s.store.DeleteAdvancedOrder(id)
		s.emit(EventOrderCancelled, playerID, ActorPlayer, map[string]any{"advanced_order_id": id})
		return map[string]any{}, nil
	})
}

// processAdvancedOrders fires conditional triggers and TWAP slices.
// Materialization escrows like a normal placement; a slice the owner cannot
// fund cancels the remainder of the program.
func (s *Simulation) processAdvancedOrders(tick uint64) error {
	for _, ao := range s.store.AdvancedOrders() {
		switch ao.Kind {
		case economy.AdvancedConditional:
			best, ok := economy.BestPrice(s.store.Orders(ao.ZoneID, ao.Resource), ao.Side.Opposite())
			if !ok || !ao.Triggered(best) {
				continue
			}
			if err := s.materializeSlice(ao, ao.Remaining, tick); err != nil {
				s.store.DeleteAdvancedOrder(ao.ID)
				continue
			}
			ao.Remaining = 0
			s.store.DeleteAdvancedOrder(ao.ID)
		case economy.AdvancedTimeWeighted:
			if tick < ao.NextTick {
				continue
			}
			qty := ao.SliceQuantity
			if qty > ao.Remaining {
				qty = ao.Remaining
			}
			if err := s.materializeSlice(ao, qty, tick); err != nil {
				s.store.DeleteAdvancedOrder(ao.ID)
				continue
			}
			ao.Remaining -= qty
			ao.NextTick = tick + ao.EveryTicks
			if ao.Remaining <= 0 {
				s.store.DeleteAdvancedOrder(ao.ID)
			} else {
				s.store.PutAdvancedOrder(ao)
			}
		}
	}
	return nil
}

// materializeSlice places a concrete limit order on behalf of an advanced
// order and matches the book.
func (s *Simulation) materializeSlice(ao *economy.AdvancedOrder, qty int, tick uint64) error {
	p, ok := s.store.Player(ao.PlayerID)
	if !ok {
		return fmt.Errorf("player %s gone", ao.PlayerID)
	}
	switch ao.Side {
	case economy.SideBuy:
		cost := ao.Price * int64(qty)
		if p.Credits < cost {
			return fmt.Errorf("insufficient credits for slice")
		}
		p.Credits -= cost
	case economy.SideSell:
		if !p.Has(ao.Resource, qty) {
			return fmt.Errorf("insufficient %s for slice", ao.Resource)
		}
		p.Inventory[ao.Resource] -= qty
	}
	s.store.PutPlayer(p)

	o := &economy.Order{
		ID:               s.store.NextOrderID(),
		PlayerID:         ao.PlayerID,
		ZoneID:           ao.ZoneID,
		Side:             ao.Side,
		Resource:         ao.Resource,
		Quantity:         qty,
		OriginalQuantity: qty,
		Price:            ao.Price,
		PlacedTick:       tick,
	}
	s.store.PutOrder(o)
	s.emit(EventOrderTriggered, ao.PlayerID, ActorSystem, map[string]any{
		"advanced_order_id": ao.ID,
		"order_id":          o.ID,
		"kind":              string(ao.Kind),
		"quantity":          qty,
	})
	s.matchBook(ao.ZoneID, ao.Resource)
	return nil
}
