// Package store abstracts world-state storage behind an interface so the
// engine holds no state of its own and unit tests run against the in-memory
// implementation. Each single-entity update is atomic; the engine does not
// require cross-entity transactions.
package store

import (
	"github.com/talgya/supply-lines/internal/contracts"
	"github.com/talgya/supply-lines/internal/economy"
	"github.com/talgya/supply-lines/internal/intel"
	"github.com/talgya/supply-lines/internal/players"
	"github.com/talgya/supply-lines/internal/shipping"
	"github.com/talgya/supply-lines/internal/world"
)

// Store is the world-state collaborator the engine reads and writes through.
// List methods return entities sorted by ID so every tick iterates in a
// deterministic order regardless of the backing implementation.
type Store interface {
	Zone(id string) (*world.Zone, bool)
	Zones() []*world.Zone
	PutZone(z *world.Zone)

	Route(id string) (*world.Route, bool)
	Routes() []*world.Route
	RoutesFrom(zoneID string) []*world.Route
	RouteBetween(fromID, toID string) (*world.Route, bool)
	PutRoute(r *world.Route)

	Player(id string) (*players.Player, bool)
	Players() []*players.Player
	PutPlayer(p *players.Player)

	Shipment(id string) (*shipping.Shipment, bool)
	Shipments() []*shipping.Shipment
	ActiveShipments() []*shipping.Shipment
	PutShipment(s *shipping.Shipment)

	Unit(id string) (*players.Unit, bool)
	Units() []*players.Unit
	UnitsByAssignment(assignmentID string) []*players.Unit
	PutUnit(u *players.Unit)
	DeleteUnit(id string)

	Order(id uint64) (*economy.Order, bool)
	// Orders returns the live book for one (zone, resource) pair.
	Orders(zoneID string, res world.Resource) []*economy.Order
	OpenOrders() []*economy.Order
	PutOrder(o *economy.Order)
	// NextOrderID hands out sequential order IDs; sequence position is part
	// of persisted state because equal-price matching breaks ties on it.
	NextOrderID() uint64
	SetNextOrderID(n uint64)

	AdvancedOrder(id uint64) (*economy.AdvancedOrder, bool)
	AdvancedOrders() []*economy.AdvancedOrder
	PutAdvancedOrder(o *economy.AdvancedOrder)
	DeleteAdvancedOrder(id uint64)

	Contract(id string) (*contracts.Contract, bool)
	Contracts() []*contracts.Contract
	PutContract(c *contracts.Contract)

	IntelReports() []*intel.Report
	PutIntel(r *intel.Report)
	DeleteIntel(id string)
}
