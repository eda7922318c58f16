package store

import (
	"sort"
	"sync"

	"github.com/talgya/supply-lines/internal/contracts"
	"github.com/talgya/supply-lines/internal/economy"
	"github.com/talgya/supply-lines/internal/intel"
	"github.com/talgya/supply-lines/internal/players"
	"github.com/talgya/supply-lines/internal/shipping"
	"github.com/talgya/supply-lines/internal/world"
)

// Mem is the in-memory Store. It is the live state of a running server
// (durability comes from periodic persistence saves) and the fixture for
// engine tests.
type Mem struct {
	mu sync.RWMutex

	zones     map[string]*world.Zone
	routes    map[string]*world.Route
	routesOut map[string][]*world.Route
	players   map[string]*players.Player
	shipments map[string]*shipping.Shipment
	units     map[string]*players.Unit
	orders    map[uint64]*economy.Order
	advanced  map[uint64]*economy.AdvancedOrder
	contracts map[string]*contracts.Contract
	intel     map[string]*intel.Report

	nextOrderID uint64
}

// NewMem creates an empty in-memory store.
func NewMem() *Mem {
	return &Mem{
		zones:       make(map[string]*world.Zone),
		routes:      make(map[string]*world.Route),
		routesOut:   make(map[string][]*world.Route),
		players:     make(map[string]*players.Player),
		shipments:   make(map[string]*shipping.Shipment),
		units:       make(map[string]*players.Unit),
		orders:      make(map[uint64]*economy.Order),
		advanced:    make(map[uint64]*economy.AdvancedOrder),
		contracts:   make(map[string]*contracts.Contract),
		intel:       make(map[string]*intel.Report),
		nextOrderID: 1,
	}
}

func (m *Mem) Zone(id string) (*world.Zone, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	z, ok := m.zones[id]
	return z, ok
}

func (m *Mem) Zones() []*world.Zone {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*world.Zone, 0, len(m.zones))
	for _, z := range m.zones {
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Mem) PutZone(z *world.Zone) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zones[z.ID] = z
}

func (m *Mem) Route(id string) (*world.Route, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.routes[id]
	return r, ok
}

func (m *Mem) Routes() []*world.Route {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*world.Route, 0, len(m.routes))
	for _, r := range m.routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Mem) RoutesFrom(zoneID string) []*world.Route {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := append([]*world.Route(nil), m.routesOut[zoneID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Mem) RouteBetween(fromID, toID string) (*world.Route, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.routesOut[fromID] {
		if r.To == toID {
			return r, true
		}
	}
	return nil, false
}

func (m *Mem) PutRoute(r *world.Route) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.routes[r.ID]; !exists {
		m.routesOut[r.From] = append(m.routesOut[r.From], r)
	}
	m.routes[r.ID] = r
}

func (m *Mem) Player(id string) (*players.Player, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[id]
	return p, ok
}

func (m *Mem) Players() []*players.Player {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*players.Player, 0, len(m.players))
	for _, p := range m.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Mem) PutPlayer(p *players.Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[p.ID] = p
}

func (m *Mem) Shipment(id string) (*shipping.Shipment, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.shipments[id]
	return s, ok
}

func (m *Mem) Shipments() []*shipping.Shipment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*shipping.Shipment, 0, len(m.shipments))
	for _, s := range m.shipments {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Mem) ActiveShipments() []*shipping.Shipment {
	all := m.Shipments()
	out := all[:0]
	for _, s := range all {
		if s.Active() {
			out = append(out, s)
		}
	}
	return out
}

func (m *Mem) PutShipment(s *shipping.Shipment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shipments[s.ID] = s
}

func (m *Mem) Unit(id string) (*players.Unit, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.units[id]
	return u, ok
}

func (m *Mem) Units() []*players.Unit {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*players.Unit, 0, len(m.units))
	for _, u := range m.units {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Mem) UnitsByAssignment(assignmentID string) []*players.Unit {
	all := m.Units()
	out := all[:0]
	for _, u := range all {
		if u.Assignment == assignmentID {
			out = append(out, u)
		}
	}
	return out
}

func (m *Mem) PutUnit(u *players.Unit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.units[u.ID] = u
}

func (m *Mem) DeleteUnit(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.units, id)
}

func (m *Mem) Order(id uint64) (*economy.Order, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	return o, ok
}

func (m *Mem) Orders(zoneID string, res world.Resource) []*economy.Order {
	all := m.OpenOrders()
	out := all[:0]
	for _, o := range all {
		if o.ZoneID == zoneID && o.Resource == res {
			out = append(out, o)
		}
	}
	return out
}

func (m *Mem) OpenOrders() []*economy.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*economy.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if !o.Exhausted() {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Mem) PutOrder(o *economy.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
}

func (m *Mem) NextOrderID() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextOrderID
	m.nextOrderID++
	return id
}

func (m *Mem) SetNextOrderID(n uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > m.nextOrderID {
		m.nextOrderID = n
	}
}

func (m *Mem) AdvancedOrder(id uint64) (*economy.AdvancedOrder, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.advanced[id]
	return o, ok
}

func (m *Mem) AdvancedOrders() []*economy.AdvancedOrder {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*economy.AdvancedOrder, 0, len(m.advanced))
	for _, o := range m.advanced {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Mem) PutAdvancedOrder(o *economy.AdvancedOrder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advanced[o.ID] = o
}

func (m *Mem) DeleteAdvancedOrder(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.advanced, id)
}

func (m *Mem) Contract(id string) (*contracts.Contract, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.contracts[id]
	return c, ok
}

func (m *Mem) Contracts() []*contracts.Contract {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*contracts.Contract, 0, len(m.contracts))
	for _, c := range m.contracts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Mem) PutContract(c *contracts.Contract) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contracts[c.ID] = c
}

func (m *Mem) IntelReports() []*intel.Report {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*intel.Report, 0, len(m.intel))
	for _, r := range m.intel {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Mem) PutIntel(r *intel.Report) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intel[r.ID] = r
}

func (m *Mem) DeleteIntel(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.intel, id)
}
