package persistence

import (
	"path/filepath"
	"testing"

	"github.com/talgya/supply-lines/internal/contracts"
	"github.com/talgya/supply-lines/internal/economy"
	"github.com/talgya/supply-lines/internal/engine"
	"github.com/talgya/supply-lines/internal/entropy"
	"github.com/talgya/supply-lines/internal/intel"
	"github.com/talgya/supply-lines/internal/players"
	"github.com/talgya/supply-lines/internal/shipping"
	"github.com/talgya/supply-lines/internal/store"
	"github.com/talgya/supply-lines/internal/tuning"
	"github.com/talgya/supply-lines/internal/world"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seededSim() (*engine.Simulation, store.Store) {
	st := store.NewMem()
	st.PutZone(&world.Zone{
		ID: "zone-001", Name: "Saltgate", Kind: world.ZoneHub,
		OwnerID: "northern-league", SupplyLevel: 80, BurnRate: 12,
		ComplianceStreak: 5, SUStockpile: 24,
		Resources: map[world.Resource]int{world.ResourceOre: 10},
	})
	st.PutZone(&world.Zone{
		ID: "zone-002", Name: "Ironreach", Kind: world.ZoneExtraction,
		Resources:        map[world.Resource]int{world.ResourceOre: 400},
		ResourceCapacity: map[world.Resource]int{world.ResourceOre: 400},
	})
	st.PutRoute(&world.Route{
		ID: "route-001a", From: "zone-001", To: "zone-002",
		Distance: 3, Capacity: 4, BaseRisk: 0.12, Chokepoint: 1.5,
	})
	st.PutPlayer(&players.Player{
		ID: "p-1", Name: "alice", LocationID: "zone-001", FactionID: "northern-league",
		Credits: 420, Reputation: 55, ActionsToday: 3, LastActionTick: 9, JoinedTick: 2,
		Inventory: map[world.Resource]int{world.ResourceOre: 7},
		Licenses:  map[shipping.Class]bool{shipping.ClassCourier: true, shipping.ClassFreight: true},
	})
	st.PutShipment(&shipping.Shipment{
		ID: "sh-1", PlayerID: "p-1", Class: shipping.ClassCourier,
		Path: []string{"zone-001", "zone-002"}, Status: shipping.StatusInTransit,
		Cargo: map[world.Resource]int{world.ResourceOre: 5},
	})
	st.PutUnit(&players.Unit{
		ID: "u-1", OwnerID: "p-1", Kind: players.UnitEscort,
		LocationID: "zone-001", Strength: 10, Maintenance: 2,
	})
	st.PutOrder(&economy.Order{
		ID: st.NextOrderID(), PlayerID: "p-1", ZoneID: "zone-001",
		Resource: world.ResourceOre, Side: economy.SideSell,
		Price: 5, Quantity: 3, OriginalQuantity: 5, PlacedTick: 4,
	})
	st.PutAdvancedOrder(&economy.AdvancedOrder{
		ID: st.NextOrderID(), PlayerID: "p-1", ZoneID: "zone-001",
		Resource: world.ResourceOre, Side: economy.SideBuy,
		Kind: economy.AdvancedTimeWeighted, Price: 4,
		SliceQuantity: 2, EveryTicks: 3, NextTick: 12, Remaining: 6,
	})
	st.PutContract(&contracts.Contract{
		ID: "c-1", Kind: contracts.KindHaul, PosterID: "p-1",
		Resource: world.ResourceOre, Quantity: 5, ToZoneID: "zone-002",
		DeadlineTick: 100, RewardCredits: 50, Status: contracts.StatusOpen,
	})
	st.PutIntel(&intel.Report{
		ID: "r-1", PlayerID: "p-1", FactionID: "northern-league",
		TargetType: intel.TargetTypeZone, TargetID: "zone-002",
		GatheredAt: 8, SignalQuality: 92.5,
		Data: map[string]any{"state": "supplied"},
	})

	sim := engine.New(st, entropy.NewSeeded(1), tuning.Default())
	return sim, st
}

func TestSaveLoadRoundTrip(t *testing.T) {
	db := openTestDB(t)

	sim, _ := seededSim()
	sim.RestoreClock(42, 2, 1, map[string]int64{"northern-league": 77})

	if db.HasWorldState() {
		t.Fatal("fresh database must report no saved state")
	}
	if err := db.SaveWorldState(sim); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !db.HasWorldState() {
		t.Fatal("saved database must report state")
	}

	st2 := store.NewMem()
	sim2 := engine.New(st2, entropy.NewSeeded(1), tuning.Default())
	if err := db.LoadWorldState(st2, sim2); err != nil {
		t.Fatalf("load: %v", err)
	}

	z, ok := st2.Zone("zone-001")
	if !ok {
		t.Fatal("zone-001 missing after load")
	}
	if z.OwnerID != "northern-league" || z.SupplyLevel != 80 || z.ComplianceStreak != 5 {
		t.Fatalf("zone = %+v", z)
	}
	if z.Resources[world.ResourceOre] != 10 {
		t.Fatalf("zone resources = %v", z.Resources)
	}

	r, ok := st2.RouteBetween("zone-001", "zone-002")
	if !ok || r.Distance != 3 || r.BaseRisk != 0.12 || r.Chokepoint != 1.5 {
		t.Fatalf("route = %+v, %v", r, ok)
	}

	p, ok := st2.Player("p-1")
	if !ok {
		t.Fatal("player missing after load")
	}
	if p.Credits != 420 || p.Reputation != 55 || p.LastActionTick != 9 {
		t.Fatalf("player = %+v", p)
	}
	if !p.Licenses[shipping.ClassFreight] || p.Inventory[world.ResourceOre] != 7 {
		t.Fatalf("player details = %+v", p)
	}

	sh, ok := st2.Shipment("sh-1")
	if !ok || sh.Status != shipping.StatusInTransit || sh.Cargo[world.ResourceOre] != 5 {
		t.Fatalf("shipment = %+v, %v", sh, ok)
	}

	u, ok := st2.Unit("u-1")
	if !ok || u.Kind != players.UnitEscort || u.Maintenance != 2 {
		t.Fatalf("unit = %+v, %v", u, ok)
	}

	o, ok := st2.Order(1)
	if !ok || o.Quantity != 3 || o.OriginalQuantity != 5 || o.Price != 5 {
		t.Fatalf("order = %+v, %v", o, ok)
	}

	ao, ok := st2.AdvancedOrder(2)
	if !ok || ao.Remaining != 6 || ao.NextTick != 12 {
		t.Fatalf("advanced order = %+v, %v", ao, ok)
	}

	c, ok := st2.Contract("c-1")
	if !ok || c.Status != contracts.StatusOpen || c.RewardCredits != 50 {
		t.Fatalf("contract = %+v, %v", c, ok)
	}

	reports := st2.IntelReports()
	if len(reports) != 1 || reports[0].SignalQuality != 92.5 {
		t.Fatalf("intel = %+v", reports)
	}

	if sim2.CurrentTick() != 42 {
		t.Fatalf("tick = %d, want 42", sim2.CurrentTick())
	}
	week, season := sim2.Calendar()
	if week != 2 || season != 1 {
		t.Fatalf("calendar = %d/%d, want 2/1", week, season)
	}
	if sim2.SeasonScores()["northern-league"] != 77 {
		t.Fatalf("scores = %v", sim2.SeasonScores())
	}

	// Restored ID sequence continues past every persisted order.
	if next := st2.NextOrderID(); next != 3 {
		t.Fatalf("next order ID = %d, want 3", next)
	}
}

func TestSaveIsFullReplace(t *testing.T) {
	db := openTestDB(t)

	sim, st := seededSim()
	if err := db.SaveWorldState(sim); err != nil {
		t.Fatal(err)
	}

	st.DeleteUnit("u-1")
	if err := db.SaveWorldState(sim); err != nil {
		t.Fatal(err)
	}

	st2 := store.NewMem()
	sim2 := engine.New(st2, entropy.NewSeeded(1), tuning.Default())
	if err := db.LoadWorldState(st2, sim2); err != nil {
		t.Fatal(err)
	}
	if _, ok := st2.Unit("u-1"); ok {
		t.Fatal("deleted unit resurrected by a later save")
	}
}

func TestEventLogAppendsAndReadsNewestFirst(t *testing.T) {
	db := openTestDB(t)

	if err := db.SaveEvents([]engine.Event{
		{Tick: 1, Type: engine.EventZoneSupplied, ActorID: "p-1", ActorType: engine.ActorPlayer,
			Data: map[string]any{"zone_id": "zone-001"}},
		{Tick: 2, Type: engine.EventTick, ActorType: engine.ActorSystem},
	}); err != nil {
		t.Fatalf("save events: %v", err)
	}
	if err := db.SaveEvents([]engine.Event{
		{Tick: 3, Type: engine.EventTick, ActorType: engine.ActorSystem},
	}); err != nil {
		t.Fatal(err)
	}

	events, err := db.RecentEvents(2)
	if err != nil {
		t.Fatalf("recent events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Tick != 3 || events[1].Tick != 2 {
		t.Fatalf("order = ticks %d, %d; want newest first", events[0].Tick, events[1].Tick)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if err := db.SaveMeta("last_tick", "99"); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveMeta("last_tick", "100"); err != nil {
		t.Fatal(err)
	}
	got, err := db.GetMeta("last_tick")
	if err != nil {
		t.Fatal(err)
	}
	if got != "100" {
		t.Fatalf("meta = %q, want overwrite to 100", got)
	}
	if _, err := db.GetMeta("missing"); err == nil {
		t.Fatal("missing key must error")
	}
}
