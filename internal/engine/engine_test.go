package engine

import (
	"testing"

	"github.com/talgya/supply-lines/internal/players"
	"github.com/talgya/supply-lines/internal/store"
	"github.com/talgya/supply-lines/internal/tuning"
	"github.com/talgya/supply-lines/internal/world"
)

// scriptedRand replays a fixed sequence of draws, then repeats the last one.
type scriptedRand struct {
	floats []float64
	i      int
}

func (r *scriptedRand) Float() float64 {
	if r.i < len(r.floats)-1 {
		r.i++
		return r.floats[r.i-1]
	}
	if len(r.floats) == 0 {
		return 0.5
	}
	return r.floats[len(r.floats)-1]
}

func (r *scriptedRand) Intn(n int) int { return 0 }

// newTestSim builds a five-zone world wired for action tests:
//
//	hub-a — mine-b — field-c
//	  |        |
//	ref-d — post-e
func newTestSim(t *testing.T, floats ...float64) (*Simulation, store.Store) {
	t.Helper()
	st := store.NewMem()

	zones := []*world.Zone{
		{ID: "hub-a", Name: "Saltgate", Kind: world.ZoneHub},
		{ID: "mine-b", Name: "Ironreach", Kind: world.ZoneExtraction,
			Resources:        map[world.Resource]int{world.ResourceOre: 500, world.ResourceFuel: 200},
			ResourceCapacity: map[world.Resource]int{world.ResourceOre: 500, world.ResourceFuel: 200}},
		{ID: "field-c", Name: "Fenmoor", Kind: world.ZoneField,
			Resources:        map[world.Resource]int{world.ResourceGrain: 400, world.ResourceTimber: 300, world.ResourceTextiles: 100},
			ResourceCapacity: map[world.Resource]int{world.ResourceGrain: 400, world.ResourceTimber: 300, world.ResourceTextiles: 100}},
		{ID: "ref-d", Name: "Caldwell", Kind: world.ZoneRefinery, ProductionCapacity: 10},
		{ID: "post-e", Name: "Thornwatch", Kind: world.ZoneOutpost, BurnRate: 10, GarrisonLevel: 0},
	}
	for _, z := range zones {
		if z.Resources == nil {
			z.Resources = map[world.Resource]int{}
		}
		st.PutZone(z)
	}

	pairs := [][2]string{
		{"hub-a", "mine-b"}, {"mine-b", "field-c"},
		{"hub-a", "ref-d"}, {"mine-b", "post-e"}, {"ref-d", "post-e"},
	}
	for i, pr := range pairs {
		st.PutRoute(&world.Route{
			ID: routeID(i, "a"), From: pr[0], To: pr[1],
			Distance: 2, Capacity: 5, BaseRisk: 0.05, Chokepoint: 1.0,
		})
		st.PutRoute(&world.Route{
			ID: routeID(i, "b"), From: pr[1], To: pr[0],
			Distance: 2, Capacity: 5, BaseRisk: 0.05, Chokepoint: 1.0,
		})
	}

	if len(floats) == 0 {
		floats = []float64{0.99} // Default: no interception, no scan jitter surprises
	}
	sim := New(st, &scriptedRand{floats: floats}, tuning.Default())
	return sim, st
}

func routeID(i int, dir string) string {
	return "route-" + string(rune('0'+i)) + dir
}

func joinPlayer(t *testing.T, sim *Simulation, name string) *players.Player {
	t.Helper()
	p, err := sim.Join(name, "hub-a")
	if err != nil {
		t.Fatalf("join %s: %v", name, err)
	}
	return p
}

// tick advances the simulation, failing the test on a step error.
func tick(t *testing.T, sim *Simulation) {
	t.Helper()
	if err := sim.ProcessTick(); err != nil {
		t.Fatalf("process tick: %v", err)
	}
}

func TestJoinRequiresHub(t *testing.T) {
	sim, _ := newTestSim(t)

	if _, err := sim.Join("alice", "mine-b"); err == nil {
		t.Fatal("expected rejection joining at a non-hub zone")
	} else if RejectCode(err) != ErrPrecondition {
		t.Fatalf("code = %s, want %s", RejectCode(err), ErrPrecondition)
	}

	p := joinPlayer(t, sim, "alice")
	if p.Credits != tuning.Default().StartingCredits {
		t.Fatalf("credits = %d, want %d", p.Credits, tuning.Default().StartingCredits)
	}
	if !p.Licenses["courier"] {
		t.Fatal("new player should hold a courier license")
	}
}

func TestOneActionPerTick(t *testing.T) {
	sim, _ := newTestSim(t)
	p := joinPlayer(t, sim, "alice")

	if _, err := sim.Travel(p.ID, "mine-b"); err != nil {
		t.Fatalf("first action: %v", err)
	}
	if _, err := sim.Travel(p.ID, "hub-a"); err == nil {
		t.Fatal("second action in the same tick should be rejected")
	} else if RejectCode(err) != ErrRateLimit {
		t.Fatalf("code = %s, want %s", RejectCode(err), ErrRateLimit)
	}

	tick(t, sim)
	if _, err := sim.Travel(p.ID, "hub-a"); err != nil {
		t.Fatalf("action after tick: %v", err)
	}
}

func TestRejectedActionHasNoSideEffects(t *testing.T) {
	sim, st := newTestSim(t)
	p := joinPlayer(t, sim, "alice")

	// Travel to an unreachable zone: rejected, and the player may still act.
	if _, err := sim.Travel(p.ID, "field-c"); err == nil {
		t.Fatal("expected rejection: no direct route hub-a → field-c")
	}
	got, _ := st.Player(p.ID)
	if got.LocationID != "hub-a" {
		t.Fatalf("location = %s, want hub-a", got.LocationID)
	}
	if got.LastActionTick != 0 {
		t.Fatal("rejected action must not consume the tick budget")
	}
	if _, err := sim.Travel(p.ID, "mine-b"); err != nil {
		t.Fatalf("valid action after rejection: %v", err)
	}
}

func TestExtractAndProduce(t *testing.T) {
	sim, st := newTestSim(t)
	p := joinPlayer(t, sim, "alice")

	if _, err := sim.Travel(p.ID, "mine-b"); err != nil {
		t.Fatal(err)
	}
	tick(t, sim)
	if _, err := sim.Extract(p.ID, world.ResourceOre); err != nil {
		t.Fatalf("extract: %v", err)
	}

	got, _ := st.Player(p.ID)
	if got.Inventory[world.ResourceOre] != tuning.Default().ExtractBase {
		t.Fatalf("ore = %d, want %d", got.Inventory[world.ResourceOre], tuning.Default().ExtractBase)
	}
	z, _ := st.Zone("mine-b")
	if z.Resources[world.ResourceOre] != 500-tuning.Default().ExtractBase {
		t.Fatalf("zone ore = %d after extraction", z.Resources[world.ResourceOre])
	}

	// Refine 2 ore + 1 fuel into 1 alloys.
	got.Inventory[world.ResourceOre] = 2
	got.Inventory[world.ResourceFuel] = 1
	got.LocationID = "ref-d"
	st.PutPlayer(got)
	tick(t, sim)

	if _, err := sim.Produce(p.ID, world.ResourceAlloys, 1); err != nil {
		t.Fatalf("produce: %v", err)
	}
	got, _ = st.Player(p.ID)
	if got.Inventory[world.ResourceAlloys] != 1 {
		t.Fatalf("alloys = %d, want 1", got.Inventory[world.ResourceAlloys])
	}
	if got.Inventory[world.ResourceOre] != 0 || got.Inventory[world.ResourceFuel] != 0 {
		t.Fatal("inputs not consumed")
	}
}

func TestProduceRejectsWithoutInputs(t *testing.T) {
	sim, st := newTestSim(t)
	p := joinPlayer(t, sim, "alice")
	got, _ := st.Player(p.ID)
	got.LocationID = "ref-d"
	st.PutPlayer(got)
	tick(t, sim)

	if _, err := sim.Produce(p.ID, world.ResourceAlloys, 1); err == nil {
		t.Fatal("expected rejection without inputs")
	} else if RejectCode(err) != ErrNoResource {
		t.Fatalf("code = %s, want %s", RejectCode(err), ErrNoResource)
	}
}

func TestCaptureAndCollapse(t *testing.T) {
	sim, st := newTestSim(t)
	p := joinPlayer(t, sim, "alice")
	if _, err := sim.JoinFaction(p.ID, "northern-league"); err != nil {
		t.Fatal(err)
	}
	tick(t, sim)

	got, _ := st.Player(p.ID)
	got.LocationID = "post-e"
	st.PutPlayer(got)

	if _, err := sim.CaptureZone(p.ID); err != nil {
		t.Fatalf("capture: %v", err)
	}
	z, _ := st.Zone("post-e")
	if z.OwnerID != "northern-league" {
		t.Fatalf("owner = %q, want northern-league", z.OwnerID)
	}

	// No supply deposited: the zone burns dry and collapses to neutral.
	tick(t, sim)
	for i := 0; i < 10; i++ {
		tick(t, sim)
	}
	z, _ = st.Zone("post-e")
	if z.Owned() {
		t.Fatalf("zone should have collapsed to neutral, owner = %q", z.OwnerID)
	}
	if z.State() != world.StateCollapsed {
		t.Fatalf("state = %s, want collapsed", z.State())
	}
}

func TestCaptureRejectsSuppliedZone(t *testing.T) {
	sim, st := newTestSim(t)
	p := joinPlayer(t, sim, "alice")
	if _, err := sim.JoinFaction(p.ID, "northern-league"); err != nil {
		t.Fatal(err)
	}
	tick(t, sim)

	z, _ := st.Zone("post-e")
	z.OwnerID = "iron-compact"
	z.SupplyLevel = 80
	st.PutZone(z)

	got, _ := st.Player(p.ID)
	got.LocationID = "post-e"
	st.PutPlayer(got)

	if _, err := sim.CaptureZone(p.ID); err == nil {
		t.Fatal("capturing a supplied hostile zone should be rejected")
	}
}

func TestCaptureGarrisonScaledByFortification(t *testing.T) {
	sim, st := newTestSim(t)
	p := joinPlayer(t, sim, "alice")
	if _, err := sim.JoinFaction(p.ID, "northern-league"); err != nil {
		t.Fatal(err)
	}
	tick(t, sim)

	// A neutral outpost that was kept fully stocked: garrison level 2 with a
	// compliance streak of 20 gives capture defense 0.30, so the base 20
	// strength requirement climbs to ceil(20 × 1.3) = 26.
	z, _ := st.Zone("post-e")
	z.GarrisonLevel = 2
	z.SupplyLevel = 100
	z.ComplianceStreak = 20
	st.PutZone(z)

	got, _ := st.Player(p.ID)
	got.LocationID = "post-e"
	st.PutPlayer(got)
	for i := 0; i < 2; i++ {
		st.PutUnit(&players.Unit{
			ID: "esc-" + string(rune('0'+i)), OwnerID: p.ID,
			Kind: players.UnitEscort, Strength: 10, LocationID: "post-e",
		})
	}

	if _, err := sim.CaptureZone(p.ID); err == nil {
		t.Fatal("20 strength must not crack a fortified level-2 garrison")
	} else if RejectCode(err) != ErrPrecondition {
		t.Fatalf("code = %s, want %s", RejectCode(err), ErrPrecondition)
	}

	st.PutUnit(&players.Unit{
		ID: "esc-2", OwnerID: p.ID,
		Kind: players.UnitEscort, Strength: 10, LocationID: "post-e",
	})
	if _, err := sim.CaptureZone(p.ID); err != nil {
		t.Fatalf("capture with 30 strength: %v", err)
	}
	z, _ = st.Zone("post-e")
	if z.OwnerID != "northern-league" {
		t.Fatalf("owner = %q, want northern-league", z.OwnerID)
	}
}

func TestDailyActionCapResets(t *testing.T) {
	sim, st := newTestSim(t)
	p := joinPlayer(t, sim, "alice")

	got, _ := st.Player(p.ID)
	got.ActionsToday = tuning.Default().DailyActionCap
	st.PutPlayer(got)

	if _, err := sim.Travel(p.ID, "mine-b"); err == nil {
		t.Fatal("expected daily cap rejection")
	} else if RejectCode(err) != ErrRateLimit {
		t.Fatalf("code = %s", RejectCode(err))
	}

	// Roll the clock to the next day boundary.
	for i := 0; i < tuning.Default().TicksPerDay; i++ {
		tick(t, sim)
	}
	got, _ = st.Player(p.ID)
	if got.ActionsToday != 0 {
		t.Fatalf("actions_today = %d after daily reset", got.ActionsToday)
	}
}
