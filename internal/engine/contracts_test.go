package engine

import (
	"testing"

	"github.com/talgya/supply-lines/internal/contracts"
	"github.com/talgya/supply-lines/internal/world"
)

func postHaul(t *testing.T, sim *Simulation, posterID string) *contracts.Contract {
	t.Helper()
	c, err := sim.CreateContract(posterID, &contracts.Contract{
		Kind:             contracts.KindHaul,
		Resource:         world.ResourceOre,
		Quantity:         10,
		ToZoneID:         "mine-b",
		DeadlineTick:     500,
		RewardCredits:    100,
		RewardReputation: 5,
	})
	if err != nil {
		t.Fatalf("create haul contract: %v", err)
	}
	return c
}

func TestHaulContractLifecycle(t *testing.T) {
	sim, st := newTestSim(t)
	poster := joinPlayer(t, sim, "poster")
	hauler := joinPlayer(t, sim, "hauler")

	c := postHaul(t, sim, poster.ID)

	pp, _ := st.Player(poster.ID)
	if pp.Credits != 400 {
		t.Fatalf("poster credits = %d, want 400 after escrow", pp.Credits)
	}

	if _, err := sim.AcceptContract(hauler.ID, c.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	// Put the hauler at the destination holding the goods.
	hp, _ := st.Player(hauler.ID)
	hp.LocationID = "mine-b"
	hp.Inventory[world.ResourceOre] = 15
	st.PutPlayer(hp)
	tick(t, sim)

	repBefore := hp.Reputation
	if _, err := sim.CompleteContract(hauler.ID, c.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	hp, _ = st.Player(hauler.ID)
	if hp.Credits != 600 {
		t.Fatalf("hauler credits = %d, want 600", hp.Credits)
	}
	if hp.Inventory[world.ResourceOre] != 5 {
		t.Fatalf("hauler ore = %d, want 5 after handing over 10", hp.Inventory[world.ResourceOre])
	}
	if hp.Reputation != repBefore+5 {
		t.Fatalf("reputation = %d, want %d", hp.Reputation, repBefore+5)
	}
	pp, _ = st.Player(poster.ID)
	if pp.Inventory[world.ResourceOre] != 10 {
		t.Fatalf("poster ore = %d, want 10 delivered", pp.Inventory[world.ResourceOre])
	}

	stored, _ := st.Contract(c.ID)
	if stored.Status != contracts.StatusCompleted {
		t.Fatalf("status = %s, want completed", stored.Status)
	}
}

func TestCompleteRejectsAwayFromDestination(t *testing.T) {
	sim, _ := newTestSim(t)
	poster := joinPlayer(t, sim, "poster")
	hauler := joinPlayer(t, sim, "hauler")

	c := postHaul(t, sim, poster.ID)
	if _, err := sim.AcceptContract(hauler.ID, c.ID); err != nil {
		t.Fatal(err)
	}
	tick(t, sim)

	if _, err := sim.CompleteContract(hauler.ID, c.ID); err == nil {
		t.Fatal("completion away from the destination must be rejected")
	} else if RejectCode(err) != ErrNotAtLocation {
		t.Fatalf("code = %s, want %s", RejectCode(err), ErrNotAtLocation)
	}
}

func TestCompleteRejectsWithInsufficientQuantity(t *testing.T) {
	sim, st := newTestSim(t)
	poster := joinPlayer(t, sim, "poster")
	hauler := joinPlayer(t, sim, "hauler")

	c := postHaul(t, sim, poster.ID)
	if _, err := sim.AcceptContract(hauler.ID, c.ID); err != nil {
		t.Fatal(err)
	}

	// At the destination, but holding 4 of the 10 contracted units.
	hp, _ := st.Player(hauler.ID)
	hp.LocationID = "mine-b"
	hp.Inventory[world.ResourceOre] = 4
	st.PutPlayer(hp)
	tick(t, sim)

	if _, err := sim.CompleteContract(hauler.ID, c.ID); err == nil {
		t.Fatal("completion short of the contracted quantity must be rejected")
	} else if RejectCode(err) != ErrNoResource {
		t.Fatalf("code = %s, want %s", RejectCode(err), ErrNoResource)
	}

	// Rejection leaves everything in place: the contract stays active and
	// the partial cargo stays with the hauler.
	stored, _ := st.Contract(c.ID)
	if stored.Status != contracts.StatusActive {
		t.Fatalf("status = %s, want active", stored.Status)
	}
	hp, _ = st.Player(hauler.ID)
	if hp.Inventory[world.ResourceOre] != 4 || hp.Credits != 500 {
		t.Fatalf("hauler state changed: ore %d, credits %d", hp.Inventory[world.ResourceOre], hp.Credits)
	}
}

func TestExpiredContractRefundsPoster(t *testing.T) {
	sim, st := newTestSim(t)
	poster := joinPlayer(t, sim, "poster")

	if _, err := sim.CreateContract(poster.ID, &contracts.Contract{
		Kind:          contracts.KindHaul,
		Resource:      world.ResourceOre,
		Quantity:      5,
		ToZoneID:      "mine-b",
		DeadlineTick:  2,
		RewardCredits: 100,
	}); err != nil {
		t.Fatal(err)
	}
	pp, _ := st.Player(poster.ID)
	if pp.Credits != 400 {
		t.Fatalf("credits = %d after escrow", pp.Credits)
	}

	tick(t, sim)
	tick(t, sim)
	tick(t, sim) // Past the deadline

	pp, _ = st.Player(poster.ID)
	if pp.Credits != 500 {
		t.Fatalf("credits = %d, want 500 refunded on expiry", pp.Credits)
	}
	for _, c := range st.Contracts() {
		if c.Status != contracts.StatusExpired {
			t.Fatalf("status = %s, want expired", c.Status)
		}
	}
}

func TestFailedContractPenalizesAcceptor(t *testing.T) {
	sim, st := newTestSim(t)
	poster := joinPlayer(t, sim, "poster")
	hauler := joinPlayer(t, sim, "hauler")

	c, err := sim.CreateContract(poster.ID, &contracts.Contract{
		Kind:             contracts.KindHaul,
		Resource:         world.ResourceOre,
		Quantity:         5,
		ToZoneID:         "mine-b",
		DeadlineTick:     2,
		RewardCredits:    100,
		RewardReputation: 5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sim.AcceptContract(hauler.ID, c.ID); err != nil {
		t.Fatal(err)
	}

	repBefore := hauler.Reputation
	tick(t, sim)
	tick(t, sim)
	tick(t, sim)

	stored, _ := st.Contract(c.ID)
	if stored.Status != contracts.StatusFailed {
		t.Fatalf("status = %s, want failed", stored.Status)
	}
	hp, _ := st.Player(hauler.ID)
	if hp.Reputation != repBefore-5 {
		t.Fatalf("reputation = %d, want %d", hp.Reputation, repBefore-5)
	}
	pp, _ := st.Player(poster.ID)
	if pp.Credits != 500 {
		t.Fatalf("poster credits = %d, want full refund", pp.Credits)
	}
}

func TestScoutContractNeedsFreshIntelSinceAcceptance(t *testing.T) {
	sim, st := newTestSim(t)
	poster := joinPlayer(t, sim, "poster")
	scout := joinPlayer(t, sim, "scout")

	c, err := sim.CreateContract(poster.ID, &contracts.Contract{
		Kind:          contracts.KindScout,
		TargetType:    contracts.TargetZone,
		TargetID:      "mine-b",
		DeadlineTick:  500,
		RewardCredits: 50,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sim.AcceptContract(scout.ID, c.ID); err != nil {
		t.Fatal(err)
	}
	tick(t, sim)

	// No intel yet: rejected.
	if _, err := sim.CompleteContract(scout.ID, c.ID); err == nil {
		t.Fatal("completion without intel must be rejected")
	}

	if _, err := sim.Scan(scout.ID, "zone", "mine-b"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	tick(t, sim)

	if _, err := sim.CompleteContract(scout.ID, c.ID); err != nil {
		t.Fatalf("complete with fresh intel: %v", err)
	}
	sp, _ := st.Player(scout.ID)
	if sp.Credits != 550 {
		t.Fatalf("scout credits = %d, want 550", sp.Credits)
	}
}

func TestBonusPaidBeforeBonusDeadline(t *testing.T) {
	sim, st := newTestSim(t)
	poster := joinPlayer(t, sim, "poster")
	hauler := joinPlayer(t, sim, "hauler")

	c, err := sim.CreateContract(poster.ID, &contracts.Contract{
		Kind:              contracts.KindSupply,
		Quantity:          10,
		ToZoneID:          "post-e",
		DeadlineTick:      500,
		RewardCredits:     100,
		BonusCredits:      50,
		BonusDeadlineTick: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sim.AcceptContract(hauler.ID, c.ID); err != nil {
		t.Fatal(err)
	}

	hp, _ := st.Player(hauler.ID)
	hp.LocationID = "post-e"
	st.PutPlayer(hp)
	tick(t, sim)

	if _, err := sim.CompleteContract(hauler.ID, c.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	hp, _ = st.Player(hauler.ID)
	if hp.Credits != 650 {
		t.Fatalf("credits = %d, want 650 with the early bonus", hp.Credits)
	}
}

func TestCancelContractOnlyWhileOpen(t *testing.T) {
	sim, st := newTestSim(t)
	poster := joinPlayer(t, sim, "poster")
	hauler := joinPlayer(t, sim, "hauler")

	c := postHaul(t, sim, poster.ID)
	if _, err := sim.AcceptContract(hauler.ID, c.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := sim.CancelContract(poster.ID, c.ID); err == nil {
		t.Fatal("cancelling an accepted contract must be rejected")
	}

	tick(t, sim)
	c2 := postHaul(t, sim, poster.ID)
	if _, err := sim.CancelContract(poster.ID, c2.ID); err != nil {
		t.Fatalf("cancel open contract: %v", err)
	}
	pp, _ := st.Player(poster.ID)
	if pp.Credits != 400 {
		t.Fatalf("poster credits = %d, want 400 (one live escrow left)", pp.Credits)
	}
}
