package engine

import (
	"testing"

	"github.com/talgya/supply-lines/internal/economy"
	"github.com/talgya/supply-lines/internal/world"
)

func TestPlaceOrderEscrowsAndMatches(t *testing.T) {
	sim, st := newTestSim(t)
	seller := joinPlayer(t, sim, "seller")
	buyer := joinPlayer(t, sim, "buyer")

	sp, _ := st.Player(seller.ID)
	sp.Inventory[world.ResourceOre] = 30
	st.PutPlayer(sp)

	if _, err := sim.PlaceOrder(seller.ID, economy.SideSell, world.ResourceOre, 20, 5); err != nil {
		t.Fatalf("sell: %v", err)
	}
	sp, _ = st.Player(seller.ID)
	if sp.Inventory[world.ResourceOre] != 10 {
		t.Fatalf("seller ore = %d, escrow not taken", sp.Inventory[world.ResourceOre])
	}

	// Buyer bids above the ask: trades at the seller's price with a refund.
	if _, err := sim.PlaceOrder(buyer.ID, economy.SideBuy, world.ResourceOre, 20, 8); err != nil {
		t.Fatalf("buy: %v", err)
	}

	bp, _ := st.Player(buyer.ID)
	if bp.Inventory[world.ResourceOre] != 20 {
		t.Fatalf("buyer ore = %d, want 20", bp.Inventory[world.ResourceOre])
	}
	// 500 start − 160 escrow + 60 refund = 400.
	if bp.Credits != 400 {
		t.Fatalf("buyer credits = %d, want 400", bp.Credits)
	}
	sp, _ = st.Player(seller.ID)
	// 500 start + 20 × 5 proceeds.
	if sp.Credits != 600 {
		t.Fatalf("seller credits = %d, want 600", sp.Credits)
	}
}

func TestOrderMatchingConservesValue(t *testing.T) {
	sim, st := newTestSim(t)
	seller := joinPlayer(t, sim, "seller")
	buyer := joinPlayer(t, sim, "buyer")

	sp, _ := st.Player(seller.ID)
	sp.Inventory[world.ResourceOre] = 100
	st.PutPlayer(sp)

	creditsBefore := int64(0)
	oreBefore := 0
	for _, p := range st.Players() {
		creditsBefore += p.Credits
		oreBefore += p.Inventory[world.ResourceOre]
	}

	if _, err := sim.PlaceOrder(seller.ID, economy.SideSell, world.ResourceOre, 50, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := sim.PlaceOrder(buyer.ID, economy.SideBuy, world.ResourceOre, 30, 7); err != nil {
		t.Fatal(err)
	}

	// Cancel the seller's remainder to pull escrow back out of the book.
	tick(t, sim)
	book := st.Orders("hub-a", world.ResourceOre)
	for _, o := range book {
		if o.PlayerID == seller.ID && o.Open() {
			if _, err := sim.CancelOrder(seller.ID, o.ID); err != nil {
				t.Fatal(err)
			}
		}
	}

	creditsAfter := int64(0)
	oreAfter := 0
	for _, p := range st.Players() {
		creditsAfter += p.Credits
		oreAfter += p.Inventory[world.ResourceOre]
	}
	if creditsAfter != creditsBefore {
		t.Fatalf("credits not conserved: %d → %d", creditsBefore, creditsAfter)
	}
	if oreAfter != oreBefore {
		t.Fatalf("ore not conserved: %d → %d", oreBefore, oreAfter)
	}
}

func TestEqualPriceBreaksByArrival(t *testing.T) {
	sim, st := newTestSim(t)
	s1 := joinPlayer(t, sim, "first")
	s2 := joinPlayer(t, sim, "second")
	buyer := joinPlayer(t, sim, "buyer")

	for _, id := range []string{s1.ID, s2.ID} {
		p, _ := st.Player(id)
		p.Inventory[world.ResourceOre] = 10
		st.PutPlayer(p)
	}

	if _, err := sim.PlaceOrder(s1.ID, economy.SideSell, world.ResourceOre, 10, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := sim.PlaceOrder(s2.ID, economy.SideSell, world.ResourceOre, 10, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := sim.PlaceOrder(buyer.ID, economy.SideBuy, world.ResourceOre, 10, 5); err != nil {
		t.Fatal(err)
	}

	p1, _ := st.Player(s1.ID)
	p2, _ := st.Player(s2.ID)
	if p1.Credits != 550 {
		t.Fatalf("first seller credits = %d, want 550 (filled)", p1.Credits)
	}
	if p2.Credits != 500 {
		t.Fatalf("second seller credits = %d, want 500 (still resting)", p2.Credits)
	}
}

func TestCancelOrderRefundsRemainder(t *testing.T) {
	sim, st := newTestSim(t)
	buyer := joinPlayer(t, sim, "buyer")

	res, err := sim.PlaceOrder(buyer.ID, economy.SideBuy, world.ResourceOre, 10, 20)
	if err != nil {
		t.Fatal(err)
	}
	orderID := res.(map[string]any)["order_id"].(uint64)

	bp, _ := st.Player(buyer.ID)
	if bp.Credits != 300 {
		t.Fatalf("credits = %d after escrow, want 300", bp.Credits)
	}

	if _, err := sim.CancelOrder(buyer.ID, orderID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	bp, _ = st.Player(buyer.ID)
	if bp.Credits != 500 {
		t.Fatalf("credits = %d after refund, want 500", bp.Credits)
	}

	if _, err := sim.CancelOrder(buyer.ID, orderID); err == nil {
		t.Fatal("double cancel must be rejected")
	}
}

func TestSelfCrossReturnsBothEscrows(t *testing.T) {
	sim, st := newTestSim(t)
	p := joinPlayer(t, sim, "alice")

	got, _ := st.Player(p.ID)
	got.Inventory[world.ResourceOre] = 5
	st.PutPlayer(got)

	if _, err := sim.PlaceOrder(p.ID, economy.SideSell, world.ResourceOre, 5, 10); err != nil {
		t.Fatalf("sell: %v", err)
	}
	tick(t, sim)

	// Crossing your own ask settles flat: the goods escrow comes back as
	// delivery and the credit escrow comes back as proceeds.
	if _, err := sim.PlaceOrder(p.ID, economy.SideBuy, world.ResourceOre, 5, 10); err != nil {
		t.Fatalf("buy: %v", err)
	}

	got, _ = st.Player(p.ID)
	if got.Credits != 500 {
		t.Fatalf("credits = %d, want 500 (nothing destroyed)", got.Credits)
	}
	if got.Inventory[world.ResourceOre] != 5 {
		t.Fatalf("ore = %d, want 5 (nothing destroyed)", got.Inventory[world.ResourceOre])
	}
	for _, o := range st.Orders("hub-a", world.ResourceOre) {
		if o.Open() {
			t.Fatalf("order %d still open after the self-cross", o.ID)
		}
	}
}

func TestConditionalOrderFiresOnTrigger(t *testing.T) {
	sim, st := newTestSim(t)
	seller := joinPlayer(t, sim, "seller")
	watcher := joinPlayer(t, sim, "watcher")

	// Buy when the best ask falls to 4 or below.
	if _, err := sim.CreateAdvancedOrder(watcher.ID, &economy.AdvancedOrder{
		ZoneID:       "hub-a",
		Resource:     world.ResourceOre,
		Side:         economy.SideBuy,
		Kind:         economy.AdvancedConditional,
		TriggerPrice: 4,
		Price:        4,
		Remaining:    10,
	}); err != nil {
		t.Fatalf("create conditional: %v", err)
	}

	// An ask at 6 must not trigger.
	sp, _ := st.Player(seller.ID)
	sp.Inventory[world.ResourceOre] = 30
	st.PutPlayer(sp)
	if _, err := sim.PlaceOrder(seller.ID, economy.SideSell, world.ResourceOre, 10, 6); err != nil {
		t.Fatal(err)
	}
	tick(t, sim)
	if len(st.AdvancedOrders()) != 1 {
		t.Fatal("conditional should still be pending at ask 6")
	}

	// An ask at 3 triggers the buy; trade executes at the seller's price.
	tick(t, sim)
	if _, err := sim.PlaceOrder(seller.ID, economy.SideSell, world.ResourceOre, 10, 3); err != nil {
		t.Fatal(err)
	}
	tick(t, sim)

	if len(st.AdvancedOrders()) != 0 {
		t.Fatal("conditional should be consumed after firing")
	}
	wp, _ := st.Player(watcher.ID)
	if wp.Inventory[world.ResourceOre] != 10 {
		t.Fatalf("watcher ore = %d, want 10", wp.Inventory[world.ResourceOre])
	}
}

func TestTimeWeightedOrderSlices(t *testing.T) {
	sim, st := newTestSim(t)
	buyer := joinPlayer(t, sim, "buyer")

	if _, err := sim.CreateAdvancedOrder(buyer.ID, &economy.AdvancedOrder{
		ZoneID:        "hub-a",
		Resource:      world.ResourceOre,
		Side:          economy.SideBuy,
		Kind:          economy.AdvancedTimeWeighted,
		Price:         5,
		Remaining:     6,
		SliceQuantity: 2,
		EveryTicks:    2,
	}); err != nil {
		t.Fatalf("create twap: %v", err)
	}

	// Slices at ticks 2, 4, 6: three tranches of 2 at escrow 10 each.
	for i := 0; i < 6; i++ {
		tick(t, sim)
	}

	bp, _ := st.Player(buyer.ID)
	if bp.Credits != 500-30 {
		t.Fatalf("credits = %d, want 470 after three slices escrowed", bp.Credits)
	}
	if len(st.AdvancedOrders()) != 0 {
		t.Fatal("exhausted program should be deleted")
	}

	open := 0
	for _, o := range st.Orders("hub-a", world.ResourceOre) {
		if o.Open() {
			open++
		}
	}
	if open != 3 {
		t.Fatalf("resting slice orders = %d, want 3", open)
	}
}
