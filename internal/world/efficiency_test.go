package world

import (
	"math"
	"testing"
)

func TestEffectivenessGatedOnFullSupply(t *testing.T) {
	eff := Effectiveness(99.9, 30, 0, 0)
	if eff.ProductionBonus != 1 || eff.RaidResistance != 1 || eff.CaptureDefense != 0 {
		t.Fatalf("strained zone must keep inert multipliers, got %+v", eff)
	}

	eff = Effectiveness(100, 10, 0, 0)
	if math.Abs(eff.ProductionBonus-1.10) > 1e-9 {
		t.Fatalf("production bonus = %v, want 1.10 at streak 10", eff.ProductionBonus)
	}
	if math.Abs(eff.RaidResistance-1.20) > 1e-9 {
		t.Fatalf("raid resistance = %v, want 1.20 at streak 10", eff.RaidResistance)
	}
	if math.Abs(eff.CaptureDefense-0.15) > 1e-9 {
		t.Fatalf("capture defense = %v, want 0.15 at streak 10", eff.CaptureDefense)
	}
}

func TestEffectivenessCaps(t *testing.T) {
	eff := Effectiveness(100, 1000, 0, 0)
	if eff.ProductionBonus != 1.30 {
		t.Fatalf("production bonus = %v, want cap 1.30", eff.ProductionBonus)
	}
	if eff.RaidResistance != 1.50 {
		t.Fatalf("raid resistance = %v, want cap 1.50", eff.RaidResistance)
	}
	if eff.CaptureDefense != 0.75 {
		t.Fatalf("capture defense = %v, want cap 0.75", eff.CaptureDefense)
	}
}

func TestStockpilePerksSurviveStrain(t *testing.T) {
	// Medkit and comms perks scale on stockpiles alone.
	eff := Effectiveness(20, 0, 50, 100)
	if math.Abs(eff.MedkitBonus-0.25) > 1e-9 {
		t.Fatalf("medkit bonus = %v, want 0.25 at stockpile 50", eff.MedkitBonus)
	}
	if math.Abs(eff.CommsDefense-20) > 1e-9 {
		t.Fatalf("comms defense = %v, want 20 at stockpile 100", eff.CommsDefense)
	}

	eff = Effectiveness(20, 0, 1000, 1000)
	if eff.MedkitBonus != 0.5 {
		t.Fatalf("medkit bonus = %v, want cap 0.5", eff.MedkitBonus)
	}
	if eff.CommsDefense != 60 {
		t.Fatalf("comms defense = %v, want cap 60", eff.CommsDefense)
	}
}

func TestZoneEffectivenessNilZone(t *testing.T) {
	if got := ZoneEffectiveness(nil); got != Neutral {
		t.Fatalf("nil zone effectiveness = %+v, want Neutral", got)
	}
}

func TestZoneStateThresholds(t *testing.T) {
	cases := []struct {
		supply float64
		want   ZoneState
	}{
		{100, StateSupplied},
		{99.9, StateStrained},
		{50, StateStrained},
		{49.9, StateCritical},
		{0.1, StateCritical},
		{0, StateCollapsed},
	}
	for _, tc := range cases {
		z := &Zone{SupplyLevel: tc.supply}
		if got := z.State(); got != tc.want {
			t.Errorf("supply %v: state = %s, want %s", tc.supply, got, tc.want)
		}
	}
}
