// Zone efficiency — the single lever coupling fortification investment to
// production, transit, capture, and scanning.
package world

import "math"

// Efficiency is the bundle of multipliers a zone earns from staying supplied.
type Efficiency struct {
	// ProductionBonus multiplies extract/produce output. >= 1.
	ProductionBonus float64 `json:"production_bonus"`
	// RaidResistance divides interception probability on inbound routes. >= 1.
	RaidResistance float64 `json:"raid_resistance"`
	// CaptureDefense is the fraction of capture pressure absorbed. 0..0.75.
	CaptureDefense float64 `json:"capture_defense"`
	// MedkitBonus amplifies escort strength defending inbound shipments. 0..0.5.
	MedkitBonus float64 `json:"medkit_bonus"`
	// CommsDefense degrades hostile scan signal quality, in quality points. 0..60.
	CommsDefense float64 `json:"comms_defense"`
}

// Neutral is the efficiency of an unfortified zone: all multipliers inert.
var Neutral = Efficiency{ProductionBonus: 1, RaidResistance: 1}

// Effectiveness maps a zone's supply health and stockpiles to its efficiency
// bundle. Pure function; fortification bonuses are gated on the zone being
// fully supplied, so a strained zone keeps only its stockpile-driven perks.
func Effectiveness(supplyLevel float64, complianceStreak int, medkitStockpile, commsStockpile float64) Efficiency {
	eff := Efficiency{
		ProductionBonus: 1,
		RaidResistance:  1,
		MedkitBonus:     math.Min(0.5, medkitStockpile/200),
		CommsDefense:    math.Min(60, commsStockpile/5),
	}
	if supplyLevel < SupplyFullThreshold {
		return eff
	}

	streak := float64(complianceStreak)
	eff.ProductionBonus = 1 + math.Min(0.30, 0.01*streak)
	eff.RaidResistance = 1 + math.Min(0.50, 0.02*streak)
	eff.CaptureDefense = math.Min(0.75, 0.015*streak)
	return eff
}

// ZoneEffectiveness is a convenience wrapper over Effectiveness for a zone.
func ZoneEffectiveness(z *Zone) Efficiency {
	if z == nil {
		return Neutral
	}
	return Effectiveness(z.SupplyLevel, z.ComplianceStreak, z.MedkitStockpile, z.CommsStockpile)
}
