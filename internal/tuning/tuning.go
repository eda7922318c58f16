// Package tuning loads game balance configuration from YAML with
// compiled-in defaults. Fixed rules of the world (supply thresholds,
// shipment class specs, combat bands) are constants in their own packages;
// this file holds the knobs an operator may reasonably turn.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning is the full balance configuration.
type Tuning struct {
	TickIntervalSec int `yaml:"tick_interval_sec"` // Wall-clock seconds per tick

	TicksPerDay    int `yaml:"ticks_per_day"`
	TicksPerWeek   int `yaml:"ticks_per_week"`
	WeeksPerSeason int `yaml:"weeks_per_season"`

	StartingCredits int64 `yaml:"starting_credits"`
	DailyActionCap  int   `yaml:"daily_action_cap"`

	// Stockpile decay cadence and fraction.
	MedkitDecayEvery int     `yaml:"medkit_decay_every"` // Ticks
	CommsDecayEvery  int     `yaml:"comms_decay_every"`  // Ticks
	StockpileDecay   float64 `yaml:"stockpile_decay"`    // Fraction lost per decay

	// Field regeneration per tick, fraction of capacity.
	FieldRegen float64 `yaml:"field_regen"`

	// Intel aging.
	IntelFreshTicks uint64 `yaml:"intel_fresh_ticks"`
	IntelStaleTicks uint64 `yaml:"intel_stale_ticks"`
	IntelGCEvery    int    `yaml:"intel_gc_every"`

	// Units.
	MaintenanceGraceTicks int   `yaml:"maintenance_grace_ticks"`
	EscortCost            int64 `yaml:"escort_cost"`
	RaiderCost            int64 `yaml:"raider_cost"`
	UnitUpkeep            int64 `yaml:"unit_upkeep"` // Credits per tick

	// Reputation penalties for losing cargo.
	InterceptReputationPenalty int `yaml:"intercept_reputation_penalty"`

	// Licenses.
	FreightLicenseCost int64 `yaml:"freight_license_cost"`
	ConvoyLicenseCost  int64 `yaml:"convoy_license_cost"`

	// Extraction per action before production bonus.
	ExtractBase int `yaml:"extract_base"`
}

// Default returns the built-in balance configuration.
func Default() Tuning {
	return Tuning{
		TickIntervalSec: 600, // 10 simulated minutes

		TicksPerDay:    144,
		TicksPerWeek:   1008,
		WeeksPerSeason: 4,

		StartingCredits: 500,
		DailyActionCap:  72,

		MedkitDecayEvery: 10,
		CommsDecayEvery:  20,
		StockpileDecay:   0.05,

		FieldRegen: 0.01,

		IntelFreshTicks: 72,
		IntelStaleTicks: 216,
		IntelGCEvery:    100,

		MaintenanceGraceTicks: 24,
		EscortCost:            200,
		RaiderCost:            250,
		UnitUpkeep:            2,

		InterceptReputationPenalty: 20,

		FreightLicenseCost: 1000,
		ConvoyLicenseCost:  5000,

		ExtractBase: 10,
	}
}

// Load reads a YAML tuning file over the defaults. A missing file is not an
// error: the defaults ship compiled in.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	if err := t.validate(); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

func (t Tuning) validate() error {
	if t.TicksPerDay <= 0 || t.TicksPerWeek <= 0 || t.WeeksPerSeason <= 0 {
		return fmt.Errorf("tick calendar values must be positive")
	}
	if t.TicksPerWeek%t.TicksPerDay != 0 {
		return fmt.Errorf("ticks_per_week must be a multiple of ticks_per_day")
	}
	if t.StockpileDecay < 0 || t.StockpileDecay > 1 {
		return fmt.Errorf("stockpile_decay must be in [0, 1]")
	}
	if t.IntelFreshTicks >= t.IntelStaleTicks {
		return fmt.Errorf("intel_fresh_ticks must be below intel_stale_ticks")
	}
	return nil
}
