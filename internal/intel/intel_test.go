package intel

import "testing"

func TestFreshnessBands(t *testing.T) {
	r := &Report{GatheredAt: 100}

	cases := []struct {
		now  uint64
		want Freshness
	}{
		{100, Fresh},
		{171, Fresh},   // Age 71, just under the fresh band
		{172, Stale},   // Age 72, fresh band closed
		{315, Stale},   // Age 215
		{316, Expired}, // Age 216
		{1000, Expired},
	}
	for _, tc := range cases {
		if got := r.FreshnessAt(tc.now, DefaultFreshTicks, DefaultStaleTicks); got != tc.want {
			t.Errorf("at tick %d: freshness = %s, want %s", tc.now, got, tc.want)
		}
	}
}

func TestFreshnessClockRewind(t *testing.T) {
	// A report stamped after the current tick (season reset rewound the
	// clock before GC ran) reads as fresh rather than underflowing.
	r := &Report{GatheredAt: 500}
	if got := r.FreshnessAt(10, DefaultFreshTicks, DefaultStaleTicks); got != Fresh {
		t.Fatalf("freshness = %s, want fresh", got)
	}
}
