// World generation using layered simplex noise.
// Zones are placed on a jittered ring-and-spoke layout; noise fields decide
// each zone's kind, resource richness, and how dangerous its routes are.
package world

import (
	"fmt"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	ZoneCount int   // Total zones to place (>= 6 so every kind appears)
	Seed      int64 // Random seed (0 = random)

	// Route shaping.
	NeighborLinks int     // Nearest neighbors each zone connects to
	MaxRisk       float64 // Upper bound for generated base risk
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		ZoneCount:     48,
		Seed:          0,
		NeighborLinks: 3,
		MaxRisk:       0.20,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration and tests.
func SmallTestConfig() GenConfig {
	return GenConfig{
		ZoneCount:     8,
		Seed:          42,
		NeighborLinks: 2,
		MaxRisk:       0.15,
	}
}

// GenResult is the generated world: zones plus directed routes.
type GenResult struct {
	Zones  []*Zone
	Routes []*Route
}

var zoneNamePrefixes = []string{
	"Ash", "Bren", "Cald", "Dray", "Ebon", "Fen", "Gild", "Hale",
	"Iron", "Jas", "Kest", "Lorn", "Mire", "North", "Oster", "Pell",
	"Quar", "Ridge", "Salt", "Thorn", "Umber", "Vale", "Wick", "Yarrow",
}

var zoneNameSuffixes = []string{
	"ford", "gate", "haven", "hold", "march", "moor", "port", "reach",
	"rest", "spur", "stead", "watch", "well", "wharf",
}

// Generate creates a complete zone graph from the configuration.
// Deterministic for a fixed non-zero seed.
func Generate(cfg GenConfig) *GenResult {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	// Independent noise layers: one drives zone kind weighting, one resource
	// richness, one route danger.
	kindNoise := opensimplex.NewNormalized(seed)
	richNoise := opensimplex.NewNormalized(seed + 1)
	riskNoise := opensimplex.NewNormalized(seed + 2)

	type placed struct {
		zone *Zone
		x, y float64
	}

	count := cfg.ZoneCount
	if count < 6 {
		count = 6
	}

	zones := make([]*placed, 0, count)
	for i := 0; i < count; i++ {
		// Jittered ring placement: spread zones around concentric rings so
		// nearest-neighbor linking produces a connected lattice.
		ring := 1 + i/8
		angle := float64(i%8)/8*2*math.Pi + rng.Float64()*0.6
		radius := float64(ring) + rng.Float64()*0.5
		x := radius * math.Cos(angle)
		y := radius * math.Sin(angle)

		kind := kindForNoise(kindNoise.Eval2(x*0.35, y*0.35), i)
		z := &Zone{
			ID:        fmt.Sprintf("zone-%03d", i+1),
			Name:      zoneName(rng),
			Kind:      kind,
			Resources: map[Resource]int{},
		}

		rich := richNoise.Eval2(x*0.25, y*0.25)
		seedZoneStocks(z, rich)
		zones = append(zones, &placed{zone: z, x: x, y: y})
	}

	// Link each zone to its nearest neighbors with a bidirectional route pair.
	links := cfg.NeighborLinks
	if links < 2 {
		links = 2
	}

	res := &GenResult{}
	for _, p := range zones {
		res.Zones = append(res.Zones, p.zone)
	}

	seen := make(map[string]bool)
	routeNum := 0
	for i, p := range zones {
		type cand struct {
			j    int
			dist float64
		}
		cands := make([]cand, 0, len(zones)-1)
		for j, q := range zones {
			if j == i {
				continue
			}
			dx, dy := p.x-q.x, p.y-q.y
			cands = append(cands, cand{j: j, dist: math.Sqrt(dx*dx + dy*dy)})
		}
		for a := 1; a < len(cands); a++ {
			for b := a; b > 0 && cands[b].dist < cands[b-1].dist; b-- {
				cands[b], cands[b-1] = cands[b-1], cands[b]
			}
		}

		for n := 0; n < links && n < len(cands); n++ {
			q := zones[cands[n].j]
			key := p.zone.ID + "→" + q.zone.ID
			if seen[key] {
				continue
			}
			seen[key] = true
			seen[q.zone.ID+"→"+p.zone.ID] = true

			dist := int(math.Ceil(cands[n].dist))
			if dist < 1 {
				dist = 1
			}
			mx, my := (p.x+q.x)/2, (p.y+q.y)/2
			risk := riskNoise.Eval2(mx*0.3, my*0.3) * cfg.MaxRisk
			choke := 1.0
			// Routes touching crossroads or outposts pinch traffic.
			if p.zone.Kind == ZoneCrossroads || q.zone.Kind == ZoneCrossroads {
				choke = 1.5
			}
			if p.zone.Kind == ZoneOutpost || q.zone.Kind == ZoneOutpost {
				choke = 2.0
			}

			routeNum++
			res.Routes = append(res.Routes,
				&Route{
					ID:         fmt.Sprintf("route-%03da", routeNum),
					From:       p.zone.ID,
					To:         q.zone.ID,
					Distance:   dist,
					Capacity:   4,
					BaseRisk:   risk,
					Chokepoint: choke,
				},
				&Route{
					ID:         fmt.Sprintf("route-%03db", routeNum),
					From:       q.zone.ID,
					To:         p.zone.ID,
					Distance:   dist,
					Capacity:   4,
					BaseRisk:   risk,
					Chokepoint: choke,
				},
			)
		}
	}

	return res
}

// kindForNoise picks a zone kind from the noise value, forcing the first six
// placements to cover every kind so small worlds stay playable.
func kindForNoise(v float64, index int) ZoneKind {
	if index < 6 {
		return ZoneKind(index)
	}
	switch {
	case v < 0.18:
		return ZoneHub
	case v < 0.40:
		return ZoneExtraction
	case v < 0.62:
		return ZoneField
	case v < 0.76:
		return ZoneRefinery
	case v < 0.88:
		return ZoneCrossroads
	default:
		return ZoneOutpost
	}
}

// seedZoneStocks fills a zone's starting resources, burn rate, and capacity
// from its kind and a richness value in [0, 1].
func seedZoneStocks(z *Zone, rich float64) {
	scale := 0.5 + rich // 0.5..1.5

	switch z.Kind {
	case ZoneExtraction:
		z.Resources[ResourceOre] = int(400 * scale)
		z.Resources[ResourceFuel] = int(200 * scale)
		z.ResourceCapacity = map[Resource]int{
			ResourceOre:  int(400 * scale),
			ResourceFuel: int(200 * scale),
		}
		z.BurnRate = 8
		z.ProductionCapacity = 10
	case ZoneField:
		z.Resources[ResourceGrain] = int(500 * scale)
		z.Resources[ResourceTimber] = int(300 * scale)
		z.Resources[ResourceTextiles] = int(150 * scale)
		z.ResourceCapacity = map[Resource]int{
			ResourceGrain:    int(500 * scale),
			ResourceTimber:   int(300 * scale),
			ResourceTextiles: int(150 * scale),
		}
		z.BurnRate = 6
		z.ProductionCapacity = 10
	case ZoneRefinery:
		z.BurnRate = 10
		z.ProductionCapacity = int(12 * scale)
	case ZoneHub:
		z.BurnRate = 12
		z.ProductionCapacity = 5
	case ZoneOutpost:
		z.BurnRate = 10
		z.GarrisonLevel = 1 + int(2*rich)
		z.ProductionCapacity = 8
	case ZoneCrossroads:
		// Waypoints burn nothing and never degrade.
		z.BurnRate = 0
	}
}

func zoneName(rng *rand.Rand) string {
	return zoneNamePrefixes[rng.Intn(len(zoneNamePrefixes))] +
		zoneNameSuffixes[rng.Intn(len(zoneNameSuffixes))]
}
