// Dijkstra shortest-path search over the route graph.
// Advisory only: shipment creation validates its path leg-by-leg and never
// routes through this code.
package world

import "container/heap"

// CostMode selects the edge-cost function the search optimizes.
type CostMode string

const (
	CostDistance CostMode = "distance" // Raw ticks
	CostRisk     CostMode = "risk"     // baseRisk × chokepoint × 100
	CostBalanced CostMode = "balanced" // distance + risk × 50
)

// PathResult is a found path plus its actual cumulative distance and risk,
// tracked independently of whichever cost function was optimized.
type PathResult struct {
	ZoneIDs  []string `json:"zone_ids"`
	Distance int      `json:"distance"`
	Risk     float64  `json:"risk"`
	Routes   []*Route `json:"-"`
}

func routeRisk(r *Route) float64 {
	return r.BaseRisk * r.Chokepoint * 100
}

func routeCost(r *Route, mode CostMode) float64 {
	switch mode {
	case CostRisk:
		return routeRisk(r)
	case CostBalanced:
		return float64(r.Distance) + routeRisk(r)*50
	default:
		return float64(r.Distance)
	}
}

type pathNode struct {
	zoneID string
	cost   float64
	index  int
}

type pathQueue []*pathNode

func (q pathQueue) Len() int            { return len(q) }
func (q pathQueue) Less(i, j int) bool  { return q[i].cost < q[j].cost }
func (q pathQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index = i; q[j].index = j }
func (q *pathQueue) Push(x any)         { n := x.(*pathNode); n.index = len(*q); *q = append(*q, n) }
func (q *pathQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}

// FindPath runs Dijkstra from one zone to another over the given routes.
// Returns false when no path exists. Ties between equal-cost frontier nodes
// resolve by heap order; route enumeration is per-zone insertion order, so
// results are deterministic for a fixed route list.
func FindPath(routes []*Route, fromID, toID string, mode CostMode) (*PathResult, bool) {
	if fromID == toID {
		return &PathResult{ZoneIDs: []string{fromID}}, true
	}

	out := make(map[string][]*Route)
	for _, r := range routes {
		out[r.From] = append(out[r.From], r)
	}

	dist := map[string]float64{fromID: 0}
	prevRoute := make(map[string]*Route)
	visited := make(map[string]bool)

	q := &pathQueue{}
	heap.Init(q)
	heap.Push(q, &pathNode{zoneID: fromID, cost: 0})

	for q.Len() > 0 {
		cur := heap.Pop(q).(*pathNode)
		if visited[cur.zoneID] {
			continue
		}
		visited[cur.zoneID] = true
		if cur.zoneID == toID {
			break
		}

		for _, r := range out[cur.zoneID] {
			if visited[r.To] {
				continue
			}
			next := cur.cost + routeCost(r, mode)
			if best, seen := dist[r.To]; !seen || next < best {
				dist[r.To] = next
				prevRoute[r.To] = r
				heap.Push(q, &pathNode{zoneID: r.To, cost: next})
			}
		}
	}

	if !visited[toID] {
		return nil, false
	}

	// Walk back through the predecessor routes.
	var legs []*Route
	for at := toID; at != fromID; {
		r := prevRoute[at]
		legs = append(legs, r)
		at = r.From
	}
	// Reverse into from→to order.
	for i, j := 0, len(legs)-1; i < j; i, j = i+1, j-1 {
		legs[i], legs[j] = legs[j], legs[i]
	}

	res := &PathResult{ZoneIDs: []string{fromID}}
	for _, r := range legs {
		res.ZoneIDs = append(res.ZoneIDs, r.To)
		res.Distance += r.Distance
		res.Risk += routeRisk(r)
		res.Routes = append(res.Routes, r)
	}
	return res, true
}
