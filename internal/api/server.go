// Package api exposes the world over HTTP: public GET endpoints for
// observation, a POST action surface for agents, and a WebSocket event
// stream.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/supply-lines/internal/contracts"
	"github.com/talgya/supply-lines/internal/economy"
	"github.com/talgya/supply-lines/internal/engine"
	"github.com/talgya/supply-lines/internal/persistence"
	"github.com/talgya/supply-lines/internal/players"
	"github.com/talgya/supply-lines/internal/shipping"
	"github.com/talgya/supply-lines/internal/world"
)

// Server serves world state and the action surface.
type Server struct {
	Sim  *engine.Simulation
	DB   *persistence.DB
	Hub  *Hub
	Port int
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	joinLimiter := NewRateLimiter(10, time.Hour)

	mux := http.NewServeMux()

	// Public observation endpoints.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/zones", s.handleZones)
	mux.HandleFunc("/api/v1/zone/", s.handleZoneDetail)
	mux.HandleFunc("/api/v1/routes", s.handleRoutes)
	mux.HandleFunc("/api/v1/players", s.handlePlayers)
	mux.HandleFunc("/api/v1/player/", s.handlePlayerDetail)
	mux.HandleFunc("/api/v1/market", s.handleMarket)
	mux.HandleFunc("/api/v1/contracts", s.handleContracts)
	mux.HandleFunc("/api/v1/units", s.handleUnits)
	mux.HandleFunc("/api/v1/intel", s.handleIntel)
	mux.HandleFunc("/api/v1/standings", s.handleStandings)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/path", s.handlePath)

	// Agent surface.
	mux.HandleFunc("/api/v1/join", RateLimitMiddleware(joinLimiter, s.handleJoin))
	mux.HandleFunc("/api/v1/action", s.handleAction)

	// Event stream.
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWs(s.Hub, w, r)
	})

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.Sim.Store()
	week, season := s.Sim.Calendar()
	active := 0
	for range st.ActiveShipments() {
		active++
	}
	writeJSON(w, map[string]any{
		"name":             "Supply Lines",
		"tick":             s.Sim.CurrentTick(),
		"week":             week,
		"season":           season,
		"zones":            len(st.Zones()),
		"players":          len(st.Players()),
		"active_shipments": active,
	})
}

func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	type zoneSummary struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Kind        string  `json:"kind"`
		OwnerID     string  `json:"owner_id,omitempty"`
		State       string  `json:"state"`
		SupplyLevel float64 `json:"supply_level"`
		BurnRate    float64 `json:"burn_rate"`
	}
	zones := s.Sim.Store().Zones()
	out := make([]zoneSummary, 0, len(zones))
	for _, z := range zones {
		out = append(out, zoneSummary{
			ID:          z.ID,
			Name:        z.Name,
			Kind:        world.KindName(z.Kind),
			OwnerID:     z.OwnerID,
			State:       string(z.State()),
			SupplyLevel: z.SupplyLevel,
			BurnRate:    z.BurnRate,
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleZoneDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/zone/")
	z, ok := s.Sim.Store().Zone(id)
	if !ok {
		http.Error(w, "zone not found", http.StatusNotFound)
		return
	}
	eff := world.ZoneEffectiveness(z)
	writeJSON(w, map[string]any{
		"zone":          z,
		"state":         string(z.State()),
		"effectiveness": eff,
		"routes":        s.Sim.Store().RoutesFrom(z.ID),
	})
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Store().Routes())
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	type playerSummary struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		LocationID string `json:"location_id"`
		FactionID  string `json:"faction_id,omitempty"`
		Reputation int    `json:"reputation"`
	}
	list := s.Sim.Store().Players()
	out := make([]playerSummary, 0, len(list))
	for _, p := range list {
		out = append(out, playerSummary{
			ID:         p.ID,
			Name:       p.Name,
			LocationID: p.LocationID,
			FactionID:  p.FactionID,
			Reputation: p.Reputation,
		})
	}
	writeJSON(w, out)
}

func (s *Server) handlePlayerDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/player/")
	p, ok := s.Sim.Store().Player(id)
	if !ok {
		http.Error(w, "player not found", http.StatusNotFound)
		return
	}
	writeJSON(w, p)
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	zoneID := r.URL.Query().Get("zone")
	res := world.Resource(r.URL.Query().Get("resource"))
	if zoneID == "" || !world.ValidResource(res) {
		http.Error(w, "zone and resource query params required", http.StatusBadRequest)
		return
	}
	book := s.Sim.Store().Orders(zoneID, res)
	open := make([]*economy.Order, 0, len(book))
	for _, o := range book {
		if o.Open() {
			open = append(open, o)
		}
	}
	writeJSON(w, open)
}

func (s *Server) handleContracts(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	list := s.Sim.Store().Contracts()
	out := make([]*contracts.Contract, 0, len(list))
	for _, c := range list {
		if status == "" || string(c.Status) == status {
			out = append(out, c)
		}
	}
	writeJSON(w, out)
}

func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	forSale := r.URL.Query().Get("for_sale") == "true"
	list := s.Sim.Store().Units()
	out := make([]*players.Unit, 0, len(list))
	for _, u := range list {
		if !forSale || u.ForSalePrice > 0 {
			out = append(out, u)
		}
	}
	writeJSON(w, out)
}

func (s *Server) handleIntel(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("player")
	if playerID == "" {
		http.Error(w, "player query param required", http.StatusBadRequest)
		return
	}
	p, ok := s.Sim.Store().Player(playerID)
	if !ok {
		http.Error(w, "player not found", http.StatusNotFound)
		return
	}
	now := s.Sim.CurrentTick()
	tn := s.Sim.Tuning()
	type reportEntry struct {
		Report    any    `json:"report"`
		Freshness string `json:"freshness"`
	}
	var out []reportEntry
	for _, rep := range s.Sim.Store().IntelReports() {
		// Own reports plus faction-shared ones.
		if rep.PlayerID != p.ID && (rep.FactionID == "" || rep.FactionID != p.FactionID) {
			continue
		}
		fr := rep.FreshnessAt(now, tn.IntelFreshTicks, tn.IntelStaleTicks)
		out = append(out, reportEntry{Report: rep, Freshness: string(fr)})
	}
	writeJSON(w, out)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	week, season := s.Sim.Calendar()
	writeJSON(w, map[string]any{
		"week":   week,
		"season": season,
		"scores": s.Sim.SeasonScores(),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	events, err := s.DB.RecentEvents(limit)
	if err != nil {
		http.Error(w, "event query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, events)
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	mode := world.CostMode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = world.CostBalanced
	}
	result, err := s.Sim.FindRoute(from, to, mode)
	if err != nil {
		writeReject(w, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Name   string `json:"name"`
		ZoneID string `json:"zone_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "name and zone_id required", http.StatusBadRequest)
		return
	}
	p, err := s.Sim.Join(req.Name, req.ZoneID)
	if err != nil {
		writeReject(w, err)
		return
	}
	writeJSON(w, p)
}

// actionRequest is the generic action envelope. Fields beyond player_id and
// action are read per action kind.
type actionRequest struct {
	PlayerID string `json:"player_id"`
	Action   string `json:"action"`

	ZoneID   string         `json:"zone_id,omitempty"`
	Resource world.Resource `json:"resource,omitempty"`
	Quantity int            `json:"quantity,omitempty"`
	Amount   int            `json:"amount,omitempty"`
	Batches  int            `json:"batches,omitempty"`

	Class     string                 `json:"class,omitempty"`
	Path      []string               `json:"path,omitempty"`
	Cargo     map[world.Resource]int `json:"cargo,omitempty"`
	EscortIDs []string               `json:"escort_ids,omitempty"`

	Side     string                 `json:"side,omitempty"`
	Price    int64                  `json:"price,omitempty"`
	OrderID  uint64                 `json:"order_id,omitempty"`
	Advanced *economy.AdvancedOrder `json:"advanced,omitempty"`

	Contract   *contracts.Contract `json:"contract,omitempty"`
	ContractID string              `json:"contract_id,omitempty"`

	UnitKind   string `json:"unit_kind,omitempty"`
	UnitID     string `json:"unit_id,omitempty"`
	RouteID    string `json:"route_id,omitempty"`
	TargetType string `json:"target_type,omitempty"`
	TargetID   string `json:"target_id,omitempty"`
	FactionID  string `json:"faction_id,omitempty"`
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	var (
		data any
		err  error
	)
	switch req.Action {
	case "travel":
		data, err = s.Sim.Travel(req.PlayerID, req.ZoneID)
	case "extract":
		data, err = s.Sim.Extract(req.PlayerID, req.Resource)
	case "produce":
		data, err = s.Sim.Produce(req.PlayerID, req.Resource, req.Batches)
	case "deposit_su":
		data, err = s.Sim.DepositSU(req.PlayerID, req.Amount)
	case "deposit_stockpile":
		data, err = s.Sim.DepositStockpile(req.PlayerID, req.Resource, req.Amount)
	case "capture_zone":
		data, err = s.Sim.CaptureZone(req.PlayerID)
	case "scan":
		data, err = s.Sim.Scan(req.PlayerID, req.TargetType, req.TargetID)
	case "join_faction":
		data, err = s.Sim.JoinFaction(req.PlayerID, req.FactionID)
	case "leave_faction":
		data, err = s.Sim.LeaveFaction(req.PlayerID)
	case "buy_license":
		data, err = s.Sim.BuyLicense(req.PlayerID, shipping.Class(req.Class))
	case "ship":
		data, err = s.Sim.Ship(req.PlayerID, shipping.Class(req.Class), req.Path, req.Cargo, req.EscortIDs)
	case "place_order":
		data, err = s.Sim.PlaceOrder(req.PlayerID, economy.Side(req.Side), req.Resource, req.Quantity, req.Price)
	case "cancel_order":
		data, err = s.Sim.CancelOrder(req.PlayerID, req.OrderID)
	case "create_advanced_order":
		data, err = s.Sim.CreateAdvancedOrder(req.PlayerID, req.Advanced)
	case "cancel_advanced_order":
		data, err = s.Sim.CancelAdvancedOrder(req.PlayerID, req.OrderID)
	case "create_contract":
		data, err = s.Sim.CreateContract(req.PlayerID, req.Contract)
	case "accept_contract":
		data, err = s.Sim.AcceptContract(req.PlayerID, req.ContractID)
	case "complete_contract":
		data, err = s.Sim.CompleteContract(req.PlayerID, req.ContractID)
	case "cancel_contract":
		data, err = s.Sim.CancelContract(req.PlayerID, req.ContractID)
	case "produce_unit":
		data, err = s.Sim.ProduceUnit(req.PlayerID, players.UnitKind(req.UnitKind))
	case "assign_raider":
		data, err = s.Sim.AssignRaider(req.PlayerID, req.UnitID, req.RouteID)
	case "recall_unit":
		data, err = s.Sim.RecallUnit(req.PlayerID, req.UnitID)
	case "list_unit":
		data, err = s.Sim.ListUnit(req.PlayerID, req.UnitID, req.Price)
	case "unlist_unit":
		data, err = s.Sim.UnlistUnit(req.PlayerID, req.UnitID)
	case "hire_unit":
		data, err = s.Sim.HireUnit(req.PlayerID, req.UnitID)
	default:
		http.Error(w, fmt.Sprintf("unknown action %q", req.Action), http.StatusBadRequest)
		return
	}

	if err != nil {
		writeReject(w, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true, "data": data})
}

// writeReject maps a rejection code onto an HTTP status and emits the
// structured code/detail pair.
func writeReject(w http.ResponseWriter, err error) {
	code := engine.RejectCode(err)
	status := http.StatusBadRequest
	switch code {
	case engine.ErrNotFound:
		status = http.StatusNotFound
	case engine.ErrRateLimit:
		status = http.StatusTooManyRequests
	case engine.ErrNoPermission:
		status = http.StatusForbidden
	case engine.ErrInternal:
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	detail := err.Error()
	if rej, ok := err.(*engine.Reject); ok {
		detail = rej.Detail
	}
	json.NewEncoder(w).Encode(map[string]any{"ok": false, "code": code, "detail": detail})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
