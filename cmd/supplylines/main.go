// Command supplylines runs the persistent logistics world server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/talgya/supply-lines/internal/api"
	"github.com/talgya/supply-lines/internal/engine"
	"github.com/talgya/supply-lines/internal/entropy"
	"github.com/talgya/supply-lines/internal/persistence"
	"github.com/talgya/supply-lines/internal/store"
	"github.com/talgya/supply-lines/internal/tuning"
	"github.com/talgya/supply-lines/internal/world"
)

func main() {
	var (
		dbPath     = flag.String("db", "data/supplylines.db", "SQLite database path")
		tuningPath = flag.String("tuning", "tuning.yaml", "balance configuration file")
		archiveDir = flag.String("archives", "archives", "season archive directory")
		apiPort    = flag.Int("port", 8080, "HTTP API port")
		seed       = flag.Int64("seed", 0, "world generation seed (0 = random)")
		zones      = flag.Int("zones", 0, "zone count override")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Supply Lines — persistent logistics world")

	tn, err := tuning.Load(*tuningPath)
	if err != nil {
		slog.Error("failed to load tuning", "error", err)
		os.Exit(1)
	}

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll("data", 0o755)
	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", *dbPath)

	// ── World state: restore or generate ──────────────────────────────
	st := store.NewMem()
	sim := engine.New(st, entropy.NewCrypto(), tn)

	if db.HasWorldState() {
		slog.Info("found saved world state, loading...")
		if err := db.LoadWorldState(st, sim); err != nil {
			slog.Error("failed to load world state", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Info("no saved state found, generating new world...")
		cfg := world.DefaultGenConfig()
		cfg.Seed = *seed
		if *zones > 0 {
			cfg.ZoneCount = *zones
		}
		gen := world.Generate(cfg)
		for _, z := range gen.Zones {
			st.PutZone(z)
		}
		for _, r := range gen.Routes {
			st.PutRoute(r)
		}
		slog.Info("world generated", "zones", len(gen.Zones), "routes", len(gen.Routes))
		if err := db.SaveWorldState(sim); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	// ── Event fan-out ─────────────────────────────────────────────────
	hub := api.NewHub()
	go hub.Run()

	sim.OnEvents = func(evts []engine.Event) {
		hub.BroadcastEvents(evts)
		if err := db.SaveEvents(evts); err != nil {
			slog.Error("event append failed", "error", err)
		}
	}
	sim.OnSeasonEnd = func(season int, scores map[string]int64) {
		slog.Info("season ended", "season", season, "factions", len(scores))
		if err := persistence.WriteSeasonArchive(*archiveDir, season, scores, st); err != nil {
			slog.Error("season archive failed", "season", season, "error", err)
		}
	}

	// ── Tick loop with daily autosave ─────────────────────────────────
	runner := engine.NewRunner(sim, slog.Default())
	ticksPerDay := uint64(tn.TicksPerDay)
	runner.OnTick = func(tick uint64) {
		if tick%ticksPerDay == 0 {
			if err := db.SaveWorldState(sim); err != nil {
				slog.Error("daily save failed", "error", err)
			}
		}
	}
	runner.Start(context.Background())

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{
		Sim:  sim,
		DB:   db,
		Hub:  hub,
		Port: *apiPort,
	}
	apiServer.Start()

	// ── Shutdown ──────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutting down...")
	runner.Stop()
	if err := db.SaveWorldState(sim); err != nil {
		slog.Error("final save failed", "error", err)
	}
	slog.Info("world saved, goodbye")
}
