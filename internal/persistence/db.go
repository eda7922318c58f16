// Package persistence provides SQLite-based world state storage.
// Saves are full-replace per table inside one transaction each; the event
// log is append-only.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/supply-lines/internal/contracts"
	"github.com/talgya/supply-lines/internal/economy"
	"github.com/talgya/supply-lines/internal/engine"
	"github.com/talgya/supply-lines/internal/intel"
	"github.com/talgya/supply-lines/internal/players"
	"github.com/talgya/supply-lines/internal/shipping"
	"github.com/talgya/supply-lines/internal/store"
	"github.com/talgya/supply-lines/internal/world"
)

// DB wraps a SQLite connection for world state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS zones (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		kind INTEGER NOT NULL,
		owner_id TEXT,
		supply_level REAL NOT NULL,
		burn_rate REAL NOT NULL,
		compliance_streak INTEGER NOT NULL,
		su_stockpile REAL NOT NULL,
		medkit_stockpile REAL NOT NULL,
		comms_stockpile REAL NOT NULL,
		garrison_level INTEGER NOT NULL,
		production_capacity INTEGER NOT NULL,
		resources_json TEXT NOT NULL,
		resource_capacity_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS routes (
		id TEXT PRIMARY KEY,
		from_zone TEXT NOT NULL,
		to_zone TEXT NOT NULL,
		distance INTEGER NOT NULL,
		capacity INTEGER NOT NULL,
		base_risk REAL NOT NULL,
		chokepoint REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		location_id TEXT NOT NULL,
		faction_id TEXT,
		credits INTEGER NOT NULL,
		reputation INTEGER NOT NULL,
		actions_today INTEGER NOT NULL,
		last_action_tick INTEGER NOT NULL,
		joined_tick INTEGER NOT NULL,
		inventory_json TEXT NOT NULL,
		licenses_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shipments (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		status TEXT NOT NULL,
		body_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS units (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		body_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY,
		zone_id TEXT NOT NULL,
		resource TEXT NOT NULL,
		body_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS advanced_orders (
		id INTEGER PRIMARY KEY,
		player_id TEXT NOT NULL,
		body_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS contracts (
		id TEXT PRIMARY KEY,
		poster_id TEXT NOT NULL,
		status TEXT NOT NULL,
		body_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS intel_reports (
		id TEXT PRIMARY KEY,
		player_id TEXT NOT NULL,
		body_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		type TEXT NOT NULL,
		actor_id TEXT,
		actor_type TEXT NOT NULL,
		data_json TEXT
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_orders_book ON orders(zone_id, resource);
	CREATE INDEX IF NOT EXISTS idx_shipments_status ON shipments(status);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveZones writes all zones to the database (full replace).
func (db *DB) SaveZones(zones []*world.Zone) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM zones"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO zones
		(id, name, kind, owner_id, supply_level, burn_rate, compliance_streak,
		 su_stockpile, medkit_stockpile, comms_stockpile, garrison_level,
		 production_capacity, resources_json, resource_capacity_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, z := range zones {
		resJSON, _ := json.Marshal(z.Resources)
		capJSON, _ := json.Marshal(z.ResourceCapacity)
		_, err := stmt.Exec(
			z.ID, z.Name, z.Kind, z.OwnerID, z.SupplyLevel, z.BurnRate,
			z.ComplianceStreak, z.SUStockpile, z.MedkitStockpile,
			z.CommsStockpile, z.GarrisonLevel, z.ProductionCapacity,
			string(resJSON), string(capJSON),
		)
		if err != nil {
			return fmt.Errorf("insert zone %s: %w", z.ID, err)
		}
	}

	return tx.Commit()
}

// SaveRoutes writes all routes to the database (full replace).
func (db *DB) SaveRoutes(routes []*world.Route) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM routes"); err != nil {
		return err
	}

	for _, r := range routes {
		_, err := tx.Exec(`INSERT INTO routes
			(id, from_zone, to_zone, distance, capacity, base_risk, chokepoint)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.From, r.To, r.Distance, r.Capacity, r.BaseRisk, r.Chokepoint,
		)
		if err != nil {
			return fmt.Errorf("insert route %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// SavePlayers writes all players to the database (full replace).
func (db *DB) SavePlayers(list []*players.Player) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM players"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO players
		(id, name, location_id, faction_id, credits, reputation,
		 actions_today, last_action_tick, joined_tick, inventory_json, licenses_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range list {
		invJSON, _ := json.Marshal(p.Inventory)
		licJSON, _ := json.Marshal(p.Licenses)
		_, err := stmt.Exec(
			p.ID, p.Name, p.LocationID, p.FactionID, p.Credits, p.Reputation,
			p.ActionsToday, p.LastActionTick, p.JoinedTick,
			string(invJSON), string(licJSON),
		)
		if err != nil {
			return fmt.Errorf("insert player %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// replaceJSON rewrites one id+keys+blob table in a single transaction.
func replaceJSON(tx *sqlx.Tx, table, insert string, rows func(stmt *sqlx.Stmt) error) error {
	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		return err
	}
	stmt, err := tx.Preparex(insert)
	if err != nil {
		return err
	}
	defer stmt.Close()
	return rows(stmt)
}

// SaveShipments writes all shipments to the database (full replace).
func (db *DB) SaveShipments(list []*shipping.Shipment) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = replaceJSON(tx, "shipments",
		"INSERT INTO shipments (id, owner_id, status, body_json) VALUES (?, ?, ?, ?)",
		func(stmt *sqlx.Stmt) error {
			for _, sh := range list {
				body, _ := json.Marshal(sh)
				if _, err := stmt.Exec(sh.ID, sh.PlayerID, string(sh.Status), string(body)); err != nil {
					return fmt.Errorf("insert shipment %s: %w", sh.ID, err)
				}
			}
			return nil
		})
	if err != nil {
		return err
	}
	return tx.Commit()
}

// SaveUnits writes all units to the database (full replace).
func (db *DB) SaveUnits(list []*players.Unit) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = replaceJSON(tx, "units",
		"INSERT INTO units (id, owner_id, kind, body_json) VALUES (?, ?, ?, ?)",
		func(stmt *sqlx.Stmt) error {
			for _, u := range list {
				body, _ := json.Marshal(u)
				if _, err := stmt.Exec(u.ID, u.OwnerID, string(u.Kind), string(body)); err != nil {
					return fmt.Errorf("insert unit %s: %w", u.ID, err)
				}
			}
			return nil
		})
	if err != nil {
		return err
	}
	return tx.Commit()
}

// SaveOrders writes all orders to the database (full replace).
func (db *DB) SaveOrders(list []*economy.Order) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = replaceJSON(tx, "orders",
		"INSERT INTO orders (id, zone_id, resource, body_json) VALUES (?, ?, ?, ?)",
		func(stmt *sqlx.Stmt) error {
			for _, o := range list {
				body, _ := json.Marshal(o)
				if _, err := stmt.Exec(o.ID, o.ZoneID, string(o.Resource), string(body)); err != nil {
					return fmt.Errorf("insert order %d: %w", o.ID, err)
				}
			}
			return nil
		})
	if err != nil {
		return err
	}
	return tx.Commit()
}

// SaveAdvancedOrders writes all advanced orders (full replace).
func (db *DB) SaveAdvancedOrders(list []*economy.AdvancedOrder) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = replaceJSON(tx, "advanced_orders",
		"INSERT INTO advanced_orders (id, player_id, body_json) VALUES (?, ?, ?)",
		func(stmt *sqlx.Stmt) error {
			for _, ao := range list {
				body, _ := json.Marshal(ao)
				if _, err := stmt.Exec(ao.ID, ao.PlayerID, string(body)); err != nil {
					return fmt.Errorf("insert advanced order %d: %w", ao.ID, err)
				}
			}
			return nil
		})
	if err != nil {
		return err
	}
	return tx.Commit()
}

// SaveContracts writes all contracts to the database (full replace).
func (db *DB) SaveContracts(list []*contracts.Contract) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = replaceJSON(tx, "contracts",
		"INSERT INTO contracts (id, poster_id, status, body_json) VALUES (?, ?, ?, ?)",
		func(stmt *sqlx.Stmt) error {
			for _, c := range list {
				body, _ := json.Marshal(c)
				if _, err := stmt.Exec(c.ID, c.PosterID, string(c.Status), string(body)); err != nil {
					return fmt.Errorf("insert contract %s: %w", c.ID, err)
				}
			}
			return nil
		})
	if err != nil {
		return err
	}
	return tx.Commit()
}

// SaveIntel writes all intel reports to the database (full replace).
func (db *DB) SaveIntel(list []*intel.Report) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = replaceJSON(tx, "intel_reports",
		"INSERT INTO intel_reports (id, player_id, body_json) VALUES (?, ?, ?)",
		func(stmt *sqlx.Stmt) error {
			for _, r := range list {
				body, _ := json.Marshal(r)
				if _, err := stmt.Exec(r.ID, r.PlayerID, string(body)); err != nil {
					return fmt.Errorf("insert intel %s: %w", r.ID, err)
				}
			}
			return nil
		})
	if err != nil {
		return err
	}
	return tx.Commit()
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		dataJSON, _ := json.Marshal(e.Data)
		_, err := tx.Exec(
			"INSERT INTO events (tick, type, actor_id, actor_type, data_json) VALUES (?, ?, ?, ?, ?)",
			e.Tick, string(e.Type), e.ActorID, e.ActorType, string(dataJSON),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// SaveWorldState performs a full save of simulation state.
func (db *DB) SaveWorldState(sim *engine.Simulation) error {
	st := sim.Store()
	week, season := sim.Calendar()
	slog.Info("saving world state",
		"tick", sim.CurrentTick(),
		"zones", len(st.Zones()),
		"players", len(st.Players()),
	)

	if err := db.SaveZones(st.Zones()); err != nil {
		return fmt.Errorf("save zones: %w", err)
	}
	if err := db.SaveRoutes(st.Routes()); err != nil {
		return fmt.Errorf("save routes: %w", err)
	}
	if err := db.SavePlayers(st.Players()); err != nil {
		return fmt.Errorf("save players: %w", err)
	}
	if err := db.SaveShipments(st.Shipments()); err != nil {
		return fmt.Errorf("save shipments: %w", err)
	}
	if err := db.SaveUnits(st.Units()); err != nil {
		return fmt.Errorf("save units: %w", err)
	}
	if err := db.SaveOrders(st.OpenOrders()); err != nil {
		return fmt.Errorf("save orders: %w", err)
	}
	if err := db.SaveAdvancedOrders(st.AdvancedOrders()); err != nil {
		return fmt.Errorf("save advanced orders: %w", err)
	}
	if err := db.SaveContracts(st.Contracts()); err != nil {
		return fmt.Errorf("save contracts: %w", err)
	}
	if err := db.SaveIntel(st.IntelReports()); err != nil {
		return fmt.Errorf("save intel: %w", err)
	}

	scoresJSON, _ := json.Marshal(sim.SeasonScores())
	meta := map[string]string{
		"last_tick":     strconv.FormatUint(sim.CurrentTick(), 10),
		"week":          strconv.Itoa(week),
		"season":        strconv.Itoa(season),
		"next_order_id": strconv.FormatUint(st.NextOrderID(), 10),
		"season_scores": string(scoresJSON),
	}
	for k, v := range meta {
		if err := db.SaveMeta(k, v); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	slog.Info("world state saved")
	return nil
}

// HasWorldState reports whether a previous save exists.
func (db *DB) HasWorldState() bool {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM zones"); err != nil {
		return false
	}
	return n > 0
}

// LoadWorldState populates the store and clock from the last save.
func (db *DB) LoadWorldState(st store.Store, sim *engine.Simulation) error {
	if err := db.loadZones(st); err != nil {
		return fmt.Errorf("load zones: %w", err)
	}
	if err := db.loadRoutes(st); err != nil {
		return fmt.Errorf("load routes: %w", err)
	}
	if err := db.loadPlayers(st); err != nil {
		return fmt.Errorf("load players: %w", err)
	}
	if err := loadJSON(db, "shipments", func(sh *shipping.Shipment) { st.PutShipment(sh) }); err != nil {
		return fmt.Errorf("load shipments: %w", err)
	}
	if err := loadJSON(db, "units", func(u *players.Unit) { st.PutUnit(u) }); err != nil {
		return fmt.Errorf("load units: %w", err)
	}
	if err := loadJSON(db, "orders", func(o *economy.Order) { st.PutOrder(o) }); err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	if err := loadJSON(db, "advanced_orders", func(ao *economy.AdvancedOrder) { st.PutAdvancedOrder(ao) }); err != nil {
		return fmt.Errorf("load advanced orders: %w", err)
	}
	if err := loadJSON(db, "contracts", func(c *contracts.Contract) { st.PutContract(c) }); err != nil {
		return fmt.Errorf("load contracts: %w", err)
	}
	if err := loadJSON(db, "intel_reports", func(r *intel.Report) { st.PutIntel(r) }); err != nil {
		return fmt.Errorf("load intel: %w", err)
	}

	tick := metaUint(db, "last_tick")
	week := int(metaUint(db, "week"))
	season := int(metaUint(db, "season"))
	if raw, err := db.GetMeta("next_order_id"); err == nil {
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
			st.SetNextOrderID(n)
		}
	}
	scores := map[string]int64{}
	if raw, err := db.GetMeta("season_scores"); err == nil {
		json.Unmarshal([]byte(raw), &scores)
	}
	sim.RestoreClock(tick, week, season, scores)

	slog.Info("world state restored", "tick", tick, "week", week, "season", season)
	return nil
}

func metaUint(db *DB, key string) uint64 {
	raw, err := db.GetMeta(key)
	if err != nil {
		return 0
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// loadJSON reads every body_json blob of a table into entities.
func loadJSON[T any](db *DB, table string, put func(*T)) error {
	var blobs []string
	if err := db.conn.Select(&blobs, "SELECT body_json FROM "+table); err != nil {
		return err
	}
	for _, raw := range blobs {
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return fmt.Errorf("decode %s row: %w", table, err)
		}
		put(&v)
	}
	return nil
}

type zoneRow struct {
	ID                   string  `db:"id"`
	Name                 string  `db:"name"`
	Kind                 uint8   `db:"kind"`
	OwnerID              string  `db:"owner_id"`
	SupplyLevel          float64 `db:"supply_level"`
	BurnRate             float64 `db:"burn_rate"`
	ComplianceStreak     int     `db:"compliance_streak"`
	SUStockpile          float64 `db:"su_stockpile"`
	MedkitStockpile      float64 `db:"medkit_stockpile"`
	CommsStockpile       float64 `db:"comms_stockpile"`
	GarrisonLevel        int     `db:"garrison_level"`
	ProductionCapacity   int     `db:"production_capacity"`
	ResourcesJSON        string  `db:"resources_json"`
	ResourceCapacityJSON string  `db:"resource_capacity_json"`
}

func (db *DB) loadZones(st store.Store) error {
	var rows []zoneRow
	if err := db.conn.Select(&rows, "SELECT * FROM zones"); err != nil {
		return err
	}
	for _, r := range rows {
		z := &world.Zone{
			ID:                 r.ID,
			Name:               r.Name,
			Kind:               world.ZoneKind(r.Kind),
			OwnerID:            r.OwnerID,
			SupplyLevel:        r.SupplyLevel,
			BurnRate:           r.BurnRate,
			ComplianceStreak:   r.ComplianceStreak,
			SUStockpile:        r.SUStockpile,
			MedkitStockpile:    r.MedkitStockpile,
			CommsStockpile:     r.CommsStockpile,
			GarrisonLevel:      r.GarrisonLevel,
			ProductionCapacity: r.ProductionCapacity,
		}
		if err := json.Unmarshal([]byte(r.ResourcesJSON), &z.Resources); err != nil {
			return fmt.Errorf("zone %s resources: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(r.ResourceCapacityJSON), &z.ResourceCapacity); err != nil {
			return fmt.Errorf("zone %s capacity: %w", r.ID, err)
		}
		st.PutZone(z)
	}
	return nil
}

type routeRow struct {
	ID         string  `db:"id"`
	FromZone   string  `db:"from_zone"`
	ToZone     string  `db:"to_zone"`
	Distance   int     `db:"distance"`
	Capacity   int     `db:"capacity"`
	BaseRisk   float64 `db:"base_risk"`
	Chokepoint float64 `db:"chokepoint"`
}

func (db *DB) loadRoutes(st store.Store) error {
	var rows []routeRow
	if err := db.conn.Select(&rows, "SELECT * FROM routes"); err != nil {
		return err
	}
	for _, r := range rows {
		st.PutRoute(&world.Route{
			ID:         r.ID,
			From:       r.FromZone,
			To:         r.ToZone,
			Distance:   r.Distance,
			Capacity:   r.Capacity,
			BaseRisk:   r.BaseRisk,
			Chokepoint: r.Chokepoint,
		})
	}
	return nil
}

type playerRow struct {
	ID             string `db:"id"`
	Name           string `db:"name"`
	LocationID     string `db:"location_id"`
	FactionID      string `db:"faction_id"`
	Credits        int64  `db:"credits"`
	Reputation     int    `db:"reputation"`
	ActionsToday   int    `db:"actions_today"`
	LastActionTick uint64 `db:"last_action_tick"`
	JoinedTick     uint64 `db:"joined_tick"`
	InventoryJSON  string `db:"inventory_json"`
	LicensesJSON   string `db:"licenses_json"`
}

func (db *DB) loadPlayers(st store.Store) error {
	var rows []playerRow
	if err := db.conn.Select(&rows, "SELECT * FROM players"); err != nil {
		return err
	}
	for _, r := range rows {
		p := &players.Player{
			ID:             r.ID,
			Name:           r.Name,
			LocationID:     r.LocationID,
			FactionID:      r.FactionID,
			Credits:        r.Credits,
			Reputation:     r.Reputation,
			ActionsToday:   r.ActionsToday,
			LastActionTick: r.LastActionTick,
			JoinedTick:     r.JoinedTick,
		}
		if err := json.Unmarshal([]byte(r.InventoryJSON), &p.Inventory); err != nil {
			return fmt.Errorf("player %s inventory: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(r.LicensesJSON), &p.Licenses); err != nil {
			return fmt.Errorf("player %s licenses: %w", r.ID, err)
		}
		st.PutPlayer(p)
	}
	return nil
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	type row struct {
		Tick      uint64 `db:"tick"`
		Type      string `db:"type"`
		ActorID   string `db:"actor_id"`
		ActorType string `db:"actor_type"`
		DataJSON  string `db:"data_json"`
	}
	var rows []row
	err := db.conn.Select(&rows,
		"SELECT tick, type, actor_id, actor_type, data_json FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	events := make([]engine.Event, 0, len(rows))
	for _, r := range rows {
		e := engine.Event{
			Tick:      r.Tick,
			Type:      engine.EventType(r.Type),
			ActorID:   r.ActorID,
			ActorType: r.ActorType,
		}
		if r.DataJSON != "" {
			json.Unmarshal([]byte(r.DataJSON), &e.Data)
		}
		events = append(events, e)
	}
	return events, nil
}
