package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/talgya/supply-lines/internal/players"
	"github.com/talgya/supply-lines/internal/store"
	"github.com/talgya/supply-lines/internal/world"
)

func TestSeasonArchiveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	st := store.NewMem()
	st.PutZone(&world.Zone{
		ID: "zone-001", Name: "Saltgate", Kind: world.ZoneHub,
		OwnerID: "northern-league", SupplyLevel: 95,
		Resources: map[world.Resource]int{},
	})
	st.PutPlayer(&players.Player{
		ID: "p-1", Name: "alice", LocationID: "zone-001", Credits: 800,
		Inventory: map[world.Resource]int{},
	})

	scores := map[string]int64{"northern-league": 120, "iron-compact": 45}
	if err := WriteSeasonArchive(dir, 3, scores, st); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	raw, err := ReadSeasonArchive(dir, 3)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}

	var snap struct {
		Season  int              `json:"season"`
		Scores  map[string]int64 `json:"scores"`
		Zones   []*world.Zone    `json:"zones"`
		Players []struct {
			Name    string `json:"name"`
			Credits int64  `json:"credits"`
		} `json:"players"`
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Season != 3 {
		t.Fatalf("season = %d, want 3", snap.Season)
	}
	if snap.Scores["northern-league"] != 120 || snap.Scores["iron-compact"] != 45 {
		t.Fatalf("scores = %v", snap.Scores)
	}
	if len(snap.Zones) != 1 || snap.Zones[0].OwnerID != "northern-league" {
		t.Fatalf("zones = %+v", snap.Zones)
	}
	if len(snap.Players) != 1 || snap.Players[0].Credits != 800 {
		t.Fatalf("players = %+v", snap.Players)
	}

	// Standings are also readable without decompressing anything.
	metaRaw, err := os.ReadFile(filepath.Join(dir, "season_003", "meta.json"))
	if err != nil {
		t.Fatalf("read meta: %v", err)
	}
	var meta struct {
		Season int              `json:"season"`
		Scores map[string]int64 `json:"scores"`
	}
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		t.Fatal(err)
	}
	if meta.Season != 3 || meta.Scores["northern-league"] != 120 {
		t.Fatalf("meta = %+v", meta)
	}
}

func TestReadMissingArchive(t *testing.T) {
	if _, err := ReadSeasonArchive(t.TempDir(), 9); err == nil {
		t.Fatal("missing archive must error")
	}
}
