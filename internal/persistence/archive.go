package persistence

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/talgya/supply-lines/internal/store"
)

// seasonSnapshot is the archived end-of-season world image.
type seasonSnapshot struct {
	Season   int              `json:"season"`
	Scores   map[string]int64 `json:"scores"`
	Zones    any              `json:"zones"`
	Players  any              `json:"players"`
	Units    any              `json:"units"`
	Archived time.Time        `json:"archived"`
}

type archiveMeta struct {
	Season   int              `json:"season"`
	Scores   map[string]int64 `json:"scores"`
	Archived time.Time        `json:"archived"`
}

// WriteSeasonArchive snapshots the pre-reset world into
// <dir>/season_NNN/world.json.zst plus an uncompressed meta.json with the
// final standings.
func WriteSeasonArchive(dir string, season int, scores map[string]int64, st store.Store) error {
	seasonDir := filepath.Join(dir, fmt.Sprintf("season_%03d", season))
	if err := os.MkdirAll(seasonDir, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	now := time.Now().UTC()
	snap := seasonSnapshot{
		Season:   season,
		Scores:   scores,
		Zones:    st.Zones(),
		Players:  st.Players(),
		Units:    st.Units(),
		Archived: now,
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	f, err := os.Create(filepath.Join(seasonDir, "world.json.zst"))
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		return fmt.Errorf("write archive: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush archive: %w", err)
	}

	meta, _ := json.MarshalIndent(archiveMeta{Season: season, Scores: scores, Archived: now}, "", "  ")
	if err := os.WriteFile(filepath.Join(seasonDir, "meta.json"), meta, 0o644); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	return nil
}

// ReadSeasonArchive decompresses an archived season snapshot.
func ReadSeasonArchive(dir string, season int) ([]byte, error) {
	path := filepath.Join(dir, fmt.Sprintf("season_%03d", season), "world.json.zst")
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}
