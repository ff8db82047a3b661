package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const latestName = "latest_snapshot.json"

// Store persists combined snapshots as JSON files in a directory. The
// current snapshot always lives at latest_snapshot.json; every save also
// leaves a timestamped copy behind for inspection.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads the current snapshot. A missing file is not an error: it
// returns (nil, nil) so the caller treats the run as a cold start.
func (s *Store) Load() (*Combined, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, latestName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var c Combined
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &c, nil
}

// Save writes the combined snapshot to latest_snapshot.json and to a
// timestamped backup named after the horizon that triggered the save.
// Concurrent horizon runs are last-writer-wins on the latest file.
func (s *Store) Save(c *Combined, horizon string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("snapshot dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, latestName), data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	backup := fmt.Sprintf("snapshot_%s_%s.json", horizon, c.Meta.LastUpdated.UTC().Format("20060102T150405Z"))
	if err := os.WriteFile(filepath.Join(s.dir, backup), data, 0o644); err != nil {
		return fmt.Errorf("write snapshot backup: %w", err)
	}
	return nil
}

// Prune removes timestamped backups older than keep, never touching the
// latest file.
func (s *Store) Prune(keep time.Duration, now time.Time) error {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}

	cutoff := now.Add(-keep)
	for _, e := range entries {
		if e.IsDir() || e.Name() == latestName {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(s.dir, e.Name()))
		}
	}
	return nil
}
