package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// entry mirrors the on-disk schema: {"v": version, "ts": unix seconds}.
type entry struct {
	Version   string  `json:"v"`
	Timestamp float64 `json:"ts"`
}

// Store is a TTL-based latest-version cache backed by a single JSON file.
// One Store is constructed per process run; an in-memory shadow avoids
// re-reading the file until its modification time changes.
type Store struct {
	fs   afero.Fs
	path string
	now  func() time.Time

	mem      map[string]entry
	memMtime time.Time
}

// DefaultPath returns the shared cache file location,
// ~/.cache/voltamanager/versions.json on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate cache directory: %w", err)
	}
	return filepath.Join(dir, "voltamanager", "versions.json"), nil
}

// New creates a cache store over the given filesystem and file path.
func New(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path, now: time.Now}
}

// load reads the cache file, reusing the in-memory shadow when the file is
// unchanged. A missing or unparseable file is an empty cache, never an error.
func (s *Store) load() map[string]entry {
	info, err := s.fs.Stat(s.path)
	if err != nil {
		s.mem = map[string]entry{}
		s.memMtime = time.Time{}
		return s.mem
	}

	if s.mem != nil && info.ModTime().Equal(s.memMtime) {
		return s.mem
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		s.mem = map[string]entry{}
		s.memMtime = time.Time{}
		return s.mem
	}

	var entries map[string]entry
	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		entries = map[string]entry{}
	}
	s.mem = entries
	s.memMtime = info.ModTime()
	return s.mem
}

func (s *Store) save(entries map[string]entry) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	s.mem = entries
	if info, err := s.fs.Stat(s.path); err == nil {
		s.memMtime = info.ModTime()
	}
	return nil
}

// Get returns the cached latest version for a package, or false when no
// entry exists or the entry's age has reached ttlHours.
func (s *Store) Get(name string, ttlHours float64) (string, bool) {
	e, ok := s.load()[name]
	if !ok || e.Version == "" {
		return "", false
	}
	age := float64(s.now().Unix()) - e.Timestamp
	if age >= ttlHours*3600 {
		return "", false
	}
	return e.Version, true
}

// Set upserts a package's latest version with the current timestamp and
// persists immediately.
func (s *Store) Set(name, version string) error {
	entries := s.load()
	entries[name] = entry{Version: version, Timestamp: float64(s.now().Unix())}
	return s.save(entries)
}

// Clear removes every cached entry.
func (s *Store) Clear() error {
	if err := s.fs.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache file: %w", err)
	}
	s.mem = nil
	s.memMtime = time.Time{}
	return nil
}

// Stats summarizes the cache contents for display.
type Stats struct {
	Path    string
	Entries int
	Oldest  time.Time
	Newest  time.Time
}

// Stats reports the number of cached entries and their age range.
func (s *Store) Stats() Stats {
	entries := s.load()
	stats := Stats{Path: s.path, Entries: len(entries)}
	for _, e := range entries {
		ts := time.Unix(int64(e.Timestamp), 0)
		if stats.Oldest.IsZero() || ts.Before(stats.Oldest) {
			stats.Oldest = ts
		}
		if stats.Newest.IsZero() || ts.After(stats.Newest) {
			stats.Newest = ts
		}
	}
	return stats
}
