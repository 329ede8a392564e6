package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrNoSnapshot is returned by Load when no snapshot has been written yet.
var ErrNoSnapshot = errors.New("no snapshot found")

// Store persists the name -> installed-version map captured immediately
// before an update. The file is overwritten wholesale on each update run.
type Store struct {
	fs   afero.Fs
	path string
}

// DefaultPath returns ~/.voltamanager/last_snapshot.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".voltamanager", "last_snapshot.json"), nil
}

// New creates a snapshot store over the given filesystem and file path.
func New(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Save writes the pinned versions, replacing any previous snapshot.
func (s *Store) Save(pins map[string]string) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	data, err := json.MarshalIndent(pins, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Load reads the last snapshot. Returns ErrNoSnapshot when none exists.
func (s *Store) Load() (map[string]string, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var pins map[string]string
	if err := json.Unmarshal(data, &pins); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return pins, nil
}
