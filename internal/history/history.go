package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Recorder appends operation records to the history file. All entries from
// one process run share a short run ID so multi-step operations can be
// correlated afterwards.
type Recorder struct {
	fs    afero.Fs
	path  string
	runID string
	now   func() time.Time
}

// DefaultPath returns ~/.voltamanager/history.log.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".voltamanager", "history.log"), nil
}

// New creates a recorder writing to the given history file.
func New(fs afero.Fs, path string) *Recorder {
	return &Recorder{
		fs:    fs,
		path:  path,
		runID: uuid.NewString()[:8],
		now:   time.Now,
	}
}

// Record appends one operation line. Recording is best-effort: a failure to
// write history never fails the operation itself.
func (r *Recorder) Record(operation string, packages []string) {
	if err := r.fs.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return
	}
	f, err := r.fs.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	line := fmt.Sprintf("%s run=%s operation=%s count=%d",
		r.now().Format(time.RFC3339), r.runID, operation, len(packages))
	if len(packages) > 0 {
		line += " packages=" + strings.Join(packages, ",")
	}
	fmt.Fprintln(f, line)
}

// RecordError appends an error line for a failed operation.
func (r *Recorder) RecordError(operation string, message string) {
	if err := r.fs.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return
	}
	f, err := r.fs.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	fmt.Fprintf(f, "%s run=%s operation=%s error=%q\n",
		r.now().Format(time.RFC3339), r.runID, operation, message)
}

// Tail returns up to n most recent history lines, oldest first.
func (r *Recorder) Tail(n int) ([]string, error) {
	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	lines := nonEmptyLines(string(data))
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// Stats summarizes the history file.
type Stats struct {
	TotalLines int
	Operations map[string]int
	Errors     int
	Updates    int
}

// OperationsSorted returns operation names ordered by descending count.
func (s Stats) OperationsSorted() []string {
	names := make([]string, 0, len(s.Operations))
	for name := range s.Operations {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.Operations[names[i]] != s.Operations[names[j]] {
			return s.Operations[names[i]] > s.Operations[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// Stats aggregates operation counts from the history file. A missing file
// yields zero stats.
func (r *Recorder) Stats() (Stats, error) {
	stats := Stats{Operations: map[string]int{}}

	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, fmt.Errorf("failed to read history: %w", err)
	}

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		stats.TotalLines++
		if strings.Contains(line, " error=") {
			stats.Errors++
		}
		for _, field := range strings.Fields(line) {
			if op, ok := strings.CutPrefix(field, "operation="); ok {
				stats.Operations[op]++
				if op == "batch_update" {
					stats.Updates++
				}
			}
		}
	}
	return stats, nil
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
