package history

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func newTestRecorder() *Recorder {
	return New(afero.NewMemMapFs(), "/home/.voltamanager/history.log")
}

func TestRecordAndTail(t *testing.T) {
	r := newTestRecorder()

	r.Record("snapshot", []string{"typescript", "eslint"})
	r.Record("batch_update", []string{"typescript@latest"})

	lines, err := r.Tail(10)
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "operation=snapshot") || !strings.Contains(lines[0], "count=2") {
		t.Errorf("unexpected first line: %s", lines[0])
	}
	if !strings.Contains(lines[1], "packages=typescript@latest") {
		t.Errorf("unexpected second line: %s", lines[1])
	}
	// Entries from one run share a run ID
	if !strings.Contains(lines[1], "run=") {
		t.Errorf("missing run ID: %s", lines[1])
	}
}

func TestTailLimit(t *testing.T) {
	r := newTestRecorder()
	for i := 0; i < 5; i++ {
		r.Record("check", nil)
	}

	lines, err := r.Tail(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 3 {
		t.Errorf("Tail(3) returned %d lines", len(lines))
	}
}

func TestTailMissingFile(t *testing.T) {
	r := newTestRecorder()
	lines, err := r.Tail(10)
	if err != nil {
		t.Fatalf("Tail on missing file errored: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected no lines, got %v", lines)
	}
}

func TestStats(t *testing.T) {
	r := newTestRecorder()

	r.Record("check", nil)
	r.Record("check", nil)
	r.Record("snapshot", []string{"a"})
	r.Record("batch_update", []string{"a@latest"})
	r.RecordError("batch_update", "install failed with code 2")

	stats, err := r.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalLines != 5 {
		t.Errorf("TotalLines = %d, want 5", stats.TotalLines)
	}
	if stats.Operations["check"] != 2 {
		t.Errorf("check count = %d, want 2", stats.Operations["check"])
	}
	if stats.Updates != 2 {
		// one success line plus one error line, both tagged batch_update
		t.Errorf("Updates = %d, want 2", stats.Updates)
	}
	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}

	// batch_update and check both have two entries; ties break alphabetically
	sorted := stats.OperationsSorted()
	want := []string{"batch_update", "check", "snapshot"}
	for i, name := range want {
		if sorted[i] != name {
			t.Fatalf("OperationsSorted = %v, want %v", sorted, want)
		}
	}
}

func TestStatsMissingFile(t *testing.T) {
	r := newTestRecorder()
	stats, err := r.Stats()
	if err != nil {
		t.Fatalf("Stats on missing file errored: %v", err)
	}
	if stats.TotalLines != 0 {
		t.Errorf("TotalLines = %d, want 0", stats.TotalLines)
	}
}
