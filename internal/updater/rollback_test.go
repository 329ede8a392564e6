package updater

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/kjanat/voltamanager/internal/snapshot"
)

type rollbackHarness struct {
	pins      map[string]string
	loadErr   error
	out       bytes.Buffer
	installed [][]string
	installRC int
	confirmed bool
	records   []string
}

func (h *rollbackHarness) deps() RollbackDeps {
	return RollbackDeps{
		LoadSnapshot: func() (map[string]string, error) {
			if h.loadErr != nil {
				return nil, h.loadErr
			}
			return h.pins, nil
		},
		Install: func(specs []string) int {
			h.installed = append(h.installed, specs)
			return h.installRC
		},
		Confirm: func(string) bool { return h.confirmed },
		Record:  func(op string, _ []string) { h.records = append(h.records, op) },
		Out:     &h.out,
	}
}

func TestRollbackAll(t *testing.T) {
	h := &rollbackHarness{pins: map[string]string{
		"typescript": "5.0.0",
		"eslint":     "8.0.0",
		"@vue/cli":   "5.0.8",
	}}

	code := Rollback(nil, true, h.deps())
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if len(h.installed) != 1 {
		t.Fatalf("installs = %v", h.installed)
	}
	want := []string{"@vue/cli@5.0.8", "eslint@8.0.0", "typescript@5.0.0"}
	if !reflect.DeepEqual(h.installed[0], want) {
		t.Errorf("specs = %v, want %v", h.installed[0], want)
	}
	if !strings.Contains(h.out.String(), "Rollback complete") {
		t.Errorf("missing completion message: %s", h.out.String())
	}
	if len(h.records) != 1 || h.records[0] != "rollback" {
		t.Errorf("records = %v", h.records)
	}
}

func TestRollbackSelected(t *testing.T) {
	h := &rollbackHarness{pins: map[string]string{
		"typescript": "5.0.0",
		"eslint":     "8.0.0",
		"prettier":   "3.0.0",
	}}

	code := Rollback([]string{"typescript", "eslint"}, true, h.deps())
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	want := []string{"eslint@8.0.0", "typescript@5.0.0"}
	if !reflect.DeepEqual(h.installed[0], want) {
		t.Errorf("specs = %v, want %v", h.installed[0], want)
	}
	if !strings.Contains(h.out.String(), "Rolled back 2 packages") {
		t.Errorf("missing count message: %s", h.out.String())
	}
}

func TestRollbackPartialMatch(t *testing.T) {
	h := &rollbackHarness{pins: map[string]string{
		"a": "1.0.0",
		"b": "2.0.0",
		"c": "3.0.0",
	}}

	code := Rollback([]string{"a", "z"}, true, h.deps())
	if code != 0 {
		t.Fatalf("partial match failed the operation: code = %d", code)
	}
	if !reflect.DeepEqual(h.installed[0], []string{"a@1.0.0"}) {
		t.Errorf("specs = %v, want only the matched package", h.installed[0])
	}
	if !strings.Contains(h.out.String(), "z not in snapshot") {
		t.Errorf("missing skip warning: %s", h.out.String())
	}
}

func TestRollbackNoneMatched(t *testing.T) {
	h := &rollbackHarness{pins: map[string]string{"a": "1.0.0"}}

	code := Rollback([]string{"x", "y"}, true, h.deps())
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if len(h.installed) != 0 {
		t.Error("install invoked with no matching packages")
	}
	if !strings.Contains(h.out.String(), "None of the specified packages found in snapshot") {
		t.Errorf("missing none-matched message: %s", h.out.String())
	}
}

func TestRollbackNoSnapshot(t *testing.T) {
	h := &rollbackHarness{loadErr: snapshot.ErrNoSnapshot}

	code := Rollback(nil, true, h.deps())
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(h.out.String(), "No snapshot found") {
		t.Errorf("missing no-snapshot message: %s", h.out.String())
	}
}

func TestRollbackConfirmDeclined(t *testing.T) {
	h := &rollbackHarness{pins: map[string]string{"a": "1.0.0"}, confirmed: false}

	code := Rollback(nil, false, h.deps())
	if code != 0 {
		t.Errorf("exit code = %d, declining is a success no-op", code)
	}
	if len(h.installed) != 0 {
		t.Error("install ran after declined confirmation")
	}
	if !strings.Contains(h.out.String(), "Rollback cancelled") {
		t.Errorf("missing cancellation message: %s", h.out.String())
	}
}

func TestRollbackInstallFailurePropagates(t *testing.T) {
	h := &rollbackHarness{pins: map[string]string{"a": "1.0.0"}, installRC: 3}

	if code := Rollback(nil, true, h.deps()); code != 3 {
		t.Errorf("exit code = %d, want installer's 3", code)
	}
}
