package snapshot

import (
	"errors"
	"reflect"
	"testing"

	"github.com/spf13/afero"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(afero.NewMemMapFs(), "/home/.voltamanager/last_snapshot.json")

	pins := map[string]string{
		"typescript": "5.0.0",
		"@vue/cli":   "5.0.8",
	}
	if err := store.Save(pins); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, pins) {
		t.Errorf("Load = %v, want %v", got, pins)
	}
}

func TestLoadMissing(t *testing.T) {
	store := New(afero.NewMemMapFs(), "/home/.voltamanager/last_snapshot.json")

	if _, err := store.Load(); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load on missing file = %v, want ErrNoSnapshot", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := New(afero.NewMemMapFs(), "/home/.voltamanager/last_snapshot.json")

	if err := store.Save(map[string]string{"typescript": "4.9.5", "eslint": "8.0.0"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(map[string]string{"prettier": "3.0.0"}); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got["prettier"] != "3.0.0" {
		t.Errorf("old snapshot entries survived overwrite: %v", got)
	}
}

func TestLoadCorrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/snap.json", []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := New(fs, "/snap.json")

	if _, err := store.Load(); err == nil || errors.Is(err, ErrNoSnapshot) {
		t.Errorf("corrupt snapshot error = %v, want parse failure distinct from ErrNoSnapshot", err)
	}
}
