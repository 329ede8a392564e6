// Package testutil holds small helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"
)

// TempHome points the user's home and XDG directories at a fresh temp
// directory for the duration of the test, so tests never touch the real
// cache, config, or history files.
func TempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	return home
}
