package updater

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/kjanat/voltamanager/internal/snapshot"
)

// RollbackDeps are the rollback executor's collaborators.
type RollbackDeps struct {
	LoadSnapshot func() (map[string]string, error)
	Install      func(specs []string) int
	Confirm      func(prompt string) bool
	Record       func(operation string, packages []string)

	Out io.Writer
}

// Rollback re-installs the exact versions pinned in the last pre-update
// snapshot. With selected names, only matching snapshot entries are
// restored; requested names missing from the snapshot are reported as
// skipped without failing the operation. force skips the confirmation
// prompt.
func Rollback(selected []string, force bool, deps RollbackDeps) int {
	out := deps.Out
	if out == nil {
		out = io.Discard
	}

	pins, err := deps.LoadSnapshot()
	if err != nil {
		if errors.Is(err, snapshot.ErrNoSnapshot) {
			fmt.Fprintln(out, "No snapshot found. Run an update first to create one.")
		} else {
			fmt.Fprintf(out, "Failed to read snapshot: %v\n", err)
		}
		return 1
	}

	if len(selected) > 0 {
		filtered := map[string]string{}
		for _, name := range selected {
			if version, ok := pins[name]; ok {
				filtered[name] = version
			} else {
				fmt.Fprintf(out, "Warning: %s not in snapshot, skipping\n", name)
			}
		}
		if len(filtered) == 0 {
			fmt.Fprintln(out, "None of the specified packages found in snapshot.")
			return 1
		}
		pins = filtered
	}

	names := make([]string, 0, len(pins))
	for name := range pins {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]string, 0, len(names))
	for _, name := range names {
		specs = append(specs, name+"@"+pins[name])
	}

	if !force && deps.Confirm != nil {
		if !deps.Confirm(fmt.Sprintf("Roll back %d package(s)?", len(specs))) {
			fmt.Fprintln(out, "Rollback cancelled.")
			return 0
		}
	}

	fmt.Fprintf(out, "Rolling back %d package(s)...\n", len(specs))
	code := deps.Install(specs)
	if code != 0 {
		fmt.Fprintf(out, "Rollback failed with code %d\n", code)
		return code
	}

	fmt.Fprintln(out, "Rollback complete")
	fmt.Fprintf(out, "Rolled back %d packages\n", len(specs))
	if deps.Record != nil {
		deps.Record("rollback", specs)
	}
	return 0
}
