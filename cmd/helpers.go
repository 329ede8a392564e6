package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/kjanat/voltamanager/internal/cache"
	"github.com/kjanat/voltamanager/internal/config"
	"github.com/kjanat/voltamanager/internal/disk"
	"github.com/kjanat/voltamanager/internal/display"
	"github.com/kjanat/voltamanager/internal/history"
	"github.com/kjanat/voltamanager/internal/registry"
	"github.com/kjanat/voltamanager/internal/snapshot"
	"github.com/kjanat/voltamanager/internal/status"
	"github.com/kjanat/voltamanager/internal/updater"
	"github.com/kjanat/voltamanager/internal/volta"
)

const maxMajorUpdatesShown = 5

// checkAndRun wires the real collaborators and drives one orchestrator
// invocation. renderCheck and renderDryRun come from the calling command
// since output format flags differ per command.
func checkAndRun(opts updater.Options, renderCheck func([]status.Record), renderDryRun func([]string, []status.Record)) error {
	if err := volta.CheckDependencies(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitWith(codeDependencyMissing)
	}

	tokens, err := volta.ListPackages()
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		fmt.Println("No Volta-managed packages found.")
		return nil
	}

	settings := config.Load()
	opts.IncludeProject = opts.IncludeProject || settings.IncludeProject

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to locate home directory: %w", err)
	}

	deps := updater.Deps{
		Settings:     settings,
		Resolver:     registry.New(),
		Install:      volta.Install,
		FreeMB:       func() int64 { return disk.FreeMB(home) },
		Confirm:      confirmPrompt,
		RenderCheck:  renderCheck,
		RenderDryRun: renderDryRun,
		Progress:     newProgressPrinter(),
		Out:          os.Stdout,
	}

	if store, err := newCacheStore(); err == nil {
		deps.Cache = store
	} else if verbose {
		fmt.Fprintf(os.Stderr, "version cache disabled: %v\n", err)
	}

	snapStore, err := newSnapshotStore()
	if err != nil {
		return err
	}
	deps.SaveSnapshot = snapStore.Save

	if recorder, err := newRecorder(); err == nil {
		deps.Record = recorder.Record
		deps.RecordError = recorder.RecordError
	}

	res := updater.Run(context.Background(), tokens, opts, deps)
	return exitWith(res.ExitCode)
}

// renderCheckFunc builds the check-results renderer for the selected
// output format.
func renderCheckFunc(asJSON, asToon, outdatedOnly bool) func([]status.Record) {
	return func(records []status.Record) {
		switch {
		case asJSON:
			out, err := display.JSON(records)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return
			}
			fmt.Println(out)
		case asToon:
			out, err := display.Toon(records)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return
			}
			fmt.Println(out)
		default:
			fmt.Print(display.Table(records, outdatedOnly))
			fmt.Println()
			fmt.Print(display.Statistics(records))
			if warning := display.MajorUpdateWarning(records, maxMajorUpdatesShown); warning != "" {
				fmt.Println()
				fmt.Print(warning)
			}
			if n := display.MinorUpdateCount(records); n > 0 {
				fmt.Printf("\n%d minor/patch updates available (typically safe)\n", n)
			}
		}
	}
}

func renderDryRunFunc() func([]string, []status.Record) {
	return func(plan []string, records []status.Record) {
		fmt.Print(display.DryRunReport(plan, records))
	}
}

func newCacheStore() (*cache.Store, error) {
	path, err := cache.DefaultPath()
	if err != nil {
		return nil, err
	}
	return cache.New(afero.NewOsFs(), path), nil
}

func newSnapshotStore() (*snapshot.Store, error) {
	path, err := snapshot.DefaultPath()
	if err != nil {
		return nil, err
	}
	return snapshot.New(afero.NewOsFs(), path), nil
}

func newRecorder() (*history.Recorder, error) {
	path, err := history.DefaultPath()
	if err != nil {
		return nil, err
	}
	return history.New(afero.NewOsFs(), path), nil
}

// confirmPrompt asks a yes/no question on the terminal, defaulting to yes.
func confirmPrompt(prompt string) bool {
	fmt.Printf("%s [Y/n] ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true
	}
	return false
}

// newProgressPrinter returns a completion callback that keeps a single
// progress line updated on stderr. The resolver invokes it from worker
// goroutines, so updates are serialized here.
func newProgressPrinter() func(string) {
	var (
		mu   sync.Mutex
		done int
	)
	return func(string) {
		mu.Lock()
		done++
		fmt.Fprintf(os.Stderr, "\rChecked %d package(s)...", done)
		mu.Unlock()
	}
}
