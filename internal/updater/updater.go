package updater

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/kjanat/voltamanager/internal/config"
	"github.com/kjanat/voltamanager/internal/disk"
	"github.com/kjanat/voltamanager/internal/pkgid"
	"github.com/kjanat/voltamanager/internal/status"
)

// Resolver provides latest-version lookups. Absent map entries mean the
// lookup failed for that package.
type Resolver interface {
	ResolveMany(ctx context.Context, names []string, parallelism int, onDone func(name string)) map[string]string
}

// VersionCache is the TTL cache consulted before hitting the registry.
type VersionCache interface {
	Get(name string, ttlHours float64) (string, bool)
	Set(name, version string) error
}

// Options selects what one invocation does.
type Options struct {
	Check          bool
	Update         bool
	DryRun         bool
	Interactive    bool
	IncludeProject bool
	UseCache       bool
	AllPackages    bool
	Verbose        bool
}

// Deps are the orchestrator's collaborators. Rendering, prompting, installing
// and persistence are all injected so the state machine itself stays pure
// enough to drive from tests.
type Deps struct {
	Settings config.Settings
	Resolver Resolver
	Cache    VersionCache // nil disables caching regardless of Options.UseCache

	Install      func(specs []string) int
	FreeMB       func() int64
	Confirm      func(prompt string) bool
	Record       func(operation string, packages []string)
	RecordError  func(operation, message string)
	SaveSnapshot func(pins map[string]string) error

	RenderCheck  func(records []status.Record)
	RenderDryRun func(plan []string, records []status.Record)
	Progress     func(name string)

	Out io.Writer
}

// Result carries the classified records, the final update plan, and the
// process exit code.
type Result struct {
	Records  []status.Record
	Plan     []string
	ExitCode int
}

type candidate struct {
	name      string
	installed string
	project   bool
}

// Run drives one check/update invocation over the installed package tokens.
//
// Per-package resolution failures are absorbed as UNKNOWN records; only
// operation-level failures (disk space, snapshot write, install) surface as
// a nonzero exit code. When an update happens, the rollback snapshot is
// written strictly before the install is invoked.
func Run(ctx context.Context, tokens []string, opts Options, deps Deps) Result {
	out := deps.Out
	if out == nil {
		out = io.Discard
	}

	var (
		ordered  []candidate
		excluded []candidate
		pins     = map[string]string{}
	)
	for _, token := range tokens {
		name, ver := pkgid.Parse(token)
		if name == "" {
			continue
		}
		if deps.Settings.ShouldExclude(name) {
			excluded = append(excluded, candidate{name: name, installed: ver})
			continue
		}
		if ver == "project" {
			ordered = append(ordered, candidate{name: name, installed: ver, project: true})
			continue
		}
		pins[name] = ver
		ordered = append(ordered, candidate{name: name, installed: ver})
	}

	latest := resolveLatest(ctx, ordered, opts, deps)

	var (
		records []status.Record
		plan    []string
	)
	for _, c := range ordered {
		if c.project {
			records = append(records, status.Record{
				Name: c.name, Installed: c.installed, Latest: status.NoVersion, State: status.Project,
			})
			if opts.IncludeProject {
				plan = append(plan, c.name+"@latest")
			}
			continue
		}

		lat, ok := latest[c.name]
		if !ok {
			records = append(records, status.Record{
				Name: c.name, Installed: c.installed, Latest: status.UnknownVersion, State: status.Unknown,
			})
			continue
		}

		st := status.Classify(c.installed, lat)
		records = append(records, status.Record{
			Name: c.name, Installed: c.installed, Latest: lat, State: st,
		})
		if st == status.Outdated {
			plan = append(plan, c.name+"@latest")
		}
	}
	if opts.AllPackages {
		for _, c := range excluded {
			records = append(records, status.Record{
				Name: c.name, Installed: c.installed, Latest: status.NoVersion, State: status.Excluded,
			})
		}
	}

	if opts.Check && deps.RenderCheck != nil {
		deps.RenderCheck(records)
	}
	if opts.Check && !opts.AllPackages && len(excluded) > 0 {
		fmt.Fprintf(out, "%d package(s) excluded (use --all-packages to see them)\n", len(excluded))
	}

	if !opts.Update {
		return Result{Records: records, Plan: plan}
	}
	return Result{Records: records, Plan: plan, ExitCode: runUpdate(records, plan, pins, opts, deps, out)}
}

// runUpdate performs the mutation phase: preflight checks, interactive
// selection, snapshot, then the batch install.
func runUpdate(records []status.Record, plan []string, pins map[string]string, opts Options, deps Deps, out io.Writer) int {
	if len(plan) == 0 {
		fmt.Fprintln(out, "All packages are up to date.")
		return 0
	}

	if !opts.DryRun {
		estimated := disk.EstimateUpdateMB(len(plan))
		available := deps.FreeMB()
		// An unanswerable disk query (-1) does not block the update.
		if available >= 0 && available < estimated {
			fmt.Fprintln(out, "Insufficient disk space")
			fmt.Fprintf(out, "  Estimated needed: ~%s\n", disk.FormatMB(estimated))
			fmt.Fprintf(out, "  Available: %s\n", disk.FormatMB(available))
			fmt.Fprintln(out, "Suggestions:")
			fmt.Fprintln(out, "  - Free up disk space")
			fmt.Fprintln(out, "  - Update fewer packages at once")
			fmt.Fprintln(out, "  - Use --interactive to select specific packages")
			return 1
		}
		if opts.Verbose && available >= 0 {
			fmt.Fprintf(out, "Disk space check passed (%s available)\n", disk.FormatMB(available))
		}
	}

	if opts.Interactive {
		var selected []string
		for _, spec := range plan {
			name, _ := pkgid.Parse(spec)
			if deps.Confirm(fmt.Sprintf("Update %s?", name)) {
				selected = append(selected, spec)
			}
		}
		plan = selected
		if len(plan) == 0 {
			fmt.Fprintln(out, "No packages selected for update.")
			return 0
		}
	}

	if opts.DryRun {
		if deps.RenderDryRun != nil {
			deps.RenderDryRun(plan, records)
		}
		return 0
	}

	// Snapshot happens-before install so rollback stays possible even when
	// the install fails partway.
	if err := deps.SaveSnapshot(pins); err != nil {
		fmt.Fprintf(out, "Failed to save rollback snapshot: %v\n", err)
		return 1
	}
	if deps.Record != nil {
		deps.Record("snapshot", sortedNames(pins))
	}

	fmt.Fprintf(out, "Updating %d package(s)...\n", len(plan))
	code := deps.Install(plan)
	if code != 0 {
		fmt.Fprintf(out, "Update failed with code %d\n", code)
		fmt.Fprintln(out, "The pre-update snapshot was kept; run `voltamanager rollback` to restore.")
		if deps.RecordError != nil {
			deps.RecordError("batch_update", fmt.Sprintf("install failed with code %d", code))
		}
		return code
	}

	fmt.Fprintln(out, "Update complete")
	if deps.Record != nil {
		deps.Record("batch_update", plan)
	}
	return 0
}

// resolveLatest produces the latest-version map for every non-project
// candidate, consulting the cache first when enabled. Freshly resolved
// versions are written back to the cache; failed lookups are not, so they
// are retried on the next run.
func resolveLatest(ctx context.Context, ordered []candidate, opts Options, deps Deps) map[string]string {
	latest := map[string]string{}

	var names []string
	for _, c := range ordered {
		if !c.project {
			names = append(names, c.name)
		}
	}
	if len(names) == 0 {
		return latest
	}

	useCache := opts.UseCache && deps.Cache != nil
	misses := names
	if useCache {
		misses = nil
		for _, name := range names {
			if v, ok := deps.Cache.Get(name, deps.Settings.CacheTTLHours); ok {
				latest[name] = v
			} else {
				misses = append(misses, name)
			}
		}
	}

	if len(misses) > 0 {
		resolved := deps.Resolver.ResolveMany(ctx, misses, deps.Settings.ParallelChecks, deps.Progress)
		for name, v := range resolved {
			latest[name] = v
			if useCache {
				_ = deps.Cache.Set(name, v)
			}
		}
	}

	return latest
}

func sortedNames(pins map[string]string) []string {
	names := make([]string, 0, len(pins))
	for name := range pins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
