package registry

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// Up to batchThreshold names, a single bulk npm query is attempted
	// before falling back to per-package lookups.
	batchThreshold = 10

	itemTimeout  = 10 * time.Second
	batchTimeout = 30 * time.Second

	maxAttempts = 3
)

// backoffDelays are the waits between retry attempts.
var backoffDelays = []time.Duration{500 * time.Millisecond, time.Second}

// Resolver looks up latest package versions on the npm registry through the
// npm CLI. Per-package failures degrade to absent results, never errors.
type Resolver struct {
	// run executes an npm invocation and returns its stdout.
	// Swapped out in tests.
	run   func(ctx context.Context, args ...string) ([]byte, error)
	sleep func(time.Duration)
}

// New creates a resolver backed by the npm CLI.
func New() *Resolver {
	return &Resolver{
		run: func(ctx context.Context, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, "npm", args...).Output()
		},
		sleep: time.Sleep,
	}
}

// ResolveOne queries the latest version of a single package, retrying
// transient failures with exponential backoff. Returns false once every
// attempt is exhausted.
func (r *Resolver) ResolveOne(ctx context.Context, name string) (string, bool) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			r.sleep(backoffDelays[attempt-1])
		}

		callCtx, cancel := context.WithTimeout(ctx, itemTimeout)
		out, err := r.run(callCtx, "view", name, "version")
		cancel()
		if err != nil {
			continue
		}
		if v := strings.TrimSpace(string(out)); v != "" {
			return v, true
		}
		// Empty output is a malformed response, retry like any other failure.
	}
	return "", false
}

// ResolveBatch queries all names in one bulk npm call. The npm CLI pairs
// responses to requests positionally, so the response length is validated
// strictly; any mismatch, parse failure, or command failure yields an empty
// map signalling "batch unavailable" rather than a partial result.
func (r *Resolver) ResolveBatch(ctx context.Context, names []string) map[string]string {
	if len(names) == 0 {
		return map[string]string{}
	}

	callCtx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	args := append([]string{"view", "--json"}, names...)
	args = append(args, "version")
	out, err := r.run(callCtx, args...)
	if err != nil {
		return nil
	}

	if len(names) == 1 {
		return parseSingleBatch(names[0], out)
	}

	var items []struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(out, &items); err != nil {
		return nil
	}
	if len(items) != len(names) {
		return nil
	}

	versions := make(map[string]string, len(names))
	for i, name := range names {
		if items[i].Version != "" {
			versions[name] = items[i].Version
		}
	}
	return versions
}

// parseSingleBatch handles the single-package response, which npm emits
// either as an object or as a bare JSON string.
func parseSingleBatch(name string, out []byte) map[string]string {
	var obj struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(out, &obj); err == nil && obj.Version != "" {
		return map[string]string{name: obj.Version}
	}

	var s string
	if err := json.Unmarshal(out, &s); err == nil && s != "" {
		return map[string]string{name: s}
	}
	return nil
}

// ResolveMany resolves latest versions for a set of names. Small sets try a
// single bulk query first; otherwise lookups fan out across a bounded pool
// of parallelism workers. The returned map holds an entry only for names
// that resolved; one package's failure never aborts the rest. onDone, when
// non-nil, is invoked once per completed lookup for progress reporting.
func (r *Resolver) ResolveMany(ctx context.Context, names []string, parallelism int, onDone func(name string)) map[string]string {
	if len(names) == 0 {
		return map[string]string{}
	}

	if len(names) <= batchThreshold {
		if batch := r.ResolveBatch(ctx, names); len(batch) > 0 {
			if onDone != nil {
				for _, name := range names {
					onDone(name)
				}
			}
			return batch
		}
		// Batch unavailable, fall through to per-package lookups.
	}

	if parallelism < 1 {
		parallelism = 1
	}

	var (
		mu       sync.Mutex
		versions = make(map[string]string, len(names))
	)

	var g errgroup.Group
	g.SetLimit(parallelism)
	for _, name := range names {
		name := name
		g.Go(func() error {
			if v, ok := r.ResolveOne(ctx, name); ok {
				mu.Lock()
				versions[name] = v
				mu.Unlock()
			}
			if onDone != nil {
				onDone(name)
			}
			return nil
		})
	}
	// Workers never return errors; absent map entries carry the failures.
	_ = g.Wait()

	return versions
}
