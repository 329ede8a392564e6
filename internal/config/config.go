package config

import (
	"slices"

	"github.com/spf13/viper"
)

// Settings is the resolved configuration the core consumes read-only.
type Settings struct {
	Exclude        []string
	IncludeProject bool
	CacheTTLHours  float64
	ParallelChecks int
}

// Load resolves settings from viper (config file, env, defaults).
func Load() Settings {
	return Settings{
		Exclude:        viper.GetStringSlice("voltamanager.exclude"),
		IncludeProject: viper.GetBool("voltamanager.include_project"),
		CacheTTLHours:  viper.GetFloat64("voltamanager.cache_ttl_hours"),
		ParallelChecks: viper.GetInt("voltamanager.parallel_checks"),
	}
}

// ShouldExclude reports whether a package is excluded from all operations.
func (s Settings) ShouldExclude(name string) bool {
	return slices.Contains(s.Exclude, name)
}

// DefaultConfigTOML is the commented config written by `config init`.
const DefaultConfigTOML = `[voltamanager]
# Packages to exclude from all operations
exclude = []

# Include project-pinned packages by default
include_project = false

# Cache time-to-live in hours
cache_ttl_hours = 1

# Number of parallel npm registry checks
parallel_checks = 10
`
