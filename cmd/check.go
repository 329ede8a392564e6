package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kjanat/voltamanager/internal/updater"
)

var (
	checkJSON        bool
	checkToon        bool
	checkOutdated    bool
	checkAllPackages bool
	checkNoCache     bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check installed packages against the registry",
	Long: `Check compares every Volta-managed global package against the latest
version published on the npm registry and reports which ones are
outdated. Nothing is installed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := updater.Options{
			Check:       true,
			UseCache:    !checkNoCache,
			AllPackages: checkAllPackages,
			Verbose:     verbose,
		}
		return checkAndRun(opts, renderCheckFunc(checkJSON, checkToon, checkOutdated), nil)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "output results as JSON")
	checkCmd.Flags().BoolVar(&checkToon, "toon", false, "output results in toon format")
	checkCmd.Flags().BoolVar(&checkOutdated, "outdated", false, "only show outdated packages")
	checkCmd.Flags().BoolVar(&checkAllPackages, "all-packages", false, "include excluded packages in the report")
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "bypass the version cache")
	checkCmd.MarkFlagsMutuallyExclusive("json", "toon")
}
