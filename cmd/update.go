package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kjanat/voltamanager/internal/updater"
)

var (
	updateDryRun         bool
	updateInteractive    bool
	updateIncludeProject bool
	updateNoCache        bool
	updateJSON           bool
	updateToon           bool
	updateAllPackages    bool
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update outdated packages to their latest versions",
	Long: `Update checks every Volta-managed global package and upgrades the
outdated ones in a single batch. A snapshot of the currently installed
versions is written before anything changes, so the batch can always be
undone with "voltamanager rollback".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := updater.Options{
			Check:          true,
			Update:         true,
			DryRun:         updateDryRun,
			Interactive:    updateInteractive,
			IncludeProject: updateIncludeProject,
			UseCache:       !updateNoCache,
			AllPackages:    updateAllPackages,
			Verbose:        verbose,
		}
		return checkAndRun(opts, renderCheckFunc(updateJSON, updateToon, false), renderDryRunFunc())
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().BoolVarP(&updateDryRun, "dry-run", "n", false, "show what would be updated without installing")
	updateCmd.Flags().BoolVarP(&updateInteractive, "interactive", "i", false, "confirm each package individually")
	updateCmd.Flags().BoolVar(&updateIncludeProject, "include-project", false, "also update project-pinned packages")
	updateCmd.Flags().BoolVar(&updateNoCache, "no-cache", false, "bypass the version cache")
	updateCmd.Flags().BoolVar(&updateJSON, "json", false, "output the check report as JSON")
	updateCmd.Flags().BoolVar(&updateToon, "toon", false, "output the check report in toon format")
	updateCmd.Flags().BoolVar(&updateAllPackages, "all-packages", false, "include excluded packages in the report")
	updateCmd.MarkFlagsMutuallyExclusive("json", "toon")
}
