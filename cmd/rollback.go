package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kjanat/voltamanager/internal/updater"
	"github.com/kjanat/voltamanager/internal/volta"
)

var rollbackForce bool

var rollbackCmd = &cobra.Command{
	Use:   "rollback [package...]",
	Short: "Restore the versions recorded before the last update",
	Long: `Rollback reinstalls the exact versions captured in the snapshot that
was written before the last update. With package names as arguments,
only those packages are restored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := volta.CheckDependencies(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitWith(codeDependencyMissing)
		}

		store, err := newSnapshotStore()
		if err != nil {
			return err
		}

		deps := updater.RollbackDeps{
			LoadSnapshot: store.Load,
			Install:      volta.Install,
			Confirm:      confirmPrompt,
			Out:          os.Stdout,
		}
		if recorder, err := newRecorder(); err == nil {
			deps.Record = recorder.Record
		}

		return exitWith(updater.Rollback(args, rollbackForce, deps))
	},
}

func init() {
	rootCmd.AddCommand(rollbackCmd)

	rollbackCmd.Flags().BoolVarP(&rollbackForce, "force", "f", false, "skip the confirmation prompt")
}
