package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kjanat/voltamanager/internal/config"
	"github.com/kjanat/voltamanager/internal/pkgid"
	"github.com/kjanat/voltamanager/internal/volta"
)

var (
	installDryRun         bool
	installIncludeProject bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Reinstall every managed package at its latest version",
	Long: `Install skips the registry comparison entirely and hands every managed
package straight to volta install, letting Volta resolve the latest
versions itself. Faster than update when you want everything current
and do not need a report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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
		includeProject := installIncludeProject || settings.IncludeProject

		seen := map[string]bool{}
		var names []string
		for _, token := range tokens {
			name, ver := pkgid.Parse(token)
			if name == "" || seen[name] {
				continue
			}
			if settings.ShouldExclude(name) {
				continue
			}
			if ver == "project" && !includeProject {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
		sort.Strings(names)

		if len(names) == 0 {
			fmt.Println("No packages to install.")
			return nil
		}

		recorder, recErr := newRecorder()

		if installDryRun {
			fmt.Printf("Would install: %s\n", strings.Join(names, " "))
			if recErr == nil {
				recorder.Record("fast_install_dry_run", names)
			}
			return nil
		}

		if recErr == nil {
			recorder.Record("fast_install_start", names)
		}
		fmt.Printf("Installing %d package(s)...\n", len(names))
		if code := volta.Install(names); code != 0 {
			if recErr == nil {
				recorder.RecordError("fast_install", fmt.Sprintf("install failed with code %d", code))
			}
			return exitWith(code)
		}

		fmt.Println("Install complete")
		if recErr == nil {
			recorder.Record("fast_install_success", names)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().BoolVarP(&installDryRun, "dry-run", "n", false, "show what would be installed without installing")
	installCmd.Flags().BoolVar(&installIncludeProject, "include-project", false, "also reinstall project-pinned packages")
}
