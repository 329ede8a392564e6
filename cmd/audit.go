package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kjanat/voltamanager/internal/audit"
	"github.com/kjanat/voltamanager/internal/config"
	"github.com/kjanat/voltamanager/internal/pkgid"
	"github.com/kjanat/voltamanager/internal/volta"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Scan managed packages for known vulnerabilities",
	Long: `Audit resolves every managed package at its latest version into a
scratch lockfile and runs npm audit over it, reporting any known
vulnerabilities by severity.`,
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
		seen := map[string]bool{}
		var names []string
		for _, token := range tokens {
			name, _ := pkgid.Parse(token)
			if name == "" || seen[name] || settings.ShouldExclude(name) {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
		sort.Strings(names)

		dir, err := os.MkdirTemp("", "voltamanager-audit-")
		if err != nil {
			return fmt.Errorf("failed to create audit workspace: %w", err)
		}
		defer os.RemoveAll(dir)

		fmt.Printf("Auditing %d package(s)...\n", len(names))
		report, err := audit.Run(dir, names)
		if err != nil {
			// Audit is advisory; a failed scan never fails the command.
			fmt.Fprintf(os.Stderr, "Audit unavailable: %v\n", err)
			return nil
		}

		if report.Total == 0 {
			fmt.Println("No known vulnerabilities found.")
			return nil
		}

		fmt.Printf("Found %d vulnerabilities:\n", report.Total)
		fmt.Printf("  Critical: %d\n", report.Critical)
		fmt.Printf("  High: %d\n", report.High)
		fmt.Printf("  Moderate: %d\n", report.Moderate)
		fmt.Printf("  Low: %d\n", report.Low)

		if verbose {
			for _, f := range report.Findings {
				fmt.Printf("  %s [%s] %s\n", f.Package, f.Severity, f.Title)
				if f.URL != "" {
					fmt.Printf("    %s\n", f.URL)
				}
			}
		}
		if report.HasBlocking() {
			fmt.Println("Review critical/high findings before updating.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
}
