package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// codeDependencyMissing is returned when volta or npm is absent from PATH.
const codeDependencyMissing = 127

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "voltamanager",
	Short: "Check and upgrade Volta-managed global packages",
	Long: `voltamanager inventories the global packages Volta manages, compares
installed versions against the npm registry's latest releases, and
performs safe batch upgrades.

Before any upgrade a snapshot of the installed versions is written, so a
failed or regretted update can always be rolled back.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var codeErr *exitCodeError
		if errors.As(err, &codeErr) {
			// Context was already printed where the failure happened.
			os.Exit(codeErr.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/voltamanager/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(filepath.Join(home, ".config", "voltamanager"))
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("voltamanager.exclude", []string{})
	viper.SetDefault("voltamanager.include_project", false)
	viper.SetDefault("voltamanager.cache_ttl_hours", 1)
	viper.SetDefault("voltamanager.parallel_checks", 10)

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// exitCodeError carries a specific process exit code through cobra's error
// return. The failure itself is reported where it happens.
type exitCodeError struct{ code int }

func (e *exitCodeError) Error() string { return fmt.Sprintf("exit code %d", e.code) }

func exitWith(code int) error {
	if code == 0 {
		return nil
	}
	return &exitCodeError{code: code}
}
