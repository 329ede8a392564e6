package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kjanat/voltamanager/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage voltamanager configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Init writes a commented default configuration to
~/.config/voltamanager/config.toml. An existing config file is left
untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := defaultConfigPath()
		if err != nil {
			return err
		}
		return writeDefaultConfig(afero.NewOsFs(), path, os.Stdout)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := config.Load()

		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Printf("Config file: %s\n", used)
		} else {
			fmt.Println("Config file: (none, using defaults)")
		}
		if len(settings.Exclude) > 0 {
			fmt.Printf("Exclude: %s\n", strings.Join(settings.Exclude, ", "))
		} else {
			fmt.Println("Exclude: (none)")
		}
		fmt.Printf("Include project-pinned: %v\n", settings.IncludeProject)
		fmt.Printf("Cache TTL: %g hour(s)\n", settings.CacheTTLHours)
		fmt.Printf("Parallel checks: %d\n", settings.ParallelChecks)
		return nil
	},
}

func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", "voltamanager", "config.toml"), nil
}

func writeDefaultConfig(fs afero.Fs, path string, out io.Writer) error {
	if exists, _ := afero.Exists(fs, path); exists {
		fmt.Fprintf(out, "Config file already exists: %s\n", path)
		return nil
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := afero.WriteFile(fs, path, []byte(config.DefaultConfigTOML), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(out, "Wrote default config: %s\n", path)
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
