package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the version cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached version lookups",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newCacheStore()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("Version cache cleared.")
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache location and entry ages",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newCacheStore()
		if err != nil {
			return err
		}
		stats := store.Stats()

		fmt.Printf("Cache file: %s\n", stats.Path)
		fmt.Printf("Entries: %d\n", stats.Entries)
		if stats.Entries > 0 {
			fmt.Printf("Oldest entry: %s\n", humanize.Time(stats.Oldest))
			fmt.Printf("Newest entry: %s\n", humanize.Time(stats.Newest))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
}
