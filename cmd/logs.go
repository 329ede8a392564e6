package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logsLines int

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		recorder, err := newRecorder()
		if err != nil {
			return err
		}
		lines, err := recorder.Tail(logsLines)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			fmt.Println("No history yet.")
			return nil
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	},
}

var logsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		recorder, err := newRecorder()
		if err != nil {
			return err
		}
		stats, err := recorder.Stats()
		if err != nil {
			return err
		}

		fmt.Printf("Total entries: %d\n", stats.TotalLines)
		fmt.Printf("Updates: %d\n", stats.Updates)
		fmt.Printf("Errors: %d\n", stats.Errors)
		if len(stats.Operations) > 0 {
			fmt.Println("Operations:")
			for _, op := range stats.OperationsSorted() {
				fmt.Printf("  %s: %d\n", op, stats.Operations[op])
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsStatsCmd)

	logsCmd.Flags().IntVar(&logsLines, "lines", 20, "number of history lines to show")
}
