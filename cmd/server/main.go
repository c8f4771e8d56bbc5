package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "batch-scheduler",
	Short: "Training batch scheduler API server",
	Long: `batch-scheduler manages week-by-week activity timetables for
training batches: validated plan entry placement, holiday/event
overlays, day-to-day replication, and hours statistics.`,
	// Running the bare binary starts the server.
	RunE: runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}
