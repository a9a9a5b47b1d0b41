package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/policy-engine/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "polctl",
		Short: "polctl - policy back-office worklist tool",
		Long: `polctl inspects a policy portfolio from the command line:
worklist folder counts, receipt schedules with payment statuses, and
duplicate-record reports, straight from the SQLite database the server uses.`,
	}

	rootCmd.PersistentFlags().String("db", "policies.db", "SQLite database path")
	rootCmd.PersistentFlags().String("as-of", "", "evaluation date (YYYY-MM-DD, default today)")

	rootCmd.AddCommand(cli.WorklistCmd())
	rootCmd.AddCommand(cli.ScheduleCmd())
	rootCmd.AddCommand(cli.DuplicatesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
