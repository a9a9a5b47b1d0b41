/*
Package cli implements the polctl subcommands.

PURPOSE:
  Command-line access to the same evaluations the API serves: worklist
  folder counts, per-policy schedules with payment statuses, and the
  duplicate report. Commands open the SQLite store read-only-in-spirit
  (nothing here writes) and evaluate against a single snapshot date.

SEE ALSO:
  - cmd/polctl/main.go: Command registration
  - portfolio: The evaluation layer these commands render
*/
package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/warp/policy-engine/engine"
	"github.com/warp/policy-engine/portfolio"
	"github.com/warp/policy-engine/store/sqlite"
)

// openStore resolves the shared --db and --as-of flags.
func openStore(cmd *cobra.Command) (*sqlite.Store, engine.Date, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	store, err := sqlite.New(dbPath)
	if err != nil {
		return nil, engine.Date{}, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}

	today := engine.Today()
	if s, _ := cmd.Flags().GetString("as-of"); s != "" {
		if d := engine.ParseDate(s); !d.IsZero() {
			today = d
		} else {
			store.Close()
			return nil, engine.Date{}, fmt.Errorf("invalid --as-of date %q (use YYYY-MM-DD)", s)
		}
	}
	return store, today, nil
}

// statusColor maps a payment status to its terminal color.
func statusColor(s engine.Status) *color.Color {
	switch s {
	case engine.StatusPaid:
		return color.New(color.FgGreen)
	case engine.StatusOverdue:
		return color.New(color.FgRed)
	case engine.StatusDueSoon:
		return color.New(color.FgYellow)
	case engine.StatusPending:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgWhite)
	}
}

// WorklistCmd prints the folder counts for the whole portfolio.
func WorklistCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worklist",
		Short: "Show worklist folder counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, today, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := portfolio.LoadEntries(context.Background(), store)
			if err != nil {
				return err
			}
			w := portfolio.BuildWorklist(entries, today)

			fmt.Printf("Worklist as of %s\n\n", today)
			order := []engine.Folder{
				engine.FolderAll, engine.FolderOverdue, engine.FolderInProgress,
				engine.FolderRenewalInProgress, engine.FolderToRenew,
				engine.FolderActive, engine.FolderRenewed, engine.FolderCancelled,
			}
			for _, f := range order {
				fmt.Printf("  %-22s %d\n", f, w.Counts[f])
			}
			if n := w.Counts[engine.FolderNone]; n > 0 {
				fmt.Printf("  %-22s %d\n", "uncategorized", n)
			}
			return nil
		},
	}
}

// ScheduleCmd prints one policy's receipt schedule with statuses.
func ScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <policy-id>",
		Short: "Show a policy's receipt schedule and payment statuses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, today, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := context.Background()
			id := engine.PolicyID(args[0])
			policy, err := store.GetPolicy(ctx, id)
			if err != nil {
				return err
			}
			if policy == nil {
				return fmt.Errorf("policy %s not found", id)
			}
			receipts, err := store.ReceiptsForPolicy(ctx, id)
			if err != nil {
				return err
			}

			ev := portfolio.Evaluate(portfolio.Entry{Policy: *policy, Receipts: receipts}, today)

			fmt.Printf("%s  %s (%s)  folder=%s\n", policy.PolicyNumber, policy.Insurer, policy.Product, ev.Folder)
			fmt.Printf("Aggregate: %s   Paid %d of %d\n\n", ev.Aggregate, ev.Summary.PaidCount, ev.Summary.ReceiptCount)

			for i, r := range ev.Schedule {
				status := ev.Statuses[i]
				line := fmt.Sprintf("  #%-3d due %s  %10s  %s", r.Number, r.DueDate, r.Amount.StringFixed(2), status)
				if r.Paid() {
					line += fmt.Sprintf("  (paid %s)", r.PaidDate)
				}
				statusColor(status).Println(line)
			}

			fmt.Printf("\nPaid %s  DueSoon %s  Overdue %s  Pending %s\n",
				ev.Summary.PaidTotal.StringFixed(2), ev.Summary.DueSoonTotal.StringFixed(2),
				ev.Summary.OverdueTotal.StringFixed(2), ev.Summary.PendingTotal.StringFixed(2))
			return nil
		},
	}
}

// DuplicatesCmd prints the portfolio duplicate report.
func DuplicatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicates",
		Short: "Scan the portfolio for duplicate and conflicting records",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := portfolio.LoadEntries(context.Background(), store)
			if err != nil {
				return err
			}
			report := portfolio.Duplicates(entries)

			printFlags := func(title string, flags []engine.DuplicateFlag) {
				if len(flags) == 0 {
					return
				}
				color.New(color.Bold).Printf("%s (%d)\n", title, len(flags))
				for _, f := range flags {
					fmt.Printf("  %-20s policy %-16s vin %s\n", f.PolicyID, f.PolicyNumber, f.VIN)
				}
				fmt.Println()
			}

			total := len(report.ExactDuplicates) + len(report.VINCollisions) + len(report.PolicyVINMismatches)
			if total == 0 {
				color.New(color.FgGreen).Println("No duplicate records found.")
				return nil
			}

			printFlags("Exact duplicates", report.ExactDuplicates)
			printFlags("VIN collisions", report.VINCollisions)
			printFlags("Policy/VIN mismatches", report.PolicyVINMismatches)
			return nil
		},
	}
}
