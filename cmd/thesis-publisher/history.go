package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppetrou/thesis-publisher/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the run ledger",
	Long: `History lists previous processing runs recorded in the SQLite run
ledger, newest first. Use --run to list the per-document outcomes of one
run.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("db", "", "SQLite run-ledger path (required)")
	historyCmd.Flags().Int("limit", 10, "number of runs to list")
	historyCmd.Flags().Int64("run", 0, "show per-document outcomes for this run ID")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		return fmt.Errorf("--db is required")
	}
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("ledger %s does not exist", dbPath)
	}

	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	runID, _ := cmd.Flags().GetInt64("run")

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if runID > 0 {
		docs, err := store.Documents(ctx, runID)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "PATH\tSTATUS\tSTAGE\tREASON")
		for _, d := range docs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Path, d.Status, d.Stage, d.Reason)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(ctx, limit)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "ID\tSTARTED\tBASE FOLDER\tMODE\tOK\tFAILED")
	for _, r := range runs {
		mode := "full"
		if r.TestMode {
			mode = "test"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04"), r.BaseFolder, mode, r.Succeeded, r.Failed)
	}
	return nil
}
