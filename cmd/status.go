package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rossinienergy/citypages/internal/monitoring"
	"github.com/rossinienergy/citypages/internal/pass"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show attribute-group coverage and recent pass runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		reg, err := pass.LoadRegistry(cfg.Paths)
		if err != nil {
			return err
		}

		runs := initRunLog(ctx)
		defer closeRunLog(runs)

		lastRuns, _ := cmd.Flags().GetInt("runs")
		snap, err := monitoring.NewCollector(runs, nil).Collect(ctx, reg, lastRuns)
		if err != nil {
			return err
		}

		metrics := monitoring.NewMetrics()
		metrics.ObserveCoverage(snap)
		flushMetrics(metrics)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}
		formatStatus(os.Stdout, snap)
		return nil
	},
}

func init() {
	statusCmd.Flags().Int("runs", 10, "number of recent pass runs to show")
	statusCmd.Flags().Bool("json", false, "print the snapshot as JSON")
	rootCmd.AddCommand(statusCmd)
}

// formatStatus writes group coverage followed by the run history.
func formatStatus(out io.Writer, snap *monitoring.Snapshot) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Localities:\t%d\n", snap.Entities)
	_, _ = fmt.Fprintf(w, "With coordinates:\t%d\n", snap.WithGeometry)
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "GROUP\tPRESENT\tCOVERAGE")
	_, _ = fmt.Fprintln(w, "-----\t-------\t--------")
	for _, gc := range snap.Coverage {
		_, _ = fmt.Fprintf(w, "%s\t%d/%d\t%.1f%%\n", gc.Group, gc.Present, snap.Entities, gc.Ratio*100)
	}
	_ = w.Flush()

	if snap.RunLogDisabled {
		_, _ = fmt.Fprintln(out, "\nRun log disabled.")
		return
	}
	if len(snap.LastRuns) == 0 {
		_, _ = fmt.Fprintln(out, "\nNo pass runs recorded.")
		return
	}

	_, _ = fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tPASS\tSTATUS\tSTARTED\tDURATION\tPENDING\tENRICHED\tSKIPPED\tNO_RESULT\tFAILED")
	for _, r := range snap.LastRuns {
		dur := ""
		if r.CompletedAt != nil {
			dur = r.CompletedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			truncateID(r.ID),
			r.Pass,
			r.Status,
			r.StartedAt.Format("2006-01-02 15:04"),
			dur,
			r.Pending, r.Enriched, r.Skipped, r.NoResult, r.Failed,
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
