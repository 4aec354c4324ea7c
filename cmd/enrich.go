package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rossinienergy/citypages/internal/enrich"
	"github.com/rossinienergy/citypages/internal/model"
	"github.com/rossinienergy/citypages/internal/monitoring"
	"github.com/rossinienergy/citypages/internal/pass"
)

const allPasses = "all"

var enrichCmd = &cobra.Command{
	Use:       "enrich {describe|images|climate|pois|solar|industry|airquality|all}",
	Short:     "Run one enrichment pass, or all of them in order",
	Long:      "Fills one attribute group for every locality that lacks it, saving the registry every --checkpoint localities. Re-running resumes where an interrupted pass stopped.",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: append(slices.Clone(enrich.PassNames), allPasses),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		checkpoint, _ := cmd.Flags().GetInt("checkpoint")
		limit, _ := cmd.Flags().GetInt("limit")

		adapters, err := selectAdapters(initClients(), args[0])
		if err != nil {
			return err
		}

		reg, err := pass.LoadRegistry(cfg.Paths)
		if err != nil {
			return err
		}

		runs := initRunLog(ctx)
		defer closeRunLog(runs)

		metrics := monitoring.NewMetrics()
		defer flushMetrics(metrics)

		runner := pass.NewRunner(reg, cfg.Paths.RegistryPath(), pass.WithRunLog(runs), pass.WithMetrics(metrics))

		results := make([]passResult, 0, len(adapters))
		for _, a := range adapters {
			cp := checkpoint
			if cp <= 0 {
				cp = enrich.Checkpoint(cfg, a.Name())
			}
			counts, err := runner.Run(ctx, a, cp, limit)
			results = append(results, passResult{Pass: a.Name(), Counts: counts})
			if err != nil {
				formatPassResults(os.Stdout, results)
				return eris.Wrapf(err, "enrich %s", a.Name())
			}
		}

		observeCoverage(ctx, runner, metrics)
		formatPassResults(os.Stdout, results)
		return nil
	},
}

func init() {
	enrichCmd.Flags().Int("checkpoint", 0, "save the registry every N localities (0 uses the source's configured interval)")
	enrichCmd.Flags().Int("limit", 0, "process at most N pending localities per pass (0 = all)")
	rootCmd.AddCommand(enrichCmd)
}

// selectAdapters resolves a pass name, or "all", to adapters.
func selectAdapters(clients enrich.Clients, name string) ([]enrich.Adapter, error) {
	if name == allPasses {
		return enrich.Adapters(clients), nil
	}
	a, err := enrich.Lookup(clients, name)
	if err != nil {
		return nil, err
	}
	return []enrich.Adapter{a}, nil
}

func observeCoverage(ctx context.Context, runner *pass.Runner, metrics *monitoring.Metrics) {
	snap, err := monitoring.NewCollector(nil, nil).Collect(ctx, runner.Registry(), 0)
	if err != nil {
		zap.L().Warn("collect coverage", zap.Error(err))
		return
	}
	metrics.ObserveCoverage(snap)
}

type passResult struct {
	Pass   string
	Counts model.PassCounts
}

// formatPassResults writes one line per pass with its outcome counts.
func formatPassResults(out io.Writer, results []passResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PASS\tPENDING\tENRICHED\tSKIPPED\tNO_RESULT\tFAILED")
	for _, r := range results {
		c := r.Counts
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n", r.Pass, c.Pending, c.Enriched, c.Skipped, c.NoResult, c.Failed)
	}
	_ = w.Flush()
}
