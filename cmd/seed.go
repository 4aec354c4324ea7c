package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rossinienergy/citypages/internal/enrich"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fetch the localities of the configured region",
	Long: "Lists the localities of the region above the minimum population from GeoNames " +
		"(when a username is configured) or Wikidata, and writes the seed registry.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		clients := initClients()
		seeder := enrich.NewSeeder(cfg.Site, cfg.Sources.GeoNames.Admin1, clients.Wikidata, clients.GeoNames)

		reg, err := seeder.Seed(ctx)
		if err != nil {
			return eris.Wrap(err, "seed")
		}

		path := cfg.Paths.SeedPath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return eris.Wrap(err, "seed: create data directory")
		}
		if err := reg.Save(path); err != nil {
			return eris.Wrap(err, "seed")
		}

		zap.L().Info("seed registry written", zap.String("path", path), zap.Int("entities", reg.Len()))
		fmt.Fprintf(os.Stdout, "%d localities written to %s\n", reg.Len(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
