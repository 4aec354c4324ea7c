package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rossinienergy/citypages/internal/config"
	"github.com/rossinienergy/citypages/internal/pass"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "citypages",
	Short: "Localized solar-carport landing pages",
	Long: "Seeds the localities of a region, enriches them pass by pass from open data sources " +
		"and renders one landing page per locality with its sitemap.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, pass.ErrPrerequisite) {
			fmt.Fprintln(os.Stderr, "hint: run `citypages seed` to create the locality registry")
		}
		os.Exit(1)
	}
}
