package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/rossinienergy/citypages/internal/pass"
	"github.com/rossinienergy/citypages/internal/sitemap"
)

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Write sitemap.xml for the rendered site",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := pass.LoadRegistry(cfg.Paths)
		if err != nil {
			return err
		}

		n, err := sitemap.Write(cfg.Paths.OutputDir, cfg.Site.Domain, reg.Entities(), clockwork.NewRealClock())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%d URLs written to %s\n", n, filepath.Join(cfg.Paths.OutputDir, "sitemap.xml"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sitemapCmd)
}
