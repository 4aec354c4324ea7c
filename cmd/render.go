package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/rossinienergy/citypages/internal/pass"
	"github.com/rossinienergy/citypages/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write one landing page per locality, the index and robots.txt",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := pass.LoadRegistry(cfg.Paths)
		if err != nil {
			return err
		}

		company, err := render.LoadCompany(cfg.Company)
		if err != nil {
			return err
		}

		r, err := render.New(render.Options{
			Site:         cfg.Site,
			Company:      company,
			OutputDir:    cfg.Paths.OutputDir,
			TemplatesDir: cfg.Paths.TemplatesDir,
			Concurrency:  cfg.Render.Concurrency,
		})
		if err != nil {
			return err
		}

		sum, err := r.Render(cmd.Context(), reg.Entities())
		if err != nil {
			return eris.Wrap(err, "render")
		}
		fmt.Fprintf(os.Stdout, "%d pages in %d provinces written to %s\n", sum.Pages, sum.Provinces, cfg.Paths.OutputDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
