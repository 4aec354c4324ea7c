package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rossinienergy/citypages/internal/export"
	"github.com/rossinienergy/citypages/internal/pass"
	"github.com/rossinienergy/citypages/internal/profile"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the registry as an xlsx workbook or a point shapefile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}

		reg, err := pass.LoadRegistry(cfg.Paths)
		if err != nil {
			return err
		}

		n, err := export.Write(format, out, reg.Entities(), profile.NewClassifier(cfg.Site.Capitals))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%d records written to %s\n", n, out)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", "xlsx", "export format (xlsx or shp)")
	exportCmd.Flags().String("out", "", "output file path")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}
