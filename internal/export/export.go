// Package export writes the registry in review formats: an xlsx workbook for
// editors and a point shapefile for GIS tools.
package export

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/rossinienergy/citypages/internal/model"
	"github.com/rossinienergy/citypages/internal/profile"
)

// Format names an export format.
type Format string

// Supported formats.
const (
	FormatXLSX Format = "xlsx"
	FormatSHP  Format = "shp"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatSHP:
		return f, nil
	default:
		return "", eris.Errorf("export: unknown format %q (want xlsx or shp)", s)
	}
}

// Write exports entities to path in the given format and returns the number
// of records written.
func Write(format Format, path string, entities []model.Entity, c *profile.Classifier) (int, error) {
	switch format {
	case FormatXLSX:
		return WriteXLSX(path, entities, c)
	case FormatSHP:
		return WriteShapefile(path, entities, c)
	default:
		return 0, eris.Errorf("export: unknown format %q", format)
	}
}
