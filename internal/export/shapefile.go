package export

import (
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rossinienergy/citypages/internal/model"
	"github.com/rossinienergy/citypages/internal/profile"
)

// DBF field widths.
const (
	slugWidth    = 64
	nameWidth    = 64
	popWidth     = 10
	profileWidth = 20
)

var shapeFields = []shp.Field{
	shp.StringField("SLUG", slugWidth),
	shp.StringField("NAME", nameWidth),
	shp.NumberField("POP", popWidth),
	shp.StringField("PROFILE", profileWidth),
}

// WriteShapefile writes a point per entity with coordinates (X longitude,
// Y latitude). Entities without coordinates are left out.
func WriteShapefile(path string, entities []model.Entity, c *profile.Classifier) (int, error) {
	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return 0, eris.Wrapf(err, "export: create shapefile %s", path)
	}
	defer w.Close()

	if err := w.SetFields(shapeFields); err != nil {
		return 0, eris.Wrap(err, "export: set shapefile fields")
	}

	written, skipped := 0, 0
	for _, e := range entities {
		lat, lon, ok := e.Coordinates()
		if !ok {
			skipped++
			continue
		}
		row := int(w.Write(&shp.Point{X: lon, Y: lat}))
		attrs := []any{
			truncate(e.Slug, slugWidth),
			truncate(e.Name, nameWidth),
			e.Population,
			string(c.Classify(e)),
		}
		for i, v := range attrs {
			if err := w.WriteAttribute(row, i, v); err != nil {
				return written, eris.Wrapf(err, "export: write attribute %s of %s", shapeFields[i].String(), e.Slug)
			}
		}
		written++
	}

	if skipped > 0 {
		zap.L().Debug("export: entities without coordinates left out of shapefile", zap.Int("skipped", skipped))
	}
	return written, nil
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
