package export

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/rossinienergy/citypages/internal/model"
	"github.com/rossinienergy/citypages/internal/profile"
)

func testEntities() []model.Entity {
	return []model.Entity{
		{
			Slug: "milano", Name: "Milano", Province: "MI", Population: 1371498,
			Latitude: model.Float(45.4642), Longitude: model.Float(9.19),
			Solar:      &model.Solar{AnnualProductionKWh: 34500, IrradiationKWhM2: 1450, OptimalAngle: 37},
			AirQuality: &model.AirQuality{EuropeanAQI: 62, QualityLabel: "Discreta"},
		},
		{Slug: "senza-coordinate", Name: "Senza Coordinate", Population: 12000},
		{
			Slug: "cantu", Name: "Cantù", Province: "CO", Population: 40000,
			Latitude: model.Float(45.7386), Longitude: model.Float(9.1301),
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat("shp")
	require.NoError(t, err)
	assert.Equal(t, FormatSHP, f)

	_, err = ParseFormat("csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func cellValues(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.String()
	}
	return out
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comuni.xlsx")
	n, err := Write(FormatXLSX, path, testEntities(), profile.NewClassifier([]string{"Como"}))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := f.Sheet[sheetName]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 4)

	assert.Equal(t, Columns, cellValues(sheet.Rows[0]))

	milano := cellValues(sheet.Rows[1])
	col := func(name string) int {
		for i, c := range Columns {
			if c == name {
				return i
			}
		}
		t.Fatalf("unknown column %s", name)
		return -1
	}
	assert.Equal(t, "milano", milano[col("slug")])
	assert.Equal(t, "1371498", milano[col("population")])
	assert.Equal(t, "metropolis", milano[col("profile")])
	assert.Equal(t, "34500", milano[col("annual_production_kwh")])
	assert.Equal(t, "Discreta", milano[col("quality_label")])
	assert.Empty(t, milano[col("parking_count")])

	missing := cellValues(sheet.Rows[2])
	assert.Empty(t, missing[col("latitude")])
	assert.Equal(t, "residential", missing[col("profile")])
}

func TestWriteShapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comuni.shp")
	n, err := Write(FormatSHP, path, testEntities(), profile.NewClassifier(nil))
	require.NoError(t, err)
	assert.Equal(t, 2, n, "entities without coordinates are left out")

	r, err := shp.Open(path)
	require.NoError(t, err)
	defer r.Close() //nolint:errcheck

	clean := func(s string) string { return strings.TrimSpace(strings.TrimRight(s, "\x00")) }

	var slugs, names, pops []string
	var points []shp.Point
	for r.Next() {
		_, shape := r.Shape()
		p, ok := shape.(*shp.Point)
		require.True(t, ok)
		points = append(points, *p)
		slugs = append(slugs, clean(r.Attribute(0)))
		names = append(names, clean(r.Attribute(1)))
		pops = append(pops, clean(r.Attribute(2)))
	}
	assert.Equal(t, []string{"milano", "cantu"}, slugs)
	assert.Equal(t, []string{"Milano", "Cantù"}, names)
	assert.Equal(t, []string{"1371498", "40000"}, pops)
	require.Len(t, points, 2)
	assert.InDelta(t, 9.19, points[0].X, 1e-9)
	assert.InDelta(t, 45.4642, points[0].Y, 1e-9)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "Cant", truncate("Cantù", 5), "never splits a rune")
	assert.Equal(t, "Cantù", truncate("Cantù", 6))
}
