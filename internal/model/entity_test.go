package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntity_Coordinates(t *testing.T) {
	e := Entity{Name: "Bergamo", Latitude: Float(45.69), Longitude: Float(9.67)}
	lat, lon, ok := e.Coordinates()
	assert.True(t, ok)
	assert.InDelta(t, 45.69, lat, 1e-9)
	assert.InDelta(t, 9.67, lon, 1e-9)

	e.Longitude = nil
	assert.False(t, e.HasCoordinates())
}

func TestEntity_Has(t *testing.T) {
	e := Entity{Name: "Lodi"}
	for _, g := range Groups {
		assert.False(t, e.Has(g), "group %s", g)
	}

	e.Climate = &Climate{TempAvgAnnual: 13.1}
	e.Image = &Image{}
	assert.True(t, e.Has(GroupClimate))
	assert.False(t, e.Has(GroupImage), "image without URL is absent")
	assert.False(t, e.Has(Group("unknown")))
}

func TestEntity_PageImage(t *testing.T) {
	e := Entity{Name: "Lodi"}
	assert.Empty(t, e.PageImage())

	e.Description = &Description{ImageURL: "http://commons.wikimedia.org/wiki/Special:FilePath/Lodi.jpg"}
	assert.Equal(t, "http://commons.wikimedia.org/wiki/Special:FilePath/Lodi.jpg", e.PageImage())

	e.Image = &Image{URL: "https://upload.wikimedia.org/Lodi.jpg", Kind: "thumbnail"}
	assert.Equal(t, "https://upload.wikimedia.org/Lodi.jpg", e.PageImage())
}

func TestEntity_ZeroDefaults(t *testing.T) {
	e := Entity{}
	assert.Zero(t, e.HotelCount())
	assert.Zero(t, e.IndustrialZones())
	assert.Zero(t, e.IndustrialHectares())
	assert.Zero(t, e.CommercialZones())
	assert.Zero(t, e.Malls())
}

func TestEntity_JSONOmitsAbsentGroups(t *testing.T) {
	e := Entity{Name: "Cremona", Slug: "cremona", Population: 71000}
	data, err := json.Marshal(e)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "latitude")
	assert.Nil(t, raw["latitude"])
	assert.NotContains(t, raw, "climate")
	assert.NotContains(t, raw, "solar")
}
