package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rossinienergy/citypages/internal/model"
)

var capitals = []string{"Bergamo", "Lodi", "Sondrio"}

func TestClassify(t *testing.T) {
	c := NewClassifier(capitals)

	tests := []struct {
		name     string
		entity   model.Entity
		expected Profile
	}{
		{
			name:     "metropolis: large population with few zones",
			entity:   model.Entity{Name: "Brianzopoli", Population: 120000, Industry: &model.Industry{IndustrialZonesCount: 10}},
			expected: Metropolis,
		},
		{
			name:     "metropolis beats industrial hub",
			entity:   model.Entity{Name: "Grande", Population: 150000, Industry: &model.Industry{IndustrialZonesCount: 200}},
			expected: Metropolis,
		},
		{
			name:     "metropolis beats capital",
			entity:   model.Entity{Name: "Bergamo", Population: 120001},
			expected: Metropolis,
		},
		{
			name:     "population at threshold is not metropolis",
			entity:   model.Entity{Name: "Soglia", Population: 100000},
			expected: Residential,
		},
		{
			name:     "industrial hub by area",
			entity:   model.Entity{Name: "Fabbriche", Population: 40000, Industry: &model.Industry{IndustrialAreaHectares: 350, CommercialZonesCount: 50}},
			expected: IndustrialHub,
		},
		{
			name:     "industrial hub by zone count",
			entity:   model.Entity{Name: "Capannoni", Population: 30000, Industry: &model.Industry{IndustrialZonesCount: 101}},
			expected: IndustrialHub,
		},
		{
			name:     "industrial hub beats capital",
			entity:   model.Entity{Name: "Lodi", Population: 45000, Industry: &model.Industry{IndustrialAreaHectares: 300.1}},
			expected: IndustrialHub,
		},
		{
			name:     "area at threshold is not industrial",
			entity:   model.Entity{Name: "Limite", Population: 30000, Industry: &model.Industry{IndustrialAreaHectares: 300, IndustrialZonesCount: 100}},
			expected: Residential,
		},
		{
			name:     "commercial hub by zones",
			entity:   model.Entity{Name: "Negozi", Population: 30000, Industry: &model.Industry{CommercialZonesCount: 31}},
			expected: CommercialHub,
		},
		{
			name:     "commercial hub by malls",
			entity:   model.Entity{Name: "Centri", Population: 30000, Industry: &model.Industry{MallsCount: 4}},
			expected: CommercialHub,
		},
		{
			name:     "capital",
			entity:   model.Entity{Name: "Sondrio", Population: 21000, POIs: &model.POIs{HotelCount: 40}},
			expected: ProvincialCapital,
		},
		{
			name:     "tourist",
			entity:   model.Entity{Name: "Bellagio", Population: 20000, Industry: &model.Industry{}, POIs: &model.POIs{HotelCount: 12}},
			expected: Tourist,
		},
		{
			name:     "hotels at threshold is not tourist",
			entity:   model.Entity{Name: "Lago", Population: 20000, POIs: &model.POIs{HotelCount: 10}},
			expected: Residential,
		},
		{
			name:     "residential with no groups",
			entity:   model.Entity{Name: "Paese"},
			expected: Residential,
		},
		{
			name:     "capital match is exact",
			entity:   model.Entity{Name: "bergamo", Population: 10000},
			expected: Residential,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.entity))
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewClassifier(capitals)
	e := model.Entity{Name: "Sondrio", Population: 21000, Industry: &model.Industry{MallsCount: 2}}
	first := c.Classify(e)
	for range 10 {
		assert.Equal(t, first, c.Classify(e))
	}
}

func TestDisplayName(t *testing.T) {
	for _, p := range All {
		assert.NotEmpty(t, p.DisplayName(), string(p))
	}
	assert.Equal(t, "Metropoli", Metropolis.DisplayName())
	assert.Equal(t, "Località Turistica", Tourist.DisplayName())
	assert.Equal(t, "Città Residenziale", Profile("bogus").DisplayName())
}

func TestIsCapital(t *testing.T) {
	c := NewClassifier(capitals)
	assert.True(t, c.IsCapital("Lodi"))
	assert.False(t, c.IsCapital("Crema"))
	assert.False(t, NewClassifier(nil).IsCapital("Lodi"))
}
