package enrich

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rossinienergy/citypages/pkg/geonames"
	"github.com/rossinienergy/citypages/pkg/openmeteo"
	"github.com/rossinienergy/citypages/pkg/overpass"
	"github.com/rossinienergy/citypages/pkg/pvgis"
	"github.com/rossinienergy/citypages/pkg/wikidata"
	"github.com/rossinienergy/citypages/pkg/wikipedia"
)

// --- Wikidata Mock ---

type mockWikidata struct {
	mock.Mock
}

func (m *mockWikidata) Comuni(ctx context.Context, regionQID string, minPopulation int) ([]wikidata.Comune, error) {
	args := m.Called(ctx, regionQID, minPopulation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wikidata.Comune), args.Error(1)
}

func (m *mockWikidata) Describe(ctx context.Context, qid string) (*wikidata.Facts, error) {
	args := m.Called(ctx, qid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wikidata.Facts), args.Error(1)
}

// --- Wikipedia Mock ---

type mockWikipedia struct {
	mock.Mock
}

func (m *mockWikipedia) Summary(ctx context.Context, title string) (*wikipedia.Summary, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wikipedia.Summary), args.Error(1)
}

// --- Open-Meteo Mock ---

type mockOpenMeteo struct {
	mock.Mock
}

func (m *mockOpenMeteo) Climate(ctx context.Context, lat, lon float64) (*openmeteo.MonthlySeries, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openmeteo.MonthlySeries), args.Error(1)
}

func (m *mockOpenMeteo) AirQuality(ctx context.Context, lat, lon float64) (*openmeteo.AirQuality, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openmeteo.AirQuality), args.Error(1)
}

// --- Overpass Mock ---

type mockOverpass struct {
	mock.Mock
}

func (m *mockOverpass) Count(ctx context.Context, query string) (*overpass.Counts, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*overpass.Counts), args.Error(1)
}

func (m *mockOverpass) Elements(ctx context.Context, query string) ([]overpass.Element, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]overpass.Element), args.Error(1)
}

// --- PVGIS Mock ---

type mockPVGIS struct {
	mock.Mock
}

func (m *mockPVGIS) PVCalc(ctx context.Context, lat, lon float64, p pvgis.Params) (*pvgis.Result, error) {
	args := m.Called(ctx, lat, lon, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pvgis.Result), args.Error(1)
}

// --- GeoNames Mock ---

type mockGeoNames struct {
	mock.Mock
}

func (m *mockGeoNames) PopulatedPlaces(ctx context.Context, country, admin1 string) ([]geonames.Place, error) {
	args := m.Called(ctx, country, admin1)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]geonames.Place), args.Error(1)
}
