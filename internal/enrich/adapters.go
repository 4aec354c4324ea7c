package enrich

import (
	"github.com/rotisserie/eris"

	"github.com/rossinienergy/citypages/internal/config"
	"github.com/rossinienergy/citypages/internal/fetcher"
	"github.com/rossinienergy/citypages/pkg/geonames"
	"github.com/rossinienergy/citypages/pkg/openmeteo"
	"github.com/rossinienergy/citypages/pkg/overpass"
	"github.com/rossinienergy/citypages/pkg/pvgis"
	"github.com/rossinienergy/citypages/pkg/wikidata"
	"github.com/rossinienergy/citypages/pkg/wikipedia"
)

// Clients bundles the remote source clients.
type Clients struct {
	Wikidata  wikidata.Client
	Wikipedia wikipedia.Client
	OpenMeteo openmeteo.Client
	Overpass  overpass.Client
	PVGIS     pvgis.Client
	// GeoNames is nil unless a username is configured.
	GeoNames geonames.Client
}

// NewClients builds every client over f with the configured endpoints.
func NewClients(cfg *config.Config, f fetcher.Fetcher) Clients {
	src := cfg.Sources
	c := Clients{
		Wikidata:  wikidata.NewClient(f, wikidata.WithBaseURL(src.Wikidata.BaseURL)),
		Wikipedia: wikipedia.NewClient(f, wikipedia.WithBaseURL(src.Wikipedia.BaseURL)),
		OpenMeteo: openmeteo.NewClient(f,
			openmeteo.WithClimateURL(src.Climate.BaseURL),
			openmeteo.WithAirQualityURL(src.AirQuality.BaseURL),
		),
		Overpass: overpass.NewClient(f, overpass.WithBaseURL(src.Overpass.BaseURL)),
		PVGIS:    pvgis.NewClient(f, pvgis.WithBaseURL(src.PVGIS.BaseURL)),
	}
	if src.GeoNames.Username != "" {
		c.GeoNames = geonames.NewClient(f, src.GeoNames.Username, geonames.WithBaseURL(src.GeoNames.BaseURL))
	}
	return c
}

// PassNames lists the enrichment passes in the order "enrich all" runs them.
var PassNames = []string{"describe", "images", "climate", "pois", "solar", "industry", "airquality"}

// Adapters returns every adapter in PassNames order.
func Adapters(c Clients) []Adapter {
	return []Adapter{
		NewDescribe(c.Wikidata, c.Wikipedia),
		NewImages(c.Wikipedia),
		NewClimate(c.OpenMeteo),
		NewPOIs(c.Overpass),
		NewSolar(c.PVGIS),
		NewIndustry(c.Overpass),
		NewAirQuality(c.OpenMeteo),
	}
}

// Lookup returns the adapter for a pass name.
func Lookup(c Clients, name string) (Adapter, error) {
	for _, a := range Adapters(c) {
		if a.Name() == name {
			return a, nil
		}
	}
	return nil, eris.Errorf("enrich: unknown pass %q", name)
}

// Checkpoint returns the configured checkpoint interval of a pass's source.
func Checkpoint(cfg *config.Config, pass string) int {
	src := cfg.Sources
	switch pass {
	case "describe":
		return src.Wikidata.Checkpoint
	case "images":
		return src.Wikipedia.Checkpoint
	case "climate":
		return src.Climate.Checkpoint
	case "pois", "industry":
		return src.Overpass.Checkpoint
	case "solar":
		return src.PVGIS.Checkpoint
	case "airquality":
		return src.AirQuality.Checkpoint
	default:
		return 10
	}
}
