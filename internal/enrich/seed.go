package enrich

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rossinienergy/citypages/internal/config"
	"github.com/rossinienergy/citypages/internal/model"
	"github.com/rossinienergy/citypages/internal/registry"
	"github.com/rossinienergy/citypages/pkg/geonames"
	"github.com/rossinienergy/citypages/pkg/wikidata"
)

// Seeder builds the initial registry: identity, geometry and population.
type Seeder struct {
	site   config.SiteConfig
	admin1 string
	wd     wikidata.Client
	gn     geonames.Client
}

// NewSeeder creates a seeder. GeoNames is used when gn is non-nil, with
// Wikidata as the fallback when it fails or finds nothing.
func NewSeeder(site config.SiteConfig, admin1 string, wd wikidata.Client, gn geonames.Client) *Seeder {
	return &Seeder{site: site, admin1: admin1, wd: wd, gn: gn}
}

// Seed fetches the localities of the configured region with at least the
// minimum population. Colliding slugs keep the first locality in source
// order; the result is sorted by population, largest first.
func (s *Seeder) Seed(ctx context.Context) (*registry.Registry, error) {
	var (
		entities []model.Entity
		err      error
	)
	if s.gn != nil {
		entities, err = s.fromGeoNames(ctx)
		if err != nil || len(entities) == 0 {
			zap.L().Warn("seed: geonames unavailable, falling back to wikidata",
				zap.Int("localities", len(entities)), zap.Error(err))
			entities, err = nil, nil
		}
	}
	if len(entities) == 0 {
		entities, err = s.fromWikidata(ctx)
	}
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, eris.Errorf("seed: no localities found in %s", s.site.Region)
	}

	deduped, dropped := registry.FromEntities(entities)
	for _, d := range dropped {
		zap.L().Debug("seed: dropping duplicate slug", zap.String("name", d.Name))
	}

	out := deduped.Entities()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Population > out[j].Population
	})
	reg, _ := registry.FromEntities(out)
	return reg, nil
}

func (s *Seeder) fromWikidata(ctx context.Context) ([]model.Entity, error) {
	comuni, err := s.wd.Comuni(ctx, s.site.RegionQID, s.site.MinPopulation)
	if err != nil {
		return nil, eris.Wrap(err, "seed: wikidata")
	}

	out := make([]model.Entity, 0, len(comuni))
	for _, c := range comuni {
		e := model.Entity{
			Name:       c.Name,
			Population: c.Population,
			Latitude:   c.Latitude,
			Longitude:  c.Longitude,
			Province:   c.Province,
			PostalCode: c.PostalCode,
			WikidataID: c.QID,
			Region:     s.site.Region,
			Country:    s.site.Country,
		}
		if c.AreaKM2 != nil {
			e.AreaKM2 = model.Float(round1(*c.AreaKM2))
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Seeder) fromGeoNames(ctx context.Context) ([]model.Entity, error) {
	places, err := s.gn.PopulatedPlaces(ctx, s.site.Country, s.admin1)
	if err != nil {
		return nil, eris.Wrap(err, "seed: geonames")
	}

	out := make([]model.Entity, 0, len(places))
	for _, p := range places {
		if p.Population < s.site.MinPopulation {
			continue
		}
		e := model.Entity{
			Name:       p.Name,
			Population: p.Population,
			Province:   p.AdminName2,
			GeoNamesID: p.GeonameID,
			Region:     s.site.Region,
			Country:    s.site.Country,
		}
		if lat, lon, ok := p.Coordinates(); ok {
			e.Latitude, e.Longitude = model.Float(lat), model.Float(lon)
		}
		out = append(out, e)
	}
	return out, nil
}
