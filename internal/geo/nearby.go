package geo

import (
	"sort"

	"github.com/rossinienergy/citypages/internal/model"
)

// Proximity index defaults.
const (
	DefaultRadiusKM = 50.0
	DefaultLimit    = 8
)

// Neighbor is one entity near a target, with its distance.
type Neighbor struct {
	Entity     model.Entity
	DistanceKM float64
}

// Nearby returns up to limit entities within radiusKM of target, nearest
// first. The target itself (by slug) and entities without coordinates are
// excluded; a target without coordinates has no neighbours. Equal distances
// keep input order.
func Nearby(target model.Entity, all []model.Entity, radiusKM float64, limit int) []Neighbor {
	lat, lon, ok := target.Coordinates()
	if !ok || limit <= 0 {
		return nil
	}

	var out []Neighbor
	for _, e := range all {
		if e.Slug == target.Slug {
			continue
		}
		eLat, eLon, ok := e.Coordinates()
		if !ok {
			continue
		}
		d := DistanceKM(lat, lon, eLat, eLon)
		if d <= radiusKM {
			out = append(out, Neighbor{Entity: e, DistanceKM: d})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKM < out[j].DistanceKM
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Index precomputes the default proximity set for every entity, keyed by slug.
func Index(all []model.Entity) map[string][]Neighbor {
	idx := make(map[string][]Neighbor, len(all))
	for _, e := range all {
		idx[e.Slug] = Nearby(e, all, DefaultRadiusKM, DefaultLimit)
	}
	return idx
}
