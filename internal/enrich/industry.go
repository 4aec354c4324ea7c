package enrich

import (
	"context"

	"github.com/rossinienergy/citypages/internal/geo"
	"github.com/rossinienergy/citypages/internal/model"
	"github.com/rossinienergy/citypages/pkg/overpass"
)

// Industry classifies land-use features around the locality and estimates
// the industrial surface from the returned way geometry.
type Industry struct {
	op overpass.Client
}

// NewIndustry creates the land-use adapter.
func NewIndustry(op overpass.Client) *Industry {
	return &Industry{op: op}
}

func (a *Industry) Name() string       { return "industry" }
func (a *Industry) Group() model.Group { return model.GroupIndustry }

var landUseSelectors = []overpass.Selector{
	overpass.Sel("way", "landuse", "industrial"),
	overpass.Sel("relation", "landuse", "industrial"),
	overpass.Sel("node", "amenity", "parking", "parking", "surface"),
	overpass.Sel("way", "amenity", "parking", "parking", "surface"),
	overpass.Sel("node", "amenity", "parking", "access", "private"),
	overpass.Sel("way", "amenity", "parking", "access", "private"),
	overpass.Sel("node", "shop", "mall"),
	overpass.Sel("way", "shop", "mall"),
	overpass.Sel("node", "shop", "supermarket"),
	overpass.Sel("way", "shop", "supermarket"),
	overpass.Sel("way", "landuse", "commercial"),
	overpass.Sel("relation", "landuse", "commercial"),
}

func (a *Industry) Enrich(ctx context.Context, e *model.Entity) error {
	lat, lon, err := requireCoordinates(e)
	if err != nil {
		return err
	}

	around := overpass.Around{RadiusM: SearchRadiusM, Lat: lat, Lon: lon}
	elements, err := a.op.Elements(ctx, overpass.BodyQuery(queryTimeoutSecs, around, landUseSelectors...))
	if err != nil {
		return err
	}

	e.Industry = ClassifyLandUse(elements)
	return nil
}

// ClassifyLandUse counts features by tag and sums the area of industrial
// ways. Relations are counted but contribute no area. Zero counts are valid.
func ClassifyLandUse(elements []overpass.Element) *model.Industry {
	nodes := make(map[int64]geo.LatLon)
	for _, el := range elements {
		if el.Type == "node" {
			nodes[el.ID] = geo.LatLon{Lat: el.Lat, Lon: el.Lon}
		}
	}

	var (
		ind     model.Industry
		totalM2 float64
	)
	for _, el := range elements {
		tags := el.Tags
		if len(tags) == 0 {
			continue
		}
		area := el.Type == "way" || el.Type == "relation"

		switch {
		case tags["landuse"] == "industrial" && area:
			ind.IndustrialZonesCount++
			if el.Type == "way" {
				totalM2 += geo.PolygonAreaM2(resolveRing(el.Nodes, nodes))
			}
		case tags["landuse"] == "commercial" && area:
			ind.CommercialZonesCount++
		case tags["amenity"] == "parking":
			if tags["parking"] == "surface" {
				ind.SurfaceParkingCount++
			}
			if tags["access"] == "private" {
				ind.PrivateParkingCount++
			}
		case tags["shop"] == "mall" || tags["shop"] == "supermarket":
			ind.MallsCount++
		}
	}

	ind.IndustrialAreaHectares = round1(geo.Hectares(totalM2))
	return &ind
}

// resolveRing maps node references to coordinates, dropping unresolved ones.
func resolveRing(refs []int64, nodes map[int64]geo.LatLon) []geo.LatLon {
	ring := make([]geo.LatLon, 0, len(refs))
	for _, id := range refs {
		if p, ok := nodes[id]; ok {
			ring = append(ring, p)
		}
	}
	return ring
}
