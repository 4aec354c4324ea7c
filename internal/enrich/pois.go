package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/rossinienergy/citypages/internal/model"
	"github.com/rossinienergy/citypages/pkg/overpass"
)

const (
	// SearchRadiusM bounds every map-feature query around a locality.
	SearchRadiusM = 5000
	// queryTimeoutSecs is the server-side Overpass timeout.
	queryTimeoutSecs = 25
)

// POIs counts parking, charging and hospitality features around the
// locality. Overpass pacing is enforced by the transport.
type POIs struct {
	op overpass.Client
}

// NewPOIs creates the POI density adapter.
func NewPOIs(op overpass.Client) *POIs {
	return &POIs{op: op}
}

func (a *POIs) Name() string       { return "pois" }
func (a *POIs) Group() model.Group { return model.GroupPOIs }

var (
	facilitySelectors = []overpass.Selector{
		overpass.Sel("node", "amenity", "parking"),
		overpass.Sel("way", "amenity", "parking"),
		overpass.Sel("node", "amenity", "fuel"),
		overpass.Sel("node", "shop", "supermarket"),
		overpass.Sel("node", "shop", "mall"),
		overpass.Sel("node", "amenity", "charging_station"),
	}
	parkingSelectors = []overpass.Selector{
		overpass.Sel("node", "amenity", "parking"),
		overpass.Sel("way", "amenity", "parking"),
	}
	chargingSelectors = []overpass.Selector{
		overpass.Sel("node", "amenity", "charging_station"),
	}
	hotelSelectors = []overpass.Selector{
		overpass.Sel("node", "tourism", "hotel"),
		overpass.Sel("way", "tourism", "hotel"),
	}
)

func (a *POIs) Enrich(ctx context.Context, e *model.Entity) error {
	lat, lon, err := requireCoordinates(e)
	if err != nil {
		return err
	}
	around := overpass.Around{RadiusM: SearchRadiusM, Lat: lat, Lon: lon}

	counts := make([]int, 4)
	var firstErr error
	failed := 0
	for i, sels := range [][]overpass.Selector{facilitySelectors, parkingSelectors, chargingSelectors, hotelSelectors} {
		c, err := a.op.Count(ctx, overpass.CountQuery(queryTimeoutSecs, around, sels...))
		if err != nil {
			// A failed sub-query counts as zero unless every query fails.
			zap.L().Debug("enrich: poi sub-query failed",
				zap.String("slug", e.Slug), zap.Int("query", i), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			failed++
			continue
		}
		counts[i] = c.Total
	}
	if failed == len(counts) {
		return firstErr
	}

	e.POIs = &model.POIs{
		FacilityCount:      counts[0],
		ParkingCount:       counts[1],
		EVChargingStations: counts[2],
		HotelCount:         counts[3],
	}
	return nil
}
