package geo

import (
	"math"

	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// MetersPerDegree approximates the length of one degree of latitude.
const MetersPerDegree = 111000.0

// LatLon is a WGS84 vertex.
type LatLon struct {
	Lat float64
	Lon float64
}

// PolygonAreaM2 estimates the area of a ring in square metres. Vertices are
// flattened with an equirectangular projection scaled at the ring's mean
// latitude, then measured with the Shoelace formula. Rings with fewer than
// three vertices have zero area.
func PolygonAreaM2(ring []LatLon) float64 {
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		ring = ring[:n-1]
	}
	if len(ring) < 3 {
		return 0
	}

	var sumLat float64
	for _, p := range ring {
		sumLat += p.Lat
	}
	scaleX := MetersPerDegree * math.Cos(toRad(sumLat/float64(len(ring))))

	flat := make([]float64, 0, (len(ring)+1)*2)
	for _, p := range ring {
		flat = append(flat, p.Lon*scaleX, p.Lat*MetersPerDegree)
	}
	flat = append(flat, flat[0], flat[1])

	poly := geom.NewPolygon(geom.XY)
	if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
		zap.L().Debug("geo: skipping malformed ring", zap.Error(err))
		return 0
	}
	return math.Abs(poly.Area())
}

// Hectares converts square metres to hectares.
func Hectares(m2 float64) float64 {
	return m2 / 10000
}
