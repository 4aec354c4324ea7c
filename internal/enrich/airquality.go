package enrich

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/rossinienergy/citypages/internal/model"
	"github.com/rossinienergy/citypages/pkg/openmeteo"
)

// Quality labels, best first.
const (
	QualityGood     = "Buona"
	QualityFair     = "Discreta"
	QualityPoor     = "Scarsa"
	QualityVeryPoor = "Cattiva"
)

// QualityLabel bins a European AQI value.
func QualityLabel(aqi float64) string {
	switch {
	case aqi < 50:
		return QualityGood
	case aqi < 100:
		return QualityFair
	case aqi < 150:
		return QualityPoor
	default:
		return QualityVeryPoor
	}
}

// AirQuality records the current European AQI and pollutant levels.
type AirQuality struct {
	om openmeteo.Client
}

// NewAirQuality creates the air-quality adapter.
func NewAirQuality(om openmeteo.Client) *AirQuality {
	return &AirQuality{om: om}
}

func (a *AirQuality) Name() string       { return "airquality" }
func (a *AirQuality) Group() model.Group { return model.GroupAirQuality }

func (a *AirQuality) Enrich(ctx context.Context, e *model.Entity) error {
	lat, lon, err := requireCoordinates(e)
	if err != nil {
		return err
	}

	cur, err := a.om.AirQuality(ctx, lat, lon)
	if err != nil {
		return err
	}
	if cur.EuropeanAQI == nil {
		return eris.Wrap(ErrNoResult, "no european aqi")
	}

	aqi := *cur.EuropeanAQI
	e.AirQuality = &model.AirQuality{
		EuropeanAQI:     whole(aqi),
		PM10:            round1(deref(cur.PM10)),
		PM25:            round1(deref(cur.PM25)),
		NitrogenDioxide: round1(deref(cur.NitrogenDioxide)),
		QualityLabel:    QualityLabel(aqi),
	}
	return nil
}
