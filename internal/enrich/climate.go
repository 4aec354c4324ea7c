package enrich

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/rossinienergy/citypages/internal/model"
	"github.com/rossinienergy/citypages/pkg/openmeteo"
)

// Climate summarizes the monthly temperature and precipitation normals.
type Climate struct {
	om openmeteo.Client
}

// NewClimate creates the climate adapter.
func NewClimate(om openmeteo.Client) *Climate {
	return &Climate{om: om}
}

func (a *Climate) Name() string       { return "climate" }
func (a *Climate) Group() model.Group { return model.GroupClimate }

func (a *Climate) Enrich(ctx context.Context, e *model.Entity) error {
	lat, lon, err := requireCoordinates(e)
	if err != nil {
		return err
	}

	series, err := a.om.Climate(ctx, lat, lon)
	if err != nil {
		return err
	}

	c, ok := SummarizeClimate(series.Temperatures(), series.Precipitations())
	if !ok {
		return eris.Wrap(ErrSkipped, "empty monthly series")
	}
	e.Climate = c
	return nil
}

// SummarizeClimate reduces monthly means and totals to the climate group.
// It reports false when there are no temperature samples.
func SummarizeClimate(temps, precip []float64) (*model.Climate, bool) {
	if len(temps) == 0 {
		return nil, false
	}

	sum, lo, hi := 0.0, temps[0], temps[0]
	for _, t := range temps {
		sum += t
		lo = min(lo, t)
		hi = max(hi, t)
	}

	c := &model.Climate{
		TempAvgAnnual: round1(sum / float64(len(temps))),
		TempMinMonth:  round1(lo),
		TempMaxMonth:  round1(hi),
	}
	if len(precip) > 0 {
		total := 0.0
		for _, p := range precip {
			total += p
		}
		c.PrecipitationAnnualMM = model.Int(whole(total))
	}
	return c, true
}
