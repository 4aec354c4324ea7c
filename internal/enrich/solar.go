package enrich

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/rossinienergy/citypages/internal/model"
	"github.com/rossinienergy/citypages/pkg/pvgis"
)

// Solar simulates the reference carport installation with PVGIS.
type Solar struct {
	pv     pvgis.Client
	params pvgis.Params
}

// NewSolar creates the solar-yield adapter for the default installation.
func NewSolar(pv pvgis.Client) *Solar {
	return &Solar{pv: pv, params: pvgis.DefaultParams()}
}

func (a *Solar) Name() string       { return "solar" }
func (a *Solar) Group() model.Group { return model.GroupSolar }

func (a *Solar) Enrich(ctx context.Context, e *model.Entity) error {
	lat, lon, err := requireCoordinates(e)
	if err != nil {
		return err
	}

	res, err := a.pv.PVCalc(ctx, lat, lon, a.params)
	if err != nil {
		return err
	}
	// Zero yield counts as a failure.
	if res.AnnualKWh() <= 0 {
		return eris.Wrap(ErrNoResult, "zero annual yield")
	}

	e.Solar = &model.Solar{
		AnnualProductionKWh: whole(res.AnnualKWh()),
		MonthlyProduction:   res.MonthlyKWh(),
		IrradiationKWhM2:    whole(res.IrradiationKWhM2()),
		OptimalAngle:        res.OptimalInclinationDeg(),
	}
	return nil
}
