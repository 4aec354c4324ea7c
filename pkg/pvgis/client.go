// Package pvgis provides a client for the JRC PVGIS photovoltaic yield
// estimator.
package pvgis

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/rossinienergy/citypages/internal/fetcher"
)

// DefaultInclinationDeg is used when the response carries no optimal
// inclination.
const DefaultInclinationDeg = 15.0

// Client defines the PVGIS operations.
type Client interface {
	// PVCalc estimates the yield of a grid-connected system at the point.
	PVCalc(ctx context.Context, lat, lon float64, p Params) (*Result, error)
}

// Params describes the simulated installation.
type Params struct {
	PeakPowerKW float64
	LossPct     float64
	Technology  string
	Mounting    string
	AngleDeg    float64
}

// DefaultParams is a 30 kWp crystalline silicon carport roof at 15°.
func DefaultParams() Params {
	return Params{
		PeakPowerKW: 30,
		LossPct:     14,
		Technology:  "crystSi",
		Mounting:    "building",
		AngleDeg:    15,
	}
}

func (p Params) values(lat, lon float64) url.Values {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return url.Values{
		"lat":           {f(lat)},
		"lon":           {f(lon)},
		"peakpower":     {f(p.PeakPowerKW)},
		"loss":          {f(p.LossPct)},
		"pvtechchoice":  {p.Technology},
		"mountingplace": {p.Mounting},
		"angle":         {f(p.AngleDeg)},
		"outputformat":  {"json"},
	}
}

// Result is the subset of the PVcalc response we use.
type Result struct {
	Outputs struct {
		Totals struct {
			Fixed struct {
				EY  float64 `json:"E_y"`
				HIY float64 `json:"H(i)_y"`
			} `json:"fixed"`
		} `json:"totals"`
		Monthly struct {
			Fixed []Month `json:"fixed"`
		} `json:"monthly"`
		ModuleParams struct {
			OptimalInclination *float64 `json:"optimalInclination"`
		} `json:"pv_module_output_params"`
	} `json:"outputs"`
}

// Month is one monthly production row.
type Month struct {
	Month int     `json:"month"`
	EM    float64 `json:"E_m"`
}

// AnnualKWh is the yearly production of the simulated system.
func (r *Result) AnnualKWh() float64 { return r.Outputs.Totals.Fixed.EY }

// IrradiationKWhM2 is the yearly in-plane irradiation.
func (r *Result) IrradiationKWhM2() float64 { return r.Outputs.Totals.Fixed.HIY }

// MonthlyKWh returns the monthly production in calendar order.
func (r *Result) MonthlyKWh() []float64 {
	out := make([]float64, 0, len(r.Outputs.Monthly.Fixed))
	for _, m := range r.Outputs.Monthly.Fixed {
		out = append(out, m.EM)
	}
	return out
}

// OptimalInclinationDeg returns the reported optimum or DefaultInclinationDeg.
func (r *Result) OptimalInclinationDeg() float64 {
	if v := r.Outputs.ModuleParams.OptimalInclination; v != nil {
		return *v
	}
	return DefaultInclinationDeg
}

// Option configures the PVGIS client.
type Option func(*client)

// WithBaseURL sets a custom PVcalc endpoint (for testing).
func WithBaseURL(u string) Option {
	return func(c *client) {
		c.baseURL = u
	}
}

type client struct {
	f       fetcher.Fetcher
	baseURL string
}

// NewClient creates a PVGIS client on top of f.
func NewClient(f fetcher.Fetcher, opts ...Option) Client {
	c := &client{f: f, baseURL: "https://re.jrc.ec.europa.eu/api/v5_2/PVcalc"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) PVCalc(ctx context.Context, lat, lon float64, p Params) (*Result, error) {
	res, err := fetcher.GetJSON[Result](ctx, c.f, c.baseURL, p.values(lat, lon))
	if err != nil {
		return nil, eris.Wrap(err, "pvgis: pvcalc")
	}
	return res, nil
}
