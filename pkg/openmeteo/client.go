// Package openmeteo provides a client for the Open-Meteo climate and air
// quality APIs.
package openmeteo

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/rossinienergy/citypages/internal/fetcher"
)

const (
	// ClimateModel is the downscaled CMIP6 model used for monthly normals.
	ClimateModel = "EC_Earth3P_HR"
	// ClimateStart and ClimateEnd bound the averaging window.
	ClimateStart = "2020-01-01"
	ClimateEnd   = "2024-12-31"
)

// Client defines the Open-Meteo operations.
type Client interface {
	// Climate returns the monthly mean temperature and precipitation series
	// for the point over the averaging window.
	Climate(ctx context.Context, lat, lon float64) (*MonthlySeries, error)
	// AirQuality returns the current European AQI and pollutant levels.
	AirQuality(ctx context.Context, lat, lon float64) (*AirQuality, error)
}

// MonthlySeries holds the monthly climate series. Missing samples are nil.
type MonthlySeries struct {
	Time          []string   `json:"time"`
	Temperature   []*float64 `json:"temperature_2m_mean"`
	Precipitation []*float64 `json:"precipitation_sum"`
}

// Temperatures returns the non-null temperature samples.
func (m *MonthlySeries) Temperatures() []float64 { return present(m.Temperature) }

// Precipitations returns the non-null precipitation samples.
func (m *MonthlySeries) Precipitations() []float64 { return present(m.Precipitation) }

func present(in []*float64) []float64 {
	out := make([]float64, 0, len(in))
	for _, v := range in {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// AirQuality holds the current air quality readings.
type AirQuality struct {
	Time            string   `json:"time"`
	EuropeanAQI     *float64 `json:"european_aqi"`
	PM10            *float64 `json:"pm10"`
	PM25            *float64 `json:"pm2_5"`
	NitrogenDioxide *float64 `json:"nitrogen_dioxide"`
}

// Option configures the Open-Meteo client.
type Option func(*client)

// WithClimateURL sets a custom climate endpoint (for testing).
func WithClimateURL(u string) Option {
	return func(c *client) {
		c.climateURL = u
	}
}

// WithAirQualityURL sets a custom air quality endpoint (for testing).
func WithAirQualityURL(u string) Option {
	return func(c *client) {
		c.airQualityURL = u
	}
}

type client struct {
	f             fetcher.Fetcher
	climateURL    string
	airQualityURL string
}

// NewClient creates an Open-Meteo client on top of f.
func NewClient(f fetcher.Fetcher, opts ...Option) Client {
	c := &client{
		f:             f,
		climateURL:    "https://climate-api.open-meteo.com/v1/climate",
		airQualityURL: "https://air-quality-api.open-meteo.com/v1/air-quality",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type climateResponse struct {
	Monthly *MonthlySeries `json:"monthly"`
	Error   bool           `json:"error"`
	Reason  string         `json:"reason"`
}

func (c *client) Climate(ctx context.Context, lat, lon float64) (*MonthlySeries, error) {
	resp, err := fetcher.GetJSON[climateResponse](ctx, c.f, c.climateURL, url.Values{
		"latitude":   {coord(lat)},
		"longitude":  {coord(lon)},
		"start_date": {ClimateStart},
		"end_date":   {ClimateEnd},
		"models":     {ClimateModel},
		"monthly":    {"temperature_2m_mean,precipitation_sum"},
	})
	if err != nil {
		return nil, eris.Wrap(err, "openmeteo: climate")
	}
	if resp.Error {
		return nil, eris.Errorf("openmeteo: climate: %s", resp.Reason)
	}
	if resp.Monthly == nil {
		return &MonthlySeries{}, nil
	}
	return resp.Monthly, nil
}

type airQualityResponse struct {
	Current *AirQuality `json:"current"`
	Error   bool        `json:"error"`
	Reason  string      `json:"reason"`
}

func (c *client) AirQuality(ctx context.Context, lat, lon float64) (*AirQuality, error) {
	resp, err := fetcher.GetJSON[airQualityResponse](ctx, c.f, c.airQualityURL, url.Values{
		"latitude":  {coord(lat)},
		"longitude": {coord(lon)},
		"current":   {"european_aqi,pm10,pm2_5,nitrogen_dioxide"},
	})
	if err != nil {
		return nil, eris.Wrap(err, "openmeteo: air quality")
	}
	if resp.Error {
		return nil, eris.Errorf("openmeteo: air quality: %s", resp.Reason)
	}
	if resp.Current == nil {
		return &AirQuality{}, nil
	}
	return resp.Current, nil
}
