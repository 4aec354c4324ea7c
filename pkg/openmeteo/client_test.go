package openmeteo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossinienergy/citypages/internal/fetcher"
	"github.com/rossinienergy/citypages/internal/resilience"
)

func testFetcher() fetcher.Fetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		Retry: resilience.RetryConfig{MaxAttempts: 1},
	})
}

func TestClimate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "45.4642", q.Get("latitude"))
		assert.Equal(t, "9.19", q.Get("longitude"))
		assert.Equal(t, ClimateModel, q.Get("models"))
		assert.Equal(t, ClimateStart, q.Get("start_date"))
		assert.Equal(t, "temperature_2m_mean,precipitation_sum", q.Get("monthly"))
		w.Write([]byte(`{"monthly":{"time":["2020-01","2020-02","2020-03"],
			"temperature_2m_mean":[2.5,null,9.1],
			"precipitation_sum":[60.2,45,null]}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(testFetcher(), WithClimateURL(srv.URL))
	got, err := c.Climate(context.Background(), 45.4642, 9.19)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 9.1}, got.Temperatures())
	assert.Equal(t, []float64{60.2, 45}, got.Precipitations())
}

func TestClimate_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"error":true,"reason":"Latitude must be in range of -90 to 90°."}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(testFetcher(), WithClimateURL(srv.URL))
	_, err := c.Climate(context.Background(), 99, 9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Latitude must be in range")
}

func TestClimate_EmptySeries(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"latitude":45.5}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(testFetcher(), WithClimateURL(srv.URL))
	got, err := c.Climate(context.Background(), 45.5, 9.2)
	require.NoError(t, err)
	assert.Empty(t, got.Temperatures())
}

func TestClimate_DailyOnlyIsEmpty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"daily":{"time":["2020-01-01","2020-01-02"],
			"temperature_2m_mean":[-4.2,1.3],"precipitation_sum":[0,12]}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(testFetcher(), WithClimateURL(srv.URL))
	got, err := c.Climate(context.Background(), 45.5, 9.2)
	require.NoError(t, err)
	assert.Empty(t, got.Temperatures())
	assert.Empty(t, got.Precipitations())
}

func TestAirQuality(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "european_aqi,pm10,pm2_5,nitrogen_dioxide", r.URL.Query().Get("current"))
		w.Write([]byte(`{"current":{"time":"2026-10-16T10:00","european_aqi":47,
			"pm10":21.34,"pm2_5":14.06,"nitrogen_dioxide":31.5}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(testFetcher(), WithAirQualityURL(srv.URL))
	got, err := c.AirQuality(context.Background(), 45.69, 9.67)
	require.NoError(t, err)
	require.NotNil(t, got.EuropeanAQI)
	assert.InDelta(t, 47.0, *got.EuropeanAQI, 1e-9)
	assert.InDelta(t, 14.06, *got.PM25, 1e-9)
	assert.InDelta(t, 31.5, *got.NitrogenDioxide, 1e-9)
}

func TestAirQuality_MissingCurrent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(testFetcher(), WithAirQualityURL(srv.URL))
	got, err := c.AirQuality(context.Background(), 45.69, 9.67)
	require.NoError(t, err)
	assert.Nil(t, got.EuropeanAQI)
}
