package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/rossinienergy/citypages/internal/config"
	"github.com/rossinienergy/citypages/internal/resilience"
)

func newTestFetcher() *HTTPFetcher {
	return NewHTTPFetcher(HTTPOptions{
		UserAgent: "test-agent",
		Timeout:   5 * time.Second,
		Retry: resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     5 * time.Millisecond,
		},
		Circuit: resilience.CircuitBreakerConfig{FailureThreshold: 10},
	})
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "45.5", r.URL.Query().Get("latitude"))
		assert.Equal(t, "keep", r.URL.Query().Get("existing"))
		w.Write([]byte(`{"name":"Lodi","count":3}`)) //nolint:errcheck
	}))
	defer srv.Close()

	got, err := GetJSON[payload](context.Background(), newTestFetcher(), srv.URL+"/v1?existing=keep", url.Values{"latitude": {"45.5"}})
	require.NoError(t, err)
	assert.Equal(t, "Lodi", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestPostFormJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "[out:json];node;out count;", r.PostForm.Get("data"))
		w.Write([]byte(`{"name":"count","count":7}`)) //nolint:errcheck
	}))
	defer srv.Close()

	got, err := PostFormJSON[payload](context.Background(), newTestFetcher(), srv.URL, url.Values{"data": {"[out:json];node;out count;"}})
	require.NoError(t, err)
	assert.Equal(t, 7, got.Count)
}

func TestDo_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"count":1}`)) //nolint:errcheck
	}))
	defer srv.Close()

	got, err := GetJSON[payload](context.Background(), newTestFetcher(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDo_PermanentStatusNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Do(context.Background(), Request{URL: srv.URL + "/page/summary/Atlantide"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), calls.Load())

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestDo_ExhaustedRetriesKeepStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Do(context.Background(), Request{URL: srv.URL})
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
	assert.False(t, IsNotFound(err))
}

func TestDo_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"name":`)) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := GetJSON[payload](context.Background(), newTestFetcher(), srv.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json")
}

func TestDo_CircuitOpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{
		Retry:   resilience.RetryConfig{MaxAttempts: 1},
		Circuit: resilience.CircuitBreakerConfig{FailureThreshold: 2, ResetTimeout: time.Hour},
	})
	for range 2 {
		_, err := f.Do(context.Background(), Request{URL: srv.URL})
		require.Error(t, err)
	}
	_, err := f.Do(context.Background(), Request{URL: srv.URL})
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDo_PacesPerHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	f := NewHTTPFetcher(HTTPOptions{
		Hosts: map[string]HostPolicy{u.Host: {Interval: 50 * time.Millisecond}},
	})

	start := time.Now()
	for range 3 {
		_, err := f.Do(context.Background(), Request{URL: srv.URL})
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestAdaptiveLimiter(t *testing.T) {
	a := NewAdaptiveLimiter(time.Second)
	ceiling := a.Limit()
	assert.Equal(t, rate.Every(time.Second), ceiling)

	a.OnRateLimit()
	assert.InDelta(t, float64(ceiling)/2, float64(a.Limit()), 1e-9)
	a.OnRateLimit()
	a.OnRateLimit()
	assert.InDelta(t, float64(ceiling)/4, float64(a.Limit()), 1e-9)

	for range 20 {
		a.OnSuccess()
	}
	assert.Equal(t, ceiling, a.Limit())
}

func TestAdaptiveLimiterUnpaced(t *testing.T) {
	a := NewAdaptiveLimiter(0)
	a.OnRateLimit()
	assert.Equal(t, rate.Inf, a.Limit())
	require.NoError(t, a.Wait(context.Background()))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		HTTP: config.HTTPConfig{UserAgent: "ua", MaxRetries: 2, CircuitFailures: 4, CircuitResetSecs: 10},
		Sources: config.SourcesConfig{
			Overpass:  config.SourceConfig{BaseURL: "https://overpass-api.de/api/interpreter", TimeoutSecs: 60, IntervalMs: 3000},
			PVGIS:     config.SourceConfig{BaseURL: "https://re.jrc.ec.europa.eu/api/v5_2/PVcalc", TimeoutSecs: 30, IntervalMs: 1000},
			Wikipedia: config.SourceConfig{BaseURL: "https://it.wikipedia.org/api/rest_v1", TimeoutSecs: 10, IntervalMs: 500},
			Climate:   config.SourceConfig{BaseURL: "https://climate-api.open-meteo.com/v1/climate", TimeoutSecs: 30, IntervalMs: 300},
		},
	}

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, "ua", opts.UserAgent)
	assert.Equal(t, 2, opts.Retry.MaxAttempts)
	assert.Equal(t, 4, opts.Circuit.FailureThreshold)
	assert.Equal(t, HostPolicy{Interval: 3 * time.Second, Timeout: time.Minute}, opts.Hosts["overpass-api.de"])
	assert.Equal(t, HostPolicy{Interval: time.Second, Timeout: 30 * time.Second}, opts.Hosts["re.jrc.ec.europa.eu"])
	assert.Len(t, opts.Hosts, 4)
}
