package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rossinienergy/citypages/internal/config"
	"github.com/rossinienergy/citypages/internal/resilience"
)

// maxBodyBytes bounds a single response body.
const maxBodyBytes = 32 << 20

// AdaptiveLimiter paces requests to one host. The configured rate is a
// ceiling: a 429 halves the rate (down to a quarter of the ceiling) and each
// success recovers 20% of it.
type AdaptiveLimiter struct {
	mu          sync.Mutex
	limiter     *rate.Limiter
	maxRate     rate.Limit
	minRate     rate.Limit
	currentRate rate.Limit
}

// NewAdaptiveLimiter creates a limiter allowing at most one request per
// interval. A non-positive interval disables pacing.
func NewAdaptiveLimiter(interval time.Duration) *AdaptiveLimiter {
	r := rate.Inf
	if interval > 0 {
		r = rate.Every(interval)
	}
	return &AdaptiveLimiter{
		limiter:     rate.NewLimiter(r, 1),
		maxRate:     r,
		minRate:     r / 4,
		currentRate: r,
	}
}

// Wait blocks until the limiter allows a request.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// OnSuccess raises the rate by 20%, never above the configured ceiling.
func (a *AdaptiveLimiter) OnSuccess() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.currentRate == rate.Inf || a.currentRate >= a.maxRate {
		return
	}
	newRate := a.currentRate * 1.2
	if newRate > a.maxRate {
		newRate = a.maxRate
	}
	a.currentRate = newRate
	a.limiter.SetLimit(newRate)
}

// OnRateLimit halves the rate after a 429.
func (a *AdaptiveLimiter) OnRateLimit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.currentRate == rate.Inf {
		return
	}
	newRate := a.currentRate * 0.5
	if newRate < a.minRate {
		newRate = a.minRate
	}
	a.currentRate = newRate
	a.limiter.SetLimit(newRate)
	zap.L().Warn("fetcher: reducing rate after 429",
		zap.Float64("new_rate", float64(newRate)),
	)
}

// Limit returns the current rate.
func (a *AdaptiveLimiter) Limit() rate.Limit {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentRate
}

// HostPolicy is the pacing and timeout applied to one host.
type HostPolicy struct {
	Interval time.Duration
	Timeout  time.Duration
}

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent string
	// Timeout applies to hosts without a policy.
	Timeout time.Duration
	// Hosts maps a URL host to its policy.
	Hosts   map[string]HostPolicy
	Retry   resilience.RetryConfig
	Circuit resilience.CircuitBreakerConfig
	Client  *http.Client
}

// HTTPFetcher implements Fetcher with per-host pacing, a per-host circuit
// breaker and retries on transient failures.
type HTTPFetcher struct {
	client   *http.Client
	opts     HTTPOptions
	breakers *resilience.Breakers

	mu       sync.Mutex
	limiters map[string]*AdaptiveLimiter
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "citypages/1.0"
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	f := &HTTPFetcher{
		client:   client,
		opts:     opts,
		breakers: resilience.NewBreakers(opts.Circuit),
		limiters: make(map[string]*AdaptiveLimiter),
	}
	for host, p := range opts.Hosts {
		f.limiters[host] = NewAdaptiveLimiter(p.Interval)
	}
	return f
}

// OptionsFromConfig builds fetcher options from the loaded configuration,
// one host policy per configured source.
func OptionsFromConfig(cfg *config.Config) HTTPOptions {
	retry, circuit := resilience.FromHTTPConfig(cfg.HTTP)
	opts := HTTPOptions{
		UserAgent: cfg.HTTP.UserAgent,
		Hosts:     make(map[string]HostPolicy),
		Retry:     retry,
		Circuit:   circuit,
	}

	sources := []config.SourceConfig{
		cfg.Sources.Wikidata,
		cfg.Sources.Wikipedia,
		cfg.Sources.Climate,
		cfg.Sources.AirQuality,
		cfg.Sources.Overpass,
		cfg.Sources.PVGIS,
		cfg.Sources.GeoNames.SourceConfig,
	}
	for _, src := range sources {
		u, err := url.Parse(src.BaseURL)
		if err != nil || u.Host == "" {
			continue
		}
		p := HostPolicy{
			Interval: time.Duration(src.IntervalMs) * time.Millisecond,
			Timeout:  time.Duration(src.TimeoutSecs) * time.Second,
		}
		// Sources sharing a host keep the slowest pacing.
		if prev, ok := opts.Hosts[u.Host]; ok && prev.Interval > p.Interval {
			p.Interval = prev.Interval
		}
		opts.Hosts[u.Host] = p
	}
	return opts
}

func (f *HTTPFetcher) limiterFor(host string) *AdaptiveLimiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	lim, ok := f.limiters[host]
	if !ok {
		lim = NewAdaptiveLimiter(0)
		f.limiters[host] = lim
	}
	return lim
}

func (f *HTTPFetcher) timeoutFor(host string) time.Duration {
	if p, ok := f.opts.Hosts[host]; ok && p.Timeout > 0 {
		return p.Timeout
	}
	return f.opts.Timeout
}

// Do executes req, retrying transient failures, and returns the body of the
// first 2xx response.
func (f *HTTPFetcher) Do(ctx context.Context, req Request) ([]byte, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: parse url %q", req.URL)
	}
	if len(req.Query) > 0 {
		q := u.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	cb := f.breakers.Get(u.Host)
	retry := f.opts.Retry
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger(u.Host)
	}

	return resilience.DoVal(ctx, retry, func(ctx context.Context) ([]byte, error) {
		return resilience.ExecuteVal(ctx, cb, func(ctx context.Context) ([]byte, error) {
			return f.once(ctx, u, req)
		})
	})
}

func (f *HTTPFetcher) once(ctx context.Context, u *url.URL, req Request) ([]byte, error) {
	lim := f.limiterFor(u.Host)
	if err := lim.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "fetcher: rate limiter wait")
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeoutFor(u.Host))
	defer cancel()

	method := http.MethodGet
	var body io.Reader
	if req.Form != nil {
		method = http.MethodPost
		body = strings.NewReader(req.Form.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: create request")
	}
	httpReq.Header.Set("User-Agent", f.opts.UserAgent)
	if req.Accept != "" {
		httpReq.Header.Set("Accept", req.Accept)
	}
	if req.Form != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: %s %s", method, u.Host)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		statusErr := &StatusError{StatusCode: resp.StatusCode, URL: u.Scheme + "://" + u.Host + u.Path}
		if resp.StatusCode == http.StatusTooManyRequests {
			lim.OnRateLimit()
		}
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return nil, statusErr
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: read body")
	}
	lim.OnSuccess()
	return data, nil
}
