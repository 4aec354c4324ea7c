// Package geonames provides a client for the GeoNames search web service.
package geonames

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/rossinienergy/citypages/internal/fetcher"
)

// MaxRows is the largest page the free search service returns.
const MaxRows = 500

// Client defines the GeoNames operations.
type Client interface {
	// PopulatedPlaces lists PPL features in a first-level division, most
	// populous first.
	PopulatedPlaces(ctx context.Context, country, admin1 string) ([]Place, error)
}

// Place is one search result.
type Place struct {
	GeonameID  int64  `json:"geonameId"`
	Name       string `json:"name"`
	Lat        string `json:"lat"`
	Lng        string `json:"lng"`
	Population int    `json:"population"`
	AdminName1 string `json:"adminName1"`
	AdminName2 string `json:"adminName2"`
}

// Coordinates parses the string-encoded position.
func (p Place) Coordinates() (lat, lon float64, ok bool) {
	lat, err1 := strconv.ParseFloat(p.Lat, 64)
	lon, err2 := strconv.ParseFloat(p.Lng, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// Option configures the GeoNames client.
type Option func(*client)

// WithBaseURL sets a custom search URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *client) {
		c.baseURL = u
	}
}

type client struct {
	f        fetcher.Fetcher
	username string
	baseURL  string
}

// NewClient creates a GeoNames client authenticated as username.
func NewClient(f fetcher.Fetcher, username string, opts ...Option) Client {
	c := &client{f: f, username: username, baseURL: "http://api.geonames.org/searchJSON"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResponse struct {
	TotalResultsCount int     `json:"totalResultsCount"`
	Geonames          []Place `json:"geonames"`
	Status            *struct {
		Message string `json:"message"`
		Value   int    `json:"value"`
	} `json:"status"`
}

func (c *client) PopulatedPlaces(ctx context.Context, country, admin1 string) ([]Place, error) {
	if c.username == "" {
		return nil, eris.New("geonames: username is required")
	}
	resp, err := fetcher.GetJSON[searchResponse](ctx, c.f, c.baseURL, url.Values{
		"country":      {country},
		"adminCode1":   {admin1},
		"featureClass": {"P"},
		"featureCode":  {"PPL"},
		"maxRows":      {strconv.Itoa(MaxRows)},
		"orderby":      {"population"},
		"username":     {c.username},
	})
	if err != nil {
		return nil, eris.Wrap(err, "geonames: search")
	}
	if resp.Status != nil {
		return nil, eris.Errorf("geonames: search: %s (code %d)", resp.Status.Message, resp.Status.Value)
	}
	return resp.Geonames, nil
}
