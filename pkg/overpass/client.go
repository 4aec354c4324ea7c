// Package overpass queries an OpenStreetMap Overpass API interpreter.
package overpass

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/rossinienergy/citypages/internal/fetcher"
)

// ErrRuntime is returned when the interpreter reports a runtime error, such
// as a query timeout, inside a 200 response.
var ErrRuntime = eris.New("overpass: runtime error")

// Client defines the Overpass operations.
type Client interface {
	// Count runs a query ending in "out count;".
	Count(ctx context.Context, query string) (*Counts, error)
	// Elements runs a query and returns its elements.
	Elements(ctx context.Context, query string) ([]Element, error)
}

// Element is an OSM node, way or relation.
type Element struct {
	Type  string            `json:"type"`
	ID    int64             `json:"id"`
	Lat   float64           `json:"lat"`
	Lon   float64           `json:"lon"`
	Nodes []int64           `json:"nodes"`
	Tags  map[string]string `json:"tags"`
}

// Counts is the result of an "out count" statement.
type Counts struct {
	Nodes     int
	Ways      int
	Relations int
	Total     int
}

// Option configures the Overpass client.
type Option func(*client)

// WithBaseURL sets a custom interpreter URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *client) {
		c.baseURL = u
	}
}

type client struct {
	f       fetcher.Fetcher
	baseURL string
}

// NewClient creates an Overpass client on top of f.
func NewClient(f fetcher.Fetcher, opts ...Option) Client {
	c := &client{f: f, baseURL: "https://overpass-api.de/api/interpreter"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type response struct {
	Remark   string    `json:"remark"`
	Elements []Element `json:"elements"`
}

func (c *client) run(ctx context.Context, query string) (*response, error) {
	resp, err := fetcher.PostFormJSON[response](ctx, c.f, c.baseURL, url.Values{"data": {query}})
	if err != nil {
		return nil, eris.Wrap(err, "overpass: interpreter")
	}
	if strings.Contains(resp.Remark, "runtime error") && len(resp.Elements) == 0 {
		return nil, eris.Wrap(ErrRuntime, resp.Remark)
	}
	return resp, nil
}

func (c *client) Count(ctx context.Context, query string) (*Counts, error) {
	resp, err := c.run(ctx, query)
	if err != nil {
		return nil, err
	}
	for _, el := range resp.Elements {
		if el.Type != "count" {
			continue
		}
		return &Counts{
			Nodes:     tagInt(el.Tags, "nodes"),
			Ways:      tagInt(el.Tags, "ways"),
			Relations: tagInt(el.Tags, "relations"),
			Total:     tagInt(el.Tags, "total"),
		}, nil
	}
	return nil, eris.New("overpass: response has no count element")
}

func (c *client) Elements(ctx context.Context, query string) ([]Element, error) {
	resp, err := c.run(ctx, query)
	if err != nil {
		return nil, err
	}
	return resp.Elements, nil
}

func tagInt(tags map[string]string, key string) int {
	n, err := strconv.Atoi(tags[key])
	if err != nil {
		return 0
	}
	return n
}
