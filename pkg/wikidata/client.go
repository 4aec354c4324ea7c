// Package wikidata queries the Wikidata SPARQL endpoint for Italian comuni
// and their encyclopedic facts.
package wikidata

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/rossinienergy/citypages/internal/fetcher"
)

// Client defines the Wikidata operations.
type Client interface {
	// Comuni lists the comuni located in the region with at least
	// minPopulation inhabitants, largest first.
	Comuni(ctx context.Context, regionQID string, minPopulation int) ([]Comune, error)
	// Describe returns description, image, website, altitude and inception
	// of an item. Found is false when the item has none of them.
	Describe(ctx context.Context, qid string) (*Facts, error)
}

// Comune is one row of the seed query.
type Comune struct {
	QID        string
	Name       string
	Population int
	Latitude   *float64
	Longitude  *float64
	Province   string
	PostalCode string
	AreaKM2    *float64
}

// Facts holds the descriptive properties of an item.
type Facts struct {
	Found       bool
	Description string
	ImageURL    string
	Website     string
	AltitudeM   *float64
	Inception   string
}

// Option configures the Wikidata client.
type Option func(*client)

// WithBaseURL sets a custom SPARQL endpoint (for testing).
func WithBaseURL(u string) Option {
	return func(c *client) {
		c.baseURL = u
	}
}

type client struct {
	f       fetcher.Fetcher
	baseURL string
}

// NewClient creates a Wikidata client on top of f.
func NewClient(f fetcher.Fetcher, opts ...Option) Client {
	c := &client{f: f, baseURL: "https://query.wikidata.org/sparql"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	qidPattern   = regexp.MustCompile(`^Q[0-9]+$`)
	pointPattern = regexp.MustCompile(`Point\(\s*([-0-9.eE+]+)\s+([-0-9.eE+]+)\s*\)`)
)

type binding struct {
	Value string `json:"value"`
}

type sparqlResponse struct {
	Results struct {
		Bindings []map[string]binding `json:"bindings"`
	} `json:"results"`
}

func (c *client) query(ctx context.Context, sparql string) ([]map[string]binding, error) {
	resp, err := fetcher.GetJSON[sparqlResponse](ctx, c.f, c.baseURL, url.Values{
		"query":  {sparql},
		"format": {"json"},
	})
	if err != nil {
		return nil, eris.Wrap(err, "wikidata: sparql")
	}
	return resp.Results.Bindings, nil
}

const comuniQuery = `SELECT ?city ?cityLabel ?population ?coordinates ?provinceLabel ?postalCode ?area WHERE {
  ?city wdt:P31 wd:Q747074 .
  ?city wdt:P131* wd:%s .
  ?city wdt:P1082 ?population .
  OPTIONAL { ?city wdt:P625 ?coordinates . }
  OPTIONAL { ?city wdt:P131 ?province . ?province wdt:P31 wd:Q15089 . }
  OPTIONAL { ?city wdt:P281 ?postalCode . }
  OPTIONAL { ?city wdt:P2046 ?area . }
  FILTER(?population >= %d)
  SERVICE wikibase:label { bd:serviceParam wikibase:language "it,en" . }
}
ORDER BY DESC(?population)`

func (c *client) Comuni(ctx context.Context, regionQID string, minPopulation int) ([]Comune, error) {
	if !qidPattern.MatchString(regionQID) {
		return nil, eris.Errorf("wikidata: invalid region id %q", regionQID)
	}

	rows, err := c.query(ctx, fmt.Sprintf(comuniQuery, regionQID, minPopulation))
	if err != nil {
		return nil, err
	}

	// One comune can appear once per postal code or province binding.
	seen := make(map[string]bool, len(rows))
	out := make([]Comune, 0, len(rows))
	for _, row := range rows {
		qid := lastPathSegment(row["city"].Value)
		if qid == "" || seen[qid] {
			continue
		}
		seen[qid] = true

		pop, err := strconv.ParseFloat(row["population"].Value, 64)
		if err != nil {
			continue
		}

		cm := Comune{
			QID:        qid,
			Name:       row["cityLabel"].Value,
			Population: int(pop),
			Province:   row["provinceLabel"].Value,
			PostalCode: row["postalCode"].Value,
		}
		if lat, lon, ok := ParsePoint(row["coordinates"].Value); ok {
			cm.Latitude, cm.Longitude = &lat, &lon
		}
		if area, err := strconv.ParseFloat(row["area"].Value, 64); err == nil {
			cm.AreaKM2 = &area
		}
		out = append(out, cm)
	}
	return out, nil
}

const describeQuery = `SELECT ?description ?image ?website ?altitude ?inception WHERE {
  OPTIONAL { wd:%[1]s schema:description ?description . FILTER(LANG(?description) = "it") }
  OPTIONAL { wd:%[1]s wdt:P18 ?image . }
  OPTIONAL { wd:%[1]s wdt:P856 ?website . }
  OPTIONAL { wd:%[1]s wdt:P2044 ?altitude . }
  OPTIONAL { wd:%[1]s wdt:P571 ?inception . }
}
LIMIT 1`

func (c *client) Describe(ctx context.Context, qid string) (*Facts, error) {
	if !qidPattern.MatchString(qid) {
		return nil, eris.Errorf("wikidata: invalid item id %q", qid)
	}

	rows, err := c.query(ctx, fmt.Sprintf(describeQuery, qid))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return &Facts{}, nil
	}

	r := rows[0]
	facts := &Facts{
		Found:       true,
		Description: r["description"].Value,
		ImageURL:    r["image"].Value,
		Website:     r["website"].Value,
		Inception:   r["inception"].Value,
	}
	if alt, err := strconv.ParseFloat(r["altitude"].Value, 64); err == nil {
		facts.AltitudeM = &alt
	}
	return facts, nil
}

// ParsePoint parses a WKT "Point(lon lat)" literal.
func ParsePoint(wkt string) (lat, lon float64, ok bool) {
	m := pointPattern.FindStringSubmatch(wkt)
	if m == nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, false
	}
	lat, err = strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

func lastPathSegment(uri string) string {
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
