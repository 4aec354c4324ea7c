// Package render writes the static site: one page per locality, the index
// grouped by province and robots.txt.
package render

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rossinienergy/citypages/internal/config"
	"github.com/rossinienergy/citypages/internal/model"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

const (
	cityTemplate  = "city.html"
	indexTemplate = "index.html"
	pagesDir      = "citta"
)

// Options configures a Renderer.
type Options struct {
	Site         config.SiteConfig
	Company      config.CompanyConfig
	OutputDir    string
	TemplatesDir string
	Concurrency  int
	Clock        clockwork.Clock
}

// Summary reports what a render wrote.
type Summary struct {
	Pages     int
	Provinces int
}

// Renderer writes the site to the output directory.
type Renderer struct {
	opts    Options
	builder *Builder
	city    *template.Template
	index   *template.Template
}

// New parses the templates, preferring files in opts.TemplatesDir over the
// embedded defaults.
func New(opts Options) (*Renderer, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	opts.Site.Domain = strings.TrimRight(opts.Site.Domain, "/")

	city, err := loadTemplate(opts.TemplatesDir, cityTemplate)
	if err != nil {
		return nil, err
	}
	index, err := loadTemplate(opts.TemplatesDir, indexTemplate)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		opts:    opts,
		builder: NewBuilder(opts.Site.Domain, opts.Company.Name, opts.Site.Capitals),
		city:    city,
		index:   index,
	}, nil
}

func loadTemplate(dir, name string) (*template.Template, error) {
	var (
		src []byte
		err error
	)
	if dir != "" {
		src, err = os.ReadFile(filepath.Join(dir, name))
		if err != nil && !os.IsNotExist(err) {
			return nil, eris.Wrapf(err, "render: read template %s", name)
		}
		if err == nil {
			zap.L().Debug("render: using template override", zap.String("path", filepath.Join(dir, name)))
		}
	}
	if src == nil {
		src, err = defaultTemplates.ReadFile("templates/" + name)
		if err != nil {
			return nil, eris.Wrapf(err, "render: embedded template %s", name)
		}
	}
	t, err := template.New(name).Option("missingkey=error").Parse(string(src))
	if err != nil {
		return nil, eris.Wrapf(err, "render: parse template %s", name)
	}
	return t, nil
}

type cityView struct {
	Page
	Company        config.CompanyConfig
	Domain         string
	Year           int
	Tel            template.URL
	StructuredData template.JS
}

type indexView struct {
	Provinces []ProvinceGroup
	Total     int
	Region    string
	Company   config.CompanyConfig
	Domain    string
	Year      int
}

// Render writes every page, then the index and robots.txt.
func (r *Renderer) Render(ctx context.Context, entities []model.Entity) (Summary, error) {
	log := zap.L().With(zap.String("component", "render"))
	out := r.opts.OutputDir
	if err := os.MkdirAll(filepath.Join(out, pagesDir), 0o755); err != nil {
		return Summary{}, eris.Wrap(err, "render: create output directory")
	}

	pages := r.builder.Build(entities)
	year := r.opts.Clock.Now().Year()
	tel := telURL(r.opts.Company.Phone)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for _, p := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ld, err := structuredData(r.opts.Company, p.Entity, p.CanonicalURL)
			if err != nil {
				return err
			}
			view := cityView{
				Page:           p,
				Company:        r.opts.Company,
				Domain:         r.opts.Site.Domain,
				Year:           year,
				Tel:            tel,
				StructuredData: ld,
			}
			path := filepath.Join(out, pagesDir, p.Entity.Slug+".html")
			if err := writeTemplate(r.city, view, path); err != nil {
				return err
			}
			log.Debug("render: page written", zap.String("slug", p.Entity.Slug), zap.String("profile", string(p.Profile)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, eris.Wrap(err, "render: pages")
	}

	groups := GroupByProvince(pages)
	err := writeTemplate(r.index, indexView{
		Provinces: groups,
		Total:     len(pages),
		Region:    r.opts.Site.Region,
		Company:   r.opts.Company,
		Domain:    r.opts.Site.Domain,
		Year:      year,
	}, filepath.Join(out, "index.html"))
	if err != nil {
		return Summary{}, err
	}

	if err := os.WriteFile(filepath.Join(out, "robots.txt"), []byte(Robots(r.opts.Site.Domain)), 0o644); err != nil {
		return Summary{}, eris.Wrap(err, "render: write robots.txt")
	}

	s := Summary{Pages: len(pages), Provinces: len(groups)}
	log.Info("render: site written",
		zap.String("output", out),
		zap.Int("pages", s.Pages),
		zap.Int("provinces", s.Provinces),
	)
	return s, nil
}

// Robots returns the robots.txt body for the site at domain.
func Robots(domain string) string {
	return "User-agent: *\nAllow: /\n\nSitemap: " + strings.TrimRight(domain, "/") + "/sitemap.xml\n"
}

func writeTemplate(t *template.Template, data any, path string) error {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return eris.Wrapf(err, "render: execute %s", t.Name())
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return eris.Wrapf(err, "render: write %s", path)
	}
	return nil
}

var trunkPrefix = regexp.MustCompile(`\(\s*0\s*\)`)

// telURL builds a dialable link. A parenthesised trunk prefix such as "(0)"
// is not dialled after an international code.
func telURL(phone string) template.URL {
	phone = trunkPrefix.ReplaceAllString(phone, "")
	var b strings.Builder
	for _, r := range phone {
		if r == '+' && b.Len() == 0 || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return template.URL("tel:" + b.String())
}

type postalAddress struct {
	Type       string `json:"@type"`
	Street     string `json:"streetAddress,omitempty"`
	City       string `json:"addressLocality,omitempty"`
	Province   string `json:"addressRegion,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"addressCountry,omitempty"`
}

type geoCoordinates struct {
	Type      string  `json:"@type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type areaServed struct {
	Type string          `json:"@type"`
	Name string          `json:"name"`
	Geo  *geoCoordinates `json:"geo,omitempty"`
}

type localBusiness struct {
	Context   string         `json:"@context"`
	Type      string         `json:"@type"`
	Name      string         `json:"name"`
	URL       string         `json:"url,omitempty"`
	Page      string         `json:"mainEntityOfPage"`
	Telephone string         `json:"telephone,omitempty"`
	Email     string         `json:"email,omitempty"`
	Logo      string         `json:"logo,omitempty"`
	Address   *postalAddress `json:"address,omitempty"`
	Area      areaServed     `json:"areaServed"`
}

// structuredData returns the schema.org LocalBusiness markup of a page.
// json.Marshal escapes <, > and &, so the result is safe inside a script tag.
func structuredData(c config.CompanyConfig, e model.Entity, pageURL string) (template.JS, error) {
	lb := localBusiness{
		Context:   "https://schema.org",
		Type:      "LocalBusiness",
		Name:      c.Name,
		URL:       c.URL,
		Page:      pageURL,
		Telephone: c.Phone,
		Email:     c.Email,
		Logo:      c.Logo,
		Area:      areaServed{Type: "City", Name: e.Name},
	}
	if a := c.Address; a != (config.Address{}) {
		lb.Address = &postalAddress{
			Type:       "PostalAddress",
			Street:     a.Street,
			City:       a.City,
			Province:   a.Province,
			PostalCode: a.PostalCode,
			Country:    a.Country,
		}
	}
	if lat, lon, ok := e.Coordinates(); ok {
		lb.Area.Geo = &geoCoordinates{Type: "GeoCoordinates", Latitude: lat, Longitude: lon}
	}
	data, err := json.Marshal(lb)
	if err != nil {
		return "", eris.Wrap(err, "render: structured data")
	}
	return template.JS(data), nil //nolint:gosec
}
