// Package sitemap builds sitemap.xml for the generated site.
package sitemap

import (
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"

	"github.com/rossinienergy/citypages/internal/model"
)

const (
	xmlns      = "http://www.sitemaps.org/schemas/sitemap/0.9"
	dateLayout = "2006-01-02"
)

// URL is one sitemap entry.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// URLSet is the sitemap document.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Priority ranks a locality page by population.
func Priority(population int) string {
	switch {
	case population > 100000:
		return "0.9"
	case population > 50000:
		return "0.8"
	default:
		return "0.7"
	}
}

// Build returns the home page followed by one entry per entity, in order.
// Every lastmod is the clock's current date.
func Build(domain string, entities []model.Entity, clock clockwork.Clock) URLSet {
	domain = strings.TrimRight(domain, "/")
	today := clock.Now().Format(dateLayout)

	set := URLSet{Xmlns: xmlns, URLs: make([]URL, 0, len(entities)+1)}
	set.URLs = append(set.URLs, URL{
		Loc:        domain + "/index.html",
		LastMod:    today,
		ChangeFreq: "weekly",
		Priority:   "1.0",
	})
	for _, e := range entities {
		set.URLs = append(set.URLs, URL{
			Loc:        domain + "/citta/" + e.Slug + ".html",
			LastMod:    today,
			ChangeFreq: "monthly",
			Priority:   Priority(e.Population),
		})
	}
	return set
}

// Encode writes set as an indented XML document.
func (s URLSet) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return eris.Wrap(err, "sitemap: write header")
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(s); err != nil {
		return eris.Wrap(err, "sitemap: encode")
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return eris.Wrap(err, "sitemap: write")
	}
	return nil
}

// Write builds the sitemap and saves it as sitemap.xml under outputDir.
func Write(outputDir, domain string, entities []model.Entity, clock clockwork.Clock) (int, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return 0, eris.Wrap(err, "sitemap: create output directory")
	}
	path := filepath.Join(outputDir, "sitemap.xml")
	f, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrapf(err, "sitemap: create %s", path)
	}
	set := Build(domain, entities, clock)
	if err := set.Encode(f); err != nil {
		f.Close() //nolint:errcheck
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, eris.Wrapf(err, "sitemap: close %s", path)
	}
	return len(set.URLs), nil
}
