package render

import (
	"sort"
	"strings"

	"github.com/rossinienergy/citypages/internal/content"
	"github.com/rossinienergy/citypages/internal/geo"
	"github.com/rossinienergy/citypages/internal/model"
	"github.com/rossinienergy/citypages/internal/profile"
)

// Page is everything a locality page shows, already formatted.
type Page struct {
	Entity       model.Entity
	Ordinal      int
	Profile      profile.Profile
	ProfileName  string
	Variant      content.Variant
	Narrative    content.Narrative
	Nearby       []NearbyLink
	Facts        []Fact
	CanonicalURL string
	ImageURL     string
}

// NearbyLink points at a neighbouring locality page.
type NearbyLink struct {
	Name       string
	Slug       string
	DistanceKM string
}

// Fact is one labelled figure of the data card.
type Fact struct {
	Label string
	Value string
}

// Builder turns registry entities into pages.
type Builder struct {
	domain     string
	brand      string
	classifier *profile.Classifier
	writer     *content.Writer
}

// NewBuilder creates a Builder for the site at domain, signing copy with brand.
func NewBuilder(domain, brand string, capitals []string) *Builder {
	return &Builder{
		domain:     strings.TrimRight(domain, "/"),
		brand:      brand,
		classifier: profile.NewClassifier(capitals),
		writer:     content.NewWriter(brand),
	}
}

// PageURL returns the canonical URL of the page for slug.
func PageURL(domain, slug string) string {
	return strings.TrimRight(domain, "/") + "/citta/" + slug + ".html"
}

// Build returns one page per entity in registry order. The ordinal that
// drives the rotated strings is the entity's position in all.
func (b *Builder) Build(all []model.Entity) []Page {
	nearby := geo.Index(all)
	pages := make([]Page, 0, len(all))
	for i, e := range all {
		pages = append(pages, b.page(e, i, nearby[e.Slug]))
	}
	return pages
}

func (b *Builder) page(e model.Entity, ordinal int, neighbors []geo.Neighbor) Page {
	prof := b.classifier.Classify(e)
	p := Page{
		Entity:       e,
		Ordinal:      ordinal,
		Profile:      prof,
		ProfileName:  prof.DisplayName(),
		Variant:      content.Select(e.Name, e.Province, b.brand, ordinal),
		Narrative:    b.writer.Compose(e, prof),
		Facts:        b.facts(e),
		CanonicalURL: PageURL(b.domain, e.Slug),
		ImageURL:     e.PageImage(),
	}
	for _, n := range neighbors {
		p.Nearby = append(p.Nearby, NearbyLink{
			Name:       n.Entity.Name,
			Slug:       n.Entity.Slug,
			DistanceKM: b.writer.Decimal(n.DistanceKM),
		})
	}
	return p
}

func (b *Builder) facts(e model.Entity) []Fact {
	w := b.writer
	facts := []Fact{{"Abitanti", w.Number(e.Population)}}
	if e.Province != "" {
		facts = append(facts, Fact{"Provincia", e.Province})
	}
	if e.AreaKM2 != nil {
		facts = append(facts, Fact{"Superficie", w.Decimal(*e.AreaKM2) + " km²"})
	}
	if e.Description != nil && e.Description.AltitudeM != nil {
		facts = append(facts, Fact{"Altitudine", w.Number(int(*e.Description.AltitudeM)) + " m"})
	}
	if e.Solar != nil {
		facts = append(facts,
			Fact{"Produzione stimata (30 kWp)", w.Number(e.Solar.AnnualProductionKWh) + " kWh/anno"},
			Fact{"Irradiazione", w.Number(e.Solar.IrradiationKWhM2) + " kWh/m²"},
		)
	}
	if e.Climate != nil {
		facts = append(facts, Fact{"Temperatura media", w.Decimal(e.Climate.TempAvgAnnual) + " °C"})
		if e.Climate.PrecipitationAnnualMM != nil {
			facts = append(facts, Fact{"Precipitazioni", w.Number(*e.Climate.PrecipitationAnnualMM) + " mm/anno"})
		}
	}
	if e.POIs != nil {
		facts = append(facts,
			Fact{"Parcheggi", w.Number(e.POIs.ParkingCount)},
			Fact{"Colonnine di ricarica", w.Number(e.POIs.EVChargingStations)},
		)
	}
	if e.Industry != nil && e.Industry.IndustrialZonesCount > 0 {
		facts = append(facts, Fact{"Zone industriali (5 km)", w.Number(e.Industry.IndustrialZonesCount)})
	}
	if e.AirQuality != nil {
		facts = append(facts, Fact{"Qualità dell'aria", e.AirQuality.QualityLabel})
	}
	return facts
}

// ProvinceGroup lists the localities of one province.
type ProvinceGroup struct {
	Name  string
	Pages []Page
}

// Count returns the number of localities in the group.
func (g ProvinceGroup) Count() int { return len(g.Pages) }

const otherProvince = "Altro"

// GroupByProvince groups pages by province, largest group first. Ties keep
// the order in which provinces first appear.
func GroupByProvince(pages []Page) []ProvinceGroup {
	var groups []ProvinceGroup
	pos := make(map[string]int)
	for _, p := range pages {
		name := p.Entity.Province
		if name == "" {
			name = otherProvince
		}
		i, ok := pos[name]
		if !ok {
			i = len(groups)
			pos[name] = i
			groups = append(groups, ProvinceGroup{Name: name})
		}
		groups[i].Pages = append(groups[i].Pages, p)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].Pages) > len(groups[j].Pages)
	})
	return groups
}
