// Package profile classifies localities into the content profile that drives
// narrative selection.
package profile

import "github.com/rossinienergy/citypages/internal/model"

// Profile is a content category. Exactly one applies to every entity.
type Profile string

// Profiles.
const (
	Metropolis        Profile = "metropolis"
	IndustrialHub     Profile = "industrial_hub"
	CommercialHub     Profile = "commercial_hub"
	ProvincialCapital Profile = "provincial_capital"
	Tourist           Profile = "tourist"
	Residential       Profile = "residential"
)

// All lists every profile in decision order.
var All = []Profile{Metropolis, IndustrialHub, CommercialHub, ProvincialCapital, Tourist, Residential}

// Decision thresholds. Every comparison is strict.
const (
	metropolisPopulation  = 100000
	industrialZonesMin    = 100
	industrialHectaresMin = 300.0
	commercialZonesMin    = 30
	mallsMin              = 3
	touristHotelsMin      = 10
)

var displayNames = map[Profile]string{
	Metropolis:        "Metropoli",
	IndustrialHub:     "Polo Industriale",
	CommercialHub:     "Polo Commerciale",
	ProvincialCapital: "Capoluogo di Provincia",
	Tourist:           "Località Turistica",
	Residential:       "Città Residenziale",
}

// DisplayName returns the Italian label shown on pages.
func (p Profile) DisplayName() string {
	if name, ok := displayNames[p]; ok {
		return name
	}
	return displayNames[Residential]
}

// Classifier maps entities to profiles. Capitals is the set of provincial
// capital names matched exactly against Entity.Name.
type Classifier struct {
	capitals map[string]struct{}
}

// NewClassifier creates a Classifier for the given capital names.
func NewClassifier(capitals []string) *Classifier {
	c := &Classifier{capitals: make(map[string]struct{}, len(capitals))}
	for _, name := range capitals {
		c.capitals[name] = struct{}{}
	}
	return c
}

// Classify evaluates the decision list; the first matching rule wins:
//   - population > 100000: Metropolis
//   - industrial zones > 100 or industrial area > 300 ha: IndustrialHub
//   - commercial zones > 30 or malls > 3: CommercialHub
//   - name is a provincial capital: ProvincialCapital
//   - hotels > 10: Tourist
//   - otherwise: Residential
//
// Absent industry or POI groups count as zero.
func (c *Classifier) Classify(e model.Entity) Profile {
	switch {
	case e.Population > metropolisPopulation:
		return Metropolis
	case e.IndustrialZones() > industrialZonesMin || e.IndustrialHectares() > industrialHectaresMin:
		return IndustrialHub
	case e.CommercialZones() > commercialZonesMin || e.Malls() > mallsMin:
		return CommercialHub
	case c.IsCapital(e.Name):
		return ProvincialCapital
	case e.HotelCount() > touristHotelsMin:
		return Tourist
	default:
		return Residential
	}
}

// IsCapital reports whether name is a configured provincial capital.
func (c *Classifier) IsCapital(name string) bool {
	_, ok := c.capitals[name]
	return ok
}
