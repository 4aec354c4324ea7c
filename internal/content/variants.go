// Package content selects the rotated SEO strings and composes the narrative
// paragraphs of a locality page. Everything here is a pure function of its
// inputs.
package content

import "fmt"

// Rotation periods.
const (
	TitlePeriod   = 5
	HeadingPeriod = 3
)

var titleFormats = [TitlePeriod]string{
	"Tettoia Fotovoltaica per Parcheggio a %[1]s | %[3]s",
	"Pensilina Fotovoltaica a %[1]s, %[2]s - Preventivo Gratuito | %[3]s",
	"Parcheggio Fotovoltaico a %[1]s | Installazione Chiavi in Mano | %[3]s",
	"Installatore Pensiline Fotovoltaiche a %[1]s | %[3]s",
	"Tettoia Solare per Parcheggio Aziendale a %[1]s | %[3]s",
}

var descriptionFormats = [TitlePeriod]string{
	"%[3]s installa tettoie fotovoltaiche per parcheggi aziendali a %[1]s. Struttura in legno, pannelli bifacciali. Preventivo gratuito.",
	"Pensilina fotovoltaica a %[1]s: trasforma il parcheggio della tua azienda in una fonte di energia rinnovabile. Installazione chiavi in mano.",
	"Parcheggio fotovoltaico a %[1]s, %[2]s. Riduci i costi energetici della tua azienda con le pensiline solari TOSSO® di %[3]s.",
	"Installazione tettoie fotovoltaiche per aziende e PMI a %[1]s. Legno Douglas, pannelli bifacciali. Contattaci per un sopralluogo gratuito.",
	"Copri il parcheggio della tua azienda a %[1]s con una pensilina fotovoltaica. Energia solare e protezione veicoli. %[3]s.",
}

var headingPrefixes = [HeadingPeriod]string{
	"Tettoia Fotovoltaica per Parcheggio a",
	"Pensilina Fotovoltaica a",
	"Parcheggio Fotovoltaico a",
}

// Variant is the set of rotated strings for one page.
type Variant struct {
	Title       string
	Description string
	// HeadingPrefix and City together form the page heading; they are kept
	// apart so templates can style the city name.
	HeadingPrefix string
	City          string
}

// Heading returns the full plain-text heading.
func (v Variant) Heading() string {
	return v.HeadingPrefix + " " + v.City
}

// Select returns the variant for the entity at ordinal in the full ordered
// sequence. Titles and descriptions rotate together with period 5, headings
// with period 3.
func Select(name, province, brand string, ordinal int) Variant {
	i := mod(ordinal, TitlePeriod)
	return Variant{
		Title:         fmt.Sprintf(titleFormats[i], name, province, brand),
		Description:   fmt.Sprintf(descriptionFormats[i], name, province, brand),
		HeadingPrefix: headingPrefixes[mod(ordinal, HeadingPeriod)],
		City:          name,
	}
}

func mod(n, m int) int {
	return ((n % m) + m) % m
}
