package content

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rossinienergy/citypages/internal/model"
	"github.com/rossinienergy/citypages/internal/profile"
)

// Narrative is the profile-driven body copy of a page.
type Narrative struct {
	H2       string
	Intro    string
	Benefits string
}

// Writer composes narratives with Italian number formatting.
type Writer struct {
	brand string
	p     *message.Printer
}

// NewWriter creates a Writer that signs copy with brand.
func NewWriter(brand string) *Writer {
	return &Writer{brand: brand, p: message.NewPrinter(language.Italian)}
}

// Number formats n with Italian digit grouping.
func (w *Writer) Number(n int) string {
	return w.p.Sprintf("%d", n)
}

// Decimal formats v with one decimal and an Italian decimal comma.
func (w *Writer) Decimal(v float64) string {
	return w.p.Sprintf("%.1f", v)
}

// Compose builds the narrative for e. Each fragment is emitted only when the
// data it cites is present on the entity.
func (w *Writer) Compose(e model.Entity, prof profile.Profile) Narrative {
	var b strings.Builder
	h2 := w.profileLead(&b, e, prof)

	if e.POIs != nil && e.POIs.ParkingCount > 0 {
		b.WriteString(w.p.Sprintf("La città conta %s parcheggi censiti, molti dei quali potrebbero essere convertiti in impianti di produzione solare. ",
			w.Number(e.POIs.ParkingCount)))
	}
	if e.POIs != nil && e.POIs.EVChargingStations > 0 {
		b.WriteString(w.p.Sprintf("Con %s punti di ricarica già presenti, %s mostra una crescente attenzione alla mobilità elettrica. ",
			w.Number(e.POIs.EVChargingStations), e.Name))
		b.WriteString("Le nostre tettoie fotovoltaiche integrano colonnine di ricarica EV direttamente nella struttura. ")
	} else {
		b.WriteString(w.brand + " può installare pensiline fotovoltaiche con colonnine di ricarica integrate, preparando la tua azienda al futuro della mobilità elettrica. ")
	}

	if e.Industry != nil && prof != profile.IndustrialHub && e.Industry.SurfaceParkingCount > 0 {
		b.WriteString(w.p.Sprintf("Nel raggio di 5 km si contano %s parcheggi a raso, superfici ideali per una copertura fotovoltaica. ",
			w.Number(e.Industry.SurfaceParkingCount)))
	}

	if e.Solar != nil {
		b.WriteString(w.p.Sprintf("Un impianto da 30 kWp a %s può produrre circa %s kWh all'anno, con un'irradiazione di %s kWh/m² e un'inclinazione ottimale di %s°. ",
			e.Name, w.Number(e.Solar.AnnualProductionKWh), w.Number(e.Solar.IrradiationKWhM2), w.Decimal(e.Solar.OptimalAngle)))
	}

	if e.Climate != nil {
		b.WriteString(w.p.Sprintf("La temperatura media annua è di %s °C", w.Decimal(e.Climate.TempAvgAnnual)))
		if e.Climate.PrecipitationAnnualMM != nil {
			b.WriteString(w.p.Sprintf(", con circa %s mm di pioggia all'anno", w.Number(*e.Climate.PrecipitationAnnualMM)))
		}
		b.WriteString(": una pensilina protegge i veicoli dal sole estivo e dalle intemperie. ")
	}

	if e.AirQuality != nil {
		b.WriteString(w.p.Sprintf("La qualità dell'aria attuale è %s (indice europeo %d): ogni kWh solare autoprodotto contribuisce a ridurre le emissioni locali. ",
			strings.ToLower(e.AirQuality.QualityLabel), e.AirQuality.EuropeanAQI))
	}

	return Narrative{
		H2:       h2,
		Intro:    strings.TrimSpace(b.String()),
		Benefits: benefits,
	}
}

const benefits = "I vantaggi per la tua azienda: produzione di energia solare autoconsumata, riduzione dei costi energetici fino al 70%, " +
	"protezione dei veicoli dipendenti, valorizzazione dell'immagine aziendale green, " +
	"e possibilità di ricarica veicoli elettrici direttamente sul posto di lavoro."

func (w *Writer) profileLead(b *strings.Builder, e model.Entity, prof profile.Profile) string {
	where := ""
	if e.Province != "" {
		where = " (" + e.Province + ")"
	}

	switch prof {
	case profile.Metropolis:
		b.WriteString(w.p.Sprintf("%s%s, con oltre %s abitanti, è uno dei principali poli economici della regione. ", e.Name, where, w.Number(e.Population)))
		b.WriteString("Le grandi aziende locali possono ridurre significativamente i costi energetici installando tettoie fotovoltaiche sui parcheggi dipendenti. ")
		return "Pensiline Fotovoltaiche per Grandi Aziende a " + e.Name

	case profile.IndustrialHub:
		b.WriteString(w.p.Sprintf("Con %s zone industriali e circa %s ettari di aree produttive nel raggio di 5 km, %s è un polo industriale di primo piano. ",
			w.Number(e.IndustrialZones()), w.Decimal(e.IndustrialHectares()), e.Name))
		b.WriteString("I grandi parcheggi di stabilimenti e magazzini sono superfici perfette per produrre energia da autoconsumare. ")
		return "Tettoie Fotovoltaiche per l'Industria a " + e.Name

	case profile.CommercialHub:
		b.WriteString(w.p.Sprintf("A %s%s si contano %s aree commerciali e %s centri commerciali e supermercati. ",
			e.Name, where, w.Number(e.CommercialZones()), w.Number(e.Malls())))
		b.WriteString("Un parcheggio coperto da pensiline solari offre ombra ai clienti e abbatte i costi energetici dei punti vendita. ")
		return "Pensiline Solari per Parcheggi Commerciali a " + e.Name

	case profile.ProvincialCapital:
		b.WriteString(w.p.Sprintf("Come capoluogo di provincia, %s ospita uffici, servizi e aziende che ogni giorno accolgono dipendenti e visitatori. ", e.Name))
		b.WriteString("Una tettoia fotovoltaica trasforma questi parcheggi in una fonte di energia pulita. ")
		return "Parcheggi Fotovoltaici per Aziende ed Enti a " + e.Name

	case profile.Tourist:
		b.WriteString(w.p.Sprintf("Con %s strutture alberghiere, %s è una meta turistica apprezzata. ", w.Number(e.HotelCount()), e.Name))
		b.WriteString("Hotel e strutture ricettive possono offrire parcheggi ombreggiati e ricarica elettrica agli ospiti, riducendo le bollette. ")
		return "Pensiline Fotovoltaiche per Hotel e Strutture Ricettive a " + e.Name

	default:
		b.WriteString(w.p.Sprintf("Anche le aziende di %s%s possono beneficiare dell'energia solare. ", e.Name, where))
		b.WriteString("Installare una tettoia fotovoltaica sul parcheggio aziendale significa produrre energia pulita e proteggere i veicoli dalle intemperie. ")
		return "Parcheggi Fotovoltaici per Aziende a " + e.Name
	}
}
