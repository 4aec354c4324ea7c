// Package model defines the locality record shared by every pipeline stage.
package model

// Group names one independently present-or-absent bundle of enrichment fields.
type Group string

// Attribute groups, in the order passes usually run.
const (
	GroupDescription Group = "description"
	GroupImage       Group = "image"
	GroupClimate     Group = "climate"
	GroupPOIs        Group = "pois"
	GroupSolar       Group = "solar"
	GroupIndustry    Group = "industry"
	GroupAirQuality  Group = "air_quality"
)

// Groups lists every attribute group.
var Groups = []Group{
	GroupDescription,
	GroupImage,
	GroupClimate,
	GroupPOIs,
	GroupSolar,
	GroupIndustry,
	GroupAirQuality,
}

// Entity is one locality in the registry.
type Entity struct {
	Name       string   `json:"name"`
	Slug       string   `json:"slug"`
	Population int      `json:"population"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Province   string   `json:"province"`
	PostalCode string   `json:"postal_code"`
	AreaKM2    *float64 `json:"area_km2"`
	WikidataID string   `json:"wikidata_id,omitempty"`
	GeoNamesID int64    `json:"geonames_id,omitempty"`
	Region     string   `json:"region"`
	Country    string   `json:"country"`

	Description *Description `json:"description,omitempty"`
	Image       *Image       `json:"image,omitempty"`
	Climate     *Climate     `json:"climate,omitempty"`
	POIs        *POIs        `json:"pois,omitempty"`
	Solar       *Solar       `json:"solar,omitempty"`
	Industry    *Industry    `json:"industry,omitempty"`
	AirQuality  *AirQuality  `json:"air_quality,omitempty"`
}

// Description holds encyclopedic facts about the locality.
type Description struct {
	Text      string   `json:"text,omitempty"`
	Extract   string   `json:"extract,omitempty"`
	ImageURL  string   `json:"image_url,omitempty"`
	Website   string   `json:"official_website,omitempty"`
	AltitudeM *float64 `json:"altitude_m,omitempty"`
	Inception string   `json:"inception,omitempty"`
}

// Image is the representative picture used on the locality page.
type Image struct {
	URL string `json:"url"`
	// Kind is "thumbnail", "original" or "wikidata".
	Kind string `json:"kind"`
}

// Climate summarizes the monthly mean temperature and precipitation series.
type Climate struct {
	TempAvgAnnual         float64 `json:"temp_avg_annual"`
	TempMinMonth          float64 `json:"temp_min_month"`
	TempMaxMonth          float64 `json:"temp_max_month"`
	PrecipitationAnnualMM *int    `json:"precipitation_annual_mm"`
}

// POIs holds point-of-interest counts within the search radius.
type POIs struct {
	FacilityCount      int `json:"facility_count"`
	ParkingCount       int `json:"parking_count"`
	EVChargingStations int `json:"ev_charging_stations"`
	HotelCount         int `json:"hotel_count"`
}

// Solar is the simulated yield of the reference carport installation.
type Solar struct {
	AnnualProductionKWh int       `json:"annual_production_kwh"`
	MonthlyProduction   []float64 `json:"monthly_production"`
	IrradiationKWhM2    int       `json:"irradiation_kwh_m2"`
	OptimalAngle        float64   `json:"optimal_angle"`
}

// Industry holds land-use counts and areas within the search radius.
type Industry struct {
	IndustrialZonesCount   int     `json:"industrial_zones_count"`
	IndustrialAreaHectares float64 `json:"industrial_area_hectares"`
	SurfaceParkingCount    int     `json:"surface_parking_count"`
	PrivateParkingCount    int     `json:"private_parking_count"`
	CommercialZonesCount   int     `json:"commercial_zones_count"`
	MallsCount             int     `json:"malls_count"`
}

// AirQuality is the current European air-quality reading.
type AirQuality struct {
	EuropeanAQI     int     `json:"european_aqi"`
	PM10            float64 `json:"pm10"`
	PM25            float64 `json:"pm2_5"`
	NitrogenDioxide float64 `json:"nitrogen_dioxide"`
	QualityLabel    string  `json:"quality_label"`
}

// Coordinates returns the entity's position and whether both axes are known.
func (e *Entity) Coordinates() (lat, lon float64, ok bool) {
	if e.Latitude == nil || e.Longitude == nil {
		return 0, 0, false
	}
	return *e.Latitude, *e.Longitude, true
}

// HasCoordinates reports whether latitude and longitude are both known.
func (e *Entity) HasCoordinates() bool {
	_, _, ok := e.Coordinates()
	return ok
}

// Has reports whether the given attribute group is present.
func (e *Entity) Has(g Group) bool {
	switch g {
	case GroupDescription:
		return e.Description != nil
	case GroupImage:
		return e.Image != nil && e.Image.URL != ""
	case GroupClimate:
		return e.Climate != nil
	case GroupPOIs:
		return e.POIs != nil
	case GroupSolar:
		return e.Solar != nil
	case GroupIndustry:
		return e.Industry != nil
	case GroupAirQuality:
		return e.AirQuality != nil
	default:
		return false
	}
}

// PageImage returns the image shown on the locality page: the imagery group
// when present, otherwise the Wikidata image of the description.
func (e *Entity) PageImage() string {
	if e.Image != nil && e.Image.URL != "" {
		return e.Image.URL
	}
	if e.Description != nil {
		return e.Description.ImageURL
	}
	return ""
}

// HotelCount returns the POI hotel count, or zero when POIs are absent.
func (e *Entity) HotelCount() int {
	if e.POIs == nil {
		return 0
	}
	return e.POIs.HotelCount
}

// IndustrialZones returns the industrial zone count, or zero when absent.
func (e *Entity) IndustrialZones() int {
	if e.Industry == nil {
		return 0
	}
	return e.Industry.IndustrialZonesCount
}

// IndustrialHectares returns the industrial area, or zero when absent.
func (e *Entity) IndustrialHectares() float64 {
	if e.Industry == nil {
		return 0
	}
	return e.Industry.IndustrialAreaHectares
}

// CommercialZones returns the commercial zone count, or zero when absent.
func (e *Entity) CommercialZones() int {
	if e.Industry == nil {
		return 0
	}
	return e.Industry.CommercialZonesCount
}

// Malls returns the mall and supermarket count, or zero when absent.
func (e *Entity) Malls() int {
	if e.Industry == nil {
		return 0
	}
	return e.Industry.MallsCount
}

// Float returns a pointer to v, for optional fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for optional fields.
func Int(v int) *int { return &v }
