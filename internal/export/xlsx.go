package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/rossinienergy/citypages/internal/model"
	"github.com/rossinienergy/citypages/internal/profile"
)

const sheetName = "Comuni"

// Columns is the header row of the workbook.
var Columns = []string{
	"slug", "name", "province", "population", "latitude", "longitude", "profile",
	"description", "image_url",
	"temp_avg_annual", "precipitation_annual_mm",
	"facility_count", "parking_count", "ev_charging_stations", "hotel_count",
	"annual_production_kwh", "irradiation_kwh_m2", "optimal_angle",
	"industrial_zones_count", "industrial_area_hectares", "commercial_zones_count", "malls_count",
	"european_aqi", "quality_label",
}

// WriteXLSX writes one row per entity. Absent groups leave their cells empty.
func WriteXLSX(path string, entities []model.Entity, c *profile.Classifier) (int, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return 0, eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range Columns {
		header.AddCell().SetString(col)
	}
	for _, e := range entities {
		writeEntityRow(sheet.AddRow(), e, c.Classify(e))
	}

	if err := f.Save(path); err != nil {
		return 0, eris.Wrapf(err, "export: save %s", path)
	}
	return len(entities), nil
}

func writeEntityRow(row *xlsx.Row, e model.Entity, prof profile.Profile) {
	str := func(s string) { row.AddCell().SetString(s) }
	num := func(v int) { row.AddCell().SetInt(v) }
	flt := func(v float64) { row.AddCell().SetFloat(v) }
	blank := func(n int) {
		for range n {
			row.AddCell()
		}
	}

	str(e.Slug)
	str(e.Name)
	str(e.Province)
	num(e.Population)
	if lat, lon, ok := e.Coordinates(); ok {
		flt(lat)
		flt(lon)
	} else {
		blank(2)
	}
	str(string(prof))

	if d := e.Description; d != nil {
		str(d.Text)
	} else {
		blank(1)
	}
	if e.Image != nil {
		str(e.Image.URL)
	} else {
		blank(1)
	}

	if cl := e.Climate; cl != nil {
		flt(cl.TempAvgAnnual)
		if cl.PrecipitationAnnualMM != nil {
			num(*cl.PrecipitationAnnualMM)
		} else {
			blank(1)
		}
	} else {
		blank(2)
	}

	if p := e.POIs; p != nil {
		num(p.FacilityCount)
		num(p.ParkingCount)
		num(p.EVChargingStations)
		num(p.HotelCount)
	} else {
		blank(4)
	}

	if s := e.Solar; s != nil {
		num(s.AnnualProductionKWh)
		num(s.IrradiationKWhM2)
		flt(s.OptimalAngle)
	} else {
		blank(3)
	}

	if in := e.Industry; in != nil {
		num(in.IndustrialZonesCount)
		flt(in.IndustrialAreaHectares)
		num(in.CommercialZonesCount)
		num(in.MallsCount)
	} else {
		blank(4)
	}

	if aq := e.AirQuality; aq != nil {
		num(aq.EuropeanAQI)
		str(aq.QualityLabel)
	} else {
		blank(2)
	}
}
