package enrich

import "github.com/shopspring/decimal"

// round1 rounds half away from zero to one decimal.
func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

// whole rounds half away from zero to an integer.
func whole(v float64) int {
	return int(decimal.NewFromFloat(v).Round(0).IntPart())
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
