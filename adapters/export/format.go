package export

import (
	"strconv"

	"macropulse/domain/series"
)

// Format is the explicit presentation configuration handed to every
// exporter. Computation upstream happens at full precision; rounding
// and the missing-value marker live here, never in global state.
type Format struct {
	// NAMarker renders an undefined value. Never empty and never "0".
	NAMarker string
	// Precision is the number of decimals, or -1 for the shortest
	// representation that round-trips exactly.
	Precision int
}

// DefaultFormat keeps full precision so exported tables round-trip.
func DefaultFormat() Format {
	return Format{NAMarker: "NA", Precision: -1}
}

// Float renders a non-missing value.
func (f Format) Float(v float64) string {
	return strconv.FormatFloat(v, 'f', f.Precision, 64)
}

// Optional renders a possibly-missing value.
func (f Format) Optional(v *float64) string {
	if v == nil {
		return f.NAMarker
	}
	return f.Float(*v)
}

// tableHeader is the fixed column order of the row-per-year table.
var tableHeader = []string{
	"year",
	"inflation",
	"gdp_growth",
	"inflation_yoy_delta",
	"gdp_yoy_delta",
	"inflation_ma3",
	"gdp_ma3",
	"inflation_trend",
	"inflation_residual",
	"gdp_trend",
	"gdp_residual",
}

// statsHeader is the fixed column order of the per-indicator table.
var statsHeader = []string{"indicator", "mean", "median", "std_dev", "min", "max"}

// tableRow renders one derived row in tableHeader order.
func (f Format) tableRow(r series.DerivedRow) []string {
	return []string{
		strconv.Itoa(r.Year),
		f.Optional(r.Inflation),
		f.Optional(r.GDPGrowth),
		f.Optional(r.InflationYoYDelta),
		f.Optional(r.GDPYoYDelta),
		f.Optional(r.InflationMA3),
		f.Optional(r.GDPMA3),
		f.Optional(r.InflationTrend),
		f.Optional(r.InflationResidual),
		f.Optional(r.GDPTrend),
		f.Optional(r.GDPResidual),
	}
}
