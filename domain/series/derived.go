package series

// DerivedRow is one year of the final analysis table: the observed
// values plus every derived field that is defined for that year.
// Nil means "undefined" - a derived field whose inputs are missing
// stays nil and is exported as an explicit NA, never as zero.
type DerivedRow struct {
	Year int `json:"year"`

	Inflation *float64 `json:"inflation,omitempty"`
	GDPGrowth *float64 `json:"gdp_growth,omitempty"`

	InflationYoYDelta *float64 `json:"inflation_yoy_delta,omitempty"`
	GDPYoYDelta       *float64 `json:"gdp_yoy_delta,omitempty"`

	InflationMA3 *float64 `json:"inflation_ma3,omitempty"`
	GDPMA3       *float64 `json:"gdp_ma3,omitempty"`

	InflationTrend    *float64 `json:"inflation_trend,omitempty"`
	InflationResidual *float64 `json:"inflation_residual,omitempty"`
	GDPTrend          *float64 `json:"gdp_trend,omitempty"`
	GDPResidual       *float64 `json:"gdp_residual,omitempty"`
}

// DerivedTable is the row-per-year output of the derivation stage,
// ascending by year. It is an immutable snapshot: derivations attach
// new fields here, they never modify the source Series.
type DerivedTable struct {
	Rows []DerivedRow `json:"rows"`
}

// Row returns the row for a year, or nil when the year is absent.
func (t DerivedTable) Row(year int) *DerivedRow {
	for i := range t.Rows {
		if t.Rows[i].Year == year {
			return &t.Rows[i]
		}
	}
	return nil
}

// Observations rebuilds the raw observations embedded in the table.
// Used by export round-trip checks to recompute statistics from disk.
func (t DerivedTable) Observations() []Observation {
	out := make([]Observation, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = Observation{Year: r.Year, Inflation: r.Inflation, GDPGrowth: r.GDPGrowth}
	}
	return out
}
