package series

// Indicator identifies one of the two tracked macroeconomic measures.
type Indicator string

const (
	Inflation Indicator = "inflation"
	GDPGrowth Indicator = "gdp_growth"
)

// Indicators returns the tracked indicators in canonical order.
func Indicators() []Indicator {
	return []Indicator{Inflation, GDPGrowth}
}

// Observation is one yearly data point. A nil field means the value is
// missing for that year - missing is never represented as zero.
type Observation struct {
	Year      int      `json:"year"`
	Inflation *float64 `json:"inflation,omitempty"`
	GDPGrowth *float64 `json:"gdp_growth,omitempty"`
}

// Value returns the observation's value for the given indicator,
// or nil when missing.
func (o Observation) Value(ind Indicator) *float64 {
	switch ind {
	case Inflation:
		return o.Inflation
	case GDPGrowth:
		return o.GDPGrowth
	}
	return nil
}

// IsEmpty reports whether every indicator is missing for this year.
func (o Observation) IsEmpty() bool {
	return o.Inflation == nil && o.GDPGrowth == nil
}

// Float is a convenience constructor for optional values.
func Float(v float64) *float64 {
	return &v
}
