package stats

import (
	"time"

	"macropulse/domain/series"
)

// Summary holds descriptive statistics for one indicator, computed over
// its non-missing values only. StdDev is the sample standard deviation
// (n-1 denominator). Values are kept at full precision; rounding is a
// presentation concern owned by exporters.
type Summary struct {
	Indicator  series.Indicator `json:"indicator"`
	SampleSize int              `json:"sample_size"`
	Mean       float64          `json:"mean"`
	Median     float64          `json:"median"`
	StdDev     float64          `json:"std_dev"`
	Min        float64          `json:"min"`
	Max        float64          `json:"max"`
}

// TrendFit is the closed-form OLS fit of value against year.
type TrendFit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Fitted returns the trend value for a calendar year.
func (f TrendFit) Fitted(year int) float64 {
	return f.Intercept + f.Slope*float64(year)
}

// CorrelationResult is Pearson's r between the two indicators over
// pairwise-complete observations, with a two-sided p-value (t transform,
// n-2 degrees of freedom) and a 95% Fisher-z confidence interval.
type CorrelationResult struct {
	Coefficient float64 `json:"coefficient"`
	PValue      float64 `json:"p_value"`
	CILow       float64 `json:"ci_low"`
	CIHigh      float64 `json:"ci_high"`
	SampleSize  int     `json:"sample_size"`
}

// IndicatorReport carries the per-indicator analysis outputs. Errors are
// scoped: one indicator failing a derivation never blanks the other, and
// a failed metric is reported as an error, never as a fabricated value.
type IndicatorReport struct {
	Indicator series.Indicator `json:"indicator"`
	Summary   *Summary         `json:"summary,omitempty"`
	Trend     *TrendFit        `json:"trend,omitempty"`

	SummaryErr error `json:"-"`
	TrendErr   error `json:"-"`
}

// Analysis is the complete output of one pipeline run.
type Analysis struct {
	RunID       string    `json:"run_id"`
	Country     string    `json:"country"`
	StartYear   int       `json:"start_year"`
	EndYear     int       `json:"end_year"`
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generated_at"`

	Table      series.DerivedTable `json:"table"`
	Indicators []IndicatorReport   `json:"indicators"`

	Correlation    *CorrelationResult `json:"correlation,omitempty"`
	CorrelationErr error              `json:"-"`
}

// Indicator returns the report for one indicator, or nil when absent.
func (a *Analysis) Indicator(ind series.Indicator) *IndicatorReport {
	for i := range a.Indicators {
		if a.Indicators[i].Indicator == ind {
			return &a.Indicators[i]
		}
	}
	return nil
}
