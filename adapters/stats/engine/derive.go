package engine

import (
	"gonum.org/v1/gonum/stat"

	"macropulse/domain/core"
	"macropulse/domain/series"
	domstats "macropulse/domain/stats"
)

// DefaultWindow is the trailing moving-average window in years.
const DefaultWindow = 3

// Engine computes the per-indicator derivations over a cleaned Series:
// interannual deltas, trailing moving averages and OLS trend/residual
// decomposition. The three derivations are independent of each other and
// each indicator is derived against its own missing-value pattern.
type Engine struct {
	window int
}

// New creates an engine with the default 3-year window.
func New() *Engine {
	return &Engine{window: DefaultWindow}
}

// NewWithWindow creates an engine with a custom moving-average window.
func NewWithWindow(k int) *Engine {
	if k < 1 {
		k = DefaultWindow
	}
	return &Engine{window: k}
}

// Derivation holds one indicator's derived fields keyed by year. A year
// absent from a map means the field is undefined there, not zero.
type Derivation struct {
	Indicator series.Indicator
	Delta     map[int]float64
	MA        map[int]float64
	Trend     map[int]float64
	Residual  map[int]float64

	Fit    *domstats.TrendFit
	FitErr error
}

// Derive computes all three derivations for one indicator. A trend fit
// failure (fewer than two points) is recorded in FitErr and leaves the
// delta and moving-average results intact.
func (e *Engine) Derive(s series.Series, ind series.Indicator) Derivation {
	d := Derivation{
		Indicator: ind,
		Delta:     e.YoYDelta(s, ind),
		MA:        e.TrailingMA(s, ind),
	}

	fit, trend, residual, err := e.FitTrend(s, ind)
	if err != nil {
		d.FitErr = err
		return d
	}
	d.Fit = &fit
	d.Trend = trend
	d.Residual = residual
	return d
}

// YoYDelta computes value(t) - value(t-1) for every year whose direct
// calendar predecessor exists in the series with a non-missing value.
// A gap year never falls back to an earlier observation.
func (e *Engine) YoYDelta(s series.Series, ind series.Indicator) map[int]float64 {
	out := make(map[int]float64)
	for _, year := range s.Years() {
		cur, ok := s.ValueAt(year, ind)
		if !ok {
			continue
		}
		prev, ok := s.ValueAt(year-1, ind)
		if !ok {
			continue
		}
		out[year] = cur - prev
	}
	return out
}

// TrailingMA computes the right-aligned k-year moving average. The value
// at year t is defined only when all of t-k+1..t are present in the
// series with non-missing values; the window never looks ahead.
func (e *Engine) TrailingMA(s series.Series, ind series.Indicator) map[int]float64 {
	out := make(map[int]float64)
	for _, year := range s.Years() {
		sum := 0.0
		complete := true
		for offset := 0; offset < e.window; offset++ {
			v, ok := s.ValueAt(year-offset, ind)
			if !ok {
				complete = false
				break
			}
			sum += v
		}
		if complete {
			out[year] = sum / float64(e.window)
		}
	}
	return out
}

// FitTrend fits ordinary least squares of value on year over the
// indicator's non-missing observations and evaluates the fitted value
// and residual for each of those years. Fails with ErrInsufficientData
// when fewer than two points exist.
func (e *Engine) FitTrend(s series.Series, ind series.Indicator) (domstats.TrendFit, map[int]float64, map[int]float64, error) {
	years, vals := s.Values(ind)
	if len(vals) < 2 {
		err := core.NewInsufficientDataError("trend fit", string(ind), 2, len(vals))
		return domstats.TrendFit{}, nil, nil, err
	}

	xs := make([]float64, len(years))
	for i, y := range years {
		xs[i] = float64(y)
	}
	intercept, slope := stat.LinearRegression(xs, vals, nil, false)

	fit := domstats.TrendFit{Slope: slope, Intercept: intercept}
	trend := make(map[int]float64, len(years))
	residual := make(map[int]float64, len(years))
	for i, y := range years {
		t := fit.Fitted(y)
		trend[y] = t
		residual[y] = vals[i] - t
	}
	return fit, trend, residual, nil
}

// BuildTable assembles the row-per-year derived table from the cleaned
// series and both indicators' derivations. Undefined fields stay nil.
func BuildTable(s series.Series, infl, gdp Derivation) series.DerivedTable {
	rows := make([]series.DerivedRow, 0, s.Len())
	for _, o := range s.Observations() {
		row := series.DerivedRow{
			Year:              o.Year,
			Inflation:         o.Inflation,
			GDPGrowth:         o.GDPGrowth,
			InflationYoYDelta: lookup(infl.Delta, o.Year),
			GDPYoYDelta:       lookup(gdp.Delta, o.Year),
			InflationMA3:      lookup(infl.MA, o.Year),
			GDPMA3:            lookup(gdp.MA, o.Year),
			InflationTrend:    lookup(infl.Trend, o.Year),
			InflationResidual: lookup(infl.Residual, o.Year),
			GDPTrend:          lookup(gdp.Trend, o.Year),
			GDPResidual:       lookup(gdp.Residual, o.Year),
		}
		rows = append(rows, row)
	}
	return series.DerivedTable{Rows: rows}
}

func lookup(m map[int]float64, year int) *float64 {
	if m == nil {
		return nil
	}
	v, ok := m[year]
	if !ok {
		return nil
	}
	return &v
}
