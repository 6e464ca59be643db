package engine

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"macropulse/domain/core"
	"macropulse/domain/series"
	domstats "macropulse/domain/stats"
)

// minPairs is the smallest sample that yields a defined p-value with
// n-2 degrees of freedom. Two points give a perfect but untestable fit.
const minPairs = 3

// Correlate computes Pearson's r between two indicators over
// pairwise-complete observations: only years where both values are
// non-missing enter the computation. Returns the coefficient, a
// two-sided p-value from the t transform with n-2 degrees of freedom,
// and a 95% confidence interval via Fisher's z-transformation.
func Correlate(s series.Series, x, y series.Indicator) (domstats.CorrelationResult, error) {
	xs, ys := alignPairwise(s, x, y)
	n := len(xs)
	if n < minPairs {
		return domstats.CorrelationResult{}, core.NewInsufficientDataError(
			"correlation", string(x)+"/"+string(y), minPairs, n)
	}

	if stat.Variance(xs, nil) == 0 {
		return domstats.CorrelationResult{}, core.NewDegenerateInputError("correlation", string(x))
	}
	if stat.Variance(ys, nil) == 0 {
		return domstats.CorrelationResult{}, core.NewDegenerateInputError("correlation", string(y))
	}

	r := stat.Correlation(xs, ys, nil)
	// Floating point can push |r| a hair past 1 on exact linear data.
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}

	result := domstats.CorrelationResult{
		Coefficient: r,
		SampleSize:  n,
	}

	if 1-r*r <= 0 {
		// Perfect correlation: the t statistic diverges and the Fisher
		// interval collapses onto r itself.
		result.PValue = 0
		result.CILow = r
		result.CIHigh = r
		return result, nil
	}

	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	result.PValue = 2 * tDist.CDF(-math.Abs(t))

	result.CILow, result.CIHigh = fisherInterval(r, n)
	return result, nil
}

// fisherInterval returns the 95% confidence interval for r using the
// z-transformation. With exactly three pairs the standard error is
// unbounded and the interval spans the whole coefficient range.
func fisherInterval(r float64, n int) (float64, float64) {
	if n <= 3 {
		return -1, 1
	}
	z := math.Atanh(r)
	se := 1 / math.Sqrt(float64(n-3))
	zCrit := distuv.UnitNormal.Quantile(0.975)
	return math.Tanh(z - zCrit*se), math.Tanh(z + zCrit*se)
}

// alignPairwise collects the value pairs for years where both
// indicators are non-missing, in ascending year order.
func alignPairwise(s series.Series, x, y series.Indicator) ([]float64, []float64) {
	xs := make([]float64, 0, s.Len())
	ys := make([]float64, 0, s.Len())
	for _, year := range s.Years() {
		xv, ok := s.ValueAt(year, x)
		if !ok {
			continue
		}
		yv, ok := s.ValueAt(year, y)
		if !ok {
			continue
		}
		xs = append(xs, xv)
		ys = append(ys, yv)
	}
	return xs, ys
}
