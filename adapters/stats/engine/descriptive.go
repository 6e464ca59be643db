package engine

import (
	"github.com/montanaflynn/stats"

	"macropulse/domain/core"
	"macropulse/domain/series"
	domstats "macropulse/domain/stats"
)

// Describe computes mean, median, sample standard deviation, min and max
// over the indicator's non-missing values. Sample standard deviation
// needs at least two points, so fewer than two fails with
// ErrInsufficientData rather than reporting zeros.
func Describe(s series.Series, ind series.Indicator) (domstats.Summary, error) {
	_, vals := s.Values(ind)
	if len(vals) < 2 {
		return domstats.Summary{}, core.NewInsufficientDataError("descriptive stats", string(ind), 2, len(vals))
	}

	mean, err := stats.Mean(vals)
	if err != nil {
		return domstats.Summary{}, err
	}
	median, err := stats.Median(vals)
	if err != nil {
		return domstats.Summary{}, err
	}
	stdDev, err := stats.StandardDeviationSample(vals)
	if err != nil {
		return domstats.Summary{}, err
	}
	min, err := stats.Min(vals)
	if err != nil {
		return domstats.Summary{}, err
	}
	max, err := stats.Max(vals)
	if err != nil {
		return domstats.Summary{}, err
	}

	return domstats.Summary{
		Indicator:  ind,
		SampleSize: len(vals),
		Mean:       mean,
		Median:     median,
		StdDev:     stdDev,
		Min:        min,
		Max:        max,
	}, nil
}

// DescribeAll computes a summary per indicator, keeping failures scoped:
// one indicator lacking data does not stop the other from being reported.
func DescribeAll(s series.Series) []domstats.IndicatorReport {
	reports := make([]domstats.IndicatorReport, 0, len(series.Indicators()))
	for _, ind := range series.Indicators() {
		report := domstats.IndicatorReport{Indicator: ind}
		summary, err := Describe(s, ind)
		if err != nil {
			report.SummaryErr = err
		} else {
			report.Summary = &summary
		}
		reports = append(reports, report)
	}
	return reports
}
