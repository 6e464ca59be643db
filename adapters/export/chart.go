package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"macropulse/domain/series"
	"macropulse/domain/stats"
)

// ChartExporter renders one PNG line chart per indicator: the observed
// yearly values with the fitted linear trend overlaid where a fit
// exists. Years with missing values simply do not appear on the line.
type ChartExporter struct {
	dir string
}

// NewChartExporter writes charts into dir.
func NewChartExporter(dir string) *ChartExporter {
	return &ChartExporter{dir: dir}
}

func (e *ChartExporter) Name() string {
	return "chart"
}

// Export writes <indicator>.png per indicator and returns the paths.
func (e *ChartExporter) Export(ctx context.Context, analysis *stats.Analysis) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	paths := make([]string, 0, len(series.Indicators()))
	for _, ind := range series.Indicators() {
		path := filepath.Join(e.dir, fmt.Sprintf("%s.png", ind))
		if err := e.renderIndicator(analysis, ind, path); err != nil {
			return nil, fmt.Errorf("render %s chart: %w", ind, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (e *ChartExporter) renderIndicator(analysis *stats.Analysis, ind series.Indicator, path string) error {
	observed := make(plotter.XYs, 0, len(analysis.Table.Rows))
	trend := make(plotter.XYs, 0, len(analysis.Table.Rows))
	for _, row := range analysis.Table.Rows {
		value, trendValue := indicatorColumns(row, ind)
		if value != nil {
			observed = append(observed, plotter.XY{X: float64(row.Year), Y: *value})
		}
		if trendValue != nil {
			trend = append(trend, plotter.XY{X: float64(row.Year), Y: *trendValue})
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s, %s (%d-%d)", ind, analysis.Country, analysis.StartYear, analysis.EndYear)
	p.X.Label.Text = "year"
	p.Y.Label.Text = "annual %"
	p.Add(plotter.NewGrid())

	observedLine, err := plotter.NewLine(observed)
	if err != nil {
		return err
	}
	p.Add(observedLine)
	p.Legend.Add("observed", observedLine)

	if len(trend) > 0 {
		trendLine, err := plotter.NewLine(trend)
		if err != nil {
			return err
		}
		trendLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(trendLine)
		p.Legend.Add("trend", trendLine)
	}

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

func indicatorColumns(row series.DerivedRow, ind series.Indicator) (value, trend *float64) {
	if ind == series.Inflation {
		return row.Inflation, row.InflationTrend
	}
	return row.GDPGrowth, row.GDPTrend
}
