package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macropulse/domain/core"
	"macropulse/domain/series"
	"macropulse/domain/stats"
	"macropulse/ports"
)

type stubSource struct {
	obs []series.Observation
	err error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(ctx context.Context) ([]series.Observation, error) {
	return s.obs, s.err
}

type recordingExporter struct {
	got *stats.Analysis
}

func (e *recordingExporter) Name() string { return "recording" }

func (e *recordingExporter) Export(ctx context.Context, analysis *stats.Analysis) ([]string, error) {
	e.got = analysis
	return []string{"recorded"}, nil
}

func newTestPipeline(src ports.DataSource, exporters ...ports.Exporter) *Pipeline {
	return NewPipeline(PipelineConfig{
		Source:    src,
		Exporters: exporters,
		Country:   "US",
		StartYear: 2018,
		EndYear:   2022,
	})
}

func TestRun_FullAnalysis(t *testing.T) {
	src := &stubSource{obs: []series.Observation{
		{Year: 2018, Inflation: series.Float(2.4), GDPGrowth: series.Float(2.9)},
		{Year: 2019, Inflation: series.Float(1.8), GDPGrowth: series.Float(2.3)},
		{Year: 2020, Inflation: series.Float(1.2), GDPGrowth: series.Float(-3.4)},
		{Year: 2021, Inflation: series.Float(4.7), GDPGrowth: series.Float(5.9)},
		{Year: 2022, Inflation: series.Float(8.0), GDPGrowth: series.Float(2.1)},
	}}
	exporter := &recordingExporter{}

	analysis, err := newTestPipeline(src, exporter).Run(context.Background())
	require.NoError(t, err)
	require.Same(t, analysis, exporter.got)

	assert.NotEmpty(t, analysis.RunID)
	assert.Equal(t, "US", analysis.Country)
	assert.Len(t, analysis.Table.Rows, 5)

	for _, ind := range series.Indicators() {
		rep := analysis.Indicator(ind)
		require.NotNil(t, rep, "report for %s", ind)
		assert.NotNil(t, rep.Summary)
		assert.NotNil(t, rep.Trend)
	}

	require.NotNil(t, analysis.Correlation)
	assert.Equal(t, 5, analysis.Correlation.SampleSize)
}

func TestRun_SourceFailureAbortsBeforeAnyExport(t *testing.T) {
	src := &stubSource{err: core.NewSourceError("stub", context.DeadlineExceeded)}
	exporter := &recordingExporter{}

	_, err := newTestPipeline(src, exporter).Run(context.Background())
	assert.ErrorIs(t, err, core.ErrSourceUnavailable)
	assert.Nil(t, exporter.got)
}

func TestRun_EmptyDatasetAborts(t *testing.T) {
	src := &stubSource{obs: []series.Observation{{Year: 2020}, {Year: 2021}}}

	_, err := newTestPipeline(src).Run(context.Background())
	assert.ErrorIs(t, err, core.ErrEmptyDataset)
}

func TestRun_ScopedFailuresStillProduceAnalysis(t *testing.T) {
	// One inflation point: its stats and trend fail, gdp_growth's
	// succeed, and a single paired year leaves correlation undefined.
	src := &stubSource{obs: []series.Observation{
		{Year: 2019, GDPGrowth: series.Float(2.0)},
		{Year: 2020, Inflation: series.Float(1.2), GDPGrowth: series.Float(2.0)},
		{Year: 2021, GDPGrowth: series.Float(2.0)},
		{Year: 2022, GDPGrowth: series.Float(2.0)},
	}}
	exporter := &recordingExporter{}

	analysis, err := newTestPipeline(src, exporter).Run(context.Background())
	require.NoError(t, err)

	infl := analysis.Indicator(series.Inflation)
	require.NotNil(t, infl)
	assert.Nil(t, infl.Summary)
	assert.ErrorIs(t, infl.SummaryErr, core.ErrInsufficientData)
	assert.ErrorIs(t, infl.TrendErr, core.ErrInsufficientData)

	gdp := analysis.Indicator(series.GDPGrowth)
	require.NotNil(t, gdp)
	assert.NotNil(t, gdp.Summary)
	assert.NotNil(t, gdp.Trend)

	assert.Nil(t, analysis.Correlation)
	assert.ErrorIs(t, analysis.CorrelationErr, core.ErrInsufficientData)

	require.NotNil(t, exporter.got, "scoped failures still export")
}
