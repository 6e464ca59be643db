package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macropulse/adapters/stats/engine"
	"macropulse/domain/series"
)

func TestReportExporter_WritesMarkdownAndHTML(t *testing.T) {
	dir := t.TempDir()
	analysis := sampleAnalysis(t)

	correlation, err := engine.Correlate(mustCleaned(t, analysis.Table.Observations()), series.Inflation, series.GDPGrowth)
	require.NoError(t, err)
	analysis.Correlation = &correlation

	paths, err := NewReportExporter(dir, DefaultFormat()).Export(context.Background(), analysis)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	md, err := os.ReadFile(filepath.Join(dir, "report.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "## Descriptive statistics")
	assert.Contains(t, string(md), "Pearson r =")
	assert.Contains(t, string(md), "inflation")
	assert.Contains(t, string(md), "gdp_growth")

	html, err := os.ReadFile(filepath.Join(dir, "report.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<table>")
	assert.Contains(t, string(html), "<html>")
}

func TestBuildMarkdown_ReportsFailuresInsteadOfZeros(t *testing.T) {
	analysis := sampleAnalysis(t)
	analysis.Indicators[0].Summary = nil
	analysis.Indicators[0].SummaryErr = assert.AnError
	analysis.Indicators[0].Trend = nil
	analysis.Indicators[0].TrendErr = assert.AnError
	analysis.CorrelationErr = assert.AnError

	md := BuildMarkdown(analysis, 4)
	assert.Contains(t, md, "unavailable")
	assert.Contains(t, md, "Unavailable")
}

func mustCleaned(t *testing.T, obs []series.Observation) series.Series {
	t.Helper()
	s, err := series.New(obs)
	require.NoError(t, err)
	return s
}
