package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macropulse/adapters/stats/engine"
	"macropulse/domain/series"
	"macropulse/domain/stats"
)

func testAnalysis(t *testing.T) *stats.Analysis {
	t.Helper()
	s, err := series.New([]series.Observation{
		{Year: 2020, Inflation: series.Float(5.0), GDPGrowth: series.Float(2.0)},
		{Year: 2021, Inflation: series.Float(7.0), GDPGrowth: series.Float(3.0)},
		{Year: 2022, Inflation: series.Float(9.0), GDPGrowth: series.Float(4.0)},
	})
	require.NoError(t, err)

	e := engine.New()
	return &stats.Analysis{
		RunID:       "ui-test",
		Country:     "US",
		StartYear:   2020,
		EndYear:     2022,
		Source:      "test",
		GeneratedAt: time.Now(),
		Table:       engine.BuildTable(s, e.Derive(s, series.Inflation), e.Derive(s, series.GDPGrowth)),
		Indicators:  engine.DescribeAll(s),
	}
}

func TestServer_BeforeAnyRun(t *testing.T) {
	srv := NewServer()

	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analysis", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_ServesReportAndJSON(t *testing.T) {
	srv := NewServer()
	srv.SetAnalysis(testAnalysis(t))

	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Macroeconomic analysis: US")

	rec = httptest.NewRecorder()
	srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analysis", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var decoded stats.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, "ui-test", decoded.RunID)
	assert.Len(t, decoded.Table.Rows, 3)
}
