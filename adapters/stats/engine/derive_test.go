package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macropulse/domain/core"
	"macropulse/domain/series"
)

func mustSeries(t *testing.T, obs []series.Observation) series.Series {
	t.Helper()
	s, err := series.New(obs)
	require.NoError(t, err)
	return s
}

func contiguousSeries(t *testing.T) series.Series {
	return mustSeries(t, []series.Observation{
		{Year: 2020, Inflation: series.Float(5.0), GDPGrowth: series.Float(2.0)},
		{Year: 2021, Inflation: series.Float(7.0), GDPGrowth: series.Float(3.0)},
		{Year: 2022, Inflation: series.Float(9.0), GDPGrowth: series.Float(4.0)},
	})
}

func TestYoYDelta_ContiguousYears(t *testing.T) {
	s := contiguousSeries(t)
	delta := New().YoYDelta(s, series.Inflation)

	require.Len(t, delta, 2)
	assert.Equal(t, 2.0, delta[2021])
	assert.Equal(t, 2.0, delta[2022])
	_, first := delta[2020]
	assert.False(t, first, "first year has no predecessor")
}

func TestYoYDelta_GapYearIsUndefinedNotBridged(t *testing.T) {
	// 2021 absent: 2022's delta must not fall back to 2020.
	s := mustSeries(t, []series.Observation{
		{Year: 2020, Inflation: series.Float(5.0)},
		{Year: 2022, Inflation: series.Float(9.0)},
	})
	delta := New().YoYDelta(s, series.Inflation)
	assert.Empty(t, delta)
}

func TestYoYDelta_MissingPredecessorValueIsUndefined(t *testing.T) {
	s := mustSeries(t, []series.Observation{
		{Year: 2020, GDPGrowth: series.Float(1.0)}, // inflation missing
		{Year: 2021, Inflation: series.Float(7.0), GDPGrowth: series.Float(2.0)},
	})
	delta := New().YoYDelta(s, series.Inflation)
	assert.Empty(t, delta)

	// The gap in inflation must not leak into gdp_growth.
	gdp := New().YoYDelta(s, series.GDPGrowth)
	assert.Equal(t, 1.0, gdp[2021])
}

func TestTrailingMA_RightAlignedWindow(t *testing.T) {
	s := contiguousSeries(t)
	ma := New().TrailingMA(s, series.Inflation)

	require.Len(t, ma, 1)
	assert.InDelta(t, 7.0, ma[2022], 1e-12)
}

func TestTrailingMA_WindowWithGapOrMissingValueIsUndefined(t *testing.T) {
	s := mustSeries(t, []series.Observation{
		{Year: 2019, Inflation: series.Float(1.0)},
		{Year: 2020, Inflation: series.Float(2.0)},
		// 2021 missing entirely
		{Year: 2022, Inflation: series.Float(4.0)},
		{Year: 2023, Inflation: series.Float(5.0)},
		{Year: 2024, GDPGrowth: series.Float(1.0)}, // inflation missing
	})
	ma := New().TrailingMA(s, series.Inflation)

	// Every candidate window straddles either the 2021 gap or the
	// missing 2024 value, so nothing is defined.
	assert.Empty(t, ma)
}

func TestTrailingMA_OnlyCompleteWindowsDefined(t *testing.T) {
	s := mustSeries(t, []series.Observation{
		{Year: 2019, Inflation: series.Float(1.0)},
		{Year: 2020, Inflation: series.Float(2.0)},
		{Year: 2021, Inflation: series.Float(3.0)},
		{Year: 2023, Inflation: series.Float(5.0)},
	})
	ma := New().TrailingMA(s, series.Inflation)

	require.Len(t, ma, 1)
	assert.InDelta(t, 2.0, ma[2021], 1e-12)
}

func TestFitTrend_RecoversExactLine(t *testing.T) {
	// inflation = 2*year - 4035 exactly over 2020..2022.
	s := contiguousSeries(t)
	fit, trend, residual, err := New().FitTrend(s, series.Inflation)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, fit.Slope, 1e-9)
	assert.InDelta(t, -4035.0, fit.Intercept, 1e-6)
	for year, want := range map[int]float64{2020: 5.0, 2021: 7.0, 2022: 9.0} {
		assert.InDelta(t, want, trend[year], 1e-9)
		assert.InDelta(t, 0.0, residual[year], 1e-9)
	}
}

func TestFitTrend_ResidualsSumToZero(t *testing.T) {
	s := mustSeries(t, []series.Observation{
		{Year: 2018, Inflation: series.Float(2.3)},
		{Year: 2019, Inflation: series.Float(1.7)},
		{Year: 2020, Inflation: series.Float(4.9)},
		{Year: 2021, Inflation: series.Float(7.2)},
		{Year: 2022, Inflation: series.Float(6.1)},
	})
	_, _, residual, err := New().FitTrend(s, series.Inflation)
	require.NoError(t, err)

	sum := 0.0
	for _, r := range residual {
		sum += r
	}
	assert.InDelta(t, 0.0, sum, 1e-9, "OLS residuals sum to zero")
}

func TestFitTrend_Idempotent(t *testing.T) {
	s := contiguousSeries(t)
	e := New()

	first, _, _, err := e.FitTrend(s, series.GDPGrowth)
	require.NoError(t, err)
	second, _, _, err := e.FitTrend(s, series.GDPGrowth)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFitTrend_SinglePointFails(t *testing.T) {
	s := mustSeries(t, []series.Observation{
		{Year: 2020, Inflation: series.Float(5.0), GDPGrowth: series.Float(1.0)},
		{Year: 2021, GDPGrowth: series.Float(2.0)},
	})
	_, _, _, err := New().FitTrend(s, series.Inflation)
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	// gdp_growth has two points and still fits.
	_, _, _, err = New().FitTrend(s, series.GDPGrowth)
	assert.NoError(t, err)
}

func TestDerive_TrendFailureLeavesOtherDerivationsIntact(t *testing.T) {
	s := mustSeries(t, []series.Observation{
		{Year: 2020, Inflation: series.Float(5.0), GDPGrowth: series.Float(1.0)},
		{Year: 2021, GDPGrowth: series.Float(2.0)},
	})
	d := New().Derive(s, series.Inflation)

	assert.ErrorIs(t, d.FitErr, core.ErrInsufficientData)
	assert.Nil(t, d.Fit)
	assert.NotNil(t, d.Delta)
	assert.NotNil(t, d.MA)
}

func TestBuildTable_UndefinedFieldsStayNil(t *testing.T) {
	s := contiguousSeries(t)
	e := New()
	table := BuildTable(s, e.Derive(s, series.Inflation), e.Derive(s, series.GDPGrowth))

	require.Len(t, table.Rows, 3)

	first := table.Row(2020)
	require.NotNil(t, first)
	assert.Nil(t, first.InflationYoYDelta)
	assert.Nil(t, first.InflationMA3)
	require.NotNil(t, first.InflationTrend)

	last := table.Row(2022)
	require.NotNil(t, last)
	require.NotNil(t, last.InflationYoYDelta)
	assert.Equal(t, 2.0, *last.InflationYoYDelta)
	require.NotNil(t, last.InflationMA3)
	assert.InDelta(t, 7.0, *last.InflationMA3, 1e-12)
	require.NotNil(t, last.GDPResidual)
	assert.True(t, math.Abs(*last.GDPResidual) < 1e-9)
}
