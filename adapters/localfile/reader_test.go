package localfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macropulse/domain/core"
	"macropulse/domain/series"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFetch_ParsesDatesAndMissingValues(t *testing.T) {
	path := writeCSV(t, `date,inflation,gdp_growth
2020-01-01,5.0,2.0
2021-01-01,,3.0
2022-01-01,9.0,NA
`)

	obs, err := NewReader(path).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, obs, 3)

	assert.Equal(t, 2020, obs[0].Year)
	require.NotNil(t, obs[0].Inflation)
	assert.Equal(t, 5.0, *obs[0].Inflation)

	assert.Nil(t, obs[1].Inflation, "empty cell is missing")
	require.NotNil(t, obs[1].GDPGrowth)
	assert.Equal(t, 3.0, *obs[1].GDPGrowth)

	assert.Nil(t, obs[2].GDPGrowth, "NA cell is missing")
}

func TestFetch_AcceptsBareYearsAndExtraColumns(t *testing.T) {
	path := writeCSV(t, `country,date,inflation,gdp_growth
US,2020,5.0,2.0
US,2021,7.0,3.0
`)

	obs, err := NewReader(path).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, 2021, obs[1].Year)
}

func TestFetch_MissingFileIsSourceUnavailable(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "absent.csv")).Fetch(context.Background())
	assert.ErrorIs(t, err, core.ErrSourceUnavailable)
}

func TestFetch_MalformedValueIsSourceUnavailable(t *testing.T) {
	path := writeCSV(t, `date,inflation,gdp_growth
2020-01-01,not-a-number,2.0
`)
	_, err := NewReader(path).Fetch(context.Background())
	assert.ErrorIs(t, err, core.ErrSourceUnavailable)
}

func TestFetch_MissingHeaderColumnIsSourceUnavailable(t *testing.T) {
	path := writeCSV(t, `date,cpi,gdp_growth
2020-01-01,5.0,2.0
`)
	_, err := NewReader(path).Fetch(context.Background())
	assert.ErrorIs(t, err, core.ErrSourceUnavailable)
}

func TestFetch_FeedsCleanSeries(t *testing.T) {
	path := writeCSV(t, `date,inflation,gdp_growth
2022-01-01,9.0,4.0
2020-01-01,5.0,2.0
2021-01-01,7.0,3.0
`)

	obs, err := NewReader(path).Fetch(context.Background())
	require.NoError(t, err)

	s, err := series.New(obs)
	require.NoError(t, err)
	assert.Equal(t, []int{2020, 2021, 2022}, s.Years())
}
