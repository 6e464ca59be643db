package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "US", cfg.Country)
	assert.Equal(t, 1990, cfg.StartYear)
	assert.Equal(t, "NA", cfg.Output.NAMarker)
	assert.Equal(t, -1, cfg.Output.Precision)
	assert.True(t, cfg.Output.Charts)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MACROPULSE_COUNTRY", "BR")
	t.Setenv("MACROPULSE_START_YEAR", "2000")
	t.Setenv("MACROPULSE_END_YEAR", "2020")
	t.Setenv("MACROPULSE_CHARTS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "BR", cfg.Country)
	assert.Equal(t, 2000, cfg.StartYear)
	assert.Equal(t, 2020, cfg.EndYear)
	assert.False(t, cfg.Output.Charts)
}

func TestValidate_RejectsBadConfigurations(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.StartYear, cfg.EndYear = 2020, 2000
	assert.Error(t, cfg.Validate())

	cfg, _ = Load()
	cfg.Output.NAMarker = "0"
	assert.Error(t, cfg.Validate(), "a zero NA marker would fabricate values")

	cfg, _ = Load()
	cfg.Country = ""
	assert.Error(t, cfg.Validate())
}
