package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "http://localhost:8000", cfg.Predict.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Predict.Timeout)
	assert.False(t, cfg.Form.StrictNumeric)
	assert.Equal(t, 5*time.Second, cfg.Slogans.Period)
	assert.Empty(t, cfg.Slogans.List)
	assert.Equal(t, time.Second, cfg.WS.Interval)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
port: "9090"
log:
  level: debug
predict:
  base_url: http://predictor:8000
  timeout: 5s
form:
  strict_numeric: true
slogans:
  period: 2s
  list:
    - one
    - two
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "http://predictor:8000", cfg.Predict.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Predict.Timeout)
	assert.True(t, cfg.Form.StrictNumeric)
	assert.Equal(t, 2*time.Second, cfg.Slogans.Period)
	assert.Equal(t, []string{"one", "two"}, cfg.Slogans.List)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "predict:\n  base_url: http://file:8000\n")
	t.Setenv("SOIL_PREDICT_BASE_URL", "http://env:8000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:8000", cfg.Predict.BaseURL)
}

func TestLoad_EnvSetsSloganList(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SOIL_SLOGANS_LIST", "Roots first,Test often")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"Roots first", "Test often"}, cfg.Slogans.List)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:    "8080",
			Log:     LogConfig{Level: "info"},
			Predict: PredictConfig{BaseURL: "http://localhost:8000", Timeout: time.Second},
			Slogans: SloganConfig{Period: time.Second},
			WS:      WSConfig{Interval: time.Second},
		}
	}
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty port", func(c *Config) { c.Port = " " }},
		{"unknown level", func(c *Config) { c.Log.Level = "loud" }},
		{"relative url", func(c *Config) { c.Predict.BaseURL = "localhost:8000" }},
		{"ftp url", func(c *Config) { c.Predict.BaseURL = "ftp://host" }},
		{"zero timeout", func(c *Config) { c.Predict.Timeout = 0 }},
		{"zero period", func(c *Config) { c.Slogans.Period = 0 }},
		{"zero ws interval", func(c *Config) { c.WS.Interval = 0 }},
		{"ws interval above stream max", func(c *Config) { c.WS.Interval = 11 * time.Second }},
	}
	base := valid()
	require.NoError(t, base.Validate())
	base.WS.Interval = maxStreamInterval
	require.NoError(t, base.Validate())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
