package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ValidateConfig(t *testing.T) {
	t.Parallel()

	t.Run("invalid listen address", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.ListenAddress = "rando-address" // doesn't follow the format

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidListenAddress)
	})

	t.Run("invalid result TTL", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.JobsConfig.ResultTTL = 0

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidResultTTL)
	})

	t.Run("invalid job timeout", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.JobsConfig.Timeout = -time.Second

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidJobTimeout)
	})

	t.Run("invalid sweep spec", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.JobsConfig.SweepSpec = "every so often"

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidSweepSpec)
	})

	t.Run("invalid top N", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.PlacesConfig.TopN = 0

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidTopN)
	})

	t.Run("invalid search radius", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.PlacesConfig.Radius = 0

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidRadius)
	})

	t.Run("valid configuration", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, ValidateConfig(DefaultConfig()))
	})
}

func TestConfig_Read(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Read(filepath.Join(t.TempDir(), "missing.toml"))

		assert.Error(t, err)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.toml")

		require.NoError(t, os.WriteFile(path, []byte(`
listen_address = "127.0.0.1:9000"

[places_config]
language = "en"
top_n = 5
radius = 1200
`), 0o600))

		cfg, err := Read(path)
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddress)
		assert.Equal(t, "en", cfg.PlacesConfig.Language)
		assert.Equal(t, 5, cfg.PlacesConfig.TopN)
		assert.Equal(t, 1200, cfg.PlacesConfig.Radius)

		assert.Equal(t, DefaultJobsConfig(), cfg.JobsConfig)
		assert.Equal(t, DefaultCORSConfig(), cfg.CORSConfig)

		assert.NoError(t, ValidateConfig(cfg))
	})
}
