package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "hrrrzarr", cfg.Bucket)
	assert.Equal(t, "3.0.8", cfg.StoreVersion)
	assert.Equal(t, "us-west-1", cfg.Region)
	assert.Empty(t, cfg.Endpoint)
	assert.False(t, cfg.UsePathStyle)
	assert.Empty(t, cfg.ProjParamsURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HRRR_BUCKET", "other-bucket")
	t.Setenv("HRRR_STORE_VERSION", "2.18.2")
	t.Setenv("HRRR_S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("HRRR_S3_PATH_STYLE", "true")
	t.Setenv("HRRR_HTTP_TIMEOUT", "90s")
	t.Setenv("HRRR_METRICS_ADDR", ":9102")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "other-bucket", cfg.Bucket)
	assert.Equal(t, "2.18.2", cfg.StoreVersion)
	assert.Equal(t, "http://localhost:9000", cfg.Endpoint)
	assert.True(t, cfg.UsePathStyle)
	assert.Equal(t, 90*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, ":9102", cfg.MetricsAddr)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadRejectsBadDurations(t *testing.T) {
	t.Setenv("HRRR_HTTP_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("HRRR_HTTP_TIMEOUT", "-5s")
	_, err = Load()
	assert.Error(t, err)
}
