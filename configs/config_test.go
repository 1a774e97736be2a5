package configs

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]interface{}) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 2.0, cfg.Export.PixelRatio)
	assert.Equal(t, "#000", cfg.Export.Background)
	assert.Equal(t, 10*time.Second, cfg.Export.Timeout)
	assert.False(t, cfg.IsProduction())
}

func TestFromViper_CollectsAllErrors(t *testing.T) {
	_, err := FromViper(newViper(map[string]interface{}{
		"SESSION_SWEEP_CRON": "every minute",
		"EXPORT_PIXEL_RATIO": 0,
		"EXPORT_BACKGROUND":  "black",
	}))
	require.Error(t, err)

	assert.Contains(t, err.Error(), "SESSION_SWEEP_CRON")
	assert.Contains(t, err.Error(), "EXPORT_PIXEL_RATIO")
	assert.Contains(t, err.Error(), "EXPORT_BACKGROUND")
}

func TestFromViper_ProductionNeedsSecret(t *testing.T) {
	_, err := FromViper(newViper(map[string]interface{}{"GO_ENV": "production"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")

	cfg, err := FromViper(newViper(map[string]interface{}{
		"GO_ENV":         "production",
		"SESSION_SECRET": "s3cr3t",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
