package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/slipway-sh/slipway/internal/core/domain"
)

func TestDefaultsProduceValidSpec(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	cfg := Load()
	spec := cfg.BuildSpec()

	assert.NoError(t, spec.Validate())
	assert.Equal(t, domain.DefaultBaseImage, spec.BaseImage)
	assert.Equal(t, domain.DefaultManifest, spec.ManifestFile)
	assert.Equal(t, domain.DefaultAppTarget, spec.AppTarget)
	assert.Equal(t, domain.DefaultBindPort, spec.BindPort)
	assert.Equal(t, []string{"build-essential"}, spec.OSPackages)
	assert.Equal(t, ":3000", cfg.Listen)
}

func TestOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	viper.Set(KeyBaseImage, "python:3.12-slim")
	viper.Set(KeyOSPackages, []string{"build-essential", "libpq-dev"})
	viper.Set(KeyBindPort, 9000)

	spec := Load().BuildSpec()
	assert.NoError(t, spec.Validate())
	assert.Equal(t, "python:3.12-slim", spec.BaseImage)
	assert.Equal(t, []string{"build-essential", "libpq-dev"}, spec.OSPackages)
	assert.Equal(t, 9000, spec.BindPort)
}

func TestEnvironmentOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	viper.SetEnvPrefix("slipway")
	viper.AutomaticEnv()
	t.Setenv("SLIPWAY_APP_TARGET", "app.server:api")

	assert.Equal(t, "app.server:api", Load().AppTarget)
}
