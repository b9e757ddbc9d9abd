// Package config holds the operator-tunable settings, loaded through
// viper from flags, SLIPWAY_* environment variables, and an optional
// config file.
package config

import (
	"github.com/spf13/viper"

	"github.com/slipway-sh/slipway/internal/core/domain"
)

const (
	KeyBaseImage  = "base_image"
	KeyOSPackages = "os_packages"
	KeyManifest   = "manifest"
	KeyAppTarget  = "app_target"
	KeyBindHost   = "bind_host"
	KeyBindPort   = "bind_port"
	KeyListen     = "listen"
)

// Config is the resolved configuration for one invocation.
type Config struct {
	BaseImage  string
	OSPackages []string
	Manifest   string
	AppTarget  string
	BindHost   string
	BindPort   int

	// Listen is the API server bind address for `slipway serve`.
	Listen string
}

// SetDefaults registers every setting's default with viper.
func SetDefaults() {
	viper.SetDefault(KeyBaseImage, domain.DefaultBaseImage)
	viper.SetDefault(KeyOSPackages, []string{"build-essential"})
	viper.SetDefault(KeyManifest, domain.DefaultManifest)
	viper.SetDefault(KeyAppTarget, domain.DefaultAppTarget)
	viper.SetDefault(KeyBindHost, domain.DefaultBindHost)
	viper.SetDefault(KeyBindPort, domain.DefaultBindPort)
	viper.SetDefault(KeyListen, ":3000")
}

// Load resolves the configuration from viper's current state.
func Load() Config {
	return Config{
		BaseImage:  viper.GetString(KeyBaseImage),
		OSPackages: viper.GetStringSlice(KeyOSPackages),
		Manifest:   viper.GetString(KeyManifest),
		AppTarget:  viper.GetString(KeyAppTarget),
		BindHost:   viper.GetString(KeyBindHost),
		BindPort:   viper.GetInt(KeyBindPort),
		Listen:     viper.GetString(KeyListen),
	}
}

// BuildSpec converts the configuration into a build spec.
func (c Config) BuildSpec() domain.BuildSpec {
	return domain.BuildSpec{
		BaseImage:    c.BaseImage,
		OSPackages:   c.OSPackages,
		ManifestFile: c.Manifest,
		AppTarget:    c.AppTarget,
		BindHost:     c.BindHost,
		BindPort:     c.BindPort,
	}
}
