// Package cli wires the slipway commands together.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/slipway-sh/slipway/internal/config"
	"github.com/slipway-sh/slipway/internal/core/domain"
	"github.com/slipway-sh/slipway/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "slipway",
	Short: "Build and launch container images for Python ASGI applications",
	Long: `slipway turns a source tree with a requirements.txt and an ASGI
entrypoint into a runnable container image through a fixed, deterministic
build pipeline, then launches it as a single foreground server process.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.slipway.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Flag defaults double as the viper defaults for these keys; an
	// unchanged bound flag outranks viper.SetDefault.
	rootCmd.PersistentFlags().String("base-image", domain.DefaultBaseImage, "pinned base runtime image")
	viper.BindPFlag(config.KeyBaseImage, rootCmd.PersistentFlags().Lookup("base-image"))

	rootCmd.PersistentFlags().String("manifest", domain.DefaultManifest, "dependency manifest path inside the source tree")
	viper.BindPFlag(config.KeyManifest, rootCmd.PersistentFlags().Lookup("manifest"))

	rootCmd.PersistentFlags().String("app", domain.DefaultAppTarget, "ASGI import target (module.path:attribute)")
	viper.BindPFlag(config.KeyAppTarget, rootCmd.PersistentFlags().Lookup("app"))

	rootCmd.PersistentFlags().Int("port", domain.DefaultBindPort, "service bind port inside the container")
	viper.BindPFlag(config.KeyBindPort, rootCmd.PersistentFlags().Lookup("port"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".slipway")
		viper.SetConfigType("yaml")
		cfgFile = filepath.Join(home, ".slipway.yaml")
	}

	viper.SetEnvPrefix("slipway")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
