package cli

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/slipway-sh/slipway/internal/adapters/builder"
	"github.com/slipway-sh/slipway/internal/adapters/docker"
	slipwayhttp "github.com/slipway-sh/slipway/internal/adapters/http"
	"github.com/slipway-sh/slipway/internal/config"
	"github.com/slipway-sh/slipway/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the slipway REST API and the app reverse proxy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		log := logging.Get("serve")

		dockerAdapter, err := docker.NewAdapter()
		if err != nil {
			return err
		}
		builderAdapter, err := builder.NewAdapter()
		if err != nil {
			return err
		}

		handler := slipwayhttp.NewHandler(dockerAdapter, builderAdapter, cfg.BuildSpec())
		proxy := slipwayhttp.NewProxyHandler(dockerAdapter, cfg.BindPort)

		app := fiber.New(fiber.Config{DisableStartupMessage: true})

		// Subdomain traffic goes straight to the app containers.
		app.Use(proxy.ProxyRequest)

		api := app.Group("/api")
		v1 := api.Group("/v1")

		v1.Post("/builds", handler.Build)

		containers := v1.Group("/containers")
		containers.Get("/", handler.ListContainers)
		containers.Post("/", handler.Deploy)
		containers.Delete("/:id", handler.StopContainer)
		containers.Get("/:id/logs", handler.GetContainerLogs)

		log.Infow("server starting", "addr", cfg.Listen)
		return app.Listen(cfg.Listen)
	},
}

func init() {
	serveCmd.Flags().String("listen", ":3000", "API listen address")
	viper.BindPFlag(config.KeyListen, serveCmd.Flags().Lookup("listen"))
	rootCmd.AddCommand(serveCmd)
}
