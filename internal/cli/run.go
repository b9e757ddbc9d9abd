package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slipway-sh/slipway/internal/adapters/builder"
	"github.com/slipway-sh/slipway/internal/adapters/docker"
	"github.com/slipway-sh/slipway/internal/config"
)

var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Build an application image and launch it as a container",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		image, _ := cmd.Flags().GetString("image")
		if image == "" {
			src, err := sourceFromArgs(cmd, args)
			if err != nil {
				return err
			}

			tag, _ := cmd.Flags().GetString("tag")
			if tag == "" {
				tag = deriveImageName(src)
			}

			b, err := builder.NewAdapter()
			if err != nil {
				return err
			}
			image, err = b.BuildImage(cmd.Context(), src, tag, cfg.BuildSpec())
			if err != nil {
				return err
			}
		}

		d, err := docker.NewAdapter()
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		id, err := d.StartContainer(cmd.Context(), image, name, cfg.BindPort)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id[:12])
		return nil
	},
}

func init() {
	runCmd.Flags().StringP("tag", "t", "", "image name to tag the build with")
	runCmd.Flags().String("repo", "", "git repository URL to build instead of a local path")
	runCmd.Flags().String("image", "", "launch an already-built image, skipping the build")
	runCmd.Flags().String("name", "", "container name (also the proxy subdomain)")
	rootCmd.AddCommand(runCmd)
}
