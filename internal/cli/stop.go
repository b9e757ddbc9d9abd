package cli

import (
	"github.com/spf13/cobra"

	"github.com/slipway-sh/slipway/internal/adapters/docker"
)

var stopCmd = &cobra.Command{
	Use:   "stop <container-id>",
	Short: "Stop a running application container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := docker.NewAdapter()
		if err != nil {
			return err
		}
		return d.StopContainer(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
