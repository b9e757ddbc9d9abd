package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/slipway-sh/slipway/internal/adapters/docker"
)

var logsCmd = &cobra.Command{
	Use:   "logs <container-id>",
	Short: "Print the logs of an application container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := docker.NewAdapter()
		if err != nil {
			return err
		}

		logs, err := d.GetContainerLogs(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		defer logs.Close()

		_, err = io.Copy(cmd.OutOrStdout(), logs)
		return err
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
}
