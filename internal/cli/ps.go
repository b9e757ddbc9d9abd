package cli

import (
	"fmt"
	"strings"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"

	"github.com/slipway-sh/slipway/internal/adapters/docker"
)

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List running application containers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := docker.NewAdapter()
		if err != nil {
			return err
		}

		containers, err := d.ListContainers(cmd.Context())
		if err != nil {
			return err
		}

		lines := []string{"ID | NAME | IMAGE | STATE | STATUS | IP"}
		for _, c := range containers {
			lines = append(lines, strings.Join([]string{
				c.ID, c.Name, c.Image, c.State, c.Status, c.IPAddress,
			}, " | "))
		}
		fmt.Fprintln(cmd.OutOrStdout(), columnize.SimpleFormat(lines))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(psCmd)
}
