package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slipway-sh/slipway/internal/adapters/builder"
	"github.com/slipway-sh/slipway/internal/config"
	"github.com/slipway-sh/slipway/internal/core/domain"
)

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Build a container image from an application source tree",
	Long: `Build runs the image pipeline over a local source tree (or a git
repository with --repo): pinned base image, OS packages, dependency
manifest install, source copy, runtime environment, start command.
The first failing stage aborts the build.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := sourceFromArgs(cmd, args)
		if err != nil {
			return err
		}

		image, _ := cmd.Flags().GetString("tag")
		if image == "" {
			image = deriveImageName(src)
		}

		b, err := builder.NewAdapter()
		if err != nil {
			return err
		}

		ref, err := b.BuildImage(cmd.Context(), src, image, config.Load().BuildSpec())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ref)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringP("tag", "t", "", "image name to tag the build with")
	buildCmd.Flags().String("repo", "", "git repository URL to build instead of a local path")
	rootCmd.AddCommand(buildCmd)
}

func sourceFromArgs(cmd *cobra.Command, args []string) (domain.BuildSource, error) {
	repo, _ := cmd.Flags().GetString("repo")
	if repo != "" {
		if len(args) > 0 {
			return domain.BuildSource{}, fmt.Errorf("a source path and --repo are mutually exclusive")
		}
		return domain.BuildSource{RepoURL: repo}, nil
	}

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return domain.BuildSource{}, fmt.Errorf("resolving source path: %w", err)
	}
	return domain.BuildSource{Dir: abs}, nil
}

func deriveImageName(src domain.BuildSource) string {
	if src.RepoURL != "" {
		base := strings.TrimSuffix(filepath.Base(src.RepoURL), ".git")
		return strings.ToLower(base)
	}
	return strings.ToLower(filepath.Base(src.Dir))
}
