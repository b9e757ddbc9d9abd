package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	ignore "github.com/codeskyblue/dockerignore"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/go-git/go-git/v5"
	"go.uber.org/zap"

	"github.com/slipway-sh/slipway/internal/core/domain"
	"github.com/slipway-sh/slipway/internal/logging"
	"github.com/slipway-sh/slipway/internal/pipeline"
)

// The generated Dockerfile is written into the context under a fixed
// name so rebuilds of an unchanged tree produce an identical context.
const planDockerfile = "Dockerfile.slipway"

// Adapter implements ports.BuilderService against a Docker daemon.
type Adapter struct {
	cli *client.Client
	log *zap.SugaredLogger
}

// NewAdapter creates a new builder adapter.
func NewAdapter() (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli, log: logging.Get("builder")}, nil
}

// BuildImage acquires the application source, plans the build, and
// submits it to the daemon. Every stage is a gate: the first failure
// aborts the build and no image is tagged.
func (a *Adapter) BuildImage(ctx context.Context, src domain.BuildSource, imageName string, spec domain.BuildSpec) (string, error) {
	if err := src.Validate(); err != nil {
		return "", err
	}

	dir := src.Dir
	if src.RepoURL != "" {
		tmpDir, err := os.MkdirTemp("", "slipway-build-*")
		if err != nil {
			return "", fmt.Errorf("failed to create temp dir: %w", err)
		}
		defer os.RemoveAll(tmpDir)

		a.log.Infow("cloning repository", "url", src.RepoURL)
		_, err = git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{
			URL:   src.RepoURL,
			Depth: 1, // Shallow clone for speed
		})
		if err != nil {
			return "", fmt.Errorf("failed to clone repo: %w", err)
		}
		dir = tmpDir
	}

	plan, err := pipeline.New(spec, dir).Plan()
	if err != nil {
		return "", err
	}
	content, err := plan.Dockerfile()
	if err != nil {
		return "", err
	}

	dfPath := filepath.Join(dir, planDockerfile)
	if err := os.WriteFile(dfPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write build file: %w", err)
	}
	defer os.Remove(dfPath)

	excludes, err := readIgnorePatterns(dir)
	if err != nil {
		return "", err
	}

	buildCtx, err := archive.TarWithOptions(dir, &archive.TarOptions{
		ExcludePatterns: excludes,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create build context: %w", err)
	}
	defer buildCtx.Close()

	a.log.Infow("building image", "image", imageName, "base", spec.BaseImage)
	resp, err := a.cli.ImageBuild(ctx, buildCtx, types.ImageBuildOptions{
		Tags:       []string{imageName},
		Dockerfile: planDockerfile,
		Remove:     true, // Remove intermediate containers
	})
	if err != nil {
		return "", fmt.Errorf("failed to build image: %w", err)
	}
	defer resp.Body.Close()

	// Stream the daemon's own output; a failed step (base fetch, apt,
	// pip resolution) surfaces its error text verbatim and fails the
	// build here.
	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, os.Stderr, 0, false, nil); err != nil {
		return "", fmt.Errorf("image build failed: %w", err)
	}

	return imageName, nil
}

// readIgnorePatterns loads .dockerignore from the context root, if
// present. The generated Dockerfile itself is never excluded since the
// daemon has to read it from the context.
func readIgnorePatterns(dir string) ([]string, error) {
	path := filepath.Join(dir, ".dockerignore")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read ignore file: %w", err)
	}
	patterns, err := ignore.ReadIgnoreFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ignore file: %w", err)
	}
	filtered := patterns[:0]
	for _, p := range patterns {
		if p == planDockerfile {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}
