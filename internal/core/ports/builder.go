package ports

import (
	"context"

	"github.com/slipway-sh/slipway/internal/core/domain"
)

// BuilderService defines operations for building container images from
// application source.
type BuilderService interface {
	// BuildImage acquires the source (local directory or shallow git
	// clone), runs the build pipeline over it, and produces a tagged
	// image. It returns the image reference or the first stage error.
	BuildImage(ctx context.Context, src domain.BuildSource, imageName string, spec domain.BuildSpec) (string, error)
}
