package ports

import (
	"context"
	"io"

	"github.com/slipway-sh/slipway/internal/core/domain"
)

// ContainerService defines the core operations for managing launched
// application containers. This interface allows us to switch between
// Docker, Podman, or Kubernetes without changing the business logic.
type ContainerService interface {
	ListContainers(ctx context.Context) ([]domain.Container, error)
	StartContainer(ctx context.Context, image, name string, port int) (string, error)
	StopContainer(ctx context.Context, id string) error
	GetContainerLogs(ctx context.Context, id string) (io.ReadCloser, error)
}
