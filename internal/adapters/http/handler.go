package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/slipway-sh/slipway/internal/core/domain"
	"github.com/slipway-sh/slipway/internal/core/ports"
)

// Handler exposes build and container operations over REST.
type Handler struct {
	service ports.ContainerService
	builder ports.BuilderService
	spec    domain.BuildSpec
}

func NewHandler(service ports.ContainerService, builder ports.BuilderService, spec domain.BuildSpec) *Handler {
	return &Handler{service: service, builder: builder, spec: spec}
}

func (h *Handler) ListContainers(c *fiber.Ctx) error {
	containers, err := h.service.ListContainers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(containers)
}

type BuildRequest struct {
	Image   string `json:"image"`
	RepoURL string `json:"repo_url"`
	Path    string `json:"path"`
}

// Build runs the image build pipeline without launching anything.
func (h *Handler) Build(c *fiber.Ctx) error {
	var req BuildRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Image == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image name is required",
		})
	}

	src := domain.BuildSource{Dir: req.Path, RepoURL: req.RepoURL}
	if err := src.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	image, err := h.builder.BuildImage(c.Context(), src, req.Image, h.spec)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Build failed: " + err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"image": image})
}

type DeployRequest struct {
	Image   string `json:"image"`
	RepoURL string `json:"repo_url"`
	Path    string `json:"path"`
	Name    string `json:"name"`
}

// Deploy builds the image when a source is given, then launches a
// container from it. Build failures abort before anything is started.
func (h *Handler) Deploy(c *fiber.Ctx) error {
	var req DeployRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	imageToRun := req.Image

	if req.RepoURL != "" || req.Path != "" {
		if imageToRun == "" {
			imageToRun = fmt.Sprintf("slipway-app-%d", time.Now().Unix())
		}
		src := domain.BuildSource{Dir: req.Path, RepoURL: req.RepoURL}
		if _, err := h.builder.BuildImage(c.Context(), src, imageToRun, h.spec); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Build failed: " + err.Error(),
			})
		}
	} else if imageToRun == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image name, source path or repo URL is required",
		})
	}

	containerID, err := h.service.StartContainer(c.Context(), imageToRun, req.Name, h.spec.BindPort)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    containerID,
		"image": imageToRun,
	})
}

func (h *Handler) StopContainer(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	if err := h.service.StopContainer(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *Handler) GetContainerLogs(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	logs, err := h.service.GetContainerLogs(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "text/plain")
	return c.SendStream(logs)
}
