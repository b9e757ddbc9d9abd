package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipway-sh/slipway/internal/core/domain"
)

type stubContainerService struct {
	containers []domain.Container
	started    []string
	stopped    []string
}

func (s *stubContainerService) ListContainers(ctx context.Context) ([]domain.Container, error) {
	return s.containers, nil
}

func (s *stubContainerService) StartContainer(ctx context.Context, image, name string, port int) (string, error) {
	s.started = append(s.started, image)
	return "abcdef123456", nil
}

func (s *stubContainerService) StopContainer(ctx context.Context, id string) error {
	s.stopped = append(s.stopped, id)
	return nil
}

func (s *stubContainerService) GetContainerLogs(ctx context.Context, id string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("log line\n")), nil
}

type stubBuilderService struct {
	err    error
	builds []string
}

func (s *stubBuilderService) BuildImage(ctx context.Context, src domain.BuildSource, imageName string, spec domain.BuildSpec) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.builds = append(s.builds, imageName)
	return imageName, nil
}

func newTestApp(svc *stubContainerService, b *stubBuilderService) *fiber.App {
	h := NewHandler(svc, b, domain.DefaultBuildSpec())
	app := fiber.New()
	app.Post("/builds", h.Build)
	app.Get("/containers", h.ListContainers)
	app.Post("/containers", h.Deploy)
	app.Delete("/containers/:id", h.StopContainer)
	app.Get("/containers/:id/logs", h.GetContainerLogs)
	return app
}

func doPost(t *testing.T, app *fiber.App, path string, body any) (int, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func TestDeployBuildsThenStarts(t *testing.T) {
	svc := &stubContainerService{}
	b := &stubBuilderService{}
	app := newTestApp(svc, b)

	status, body := doPost(t, app, "/containers", map[string]string{
		"path":  "/srv/app",
		"image": "acme-api",
		"name":  "acme",
	})

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "abcdef123456", body["id"])
	assert.Equal(t, []string{"acme-api"}, b.builds)
	assert.Equal(t, []string{"acme-api"}, svc.started)
}

func TestDeployBuildFailureStartsNothing(t *testing.T) {
	svc := &stubContainerService{}
	b := &stubBuilderService{err: fmt.Errorf("install dependency manifest: no matching distribution")}
	app := newTestApp(svc, b)

	status, body := doPost(t, app, "/containers", map[string]string{
		"path":  "/srv/app",
		"image": "acme-api",
	})

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Contains(t, body["error"], "no matching distribution")
	assert.Empty(t, svc.started, "a failed build must never reach the launch step")
}

func TestDeployExistingImageSkipsBuild(t *testing.T) {
	svc := &stubContainerService{}
	b := &stubBuilderService{}
	app := newTestApp(svc, b)

	status, _ := doPost(t, app, "/containers", map[string]string{"image": "acme-api"})

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Empty(t, b.builds)
	assert.Equal(t, []string{"acme-api"}, svc.started)
}

func TestDeployRequiresSomeInput(t *testing.T) {
	app := newTestApp(&stubContainerService{}, &stubBuilderService{})
	status, body := doPost(t, app, "/containers", map[string]string{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])
}

func TestBuildEndpoint(t *testing.T) {
	b := &stubBuilderService{}
	app := newTestApp(&stubContainerService{}, b)

	status, body := doPost(t, app, "/builds", map[string]string{
		"repo_url": "https://example.com/app.git",
		"image":    "acme-api",
	})

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "acme-api", body["image"])
	assert.Equal(t, []string{"acme-api"}, b.builds)
}

func TestBuildEndpointRejectsAmbiguousSource(t *testing.T) {
	app := newTestApp(&stubContainerService{}, &stubBuilderService{})

	status, _ := doPost(t, app, "/builds", map[string]string{
		"repo_url": "https://example.com/app.git",
		"path":     "/srv/app",
		"image":    "acme-api",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doPost(t, app, "/builds", map[string]string{"image": "acme-api"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestListContainers(t *testing.T) {
	svc := &stubContainerService{containers: []domain.Container{
		{ID: "abc123", Name: "acme", Image: "acme-api", State: "running"},
	}}
	app := newTestApp(svc, &stubBuilderService{})

	req := httptest.NewRequest("GET", "/containers", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var got []domain.Container
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "acme", got[0].Name)
}
