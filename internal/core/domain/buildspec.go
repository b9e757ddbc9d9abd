package domain

import "fmt"

// Runtime environment variables baked into every built image. The
// launched process must observe them at startup; nothing mutates them
// afterwards.
const (
	EnvUnbuffered = "PYTHONUNBUFFERED"
	EnvNoBytecode = "PYTHONDONTWRITEBYTECODE"

	DefaultBaseImage = "python:3.11-slim"
	DefaultManifest  = "requirements.txt"
	DefaultAppTarget = "src.main:app"
	DefaultBindHost  = "0.0.0.0"
	DefaultBindPort  = 8000
)

// BuildSpec is the full set of inputs to an image build. Two builds
// with equal specs over the same source tree produce equivalent
// artifacts.
type BuildSpec struct {
	// BaseImage is a pinned runtime image reference. Floating tags
	// such as "latest" defeat reproducibility and are rejected.
	BaseImage string `json:"base_image"`

	// OSPackages are apt packages installed before the dependency
	// manifest, so native extensions can compile.
	OSPackages []string `json:"os_packages"`

	// ManifestFile is the dependency manifest path relative to the
	// build context root.
	ManifestFile string `json:"manifest_file"`

	// AppTarget is the ASGI import target, "module.path:attribute".
	// The application behind it is opaque to slipway.
	AppTarget string `json:"app_target"`

	BindHost string `json:"bind_host"`
	BindPort int    `json:"bind_port"`
}

// DefaultBuildSpec returns the spec used when the operator overrides
// nothing: a pinned slim Python base, build tooling for native wheels,
// and the conventional src.main:app entrypoint on port 8000.
func DefaultBuildSpec() BuildSpec {
	return BuildSpec{
		BaseImage:    DefaultBaseImage,
		OSPackages:   []string{"build-essential"},
		ManifestFile: DefaultManifest,
		AppTarget:    DefaultAppTarget,
		BindHost:     DefaultBindHost,
		BindPort:     DefaultBindPort,
	}
}

// Validate rejects specs that cannot produce a deterministic build.
func (s BuildSpec) Validate() error {
	if s.BaseImage == "" {
		return fmt.Errorf("base image is required")
	}
	if tag := imageTag(s.BaseImage); tag == "" || tag == "latest" {
		return fmt.Errorf("base image %q must carry a version pin, not a floating tag", s.BaseImage)
	}
	if s.ManifestFile == "" {
		return fmt.Errorf("dependency manifest path is required")
	}
	if s.AppTarget == "" {
		return fmt.Errorf("application import target is required")
	}
	if s.BindPort <= 0 || s.BindPort > 65535 {
		return fmt.Errorf("bind port %d is out of range", s.BindPort)
	}
	return nil
}

func imageTag(ref string) string {
	for i := len(ref) - 1; i >= 0; i-- {
		switch ref[i] {
		case ':':
			return ref[i+1:]
		case '/':
			return ""
		}
	}
	return ""
}

// BuildSource identifies where the application source comes from:
// either a local directory or a git repository URL. Exactly one of the
// two must be set.
type BuildSource struct {
	Dir     string `json:"path,omitempty"`
	RepoURL string `json:"repo_url,omitempty"`
}

func (s BuildSource) Validate() error {
	if s.Dir == "" && s.RepoURL == "" {
		return fmt.Errorf("either a source path or a repository URL is required")
	}
	if s.Dir != "" && s.RepoURL != "" {
		return fmt.Errorf("source path and repository URL are mutually exclusive")
	}
	return nil
}
