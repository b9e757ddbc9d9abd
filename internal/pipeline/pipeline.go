// Package pipeline turns a build spec and a source tree into a build
// plan through a fixed sequence of stage gates. Stages run strictly in
// order; the first failure aborts the whole run and no partial plan is
// ever returned. The plan is a pure function of its inputs, so an
// unchanged spec, manifest, and source tree always yield the same
// Dockerfile and start command.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/slipway-sh/slipway/internal/core/domain"
	"github.com/slipway-sh/slipway/internal/dockerfile"
	"github.com/slipway-sh/slipway/internal/logging"
	"github.com/slipway-sh/slipway/internal/manifest"
)

// Stage identifies one gate of the build pipeline.
type Stage int

const (
	StageBaseSelected Stage = iota
	StageOSDepsInstalled
	StageAppDepsInstalled
	StageSourceCopied
	StageEnvConfigured
	StageCommandDeclared
)

var stageNames = map[Stage]string{
	StageBaseSelected:     "select base image",
	StageOSDepsInstalled:  "install OS packages",
	StageAppDepsInstalled: "install dependency manifest",
	StageSourceCopied:     "copy application source",
	StageEnvConfigured:    "configure runtime environment",
	StageCommandDeclared:  "declare start command",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// StageError reports which gate a build died at.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Plan is the completed output of a pipeline run: a renderable
// Dockerfile plus the declared start command. A Plan only exists once
// every stage has passed.
type Plan struct {
	data         dockerfile.Data
	requirements []manifest.Requirement
	command      []string
	completed    []Stage
}

// Command returns the declared container start command (argv form).
func (p *Plan) Command() []string {
	out := make([]string, len(p.command))
	copy(out, p.command)
	return out
}

// Requirements returns the parsed dependency manifest.
func (p *Plan) Requirements() []manifest.Requirement { return p.requirements }

// Completed returns the stages in the order they passed.
func (p *Plan) Completed() []Stage {
	out := make([]Stage, len(p.completed))
	copy(out, p.completed)
	return out
}

// Dockerfile renders the plan.
func (p *Plan) Dockerfile() (string, error) {
	return dockerfile.Render(p.data)
}

// Pipeline computes build plans for one source tree.
type Pipeline struct {
	spec       domain.BuildSpec
	contextDir string
	log        *zap.SugaredLogger
}

// New returns a pipeline over the given spec and build context root.
func New(spec domain.BuildSpec, contextDir string) *Pipeline {
	return &Pipeline{
		spec:       spec,
		contextDir: contextDir,
		log:        logging.Get("pipeline"),
	}
}

type stageFunc func(*Plan) error

// Plan runs every stage gate in order and returns the finished plan.
// Any stage failure aborts the run; the error names the failed stage
// and carries the underlying cause verbatim.
func (p *Pipeline) Plan() (*Plan, error) {
	if err := p.spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid build spec: %w", err)
	}

	stages := []struct {
		id  Stage
		run stageFunc
	}{
		{StageBaseSelected, p.selectBase},
		{StageOSDepsInstalled, p.installOSPackages},
		{StageAppDepsInstalled, p.installDependencies},
		{StageSourceCopied, p.copySource},
		{StageEnvConfigured, p.configureEnv},
		{StageCommandDeclared, p.declareCommand},
	}

	plan := &Plan{}
	for i, s := range stages {
		// A stage must never run before its predecessor passed.
		if len(plan.completed) != i {
			return nil, &StageError{s.id, fmt.Errorf("stage ran out of order")}
		}
		if err := s.run(plan); err != nil {
			p.log.Errorw("build stage failed", "stage", s.id.String(), "error", err)
			return nil, &StageError{s.id, err}
		}
		plan.completed = append(plan.completed, s.id)
		p.log.Debugw("build stage passed", "stage", s.id.String())
	}
	return plan, nil
}

func (p *Pipeline) selectBase(plan *Plan) error {
	plan.data.BaseImage = p.spec.BaseImage
	return nil
}

func (p *Pipeline) installOSPackages(plan *Plan) error {
	pkgs := make([]string, len(p.spec.OSPackages))
	copy(pkgs, p.spec.OSPackages)
	sort.Strings(pkgs)
	plan.data.OSPackages = pkgs
	return nil
}

func (p *Pipeline) installDependencies(plan *Plan) error {
	path := filepath.Join(p.contextDir, p.spec.ManifestFile)
	reqs, err := manifest.ParseFile(path)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		return fmt.Errorf("manifest %s declares no dependencies", p.spec.ManifestFile)
	}
	plan.requirements = reqs
	plan.data.ManifestFile = filepath.ToSlash(p.spec.ManifestFile)
	return nil
}

func (p *Pipeline) copySource(plan *Plan) error {
	modPath, _, err := splitAppTarget(p.spec.AppTarget)
	if err != nil {
		return err
	}
	// The entrypoint module must exist in the tree being copied; the
	// application behind it stays opaque.
	rel := filepath.Join(strings.Split(modPath, ".")...) + ".py"
	if _, err := os.Stat(filepath.Join(p.contextDir, rel)); err != nil {
		return fmt.Errorf("entrypoint module %s not found in source tree: %w", rel, err)
	}
	return nil
}

func (p *Pipeline) configureEnv(plan *Plan) error {
	plan.data.Env = []dockerfile.EnvVar{
		{Name: domain.EnvNoBytecode, Value: "1"},
		{Name: domain.EnvUnbuffered, Value: "1"},
	}
	return nil
}

func (p *Pipeline) declareCommand(plan *Plan) error {
	plan.command = []string{
		"uvicorn", p.spec.AppTarget,
		"--host", p.spec.BindHost,
		"--port", strconv.Itoa(p.spec.BindPort),
	}
	plan.data.Port = p.spec.BindPort
	plan.data.Command = plan.command
	return nil
}

func splitAppTarget(target string) (module, attr string, err error) {
	parts := strings.Split(target, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("application target %q is not of the form module.path:attribute", target)
	}
	return parts[0], parts[1], nil
}
