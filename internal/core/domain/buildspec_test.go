package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSpecValidate(t *testing.T) {
	assert.NoError(t, DefaultBuildSpec().Validate())

	cases := []struct {
		name   string
		mutate func(*BuildSpec)
	}{
		{"empty base image", func(s *BuildSpec) { s.BaseImage = "" }},
		{"floating latest tag", func(s *BuildSpec) { s.BaseImage = "python:latest" }},
		{"untagged image", func(s *BuildSpec) { s.BaseImage = "python" }},
		{"untagged registry image", func(s *BuildSpec) { s.BaseImage = "registry.local/python" }},
		{"missing manifest", func(s *BuildSpec) { s.ManifestFile = "" }},
		{"missing app target", func(s *BuildSpec) { s.AppTarget = "" }},
		{"port out of range", func(s *BuildSpec) { s.BindPort = 70000 }},
		{"zero port", func(s *BuildSpec) { s.BindPort = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := DefaultBuildSpec()
			tc.mutate(&spec)
			assert.Error(t, spec.Validate())
		})
	}
}

func TestBuildSpecAcceptsDigestlessPin(t *testing.T) {
	spec := DefaultBuildSpec()
	spec.BaseImage = "registry.local/team/python:3.12-slim"
	assert.NoError(t, spec.Validate())
}

func TestBuildSourceValidate(t *testing.T) {
	assert.Error(t, BuildSource{}.Validate())
	assert.Error(t, BuildSource{Dir: "/tmp/app", RepoURL: "https://example.com/app.git"}.Validate())
	assert.NoError(t, BuildSource{Dir: "/tmp/app"}.Validate())
	assert.NoError(t, BuildSource{RepoURL: "https://example.com/app.git"}.Validate())
}
