// Package dockerfile renders a build plan into Dockerfile text. The
// output is deterministic: identical input data yields byte-identical
// Dockerfiles, which is what lets the daemon reuse layers across
// rebuilds.
package dockerfile

import (
	"fmt"
	"strings"
	"text/template"
)

// EnvVar is a single ENV declaration. Order is significant for
// determinism, so env vars travel as a slice, not a map.
type EnvVar struct {
	Name  string
	Value string
}

// Data is everything the template needs. Stages of the build pipeline
// fill it in incrementally.
type Data struct {
	BaseImage    string
	OSPackages   []string
	ManifestFile string
	Env          []EnvVar
	Port         int
	Command      []string
}

// The manifest is copied and installed before the bulk source copy so
// that source-only changes do not invalidate the dependency layer.
const tmplText = `FROM {{.BaseImage}}

WORKDIR /app
{{- if .OSPackages}}

RUN apt-get update \
    && apt-get install -y --no-install-recommends {{join .OSPackages " "}} \
    && rm -rf /var/lib/apt/lists/*
{{- end}}

COPY {{.ManifestFile}} ./{{.ManifestFile}}
RUN pip install --no-cache-dir -r {{.ManifestFile}}

COPY . .
{{- if .Env}}
{{range .Env}}
ENV {{.Name}}={{.Value}}
{{- end}}
{{- end}}

EXPOSE {{.Port}}

CMD [{{exec .Command}}]
`

var tmpl = template.Must(template.New("dockerfile").Funcs(template.FuncMap{
	"join": strings.Join,
	"exec": execForm,
}).Parse(tmplText))

// Render produces the Dockerfile for d.
func Render(d Data) (string, error) {
	if d.BaseImage == "" {
		return "", fmt.Errorf("rendering dockerfile: base image not set")
	}
	if len(d.Command) == 0 {
		return "", fmt.Errorf("rendering dockerfile: start command not declared")
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, d); err != nil {
		return "", fmt.Errorf("rendering dockerfile: %w", err)
	}
	return b.String(), nil
}

// execForm renders argv as a JSON-array CMD so the server runs as PID 1
// in the foreground, without a shell in between.
func execForm(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = fmt.Sprintf("%q", a)
	}
	return strings.Join(quoted, ", ")
}
