package dockerfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullData() Data {
	return Data{
		BaseImage:    "python:3.11-slim",
		OSPackages:   []string{"build-essential"},
		ManifestFile: "requirements.txt",
		Env: []EnvVar{
			{Name: "PYTHONDONTWRITEBYTECODE", Value: "1"},
			{Name: "PYTHONUNBUFFERED", Value: "1"},
		},
		Port:    8000,
		Command: []string{"uvicorn", "src.main:app", "--host", "0.0.0.0", "--port", "8000"},
	}
}

func TestRender(t *testing.T) {
	out, err := Render(fullData())
	require.NoError(t, err)

	want := `FROM python:3.11-slim

WORKDIR /app

RUN apt-get update \
    && apt-get install -y --no-install-recommends build-essential \
    && rm -rf /var/lib/apt/lists/*

COPY requirements.txt ./requirements.txt
RUN pip install --no-cache-dir -r requirements.txt

COPY . .

ENV PYTHONDONTWRITEBYTECODE=1
ENV PYTHONUNBUFFERED=1

EXPOSE 8000

CMD ["uvicorn", "src.main:app", "--host", "0.0.0.0", "--port", "8000"]
`
	assert.Equal(t, want, out)
}

func TestRenderWithoutOSPackages(t *testing.T) {
	d := fullData()
	d.OSPackages = nil

	out, err := Render(d)
	require.NoError(t, err)
	assert.NotContains(t, out, "apt-get")
	assert.Contains(t, out, "WORKDIR /app\n\nCOPY requirements.txt")
}

func TestRenderManifestBeforeSource(t *testing.T) {
	out, err := Render(fullData())
	require.NoError(t, err)

	// The dependency layer must come before the bulk source copy so
	// source-only edits reuse it.
	manifestIdx := indexOf(t, out, "RUN pip install")
	sourceIdx := indexOf(t, out, "COPY . .")
	assert.Less(t, manifestIdx, sourceIdx)
}

func TestRenderDeterministic(t *testing.T) {
	a, err := Render(fullData())
	require.NoError(t, err)
	b, err := Render(fullData())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRenderRejectsIncompleteData(t *testing.T) {
	d := fullData()
	d.BaseImage = ""
	_, err := Render(d)
	assert.Error(t, err)

	d = fullData()
	d.Command = nil
	_, err = Render(d)
	assert.Error(t, err)
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, idx, 0, "missing %q", needle)
	return idx
}
