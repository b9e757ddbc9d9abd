package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasic(t *testing.T) {
	input := `# web stack
fastapi==0.110.0
uvicorn==0.29.0

sqlalchemy>=2.0,<3.0
`
	reqs, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, reqs, 3)

	assert.Equal(t, "fastapi", reqs[0].Name)
	assert.Equal(t, "==0.110.0", reqs[0].Constraint)
	assert.True(t, reqs[0].Pinned())

	assert.Equal(t, "uvicorn", reqs[1].Name)
	assert.True(t, reqs[1].Pinned())

	assert.Equal(t, "sqlalchemy", reqs[2].Name)
	assert.Equal(t, ">=2.0,<3.0", reqs[2].Constraint)
	assert.False(t, reqs[2].Pinned())
}

func TestParseExtrasAndMarkers(t *testing.T) {
	input := `uvicorn[standard]==0.29.0
pydantic==2.7.0 ; python_version < "3.13"
httpx  # trailing comment
`
	reqs, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, reqs, 3)

	assert.Equal(t, "uvicorn[standard]", reqs[0].Name)
	assert.Equal(t, `python_version < "3.13"`, reqs[1].Marker)
	assert.Equal(t, "httpx", reqs[2].Name)
	assert.Empty(t, reqs[2].Constraint)
}

func TestParseRejectsInvalidLines(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"installer option", "-r other.txt"},
		{"index url", "--index-url https://example.com/simple"},
		{"bad name", "??bogus==1.0"},
		{"bad constraint", "fastapi=0.110.0"},
		{"constraint without version", "fastapi=="},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input))
			require.Error(t, err)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, 1, perr.Line)
		})
	}
}

func TestParseReportsLineNumbers(t *testing.T) {
	input := "fastapi==0.110.0\n\n# comment\nnot a requirement!\n"
	_, err := Parse(strings.NewReader(input))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 4, perr.Line)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile("testdata/does-not-exist.txt")
	require.Error(t, err)
}
