// Package manifest reads Python dependency manifests (requirements.txt
// format). Only the declarative subset is supported: one specifier per
// line, comments, and blank lines. Installer options (-r, --index-url,
// editable installs) are rejected so that a manifest accepted here is
// a pure, self-contained input to the build.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Requirement is a single dependency specifier, immutable after parse.
type Requirement struct {
	// Name is the distribution name, possibly with extras, e.g.
	// "uvicorn[standard]".
	Name string
	// Constraint is the version constraint as written, e.g.
	// "==0.29.0" or ">=2,<3". Empty means unconstrained.
	Constraint string
	// Marker is an environment marker suffix carried opaquely, e.g.
	// `python_version < "3.12"`.
	Marker string
	// Raw is the original line with surrounding whitespace trimmed.
	Raw string
}

// Pinned reports whether the requirement names one exact version.
func (r Requirement) Pinned() bool {
	return strings.HasPrefix(r.Constraint, "==") && !strings.Contains(r.Constraint, ",") &&
		!strings.Contains(r.Constraint, "*")
}

// ParseError describes a line the parser rejected.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("manifest line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// PEP 508 distribution name, optionally followed by an extras list.
var nameRe = regexp.MustCompile(`^([A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?)(\[[A-Za-z0-9._,\s-]+\])?`)

var constraintRe = regexp.MustCompile(`^(===|==|!=|~=|>=|<=|>|<)\s*[A-Za-z0-9._*+!-]+$`)

// Parse reads a manifest and returns its requirements in declaration
// order. The first invalid line aborts the parse.
func Parse(r io.Reader) ([]Requirement, error) {
	var reqs []Requirement
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		req, err := parseLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return reqs, nil
}

// ParseFile parses the manifest at path.
func ParseFile(path string) ([]Requirement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func parseLine(line string, lineNo int) (Requirement, error) {
	if strings.HasPrefix(line, "-") {
		return Requirement{}, &ParseError{lineNo, line, "installer options are not supported"}
	}

	rest := line
	var marker string
	if i := strings.Index(rest, ";"); i >= 0 {
		marker = strings.TrimSpace(rest[i+1:])
		rest = strings.TrimSpace(rest[:i])
	}
	// Trailing comments after a specifier.
	if i := strings.Index(rest, " #"); i >= 0 {
		rest = strings.TrimSpace(rest[:i])
	}

	loc := nameRe.FindStringIndex(rest)
	if loc == nil || loc[0] != 0 {
		return Requirement{}, &ParseError{lineNo, line, "invalid distribution name"}
	}
	name := rest[:loc[1]]
	constraint := strings.TrimSpace(rest[loc[1]:])

	if constraint != "" {
		for _, part := range strings.Split(constraint, ",") {
			if !constraintRe.MatchString(strings.TrimSpace(part)) {
				return Requirement{}, &ParseError{lineNo, line, "invalid version constraint"}
			}
		}
		constraint = strings.ReplaceAll(constraint, " ", "")
	}

	return Requirement{Name: name, Constraint: constraint, Marker: marker, Raw: line}, nil
}
