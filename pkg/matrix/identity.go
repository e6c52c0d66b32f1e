// Package matrix turns per-host serverspec results into role-set matrices:
// one column per test, one row per host, one matrix per distinct role set.
//
// Everything here is a pure transform over an immutable report. Build never
// mutates its input and returns the same sections for the same report.
package matrix

import (
	"cmp"
	"fmt"
	"regexp"
	"strings"

	"github.com/dkoosis/specmatrix/pkg/serverspec"
)

// identityRe matches ".../<role>/<spec>_spec.<ext>".
var identityRe = regexp.MustCompile(`(?:^|/)([^/]+)/([^/]+)_spec\.[^/.]+$`)

// Identity names one test across all hosts.
type Identity struct {
	Role string `json:"role"`
	Spec string `json:"spec"`
	Line int    `json:"line"`
}

// Resolve derives the identity of an example from its file path and line.
// ok is false when the path does not follow the role/spec layout.
func Resolve(e serverspec.Example) (id Identity, ok bool) {
	m := identityRe.FindStringSubmatch(e.FilePath)
	if m == nil {
		return Identity{}, false
	}
	return Identity{Role: m[1], Spec: m[2], Line: e.LineNumber}, true
}

// Compare orders identities by role, then spec (byte-wise), then line.
func (id Identity) Compare(other Identity) int {
	if c := strings.Compare(id.Role, other.Role); c != 0 {
		return c
	}
	if c := strings.Compare(id.Spec, other.Spec); c != 0 {
		return c
	}
	return cmp.Compare(id.Line, other.Line)
}

func (id Identity) String() string {
	return fmt.Sprintf("%s/%s:%d", id.Role, id.Spec, id.Line)
}

// Unresolved returns the file paths of examples that have no identity, in
// report order. Those examples take no part in any matrix.
func Unresolved(report serverspec.Report) []string {
	var paths []string
	for _, h := range report {
		for _, e := range h.Results.Examples {
			if _, ok := Resolve(e); !ok {
				paths = append(paths, e.FilePath)
			}
		}
	}
	return paths
}
