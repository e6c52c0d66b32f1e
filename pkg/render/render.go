// Package render provides output renderers for specmatrix patterns.
package render

import "github.com/dkoosis/specmatrix/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}
