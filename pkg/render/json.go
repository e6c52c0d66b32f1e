package render

import (
	"bytes"
	"encoding/json"

	"github.com/dkoosis/specmatrix/pkg/pattern"
)

// SchemaVersion identifies the shape of the JSON document, in particular the
// host-matrix layout (nested role specs, cells carrying the raw example).
// Bump it whenever a pattern's JSON fields change incompatibly.
const SchemaVersion = "1"

// JSON renders patterns as one self-contained document for automation.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

type document struct {
	Version  string     `json:"version"`
	Patterns []envelope `json:"patterns"`
}

// envelope tags each pattern with its type so consumers can decode Data.
type envelope struct {
	Type pattern.PatternType `json:"type"`
	Data pattern.Pattern     `json:"data"`
}

// Render formats all patterns as indented JSON. HTML escaping is off:
// serverspec descriptions routinely contain comparisons like "<= 5".
func (j *JSON) Render(patterns []pattern.Pattern) string {
	doc := document{
		Version:  SchemaVersion,
		Patterns: make([]envelope, 0, len(patterns)),
	}
	for _, p := range patterns {
		doc.Patterns = append(doc.Patterns, envelope{Type: p.Type(), Data: p})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON) + "\n"
	}
	return buf.String()
}
