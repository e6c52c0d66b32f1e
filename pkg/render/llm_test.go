package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkoosis/specmatrix/pkg/pattern"
)

func TestLLM_RenderMatrix(t *testing.T) {
	out := NewLLM().Render(fleetPatterns())

	assert.True(t, strings.HasPrefix(out, "SCOPE: FAIL 1/2 hosts, 1 failures\n"), out)
	assert.Contains(t, out, "hosts 2, failed 1 on 1 hosts\n")
	assert.Contains(t, out, "## (all, web) 3 tests\n")
	assert.Contains(t, out, "  web1 2/1 all/base=PP web/nginx=F\n")
	assert.Contains(t, out, "  web2 2/0 all/base=P- web/nginx=P\n")
	assert.Contains(t, out, "MOST FAILING TESTS\n  1. web/nginx:4 1 host | Port 80 should be listening\n")
	assert.Contains(t, out, "  FAIL web/nginx:4 (12ms)\n    Port 80 should be listening\n")
	assert.NotContains(t, out, "\x1b[", "no ANSI escapes")
}

func TestLLM_TruncatesDetails(t *testing.T) {
	details := make([]string, 12)
	for i := range details {
		details[i] = "line"
	}
	out := NewLLM().Render([]pattern.Pattern{
		&pattern.TestTable{
			Label:   "FAIL db1 (db) (1/1 failed)",
			Results: []pattern.TestTableItem{{Name: "db/mysql:2", Status: "fail", Details: strings.Join(details, "\n")}},
		},
	})

	assert.Equal(t, llmDetailLines, strings.Count(out, "    line\n"))
	assert.Contains(t, out, "... (4 more lines)")
}

func TestLLM_RenderError(t *testing.T) {
	out := NewLLM().Render([]pattern.Pattern{
		&pattern.Error{Source: "report.json", Message: "decoding report: unexpected EOF"},
	})
	assert.Equal(t, "ERROR report.json: decoding report: unexpected EOF\n", out)
}

func TestLLM_Deterministic(t *testing.T) {
	r := NewLLM()
	assert.Equal(t, r.Render(fleetPatterns()), r.Render(fleetPatterns()))
}
