package matrix

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/specmatrix/pkg/serverspec"
)

const (
	lldpd   = "./spec/all/lldpd_spec.rb"
	apache2 = "./spec/web/apache2_spec.rb"
	ntp     = "./spec/all/ntp_spec.rb"
	mysql   = "./spec/db/mysql_spec.rb"
)

func webReport() serverspec.Report {
	return serverspec.Report{
		host("web1",
			ex(apache2, 8, serverspec.StatusFailed),
			ex(lldpd, 4, serverspec.StatusPassed),
			ex(apache2, 4, serverspec.StatusPassed),
		),
		host("web2",
			ex(lldpd, 4, serverspec.StatusPassed),
			ex(apache2, 4, serverspec.StatusPending),
		),
	}
}

func columnsOf(row Row) []Identity {
	ids := make([]Identity, 0, len(row.Cells))
	for _, c := range row.Cells {
		ids = append(ids, c.Identity())
	}
	return ids
}

func TestBuild_TwoWebHostsShareOneMatrix(t *testing.T) {
	t.Parallel()

	sections := Build(webReport())
	require.Len(t, sections, 1)
	s := sections[0]

	assert.Equal(t, "(all, web)", s.RoleSet.String())
	assert.Equal(t, 3, s.TotalTests)
	assert.Equal(t, []Identity{{"all", "lldpd", 4}, {"web", "apache2", 4}, {"web", "apache2", 8}}, s.Columns)
	assert.Equal(t, []RoleSummary{
		{Name: "all", TestCount: 1, Specs: []SpecSummary{{Name: "lldpd", TestCount: 1}}},
		{Name: "web", TestCount: 2, Specs: []SpecSummary{{Name: "apache2", TestCount: 2}}},
	}, s.Roles)
	assert.Equal(t, []SpecRef{
		{Role: "all", Name: "lldpd", TestCount: 1},
		{Role: "web", Name: "apache2", TestCount: 2},
	}, s.Specs)

	require.Len(t, s.Rows, 2)
	web1, web2 := s.Rows[0], s.Rows[1]

	assert.Equal(t, "web1", web1.Hostname)
	assert.Equal(t, 2, web1.SuccessCount)
	assert.Equal(t, 1, web1.FailureCount)
	assert.Equal(t, Color(2, 1), web1.Color)

	assert.Equal(t, "web2", web2.Hostname)
	assert.Equal(t, 1, web2.SuccessCount)
	assert.Equal(t, 0, web2.FailureCount)
	assert.Equal(t, serverspec.StatusPending, web2.Cells[1].Test.Status)
	assert.True(t, web2.Cells[2].Missing(), "apache2:8 never ran on web2")
	assert.Equal(t, "#32cd32", web2.Color)

	assert.Equal(t, columnsOf(web1), columnsOf(web2))
	assert.Equal(t, s.Columns, columnsOf(web1))
}

func TestBuild_UnrecognizedHostGetsEmptyMatrix(t *testing.T) {
	t.Parallel()

	report := serverspec.Report{
		host("odd1", ex("./checks/thing.rb", 3, serverspec.StatusFailed), ex("setup_spec.rb", 1, serverspec.StatusPassed)),
	}
	sections := Build(report)
	require.Len(t, sections, 1)

	s := sections[0]
	assert.Zero(t, s.RoleSet.Len())
	assert.Zero(t, s.TotalTests)
	assert.Empty(t, s.Roles)
	assert.Empty(t, s.Specs)
	require.Len(t, s.Rows, 1)
	assert.Equal(t, "odd1", s.Rows[0].Hostname)
	assert.Zero(t, s.Rows[0].SuccessCount)
	assert.Zero(t, s.Rows[0].FailureCount)
	assert.Equal(t, NeutralColor, s.Rows[0].Color)
	assert.Empty(t, s.Rows[0].Cells)
}

func TestBuild_HostWithoutExamples(t *testing.T) {
	t.Parallel()

	sections := Build(serverspec.Report{host("bare")})
	require.Len(t, sections, 1)
	assert.Equal(t, "()", sections[0].RoleSet.String())
	require.Len(t, sections[0].Rows, 1)
	assert.Equal(t, "bare", sections[0].Rows[0].Hostname)
}

func TestBuild_EmptyReport(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Build(nil))
	assert.Empty(t, Build(serverspec.Report{}))
}

func TestBuild_CatalogSpansHostsOutsideTheRoleSet(t *testing.T) {
	t.Parallel()

	report := append(webReport(),
		host("db1",
			ex(mysql, 2, serverspec.StatusPassed),
			ex(ntp, 3, serverspec.StatusPassed),
			ex(lldpd, 4, serverspec.StatusFailed),
		),
	)

	sections := Build(report)
	require.Len(t, sections, 2)
	web, db := sections[0], sections[1]

	assert.Equal(t, "(all, web)", web.RoleSet.String())
	assert.Equal(t, "(all, db)", db.RoleSet.String())

	// all/ntp only ran on db1, but role "all" belongs to the web set too.
	assert.Contains(t, web.Columns, Identity{"all", "ntp", 3})
	assert.Equal(t, 4, web.TotalTests)
	for _, row := range web.Rows {
		assert.NotEqual(t, "db1", row.Hostname)
		assert.True(t, row.Cells[1].Missing(), "%s has no ntp result", row.Hostname)
	}

	// web/apache2 ran only on web hosts: not part of the db catalog.
	assert.Equal(t, []Identity{{"all", "lldpd", 4}, {"all", "ntp", 3}, {"db", "mysql", 2}}, db.Columns)
	require.Len(t, db.Rows, 1)
	assert.Equal(t, 1, db.Rows[0].FailureCount)
	assert.Equal(t, 2, db.Rows[0].SuccessCount)
}

func TestBuild_FirstDuplicateExampleWins(t *testing.T) {
	t.Parallel()

	report := serverspec.Report{
		host("web1",
			ex(apache2, 4, serverspec.StatusFailed),
			ex(apache2, 4, serverspec.StatusPassed),
		),
	}
	s := Build(report)[0]
	require.Equal(t, 1, s.TotalTests)
	assert.Equal(t, serverspec.StatusFailed, s.Rows[0].Cells[0].Test.Status)
	assert.Equal(t, 1, s.Rows[0].FailureCount)
	assert.Zero(t, s.Rows[0].SuccessCount)
}

func TestBuild_ColumnsStrictlyAscending(t *testing.T) {
	t.Parallel()

	report := serverspec.Report{
		host("a",
			ex("./spec/web/zeta_spec.rb", 10, serverspec.StatusPassed),
			ex("./spec/web/zeta_spec.rb", 9, serverspec.StatusPassed),
			ex("./spec/web/Alpha_spec.rb", 1, serverspec.StatusPassed),
			ex("./spec/web/alpha_spec.rb", 100, serverspec.StatusPassed),
			ex("./spec/all/base_spec.rb", 2, serverspec.StatusPassed),
		),
		host("b",
			ex("./spec/web/zeta_spec.rb", 10, serverspec.StatusFailed),
			ex("./spec/all/base_spec.rb", 2, serverspec.StatusPassed),
		),
	}
	s := Build(report)[0]
	for i := 1; i < len(s.Columns); i++ {
		assert.Negative(t, s.Columns[i-1].Compare(s.Columns[i]), "column %d out of order", i)
	}
	assert.Equal(t, Identity{"web", "Alpha", 1}, s.Columns[1], "byte order puts uppercase first")
	assert.Equal(t, Identity{"web", "zeta", 9}, s.Columns[3], "lines compare numerically")
}

func TestBuild_SummaryCountsMatchColumns(t *testing.T) {
	t.Parallel()

	report := append(webReport(), host("web3",
		ex("./spec/web/php_spec.rb", 3, serverspec.StatusPassed),
		ex("./spec/all/lldpd_spec.rb", 12, serverspec.StatusPassed),
	))
	for _, s := range Build(report) {
		total := 0
		for _, role := range s.Roles {
			specTotal := 0
			for _, spec := range role.Specs {
				specTotal += spec.TestCount
			}
			assert.Equal(t, role.TestCount, specTotal, "role %s", role.Name)

			columns := 0
			for _, id := range s.Columns {
				if id.Role == role.Name {
					columns++
				}
			}
			assert.Equal(t, columns, role.TestCount, "role %s", role.Name)
			total += role.TestCount
		}
		specTotal := 0
		for _, spec := range s.Specs {
			specTotal += spec.TestCount
		}
		assert.Equal(t, s.TotalTests, total)
		assert.Equal(t, s.TotalTests, specTotal)

		for _, row := range s.Rows {
			assert.Len(t, row.Cells, s.TotalTests)
			assert.LessOrEqual(t, row.SuccessCount+row.FailureCount, s.TotalTests)
		}
	}
}

func TestBuild_IsDeterministicAndLeavesInputAlone(t *testing.T) {
	t.Parallel()

	report := webReport()
	report[0].Results.Examples[0].Exception = &serverspec.Exception{
		Class:     "RSpec::Expectations::ExpectationNotMetError",
		Message:   "expected port 80 to be listening",
		Backtrace: []string{"./spec/web/apache2_spec.rb:9"},
	}
	before, err := json.Marshal(report)
	require.NoError(t, err)

	first := Build(report)
	second := Build(report)
	if diff := cmp.Diff(first, second, cmp.AllowUnexported(RoleSet{})); diff != "" {
		t.Errorf("Build not deterministic (-first +second):\n%s", diff)
	}

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	// Mutating the output must not reach back into the report.
	first[0].Rows[0].Cells[2].Test.Exception.Backtrace[0] = "changed"
	after, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestBuild_JSONShape(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Build(serverspec.Report{host("odd")}))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"roleSet":[],"roles":[],"specs":[],"columns":[],"totalTests":0,
		"rows":[{"hostname":"odd","successCount":0,"failureCount":0,"color":"#000000","cells":[]}]}]`, string(data))
}
