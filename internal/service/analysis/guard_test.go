package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryGuard_Check(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr string
	}{
		{name: "group by", query: "SELECT difficulty, count(*) AS n FROM dataset GROUP BY difficulty ORDER BY n DESC"},
		{name: "trailing semicolon", query: "SELECT id FROM dataset LIMIT 5;"},
		{name: "where and functions", query: "SELECT id, len(sequence) FROM dataset WHERE type = 'geometric' AND target > 10"},
		{name: "self join", query: "SELECT a.id FROM dataset a JOIN dataset b ON a.id = b.id"},
		{name: "empty", query: "  ;", wantErr: "empty query"},
		{name: "insert", query: "INSERT INTO dataset VALUES (1)", wantErr: "only SELECT"},
		{name: "two statements", query: "SELECT 1 FROM dataset; SELECT 2 FROM dataset", wantErr: "exactly one statement"},
		{name: "other table", query: "SELECT * FROM secrets", wantErr: `table "secrets"`},
		{name: "schema qualified", query: "SELECT * FROM main.dataset", wantErr: "is not allowed"},
		{name: "table function", query: "SELECT * FROM read_csv_auto('/etc/passwd')", wantErr: "table functions"},
		{name: "no from", query: "SELECT 1", wantErr: "must read from dataset"},
		{name: "union", query: "SELECT id FROM dataset UNION SELECT id FROM dataset", wantErr: "UNION"},
		{name: "cte", query: "WITH x AS (SELECT id FROM dataset) SELECT * FROM x", wantErr: "WITH"},
		{name: "subquery", query: "SELECT id FROM dataset WHERE target > (SELECT avg(target) FROM dataset)", wantErr: "subqueries"},
		{name: "bad function", query: "SELECT read_text('/etc/passwd') FROM dataset", wantErr: `function "read_text"`},
		{name: "nested bad function", query: "SELECT count(*) FROM dataset WHERE length(getenv('HOME')) > 0", wantErr: `function "getenv"`},
		{name: "distinct", query: "SELECT DISTINCT difficulty FROM dataset"},
		{name: "allowed window", query: "SELECT id, count(*) OVER (PARTITION BY difficulty ORDER BY id) FROM dataset"},
		{name: "allowed filter", query: "SELECT count(*) FILTER (WHERE target > 10) FROM dataset"},
		{name: "allowed greatest", query: "SELECT greatest(target, 0), ARRAY[1, 2], sequence[1] FROM dataset WHERE (target > 1) IS TRUE"},
		{name: "function in array", query: "SELECT ARRAY[getenv('HOME')] FROM dataset", wantErr: `function "getenv"`},
		{name: "function in row", query: "SELECT (getenv('HOME'), 1) FROM dataset", wantErr: `function "getenv"`},
		{name: "function in greatest", query: "SELECT greatest(version(), 'a') AS v FROM dataset", wantErr: `function "version"`},
		{name: "function in boolean test", query: "SELECT id FROM dataset WHERE getenv('HOME') IS NOT TRUE", wantErr: `function "getenv"`},
		{name: "function in window partition", query: "SELECT count(*) OVER (PARTITION BY getenv('HOME')) FROM dataset", wantErr: `function "getenv"`},
		{name: "function in window order", query: "SELECT count(*) OVER (ORDER BY getenv('HOME')) FROM dataset", wantErr: `function "getenv"`},
		{name: "function in named window", query: "SELECT count(*) OVER w FROM dataset WINDOW w AS (PARTITION BY getenv('HOME'))", wantErr: `function "getenv"`},
		{name: "function in aggregate filter", query: "SELECT count(*) FILTER (WHERE getenv('HOME') <> '') FROM dataset", wantErr: `function "getenv"`},
		{name: "function in aggregate order", query: "SELECT string_agg(id, ',' ORDER BY getenv('HOME')) FROM dataset", wantErr: `function "getenv"`},
		{name: "function in subscript", query: "SELECT sequence[length(getenv('HOME'))] FROM dataset", wantErr: `function "getenv"`},
		{name: "function in distinct on", query: "SELECT DISTINCT ON (getenv('HOME')) id FROM dataset", wantErr: `function "getenv"`},
		{name: "unknown expression", query: "SELECT current_user FROM dataset", wantErr: "is not allowed"},
		{name: "syntax error", query: "SELEC id FROM dataset", wantErr: "parse error"},
		{name: "too long", query: "SELECT id FROM dataset WHERE id = '" + strings.Repeat("a", 5000) + "'", wantErr: "longer than"},
	}

	g := NewQueryGuard()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Check(tt.query)
			if tt.wantErr != "" {
				require.ErrorIs(t, err, ErrQueryRejected)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.False(t, strings.HasSuffix(got, ";"))
		})
	}
}
