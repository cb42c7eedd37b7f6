package handler

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ashwinyue/hrm-dataset/internal/model"
	"github.com/ashwinyue/hrm-dataset/internal/service/analysis"
	"github.com/ashwinyue/hrm-dataset/internal/service/validator"
	"github.com/goccy/go-json"
)

// printer 面向用户的文本输出，记录第一个写错误
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, args...)
}

// difficultyOrder easy/medium/hard 在前，其余按字母序
func difficultyOrder(counts map[string]int) []string {
	rank := func(d string) int {
		for i, known := range model.Difficulties {
			if string(known) == d {
				return i
			}
		}
		return len(model.Difficulties)
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// capitalize 首字母大写
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// printPretty 两空格缩进输出一条原始记录
func (p *printer) printPretty(raw json.RawMessage) {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		p.println(string(raw))
		return
	}
	p.println(string(data))
}

// printRunSummary 输出第一条记录和按难度的数量，first 为 nil 时只输出数量
func (p *printer) printRunSummary(first any, counts map[string]int, total int) {
	if first != nil {
		data, err := json.MarshalIndent(first, "", "  ")
		if err != nil {
			if p.err == nil {
				p.err = fmt.Errorf("failed to marshal sample: %w", err)
			}
			return
		}
		p.println()
		p.println("Sample data:")
		p.println(string(data))
	}

	p.println()
	p.printf("Total samples: %d\n", total)
	for _, d := range difficultyOrder(counts) {
		p.printf("%s: %d samples\n", capitalize(d), counts[d])
	}
}

// printSummary 输出数据集概览
func (p *printer) printSummary(s *analysis.Summary) {
	p.println()
	p.println("Dataset Analysis:")
	p.printf("  Total samples: %d\n", s.Total)
	if s.Total == 0 {
		return
	}
	p.printf("  Sample keys: [%s]\n", strings.Join(s.Keys, ", "))

	kinds := make([]string, 0, len(s.Kinds))
	for _, k := range append(append([]model.Kind{}, model.RecordKinds...), model.KindUnknown) {
		if n := s.Kinds[k]; n > 0 {
			kinds = append(kinds, fmt.Sprintf("%s=%d", k, n))
		}
	}
	p.printf("  Data types: %s\n", strings.Join(kinds, ", "))

	p.println("  Difficulty distribution:")
	for _, d := range difficultyOrder(s.Difficulties) {
		p.printf("    %s: %d samples\n", d, s.Difficulties[d])
	}

	if len(s.Stats) > 0 {
		p.println("  Numeric fields:")
		for _, st := range s.Stats {
			p.printf("    %s: n=%d mean=%.2f std=%.2f min=%g max=%g\n",
				st.Name, st.Count, st.Mean, st.StdDev, st.Min, st.Max)
		}
	}
}

// printReport 输出校验结果
func (p *printer) printReport(r *validator.Report) {
	p.println()
	p.println("Validating dataset...")
	for _, f := range r.Failures {
		id := f.ID
		if id == "" {
			id = "unknown"
		}
		p.printf("  Sample %d (%s, %s) is invalid:\n", f.Index, id, f.Kind)
		for _, problem := range f.Problems {
			p.printf("    - %s\n", problem)
		}
	}
	p.printf("%d/%d samples are valid\n", r.Passed, r.Total)
}

// printSamples 按类型输出前 n 条记录
func (p *printer) printSamples(records []json.RawMessage, n int) {
	n = min(n, len(records))
	p.println()
	p.printf("Showing first %d samples:\n", n)

	for i := 0; i < n; i++ {
		p.println()
		p.printf("--- Sample %d ---\n", i+1)

		var m map[string]any
		if err := json.Unmarshal(records[i], &m); err != nil || m == nil {
			p.println(string(records[i]))
			continue
		}

		switch validator.InferKind(m) {
		case model.KindSudoku:
			p.printf("ID: %v\n", m["id"])
			p.println("Type: Sudoku")
			p.printf("Difficulty: %v\n", orUnknown(m["difficulty"]))
			p.printf("Blanks: %v\n", orUnknown(m["blanks"]))
			p.printf("Puzzle (first 9 cells): %v\n", head(m["puzzle"], 9))
		case model.KindReasoning:
			steps, _ := m["steps"].([]any)
			p.printf("ID: %v\n", m["id"])
			p.println("Type: Reasoning")
			p.printf("Input: %v\n", m["input"])
			p.printf("Target: %v\n", m["target"])
			p.printf("Steps: %d\n", len(steps))
		case model.KindSequence:
			p.printf("ID: %v\n", m["id"])
			p.println("Type: Sequence")
			p.printf("Sequence: %v\n", m["sequence"])
			p.printf("Target: %v\n", m["target"])
			p.printf("Sequence type: %v\n", orUnknown(m["type"]))
		default:
			p.printPretty(records[i])
		}
	}
}

// printSchema 输出 DuckDB 推断的表结构
func (p *printer) printSchema(s *analysis.Schema) {
	p.println()
	p.printf("Table %s (%d rows):\n", analysis.DatasetTable, s.Rows)
	for _, c := range s.Columns {
		p.printf("  %s %s\n", c.Name, c.Type)
	}
}

// printQuery 以制表符分隔输出查询结果
func (p *printer) printQuery(sql string, r *analysis.QueryResult) {
	p.println()
	p.printf("Query: %s\n", sql)
	p.println(strings.Join(r.Columns, "\t"))
	for _, row := range r.Rows {
		p.println(strings.Join(row, "\t"))
	}
	p.printf("(%d rows)\n", len(r.Rows))
}

func orUnknown(v any) any {
	if v == nil {
		return "unknown"
	}
	return v
}

func head(v any, n int) any {
	arr, ok := v.([]any)
	if !ok {
		return orUnknown(v)
	}
	return arr[:min(n, len(arr))]
}
