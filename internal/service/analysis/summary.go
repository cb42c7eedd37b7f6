// Package analysis 统计数据集分布，并支持用 DuckDB 对数据集文件做只读查询
package analysis

import (
	"math"
	"sort"

	"github.com/ashwinyue/hrm-dataset/internal/model"
	"github.com/ashwinyue/hrm-dataset/internal/service/validator"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// NumericStat 一个数值字段的统计
type NumericStat struct {
	Name   string
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summary 数据集概览
type Summary struct {
	Total        int
	Keys         []string
	Kinds        map[model.Kind]int
	Difficulties map[string]int
	Stats        []NumericStat
}

// Service 数据分析服务
type Service struct {
	log *zap.Logger
}

// NewService 创建数据分析服务
func NewService(log *zap.Logger) *Service {
	return &Service{log: log}
}

// statFields 参与数值统计的字段，按输出顺序排列
var statFields = []struct {
	name  string
	kind  model.Kind
	field string
	size  bool // 统计数组长度而不是数值
}{
	{name: "reasoning.target", kind: model.KindReasoning, field: "target"},
	{name: "reasoning.steps", kind: model.KindReasoning, field: "steps", size: true},
	{name: "sudoku.blanks", kind: model.KindSudoku, field: "blanks"},
	{name: "sequence.target", kind: model.KindSequence, field: "target"},
	{name: "sequence.length", kind: model.KindSequence, field: "sequence", size: true},
}

// Summarize 统计类型、难度分布和数值字段，无法解析的记录计为 unknown
func (s *Service) Summarize(records []json.RawMessage) *Summary {
	summary := &Summary{
		Total:        len(records),
		Kinds:        make(map[model.Kind]int),
		Difficulties: make(map[string]int),
	}
	samples := make(map[string][]float64)

	for i, raw := range records {
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil || m == nil {
			summary.Kinds[model.KindUnknown]++
			summary.Difficulties["unknown"]++
			continue
		}
		if i == 0 {
			summary.Keys = sortedKeys(m)
		}

		kind := validator.InferKind(m)
		summary.Kinds[kind]++

		difficulty, ok := m["difficulty"].(string)
		if !ok || difficulty == "" {
			difficulty = "unknown"
		}
		summary.Difficulties[difficulty]++

		for _, f := range statFields {
			if f.kind != kind {
				continue
			}
			switch v := m[f.field].(type) {
			case float64:
				if !f.size {
					samples[f.name] = append(samples[f.name], v)
				}
			case []any:
				if f.size {
					samples[f.name] = append(samples[f.name], float64(len(v)))
				}
			}
		}
	}

	for _, f := range statFields {
		if xs := samples[f.name]; len(xs) > 0 {
			summary.Stats = append(summary.Stats, describe(f.name, xs))
		}
	}

	s.log.Debug("dataset summarized", zap.Int("total", summary.Total), zap.Int("stats", len(summary.Stats)))
	return summary
}

// describe 计算均值、样本标准差和极值
func describe(name string, xs []float64) NumericStat {
	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) < 2 || math.IsNaN(std) {
		std = 0
	}
	return NumericStat{
		Name:   name,
		Count:  len(xs),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
