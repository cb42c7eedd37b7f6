// Package validator 按字段签名推断记录类型并检查结构和约束
package validator

import (
	"context"

	"github.com/ashwinyue/hrm-dataset/internal/model"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Failure 单条记录的校验失败
type Failure struct {
	Index    int
	ID       string
	Kind     model.Kind
	Problems []string
}

// Report 校验结果汇总
type Report struct {
	Total    int
	Passed   int
	Failed   int
	Kinds    map[model.Kind]int
	Failures []Failure
}

// OK 是否全部通过
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Service 数据校验服务
type Service struct {
	log *zap.Logger
}

// NewService 创建数据校验服务
func NewService(log *zap.Logger) *Service {
	return &Service{log: log}
}

// Validate 逐条校验，单条失败不影响后续记录
func (s *Service) Validate(ctx context.Context, records []json.RawMessage) (*Report, error) {
	report := &Report{
		Total: len(records),
		Kinds: make(map[model.Kind]int),
	}

	for i, raw := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		kind, id, problems := CheckRecord(raw)
		report.Kinds[kind]++
		if len(problems) == 0 {
			report.Passed++
			continue
		}

		report.Failed++
		report.Failures = append(report.Failures, Failure{Index: i, ID: id, Kind: kind, Problems: problems})
		s.log.Debug("record failed validation",
			zap.Int("index", i),
			zap.String("id", id),
			zap.String("kind", string(kind)),
			zap.Strings("problems", problems),
		)
	}

	s.log.Info("dataset validated",
		zap.Int("total", report.Total),
		zap.Int("passed", report.Passed),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

// InferKind 按字段签名推断类型：puzzle 优先，其次 sequence，再次 steps
func InferKind(m map[string]any) model.Kind {
	if _, ok := m["puzzle"]; ok {
		return model.KindSudoku
	}
	if _, ok := m["sequence"]; ok {
		return model.KindSequence
	}
	if _, ok := m["steps"]; ok {
		return model.KindReasoning
	}
	return model.KindUnknown
}

// CheckRecord 校验一条原始记录，返回推断类型、ID 和问题列表
func CheckRecord(raw json.RawMessage) (model.Kind, string, []string) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return model.KindUnknown, "", []string{"record is not a JSON object"}
	}

	id, _ := m["id"].(string)
	f := &fields{m: m}
	kind := InferKind(m)
	switch kind {
	case model.KindSudoku:
		checkSudoku(f)
	case model.KindSequence:
		checkSequence(f)
	case model.KindReasoning:
		checkReasoning(f)
	default:
		f.addf("cannot infer record type: no puzzle, sequence or steps field")
	}
	return kind, id, f.problems
}
