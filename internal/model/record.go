// Package model 定义数据集记录的结构与约束
package model

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrInvalidEnum 枚举取值不合法
var ErrInvalidEnum = errors.New("invalid enum value")

// Kind 记录类型
type Kind string

const (
	KindReasoning Kind = "reasoning"
	KindSudoku    Kind = "sudoku"
	KindSequence  Kind = "sequence"
	// KindAll 混合生成三种记录，只用于生成参数
	KindAll Kind = "all"
	// KindUnknown 无法从字段推断出类型
	KindUnknown Kind = "unknown"
)

// RecordKinds 可生成的具体记录类型，顺序即混合模式的轮转顺序
var RecordKinds = []Kind{KindReasoning, KindSudoku, KindSequence}

// ParseKind 解析生成类型参数
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindReasoning, KindSudoku, KindSequence, KindAll:
		return k, nil
	}
	return "", fmt.Errorf("%w: type %q (want reasoning, sudoku, sequence or all)", ErrInvalidEnum, s)
}

// Rule 序列生成规则
type Rule string

const (
	RuleArithmetic Rule = "arithmetic"
	RuleGeometric  Rule = "geometric"
	RuleFibonacci  Rule = "fibonacci"
)

// Rules 全部序列规则
var Rules = []Rule{RuleArithmetic, RuleGeometric, RuleFibonacci}

// ParseRule 解析序列规则，空字符串表示随机
func ParseRule(s string) (Rule, error) {
	switch r := Rule(s); r {
	case "", RuleArithmetic, RuleGeometric, RuleFibonacci:
		return r, nil
	}
	return "", fmt.Errorf("%w: rule %q (want arithmetic, geometric or fibonacci)", ErrInvalidEnum, s)
}

// IDStyle 记录 ID 风格
type IDStyle string

const (
	// IDStyleIndex 形如 sudoku_0007，按类型各自编号
	IDStyleIndex IDStyle = "index"
	// IDStyleUUID 随机 UUID
	IDStyleUUID IDStyle = "uuid"
)

// ParseIDStyle 解析 ID 风格，空字符串视为 index
func ParseIDStyle(s string) (IDStyle, error) {
	switch st := IDStyle(s); st {
	case "":
		return IDStyleIndex, nil
	case IDStyleIndex, IDStyleUUID:
		return st, nil
	}
	return "", fmt.Errorf("%w: id style %q (want index or uuid)", ErrInvalidEnum, s)
}

// ReasoningRecord 多步推理样本
type ReasoningRecord struct {
	ID         string     `json:"id"`
	Input      string     `json:"input"`
	Steps      []string   `json:"steps"`
	Target     int        `json:"target"`
	Difficulty Difficulty `json:"difficulty"`
}

// SudokuRecord 数独样本，盘面按行展开为 81 个数字，0 表示空格
type SudokuRecord struct {
	ID         string     `json:"id"`
	Puzzle     []int      `json:"puzzle"`
	Solution   []int      `json:"solution"`
	Difficulty Difficulty `json:"difficulty"`
	Blanks     int        `json:"blanks"`
}

// SequenceRecord 序列补全样本
type SequenceRecord struct {
	ID         string     `json:"id"`
	Sequence   []int      `json:"sequence"`
	Target     int        `json:"target"`
	Type       Rule       `json:"type"`
	Difficulty Difficulty `json:"difficulty"`
}

// Record 数据集中的一条记录，Kind 决定哪个字段非空
type Record struct {
	Kind      Kind
	Reasoning *ReasoningRecord
	Sudoku    *SudokuRecord
	Sequence  *SequenceRecord
}

// NewReasoning 包装推理记录
func NewReasoning(r *ReasoningRecord) Record {
	return Record{Kind: KindReasoning, Reasoning: r}
}

// NewSudoku 包装数独记录
func NewSudoku(r *SudokuRecord) Record {
	return Record{Kind: KindSudoku, Sudoku: r}
}

// NewSequence 包装序列记录
func NewSequence(r *SequenceRecord) Record {
	return Record{Kind: KindSequence, Sequence: r}
}

// ID 返回记录 ID
func (r Record) ID() string {
	switch r.Kind {
	case KindReasoning:
		return r.Reasoning.ID
	case KindSudoku:
		return r.Sudoku.ID
	case KindSequence:
		return r.Sequence.ID
	}
	return ""
}

// Difficulty 返回记录难度
func (r Record) Difficulty() Difficulty {
	switch r.Kind {
	case KindReasoning:
		return r.Reasoning.Difficulty
	case KindSudoku:
		return r.Sudoku.Difficulty
	case KindSequence:
		return r.Sequence.Difficulty
	}
	return ""
}

// MarshalJSON 输出扁平的记录对象，不带类型包装
func (r Record) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindReasoning:
		if r.Reasoning != nil {
			return json.Marshal(r.Reasoning)
		}
	case KindSudoku:
		if r.Sudoku != nil {
			return json.Marshal(r.Sudoku)
		}
	case KindSequence:
		if r.Sequence != nil {
			return json.Marshal(r.Sequence)
		}
	}
	return nil, fmt.Errorf("record of kind %q has no payload", r.Kind)
}
