package model

import "fmt"

// Difficulty 难度等级
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	// DifficultyMixed 每条记录随机难度，只用于生成参数
	DifficultyMixed Difficulty = "mixed"
)

// Difficulties 全部具体难度
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty 解析难度参数，空字符串视为 mixed
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case "":
		return DifficultyMixed, nil
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyMixed:
		return d, nil
	}
	return "", fmt.Errorf("%w: difficulty %q (want easy, medium, hard or mixed)", ErrInvalidEnum, s)
}

// Valid 是否为具体难度
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Range 闭区间
type Range struct {
	Min int
	Max int
}

// Contains 判断 v 是否落在区间内
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// ReasoningSteps 推理链步骤数
func (d Difficulty) ReasoningSteps() int {
	switch d {
	case DifficultyEasy:
		return 2
	case DifficultyMedium:
		return 3
	case DifficultyHard:
		return 4
	}
	return 0
}

// DifficultyForSteps 按步骤数反推难度
func DifficultyForSteps(n int) (Difficulty, bool) {
	for _, d := range Difficulties {
		if d.ReasoningSteps() == n {
			return d, true
		}
	}
	return "", false
}

// SudokuBlanks 空格数的合法区间和生成时的中心值
func (d Difficulty) SudokuBlanks() (Range, int) {
	switch d {
	case DifficultyEasy:
		return Range{Min: 25, Max: 35}, 30
	case DifficultyMedium:
		return Range{Min: 36, Max: 49}, 42
	case DifficultyHard:
		return Range{Min: 50, Max: 60}, 55
	}
	return Range{}, 0
}

// SequenceLength 可见序列长度区间
func (d Difficulty) SequenceLength() Range {
	switch d {
	case DifficultyEasy:
		return Range{Min: 5, Max: 5}
	case DifficultyMedium:
		return Range{Min: 6, Max: 7}
	case DifficultyHard:
		return Range{Min: 8, Max: 8}
	}
	return Range{}
}
