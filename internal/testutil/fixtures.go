// Package testutil 提供测试辅助工具
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// Context 返回测试用的 context，测试结束时取消
func Context(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

// Logger 返回输出到 t.Log 的日志
func Logger(t *testing.T) *zap.Logger {
	t.Helper()
	return zaptest.NewLogger(t)
}

// NopLogger 返回丢弃所有输出的日志
func NopLogger() *zap.Logger {
	return zap.NewNop()
}

// WriteFile 在临时目录写入文件并返回路径
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

// DatasetJSON 把若干记录 JSON 拼成数组
func DatasetJSON(records ...string) string {
	return "[" + strings.Join(records, ",") + "]"
}

// SolvedGrid 一个合法的数独终盘
const SolvedGrid = "534678912672195348198342567859761423426853791713924856961537284287419635345286179"

// PuzzleGrid 与 SolvedGrid 对应的题面，51 个空格
const PuzzleGrid = "530070000600195000098000060800060003400803001700020006060000280000419005000080079"

// Digits 把数字串展开为 JSON 数组文本
func Digits(s string) string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = string(c)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// ReasoningJSON 一条合法的推理记录
const ReasoningJSON = `{
  "id": "reasoning_0000",
  "input": "Given x = 3, y = x + 2, what is y * 4?",
  "steps": ["Step 1: x = 3", "Step 2: y = x + 2 = 3 + 2 = 5", "Step 3: z = y * 4 = 5 * 4 = 20"],
  "target": 20,
  "difficulty": "medium"
}`

// SequenceJSON 一条合法的等差序列记录
const SequenceJSON = `{
  "id": "sequence_0000",
  "sequence": [3, 5, 7, 9, 11],
  "target": 13,
  "type": "arithmetic",
  "difficulty": "easy"
}`

// SudokuJSON 一条合法的数独记录
func SudokuJSON() string {
	return `{"id": "sudoku_0000", "puzzle": ` + Digits(PuzzleGrid) +
		`, "solution": ` + Digits(SolvedGrid) + `, "difficulty": "hard", "blanks": 51}`
}
