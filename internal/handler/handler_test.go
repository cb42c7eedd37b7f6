package handler

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ashwinyue/hrm-dataset/internal/config"
	"github.com/ashwinyue/hrm-dataset/internal/service"
	"github.com/ashwinyue/hrm-dataset/internal/testutil"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandlers(t *testing.T) (*Handlers, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return NewHandlers(service.NewServices(testutil.Logger(t)), &out), &out
}

func generatorConfig(t *testing.T) config.GeneratorConfig {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	g := cfg.Generator
	g.Output = filepath.Join(t.TempDir(), "out", "data.json")
	g.Seed = 7
	return g
}

func TestGenerateHandler_Run(t *testing.T) {
	h, out := newHandlers(t)
	cfg := generatorConfig(t)
	cfg.Type = "sudoku"
	cfg.NumSamples = 4
	cfg.Difficulty = "hard"

	require.NoError(t, h.Generate.Run(testutil.Context(t), cfg))

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	assert.Len(t, records, 4)
	assert.Equal(t, "sudoku_0000", records[0]["id"])

	text := out.String()
	assert.Contains(t, text, "Creating sudoku dataset with 4 samples...")
	assert.Contains(t, text, "Saved 4 samples to "+cfg.Output)
	assert.Contains(t, text, "Sample data:")
	assert.Contains(t, text, "Hard: 4 samples")
	assert.NotContains(t, text, "Easy:")
}

func TestGenerateHandler_Run_PassThrough(t *testing.T) {
	h, out := newHandlers(t)
	cfg := generatorConfig(t)
	cfg.Input = testutil.WriteFile(t, "in.json", testutil.DatasetJSON(testutil.ReasoningJSON, testutil.SequenceJSON))

	require.NoError(t, h.Generate.Run(testutil.Context(t), cfg))

	var records []map[string]any
	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "sequence_0000", records[1]["id"])

	text := out.String()
	assert.Contains(t, text, "Copied 2 samples")
	assert.Contains(t, text, "Sample data:")
	assert.Contains(t, text, `"id": "reasoning_0000"`)
	assert.Contains(t, text, "Total samples: 2")
	assert.Contains(t, text, "Easy: 1 samples\nMedium: 1 samples")
}

func TestRawDifficulties(t *testing.T) {
	counts := rawDifficulties([]json.RawMessage{
		json.RawMessage(testutil.ReasoningJSON),
		json.RawMessage(`{"id": "a", "difficulty": 3}`),
		json.RawMessage(`[1, 2]`),
		json.RawMessage(testutil.SudokuJSON()),
	})
	assert.Equal(t, map[string]int{"medium": 1, "hard": 1, "unknown": 2}, counts)
}

func TestGenerateHandler_Run_MissingInputGenerates(t *testing.T) {
	h, out := newHandlers(t)
	cfg := generatorConfig(t)
	cfg.Input = filepath.Join(t.TempDir(), "missing.json")
	cfg.NumSamples = 3

	require.NoError(t, h.Generate.Run(testutil.Context(t), cfg))
	assert.Contains(t, out.String(), "Saved 3 samples")
}

func TestGenerateHandler_Run_BadType(t *testing.T) {
	h, _ := newHandlers(t)
	cfg := generatorConfig(t)
	cfg.Type = "chess"

	err := h.Generate.Run(testutil.Context(t), cfg)
	assert.ErrorIs(t, err, config.ErrUsage)
	assert.NoFileExists(t, cfg.Output)
}

func validatorConfig(path string) config.ValidatorConfig {
	return config.ValidatorConfig{Input: path, Validate: true, ShowSamples: 3}
}

func TestValidateHandler_Run(t *testing.T) {
	h, out := newHandlers(t)
	path := testutil.WriteFile(t, "data.json", testutil.DatasetJSON(
		testutil.ReasoningJSON, testutil.SudokuJSON(), testutil.SequenceJSON,
	))

	require.NoError(t, h.Validate.Run(testutil.Context(t), validatorConfig(path)))

	text := out.String()
	assert.Contains(t, text, "Loaded 3 samples")
	assert.Contains(t, text, "Total samples: 3")
	assert.Contains(t, text, "Data types: reasoning=1, sudoku=1, sequence=1")
	assert.Contains(t, text, "3/3 samples are valid")
	assert.Contains(t, text, "Type: Reasoning")
	assert.Contains(t, text, "Type: Sudoku")
	assert.Contains(t, text, "Blanks: 51")
	assert.Contains(t, text, "Sequence type: arithmetic")
}

func TestValidateHandler_Run_Failures(t *testing.T) {
	broken := strings.Replace(testutil.SequenceJSON, `"target": 13`, `"target": 14`, 1)
	path := testutil.WriteFile(t, "data.json", testutil.DatasetJSON(testutil.ReasoningJSON, broken))

	t.Run("lenient", func(t *testing.T) {
		h, out := newHandlers(t)
		require.NoError(t, h.Validate.Run(testutil.Context(t), validatorConfig(path)))
		assert.Contains(t, out.String(), "1/2 samples are valid")
		assert.Contains(t, out.String(), "Sample 1 (sequence_0000, sequence) is invalid:")
	})

	t.Run("strict", func(t *testing.T) {
		h, _ := newHandlers(t)
		cfg := validatorConfig(path)
		cfg.Strict = true
		assert.ErrorIs(t, h.Validate.Run(testutil.Context(t), cfg), ErrValidationFailed)
	})

	t.Run("strict implies validate", func(t *testing.T) {
		h, out := newHandlers(t)
		cfg := config.ValidatorConfig{Input: path, Strict: true}
		assert.ErrorIs(t, h.Validate.Run(testutil.Context(t), cfg), ErrValidationFailed)
		assert.Contains(t, out.String(), "1/2 samples are valid")
	})
}

func TestValidateHandler_Run_Repair(t *testing.T) {
	path := testutil.WriteFile(t, "data.json", "["+testutil.SequenceJSON+",]")

	h, _ := newHandlers(t)
	cfg := validatorConfig(path)
	assert.Error(t, h.Validate.Run(testutil.Context(t), cfg))

	h, out := newHandlers(t)
	cfg.Repair = true
	require.NoError(t, h.Validate.Run(testutil.Context(t), cfg))
	assert.Contains(t, out.String(), "1/1 samples are valid")
}

func TestValidateHandler_Run_Query(t *testing.T) {
	h, out := newHandlers(t)
	path := testutil.WriteFile(t, "data.json", testutil.DatasetJSON(testutil.SequenceJSON))
	cfg := config.ValidatorConfig{Input: path, Query: "SELECT id, target FROM dataset"}

	require.NoError(t, h.Validate.Run(testutil.Context(t), cfg))
	assert.Contains(t, out.String(), "id\ttarget\nsequence_0000\t13\n(1 rows)")
}

func TestValidateHandler_Run_QueryRepairedRecords(t *testing.T) {
	h, out := newHandlers(t)
	path := testutil.WriteFile(t, "data.json", "["+testutil.SequenceJSON+",]")
	cfg := config.ValidatorConfig{Input: path, Repair: true, Schema: true, Query: "SELECT id, target FROM dataset"}

	require.NoError(t, h.Validate.Run(testutil.Context(t), cfg))
	assert.Contains(t, out.String(), "Table dataset (1 rows):")
	assert.Contains(t, out.String(), "id\ttarget\nsequence_0000\t13\n(1 rows)")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "["+testutil.SequenceJSON+",]", string(data), "input file is left untouched")
}

func TestValidateHandler_Run_Schema(t *testing.T) {
	h, out := newHandlers(t)
	path := testutil.WriteFile(t, "data.json", testutil.DatasetJSON(testutil.SequenceJSON))
	cfg := config.ValidatorConfig{Input: path, Schema: true}

	require.NoError(t, h.Validate.Run(testutil.Context(t), cfg))
	assert.Contains(t, out.String(), "Table dataset (1 rows):")
	assert.Contains(t, out.String(), "  sequence ")
}

func TestValidateHandler_Run_MissingFile(t *testing.T) {
	h, _ := newHandlers(t)
	path := filepath.Join(t.TempDir(), "missing.json")

	err := h.Validate.Run(testutil.Context(t), validatorConfig(path))
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
