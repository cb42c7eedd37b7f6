package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ashwinyue/hrm-dataset/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRun_ExitCodes(t *testing.T) {
	valid := testutil.WriteFile(t, "valid.json", testutil.DatasetJSON(
		testutil.ReasoningJSON, testutil.SudokuJSON(), testutil.SequenceJSON,
	))
	broken := strings.Replace(testutil.SequenceJSON, `"target": 13`, `"target": 14`, 1)
	invalid := testutil.WriteFile(t, "invalid.json", testutil.DatasetJSON(testutil.ReasoningJSON, broken))
	malformed := testutil.WriteFile(t, "malformed.json", "["+testutil.SequenceJSON+",]")
	missing := filepath.Join(t.TempDir(), "missing.json")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "unknown flag", args: []string{"--bogus"}, want: 2},
		{name: "malformed flag value", args: []string{"--show_samples", "few"}, want: 2},
		{name: "help", args: []string{"--help"}, want: 0},
		{name: "negative show samples", args: []string{"--input", valid, "--show_samples", "-1"}, want: 1},
		{name: "missing input", args: []string{"--input", missing}, want: 1},
		{name: "malformed json", args: []string{"--input", malformed}, want: 1},
		{name: "malformed json repaired", args: []string{"--input", malformed, "--repair", "--validate"}, want: 0},
		{name: "valid", args: []string{"--input", valid, "--validate"}, want: 0},
		{name: "failures without strict", args: []string{"--input", invalid, "--validate"}, want: 0},
		{name: "failures with strict", args: []string{"--input", invalid, "--validate", "--strict"}, want: 1},
		{name: "strict alone validates", args: []string{"--input", invalid, "--strict"}, want: 1},
		{name: "strict on valid data", args: []string{"--input", valid, "--strict"}, want: 0},
		{name: "query", args: []string{"--input", valid, "--query", "SELECT count(*) FROM dataset"}, want: 0},
		{name: "rejected query", args: []string{"--input", valid, "--query", "SELECT getenv('HOME') FROM dataset"}, want: 1},
		{name: "bad log format", args: []string{"--input", valid, "--log_format", "xml"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(append(tt.args, "--log_level", "error")))
		})
	}
}
