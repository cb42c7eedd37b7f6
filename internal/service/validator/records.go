package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/ashwinyue/hrm-dataset/internal/model"
)

// statedResult 匹配步骤末尾的 "= N"
var statedResult = regexp.MustCompile(`=\s*(-?\d+(?:\.\d+)?)\s*$`)

// checkReasoning 推理记录：只核对最后一步写出的结果与 target 一致，不重新解析整条链
func checkReasoning(f *fields) {
	f.nonEmptyStr("id")
	f.nonEmptyStr("input")
	steps, stepsOK := f.strList("steps")
	target, targetOK := f.num("target")
	difficulty, diffOK := f.difficulty()

	if stepsOK && len(steps) == 0 {
		f.addf("steps must not be empty")
		stepsOK = false
	}
	if !stepsOK {
		return
	}

	last := steps[len(steps)-1]
	if m := statedResult.FindStringSubmatch(last); m == nil {
		f.addf("last step %q does not state a result", last)
	} else if targetOK {
		stated, _ := strconv.ParseFloat(m[1], 64)
		if !approxEqual(stated, target) {
			f.addf("target %v does not match last step result %v", target, stated)
		}
	}

	if diffOK && len(steps) != difficulty.ReasoningSteps() {
		if implied, ok := model.DifficultyForSteps(len(steps)); ok {
			f.addf("%d steps inconsistent with difficulty %q (want %d, steps imply %q)",
				len(steps), difficulty, difficulty.ReasoningSteps(), implied)
		} else {
			f.addf("%d steps inconsistent with difficulty %q (want %d)", len(steps), difficulty, difficulty.ReasoningSteps())
		}
	}
}

// checkSudoku 数独记录
func checkSudoku(f *fields) {
	f.nonEmptyStr("id")
	puzzle, puzzleOK := f.ints("puzzle", 0, 9)
	solution, solutionOK := f.ints("solution", 1, 9)
	blanks, blanksOK := f.integer("blanks")
	difficulty, diffOK := f.difficulty()

	if puzzleOK && len(puzzle) != model.GridSize {
		f.addf("puzzle has %d cells, want %d", len(puzzle), model.GridSize)
		puzzleOK = false
	}
	if solutionOK && len(solution) != model.GridSize {
		f.addf("solution has %d cells, want %d", len(solution), model.GridSize)
		solutionOK = false
	}

	if solutionOK {
		if err := model.IsSolvedGrid(solution); err != nil {
			f.addf("solution is not a solved grid: %v", err)
		}
	}
	if puzzleOK && solutionOK {
		for i := range puzzle {
			if puzzle[i] != 0 && puzzle[i] != solution[i] {
				f.addf("puzzle cell %d is %d but solution has %d", i, puzzle[i], solution[i])
				break
			}
		}
	}
	if puzzleOK && blanksOK {
		if zeros := model.CountBlanks(puzzle); zeros != blanks {
			f.addf("blanks is %d but puzzle has %d empty cells", blanks, zeros)
		}
	}
	if blanksOK && diffOK {
		if band, _ := difficulty.SudokuBlanks(); !band.Contains(blanks) {
			f.addf("%d blanks inconsistent with difficulty %q (want %d-%d)", blanks, difficulty, band.Min, band.Max)
		}
	}
}

// checkSequence 序列记录
func checkSequence(f *fields) {
	f.nonEmptyStr("id")
	seq, seqOK := f.numbers("sequence")
	target, targetOK := f.num("target")
	difficulty, diffOK := f.difficulty()

	var rule model.Rule
	ruleOK := false
	if s, ok := f.str("type"); ok {
		if r, err := model.ParseRule(s); err != nil || r == "" {
			f.addf("type %q is not one of arithmetic, geometric, fibonacci", s)
		} else {
			rule, ruleOK = r, true
		}
	}

	if seqOK && len(seq) < 3 {
		f.addf("sequence has %d elements, want at least 3", len(seq))
		seqOK = false
	}
	if !seqOK {
		return
	}

	if diffOK {
		if lengths := difficulty.SequenceLength(); !lengths.Contains(len(seq)) {
			f.addf("sequence length %d inconsistent with difficulty %q (want %d-%d)", len(seq), difficulty, lengths.Min, lengths.Max)
		}
	}
	if !ruleOK {
		return
	}

	next, err := nextElement(rule, seq)
	if err != nil {
		f.addf("sequence does not follow %s rule: %v", rule, err)
		return
	}
	if targetOK && !approxEqual(next, target) {
		f.addf("target %v is not the next %s element %v", target, rule, next)
	}
}

// nextElement 校验序列符合规则并返回下一项
func nextElement(rule model.Rule, seq []float64) (float64, error) {
	n := len(seq)
	switch rule {
	case model.RuleArithmetic:
		step := seq[1] - seq[0]
		for i := 2; i < n; i++ {
			if !approxEqual(seq[i]-seq[i-1], step) {
				return 0, fmt.Errorf("difference at index %d changes", i)
			}
		}
		return seq[n-1] + step, nil
	case model.RuleGeometric:
		if seq[0] == 0 {
			return 0, errors.New("first element is zero")
		}
		ratio := seq[1] / seq[0]
		if ratio == 0 {
			return 0, errors.New("ratio is zero")
		}
		for i := 2; i < n; i++ {
			if !approxEqual(seq[i], seq[i-1]*ratio) {
				return 0, fmt.Errorf("ratio at index %d changes", i)
			}
		}
		return seq[n-1] * ratio, nil
	case model.RuleFibonacci:
		for i := 2; i < n; i++ {
			if !approxEqual(seq[i], seq[i-1]+seq[i-2]) {
				return 0, fmt.Errorf("element %d is not the sum of the previous two", i)
			}
		}
		return seq[n-1] + seq[n-2], nil
	}
	return 0, errors.New("unknown rule")
}
