package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/ashwinyue/hrm-dataset/internal/model"
)

const (
	// MaxSudokuAttempts 终盘填充的最大重试次数
	MaxSudokuAttempts = 10
	// sudokuNodeBudget 单次填充允许尝试的候选数上限
	sudokuNodeBudget = 200_000
)

// ErrGenerationExhausted 重试次数用尽仍未生成终盘
var ErrGenerationExhausted = errors.New("sudoku generation exhausted")

var errBudget = errors.New("node budget exceeded")

// filler 回溯填充状态，三组位掩码记录行、列、宫已用数字
type filler struct {
	rng    *rand.Rand
	cells  [model.GridSize]int
	rows   [model.GridSide]uint16
	cols   [model.GridSide]uint16
	boxes  [model.GridSide]uint16
	budget int
}

func boxOf(cell int) int {
	r, c := cell/model.GridSide, cell%model.GridSide
	return (r/model.BoxSide)*model.BoxSide + c/model.BoxSide
}

// fill 从 cell 开始按行优先回溯，候选数字随机排列
func (f *filler) fill(cell int) (bool, error) {
	if cell == model.GridSize {
		return true, nil
	}
	r, c, b := cell/model.GridSide, cell%model.GridSide, boxOf(cell)
	used := f.rows[r] | f.cols[c] | f.boxes[b]

	digits := [model.GridSide]int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	f.rng.Shuffle(len(digits), func(i, j int) { digits[i], digits[j] = digits[j], digits[i] })

	for _, d := range digits {
		bit := uint16(1) << d
		if used&bit != 0 {
			continue
		}
		f.budget--
		if f.budget < 0 {
			return false, errBudget
		}

		f.cells[cell] = d
		f.rows[r] |= bit
		f.cols[c] |= bit
		f.boxes[b] |= bit

		ok, err := f.fill(cell + 1)
		if err != nil || ok {
			return ok, err
		}

		f.cells[cell] = 0
		f.rows[r] &^= bit
		f.cols[c] &^= bit
		f.boxes[b] &^= bit
	}
	return false, nil
}

// newSolvedGrid 生成完整合法终盘，失败时整盘重来，最多 MaxSudokuAttempts 次
func newSolvedGrid(rng *rand.Rand) ([]int, error) {
	return newSolvedGridWithBudget(rng, sudokuNodeBudget)
}

func newSolvedGridWithBudget(rng *rand.Rand, budget int) ([]int, error) {
	var lastErr error
	for attempt := 0; attempt < MaxSudokuAttempts; attempt++ {
		f := &filler{rng: rng, budget: budget}
		ok, err := f.fill(0)
		if err != nil {
			lastErr = err
			continue
		}
		if !ok {
			lastErr = errors.New("search space exhausted")
			continue
		}
		grid := f.cells[:]
		if err := model.IsSolvedGrid(grid); err != nil {
			lastErr = err
			continue
		}
		return append([]int(nil), grid...), nil
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrGenerationExhausted, MaxSudokuAttempts, lastErr)
}

// punch 随机挖掉 blanks 个格子
func punch(rng *rand.Rand, solution []int, blanks int) []int {
	puzzle := append([]int(nil), solution...)
	for _, idx := range rng.Perm(len(puzzle))[:blanks] {
		puzzle[idx] = 0
	}
	return puzzle
}

// generateSudoku 生成一条数独记录，空格数围绕难度中心值上下浮动 2
func generateSudoku(rng *rand.Rand, id string, difficulty model.Difficulty) (*model.SudokuRecord, error) {
	solution, err := newSolvedGrid(rng)
	if err != nil {
		return nil, err
	}

	_, center := difficulty.SudokuBlanks()
	blanks := between(rng, center-2, center+2)
	puzzle := punch(rng, solution, blanks)

	return &model.SudokuRecord{
		ID:         id,
		Puzzle:     puzzle,
		Solution:   solution,
		Difficulty: difficulty,
		Blanks:     model.CountBlanks(puzzle),
	}, nil
}
