package model

import "fmt"

const (
	// GridSide 数独边长
	GridSide = 9
	// BoxSide 宫的边长
	BoxSide = 3
	// GridSize 盘面格子总数
	GridSize = GridSide * GridSide
)

// CountBlanks 统计值为 0 的格子
func CountBlanks(cells []int) int {
	n := 0
	for _, v := range cells {
		if v == 0 {
			n++
		}
	}
	return n
}

// IsSolvedGrid 检查 81 格是否为完整合法的数独终盘，返回第一个违规位置
func IsSolvedGrid(cells []int) error {
	if len(cells) != GridSize {
		return fmt.Errorf("grid has %d cells, want %d", len(cells), GridSize)
	}
	for i, v := range cells {
		if v < 1 || v > 9 {
			return fmt.Errorf("cell %d has value %d, want 1-9", i, v)
		}
	}

	for unit := 0; unit < GridSide; unit++ {
		var row, col, box [GridSide + 1]bool
		for k := 0; k < GridSide; k++ {
			r := cells[unit*GridSide+k]
			if row[r] {
				return fmt.Errorf("row %d repeats %d", unit+1, r)
			}
			row[r] = true

			c := cells[k*GridSide+unit]
			if col[c] {
				return fmt.Errorf("column %d repeats %d", unit+1, c)
			}
			col[c] = true

			br := (unit/BoxSide)*BoxSide + k/BoxSide
			bc := (unit%BoxSide)*BoxSide + k%BoxSide
			b := cells[br*GridSide+bc]
			if box[b] {
				return fmt.Errorf("box %d repeats %d", unit+1, b)
			}
			box[b] = true
		}
	}
	return nil
}
