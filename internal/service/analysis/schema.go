package analysis

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// Column 数据集视图中的一列
type Column struct {
	Name string
	Type string
}

// Schema DuckDB 推断出的数据集表结构
type Schema struct {
	Columns []Column
	Rows    int64
}

// Schema 返回 dataset 视图的列名、列类型和行数
func (s *Service) Schema(ctx context.Context, path string) (*Schema, error) {
	db, err := openDataset(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	desc, err := executeQuery(ctx, db, "DESCRIBE "+DatasetTable)
	if err != nil {
		return nil, fmt.Errorf("failed to describe dataset: %w", err)
	}
	if len(desc.Columns) < 2 {
		return nil, fmt.Errorf("failed to describe dataset: unexpected columns %v", desc.Columns)
	}

	schema := &Schema{Columns: make([]Column, 0, len(desc.Rows))}
	for _, row := range desc.Rows {
		schema.Columns = append(schema.Columns, Column{Name: row[0], Type: row[1]})
	}

	count, err := executeQuery(ctx, db, "SELECT count(*) FROM "+DatasetTable)
	if err != nil {
		return nil, fmt.Errorf("failed to count dataset rows: %w", err)
	}
	if len(count.Rows) == 1 {
		if schema.Rows, err = strconv.ParseInt(count.Rows[0][0], 10, 64); err != nil {
			return nil, fmt.Errorf("failed to parse row count: %w", err)
		}
	}

	s.log.Debug("dataset schema", zap.String("path", path), zap.Int("columns", len(schema.Columns)))
	return schema, nil
}
