package analysis

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	"go.uber.org/zap"
)

// QueryResult 查询结果，保留列顺序
type QueryResult struct {
	Columns []string
	Rows    [][]string
}

// Query 把数据集文件加载为 DuckDB 内存视图 dataset 并执行只读查询
func (s *Service) Query(ctx context.Context, path, query string) (*QueryResult, error) {
	checked, err := NewQueryGuard().Check(query)
	if err != nil {
		return nil, err
	}

	db, err := openDataset(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	s.log.Debug("running dataset query", zap.String("path", path), zap.String("sql", checked))
	result, err := executeQuery(ctx, db, checked)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	return result, nil
}

// openDataset 打开内存 DuckDB，并把数据集文件注册为视图 dataset
func openDataset(ctx context.Context, path string) (*sql.DB, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dataset path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	// 单连接保证视图和查询在同一个内存库中
	db.SetMaxOpenConns(1)

	createSQL := fmt.Sprintf(
		"CREATE VIEW %s AS SELECT * FROM read_json_auto('%s', format = 'array')",
		DatasetTable, strings.ReplaceAll(absPath, "'", "''"),
	)
	if _, err := db.ExecContext(ctx, createSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}
	return db, nil
}

// executeQuery 执行查询，所有值格式化为字符串
func executeQuery(ctx context.Context, db *sql.DB, query string) (*QueryResult, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &QueryResult{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make([]string, len(columns))
		for i, v := range values {
			switch val := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(val)
			default:
				row[i] = fmt.Sprintf("%v", val)
			}
		}
		result.Rows = append(result.Rows, row)
	}
	return result, rows.Err()
}
