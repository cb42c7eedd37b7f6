// Package dataset 负责数据集文件的加载、保存和透传
package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ashwinyue/hrm-dataset/internal/service/file"
	"github.com/goccy/go-json"
	"github.com/kaptinlin/jsonrepair"
	"go.uber.org/zap"
)

var (
	// ErrMalformedJSON 文件不是合法 JSON
	ErrMalformedJSON = errors.New("malformed dataset json")
	// ErrNotArray 顶层不是 JSON 数组
	ErrNotArray = errors.New("dataset is not a json array")
)

// Service 数据集服务
type Service struct {
	storage file.Storage
	log     *zap.Logger
}

// NewService 创建数据集服务
func NewService(storage file.Storage, log *zap.Logger) *Service {
	return &Service{storage: storage, log: log}
}

// LoadOptions 加载选项
type LoadOptions struct {
	// Repair 解析失败时尝试用 jsonrepair 修复一次
	Repair bool
}

// Exists 数据集文件是否存在
func (s *Service) Exists(path string) bool {
	return s.storage.Exists(path)
}

// Load 读取 JSON 数组，逐条保留原始字节，单条记录的内容不在这里检查
func (s *Service) Load(ctx context.Context, path string, opts LoadOptions) ([]json.RawMessage, error) {
	rc, err := s.storage.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	records, parseErr := decodeArray(data)
	if parseErr == nil {
		s.log.Debug("dataset loaded", zap.String("path", path), zap.Int("records", len(records)))
		return records, nil
	}
	if !opts.Repair || errors.Is(parseErr, ErrNotArray) {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, parseErr)
	}

	repaired, err := jsonrepair.JSONRepair(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w (repair failed: %v)", path, parseErr, err)
	}
	records, err = decodeArray([]byte(repaired))
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s after repair: %w", path, err)
	}

	s.log.Warn("dataset json was repaired before loading",
		zap.String("path", path),
		zap.Error(parseErr),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// Save 以两空格缩进写出 JSON 数组，返回实际写入路径
func (s *Service) Save(ctx context.Context, path string, records any) (string, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode dataset: %w", err)
	}
	data = append(data, '\n')

	written, err := s.storage.Save(ctx, &file.SaveRequest{
		Path:   path,
		Reader: bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("failed to save dataset %s: %w", path, err)
	}
	return written, nil
}

// Copy 加载已有数据集并原样写到输出路径，返回写出的记录
func (s *Service) Copy(ctx context.Context, inPath, outPath string) ([]json.RawMessage, error) {
	records, err := s.Load(ctx, inPath, LoadOptions{})
	if err != nil {
		return nil, err
	}
	if _, err := s.Save(ctx, outPath, records); err != nil {
		return nil, err
	}
	return records, nil
}

// decodeArray 解析顶层数组
func decodeArray(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return nil, ErrMalformedJSON
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}

	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return records, nil
}
