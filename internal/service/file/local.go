package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// filePerm 数据集文件权限
const filePerm os.FileMode = 0o644

// LocalStorage 本地文件存储
type LocalStorage struct {
	basePath string // 相对路径的基准目录，为空时使用工作目录
}

// NewLocalStorage 创建本地存储服务
func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{basePath: basePath}
}

// resolve 把相对路径放到 basePath 下
func (s *LocalStorage) resolve(filePath string) string {
	if s.basePath == "" || filepath.IsAbs(filePath) {
		return filePath
	}
	return filepath.Join(s.basePath, filePath)
}

// Save 先写同目录临时文件再重命名
func (s *LocalStorage) Save(ctx context.Context, req *SaveRequest) (string, error) {
	if req.Path == "" {
		return "", errors.New("file path is empty")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fullPath := s.resolve(req.Path)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // 重命名成功后这里是空操作

	if _, err := io.Copy(tmp, req.Reader); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Chmod(tmpPath, filePerm); err != nil {
		return "", fmt.Errorf("failed to chmod file: %w", err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		return "", fmt.Errorf("failed to rename file: %w", err)
	}
	return fullPath, nil
}

// Open 打开本地文件
func (s *LocalStorage) Open(ctx context.Context, filePath string) (io.ReadCloser, error) {
	f, err := os.Open(s.resolve(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Exists 文件是否存在且不是目录
func (s *LocalStorage) Exists(filePath string) bool {
	info, err := os.Stat(s.resolve(filePath))
	return err == nil && !info.IsDir()
}
