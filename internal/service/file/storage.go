// Package file 提供数据集文件的读写
package file

import (
	"context"
	"io"
)

// Storage 文件存储接口
type Storage interface {
	// Save 写入文件，写入过程中失败不会留下半截文件
	Save(ctx context.Context, req *SaveRequest) (string, error)
	// Open 打开文件读取
	Open(ctx context.Context, filePath string) (io.ReadCloser, error)
	// Exists 文件是否存在
	Exists(filePath string) bool
}

// SaveRequest 保存文件请求
type SaveRequest struct {
	Path   string
	Reader io.Reader
}
