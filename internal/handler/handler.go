// Package handler 驱动两个命令的执行流程并输出结果
package handler

import (
	"io"

	"github.com/ashwinyue/hrm-dataset/internal/service"
)

// Handlers 处理器集合
type Handlers struct {
	Generate *GenerateHandler
	Validate *ValidateHandler
}

// NewHandlers 创建所有处理器，out 接收面向用户的输出
func NewHandlers(svc *service.Services, out io.Writer) *Handlers {
	return &Handlers{
		Generate: NewGenerateHandler(svc, out),
		Validate: NewValidateHandler(svc, out),
	}
}
