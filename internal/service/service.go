package service

import (
	"github.com/ashwinyue/hrm-dataset/internal/service/analysis"
	"github.com/ashwinyue/hrm-dataset/internal/service/dataset"
	"github.com/ashwinyue/hrm-dataset/internal/service/file"
	"github.com/ashwinyue/hrm-dataset/internal/service/generator"
	"github.com/ashwinyue/hrm-dataset/internal/service/validator"
	"go.uber.org/zap"
)

// Services 服务集合
type Services struct {
	Dataset   *dataset.Service
	Generator *generator.Service
	Validator *validator.Service
	Analysis  *analysis.Service

	Log *zap.Logger
}

// NewServices 创建所有服务，数据集文件走本地存储
func NewServices(log *zap.Logger) *Services {
	storage := file.NewLocalStorage("")
	return &Services{
		Dataset:   dataset.NewService(storage, log.Named("dataset")),
		Generator: generator.NewService(log.Named("generator")),
		Validator: validator.NewService(log.Named("validator")),
		Analysis:  analysis.NewService(log.Named("analysis")),
		Log:       log,
	}
}
