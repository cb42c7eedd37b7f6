package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ashwinyue/hrm-dataset/internal/config"
	"github.com/ashwinyue/hrm-dataset/internal/service"
	"github.com/ashwinyue/hrm-dataset/internal/service/analysis"
	"github.com/ashwinyue/hrm-dataset/internal/service/dataset"
	"github.com/ashwinyue/hrm-dataset/internal/service/validator"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// ErrValidationFailed strict 模式下存在校验失败的记录
var ErrValidationFailed = errors.New("dataset validation failed")

// ValidateHandler 数据集校验处理器
type ValidateHandler struct {
	dataset   *dataset.Service
	validator *validator.Service
	analysis  *analysis.Service
	log       *zap.Logger
	out       io.Writer
}

// NewValidateHandler 创建数据集校验处理器
func NewValidateHandler(svc *service.Services, out io.Writer) *ValidateHandler {
	return &ValidateHandler{
		dataset:   svc.Dataset,
		validator: svc.Validator,
		analysis:  svc.Analysis,
		log:       svc.Log.Named("validate"),
		out:       out,
	}
}

// Run 加载数据集，输出概览，按配置执行校验、查询和样例展示
func (h *ValidateHandler) Run(ctx context.Context, cfg config.ValidatorConfig) error {
	p := &printer{w: h.out}

	p.printf("Loading dataset from %s...\n", cfg.Input)
	records, err := h.dataset.Load(ctx, cfg.Input, dataset.LoadOptions{Repair: cfg.Repair})
	if err != nil {
		return err
	}
	p.printf("Loaded %d samples\n", len(records))

	p.printSummary(h.analysis.Summarize(records))

	var report *validator.Report
	if cfg.Validate || cfg.Strict {
		report, err = h.validator.Validate(ctx, records)
		if err != nil {
			return fmt.Errorf("failed to validate dataset: %w", err)
		}
		p.printReport(report)
	}

	if cfg.Schema || cfg.Query != "" {
		if err := h.runSQL(ctx, p, cfg, records); err != nil {
			return err
		}
	}

	if cfg.ShowSamples > 0 && len(records) > 0 {
		p.printSamples(records, cfg.ShowSamples)
	}

	if p.err != nil {
		return p.err
	}
	if cfg.Strict && !report.OK() {
		return fmt.Errorf("%w: %d/%d samples invalid", ErrValidationFailed, report.Failed, report.Total)
	}
	return nil
}

// runSQL 输出表结构和查询结果，修复模式下 DuckDB 读取的是修复后的记录
func (h *ValidateHandler) runSQL(ctx context.Context, p *printer, cfg config.ValidatorConfig, records []json.RawMessage) error {
	source := cfg.Input
	if cfg.Repair {
		dir, err := os.MkdirTemp("", "hrm-dataset-*")
		if err != nil {
			return fmt.Errorf("failed to create temp dir: %w", err)
		}
		defer os.RemoveAll(dir)

		source, err = h.dataset.Save(ctx, filepath.Join(dir, filepath.Base(cfg.Input)), records)
		if err != nil {
			return err
		}
	}

	if cfg.Schema {
		schema, err := h.analysis.Schema(ctx, source)
		if err != nil {
			return err
		}
		p.printSchema(schema)
	}

	if cfg.Query != "" {
		result, err := h.analysis.Query(ctx, source, cfg.Query)
		if err != nil {
			return err
		}
		h.log.Debug("query finished", zap.Int("rows", len(result.Rows)))
		p.printQuery(cfg.Query, result)
	}
	return nil
}
