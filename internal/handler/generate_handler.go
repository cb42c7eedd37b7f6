package handler

import (
	"context"
	"fmt"
	"io"

	"github.com/ashwinyue/hrm-dataset/internal/config"
	"github.com/ashwinyue/hrm-dataset/internal/model"
	"github.com/ashwinyue/hrm-dataset/internal/service"
	"github.com/ashwinyue/hrm-dataset/internal/service/dataset"
	"github.com/ashwinyue/hrm-dataset/internal/service/generator"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// GenerateHandler 数据集生成处理器
type GenerateHandler struct {
	dataset   *dataset.Service
	generator *generator.Service
	log       *zap.Logger
	out       io.Writer
}

// NewGenerateHandler 创建数据集生成处理器
func NewGenerateHandler(svc *service.Services, out io.Writer) *GenerateHandler {
	return &GenerateHandler{
		dataset:   svc.Dataset,
		generator: svc.Generator,
		log:       svc.Log.Named("generate"),
		out:       out,
	}
}

// Run 透传输入文件或生成新数据集，写入 cfg.Output 后输出概要
func (h *GenerateHandler) Run(ctx context.Context, cfg config.GeneratorConfig) error {
	p := &printer{w: h.out}

	if cfg.Input != "" {
		if h.dataset.Exists(cfg.Input) {
			records, err := h.dataset.Copy(ctx, cfg.Input, cfg.Output)
			if err != nil {
				return err
			}
			p.printf("Copied %d samples from %s to %s\n", len(records), cfg.Input, cfg.Output)
			var first any
			if len(records) > 0 {
				first = records[0]
			}
			p.printRunSummary(first, rawDifficulties(records), len(records))
			return p.err
		}
		h.log.Warn("input file not found, generating instead", zap.String("input", cfg.Input))
	}

	opts, err := generatorOptions(cfg)
	if err != nil {
		return err
	}

	p.printf("Creating %s dataset with %d samples...\n", opts.Kind, opts.Count)
	records, err := h.generator.Generate(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to generate dataset: %w", err)
	}

	path, err := h.dataset.Save(ctx, cfg.Output, records)
	if err != nil {
		return err
	}
	p.printf("Saved %d samples to %s\n", len(records), path)

	var first any
	if len(records) > 0 {
		first = records[0]
	}
	counts := make(map[string]int)
	for _, r := range records {
		counts[string(r.Difficulty())]++
	}
	p.printRunSummary(first, counts, len(records))
	return p.err
}

// rawDifficulties 统计原始记录的难度，缺失或非字符串计为 unknown
func rawDifficulties(records []json.RawMessage) map[string]int {
	counts := make(map[string]int)
	for _, raw := range records {
		var rec struct {
			Difficulty any `json:"difficulty"`
		}
		d := "unknown"
		if err := json.Unmarshal(raw, &rec); err == nil {
			if s, ok := rec.Difficulty.(string); ok && s != "" {
				d = s
			}
		}
		counts[d]++
	}
	return counts
}

// generatorOptions 把命令配置转换为生成参数
func generatorOptions(cfg config.GeneratorConfig) (generator.Options, error) {
	kind, err := model.ParseKind(cfg.Type)
	if err != nil {
		return generator.Options{}, fmt.Errorf("%w: %v", config.ErrUsage, err)
	}
	difficulty, err := model.ParseDifficulty(cfg.Difficulty)
	if err != nil {
		return generator.Options{}, fmt.Errorf("%w: %v", config.ErrUsage, err)
	}
	rule, err := model.ParseRule(cfg.Rule)
	if err != nil {
		return generator.Options{}, fmt.Errorf("%w: %v", config.ErrUsage, err)
	}
	idStyle, err := model.ParseIDStyle(cfg.IDStyle)
	if err != nil {
		return generator.Options{}, fmt.Errorf("%w: %v", config.ErrUsage, err)
	}
	return generator.Options{
		Kind:       kind,
		Count:      cfg.NumSamples,
		Difficulty: difficulty,
		Rule:       rule,
		Seed:       cfg.Seed,
		IDStyle:    idStyle,
	}, nil
}
