package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ashwinyue/hrm-dataset/internal/config"
	"github.com/ashwinyue/hrm-dataset/internal/handler"
	"github.com/ashwinyue/hrm-dataset/internal/logger"
	"github.com/ashwinyue/hrm-dataset/internal/model"
	"github.com/ashwinyue/hrm-dataset/internal/service"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("prep-data", pflag.ContinueOnError)
	configPath := fs.String("config", "", "optional YAML config file")
	fs.String("output", "data/processed/sample_processed.json", "output dataset path")
	fs.String("type", "reasoning", "dataset type: reasoning, sudoku, sequence or all")
	fs.Int("num_samples", 100, "number of samples to generate")
	fs.String("input", "", "existing dataset to copy instead of generating")
	fs.String("difficulty", "mixed", "difficulty: mixed, easy, medium or hard")
	fs.String("rule", "", "sequence rule: arithmetic, geometric or fibonacci (random when empty)")
	fs.Uint64("seed", 0, "random seed, 0 seeds from the clock")
	fs.String("id_style", string(model.IDStyleIndex), "record id style: index or uuid")
	fs.String("log_level", "info", "log level")
	fs.String("log_format", "console", "log format: console or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	// 加载配置
	loader := config.NewLoader()
	if err := loader.BindFlags(fs, "generator.input"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		return 1
	}
	cfg, err := loader.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	if err := cfg.ValidateGenerator(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// 初始化日志
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handlers := handler.NewHandlers(service.NewServices(log), os.Stdout)
	if err := handlers.Generate.Run(ctx, cfg.Generator); err != nil {
		log.Error("failed to prepare dataset", zap.Error(err))
		return 1
	}
	return 0
}
