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
	"github.com/ashwinyue/hrm-dataset/internal/service"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("test-dataset", pflag.ContinueOnError)
	configPath := fs.String("config", "", "optional YAML config file")
	fs.String("input", "data/sample.json", "dataset to inspect")
	fs.Bool("validate", false, "validate every sample")
	fs.Int("show_samples", 3, "number of samples to print")
	fs.Bool("strict", false, "validate and exit non-zero when any sample is invalid")
	fs.Bool("repair", false, "try to repair malformed JSON before parsing")
	fs.String("query", "", "read-only SQL over the dataset table")
	fs.Bool("schema", false, "print the column types inferred for the dataset table")
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
	if err := loader.BindFlags(fs, "validator.input"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		return 1
	}
	cfg, err := loader.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	if err := cfg.ValidateValidator(); err != nil {
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
	if err := handlers.Validate.Run(ctx, cfg.Validator); err != nil {
		log.Error("failed to test dataset", zap.Error(err))
		return 1
	}
	return 0
}
