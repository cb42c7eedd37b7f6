package config

import (
	"errors"
	"fmt"

	"github.com/ashwinyue/hrm-dataset/internal/model"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrUsage 命令行参数或配置不合法
var ErrUsage = errors.New("usage error")

// Config 应用配置
type Config struct {
	Log       LogConfig
	Generator GeneratorConfig
	Validator ValidatorConfig
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string
	Format string // console, json
}

// GeneratorConfig 生成器配置
type GeneratorConfig struct {
	Output     string
	Input      string
	Type       string
	NumSamples int
	Difficulty string
	Rule       string
	Seed       uint64
	IDStyle    string
}

// ValidatorConfig 校验器配置
type ValidatorConfig struct {
	Input       string
	Validate    bool
	ShowSamples int
	Strict      bool
	Repair      bool
	Query       string
	Schema      bool
}

// flagKeys 命令行参数名到配置键的映射
var flagKeys = map[string]string{
	"log_level":    "log.level",
	"log_format":   "log.format",
	"output":       "generator.output",
	"type":         "generator.type",
	"num_samples":  "generator.numSamples",
	"difficulty":   "generator.difficulty",
	"rule":         "generator.rule",
	"seed":         "generator.seed",
	"id_style":     "generator.idStyle",
	"validate":     "validator.validate",
	"show_samples": "validator.showSamples",
	"strict":       "validator.strict",
	"repair":       "validator.repair",
	"query":        "validator.query",
	"schema":       "validator.schema",
}

// Loader 组合默认值、配置文件和命令行参数
type Loader struct {
	v *viper.Viper
}

// NewLoader 创建配置加载器
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v)
	return &Loader{v: v}
}

// BindFlags 绑定命令行参数，已设置的参数优先于配置文件
// input 在两个命令里含义不同，由 inputKey 指定绑定位置
func (l *Loader) BindFlags(fs *pflag.FlagSet, inputKey string) error {
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if f.Name == "input" {
			key, ok = inputKey, inputKey != ""
		}
		if !ok || bindErr != nil {
			return
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
		}
	})
	return bindErr
}

// Load 加载配置，path 为空时只使用默认值和命令行参数
func (l *Loader) Load(path string) (*Config, error) {
	if path != "" {
		l.v.SetConfigFile(path)
		l.v.SetConfigType("yaml")
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Load 只用默认值和配置文件加载配置
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// ValidateGenerator 检查生成参数
func (c *Config) ValidateGenerator() error {
	g := c.Generator
	if g.Output == "" {
		return fmt.Errorf("%w: output path is required", ErrUsage)
	}
	if g.NumSamples <= 0 {
		return fmt.Errorf("%w: num_samples must be positive, got %d", ErrUsage, g.NumSamples)
	}
	if _, err := model.ParseKind(g.Type); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if _, err := model.ParseDifficulty(g.Difficulty); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if _, err := model.ParseRule(g.Rule); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if _, err := model.ParseIDStyle(g.IDStyle); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// ValidateValidator 检查校验参数
func (c *Config) ValidateValidator() error {
	if c.Validator.Input == "" {
		return fmt.Errorf("%w: input path is required", ErrUsage)
	}
	if c.Validator.ShowSamples < 0 {
		return fmt.Errorf("%w: show_samples must not be negative, got %d", ErrUsage, c.Validator.ShowSamples)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Generator
	v.SetDefault("generator.output", "data/processed/sample_processed.json")
	v.SetDefault("generator.input", "")
	v.SetDefault("generator.type", string(model.KindReasoning))
	v.SetDefault("generator.numSamples", 100)
	v.SetDefault("generator.difficulty", string(model.DifficultyMixed))
	v.SetDefault("generator.rule", "")
	v.SetDefault("generator.seed", 0)
	v.SetDefault("generator.idStyle", string(model.IDStyleIndex))

	// Validator
	v.SetDefault("validator.input", "data/sample.json")
	v.SetDefault("validator.validate", false)
	v.SetDefault("validator.showSamples", 3)
	v.SetDefault("validator.strict", false)
	v.SetDefault("validator.repair", false)
	v.SetDefault("validator.query", "")
	v.SetDefault("validator.schema", false)
}
