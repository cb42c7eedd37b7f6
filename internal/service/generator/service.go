// Package generator 生成合成数据集记录
package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ashwinyue/hrm-dataset/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidOptions 生成参数不合法
var ErrInvalidOptions = errors.New("invalid generator options")

// Options 生成参数
type Options struct {
	Kind       model.Kind
	Count      int
	Difficulty model.Difficulty // mixed 表示每条随机
	Rule       model.Rule       // 只对 sequence 生效，空表示随机
	Seed       uint64           // 0 表示按时间取种子
	IDStyle    model.IDStyle
}

// Service 数据生成服务
type Service struct {
	log *zap.Logger
}

// NewService 创建数据生成服务
func NewService(log *zap.Logger) *Service {
	return &Service{log: log}
}

// Validate 检查生成参数
func (o *Options) Validate() error {
	if o.Count <= 0 {
		return fmt.Errorf("%w: sample count must be positive, got %d", ErrInvalidOptions, o.Count)
	}
	if _, err := model.ParseKind(string(o.Kind)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if o.Difficulty != model.DifficultyMixed && !o.Difficulty.Valid() {
		return fmt.Errorf("%w: difficulty %q", ErrInvalidOptions, o.Difficulty)
	}
	if _, err := model.ParseRule(string(o.Rule)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if _, err := model.ParseIDStyle(string(o.IDStyle)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

// Generate 生成恰好 Count 条记录
func (s *Service) Generate(ctx context.Context, opts Options) ([]model.Record, error) {
	if opts.Difficulty == "" {
		opts.Difficulty = model.DifficultyMixed
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	runID := uuid.New().String()
	g := &run{
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		opts:     opts,
		counters: make(map[model.Kind]int),
	}

	s.log.Info("generating dataset",
		zap.String("run_id", runID),
		zap.String("type", string(opts.Kind)),
		zap.Int("count", opts.Count),
		zap.String("difficulty", string(opts.Difficulty)),
		zap.Uint64("seed", seed),
	)

	records := make([]model.Record, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		kind := opts.Kind
		if kind == model.KindAll {
			kind = model.RecordKinds[i%len(model.RecordKinds)]
		}
		rec, err := g.next(kind)
		if err != nil {
			return nil, fmt.Errorf("failed to generate record %d: %w", i, err)
		}
		records = append(records, rec)
	}

	if opts.Kind == model.KindAll {
		g.rng.Shuffle(len(records), func(i, j int) {
			records[i], records[j] = records[j], records[i]
		})
	}

	s.log.Debug("dataset generated", zap.String("run_id", runID), zap.Int("records", len(records)))
	return records, nil
}

// run 一次生成过程的状态
type run struct {
	rng      *rand.Rand
	opts     Options
	counters map[model.Kind]int
}

// next 按类型生成下一条记录
func (g *run) next(kind model.Kind) (model.Record, error) {
	id := g.nextID(kind)
	difficulty := g.difficulty()

	switch kind {
	case model.KindReasoning:
		return model.NewReasoning(generateReasoning(g.rng, id, difficulty)), nil
	case model.KindSudoku:
		rec, err := generateSudoku(g.rng, id, difficulty)
		if err != nil {
			return model.Record{}, err
		}
		return model.NewSudoku(rec), nil
	case model.KindSequence:
		return model.NewSequence(generateSequence(g.rng, id, difficulty, g.opts.Rule)), nil
	}
	return model.Record{}, fmt.Errorf("%w: type %q", ErrInvalidOptions, kind)
}

// nextID 生成记录 ID
func (g *run) nextID(kind model.Kind) string {
	n := g.counters[kind]
	g.counters[kind] = n + 1
	if g.opts.IDStyle == model.IDStyleUUID {
		return uuid.NewString()
	}
	return fmt.Sprintf("%s_%04d", kind, n)
}

// difficulty 选择本条记录的难度
func (g *run) difficulty() model.Difficulty {
	if g.opts.Difficulty.Valid() {
		return g.opts.Difficulty
	}
	return model.Difficulties[g.rng.IntN(len(model.Difficulties))]
}

// between 返回 [lo, hi] 内的随机整数
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
