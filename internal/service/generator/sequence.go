package generator

import (
	"math/rand/v2"

	"github.com/ashwinyue/hrm-dataset/internal/model"
)

// buildSequence 按规则生成 length+1 项，前 length 项可见，最后一项为答案
func buildSequence(rule model.Rule, a, b, length int) (seq []int, target int) {
	all := make([]int, length+1)
	switch rule {
	case model.RuleArithmetic:
		// a 为首项，b 为公差
		for i := range all {
			all[i] = a + i*b
		}
	case model.RuleGeometric:
		// a 为首项，b 为公比
		all[0] = a
		for i := 1; i < len(all); i++ {
			all[i] = all[i-1] * b
		}
	case model.RuleFibonacci:
		// a、b 为前两项
		all[0], all[1] = a, b
		for i := 2; i < len(all); i++ {
			all[i] = all[i-1] + all[i-2]
		}
	}
	return all[:length], all[length]
}

// generateSequence 生成一条序列记录，rule 为空时随机选择
func generateSequence(rng *rand.Rand, id string, difficulty model.Difficulty, rule model.Rule) *model.SequenceRecord {
	if rule == "" {
		rule = model.Rules[rng.IntN(len(model.Rules))]
	}
	lengths := difficulty.SequenceLength()
	length := between(rng, lengths.Min, lengths.Max)

	var a, b int
	switch rule {
	case model.RuleArithmetic:
		a, b = between(rng, 1, 10), between(rng, 1, 5)
	case model.RuleGeometric:
		a, b = between(rng, 1, 5), between(rng, 2, 3)
	case model.RuleFibonacci:
		a, b = between(rng, 1, 5), between(rng, 1, 5)
	}

	seq, target := buildSequence(rule, a, b, length)
	return &model.SequenceRecord{
		ID:         id,
		Sequence:   seq,
		Target:     target,
		Type:       rule,
		Difficulty: difficulty,
	}
}
