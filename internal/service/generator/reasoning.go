package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/ashwinyue/hrm-dataset/internal/model"
)

// Op 推理链中的算术运算
type Op byte

const (
	OpAdd Op = '+'
	OpMul Op = '*'
	OpSub Op = '-'
)

var chainOps = []Op{OpAdd, OpMul, OpSub}

// chainVars 每一步结果的变量名
var chainVars = []string{"x", "y", "z", "w"}

// Operation 对上一步结果施加的一次运算
type Operation struct {
	Op      Op
	Operand int
}

// Apply 计算 v op operand，未知运算不改变 v
func (o Operation) Apply(v int) int {
	switch o.Op {
	case OpAdd:
		return v + o.Operand
	case OpMul:
		return v * o.Operand
	case OpSub:
		return v - o.Operand
	}
	return v
}

// Chain 推理记录的结构化来源：初值加若干运算
type Chain struct {
	Start int
	Ops   []Operation
}

// Values 每一步的结果，长度为 len(Ops)+1
func (c Chain) Values() []int {
	values := make([]int, 0, len(c.Ops)+1)
	v := c.Start
	values = append(values, v)
	for _, op := range c.Ops {
		v = op.Apply(v)
		values = append(values, v)
	}
	return values
}

// Eval 链的最终结果
func (c Chain) Eval() int {
	values := c.Values()
	return values[len(values)-1]
}

// Steps 渲染每一步的文字说明
func (c Chain) Steps() []string {
	values := c.Values()
	steps := make([]string, 0, len(values))
	steps = append(steps, fmt.Sprintf("Step 1: %s = %d", chainVars[0], c.Start))
	for i, op := range c.Ops {
		prev, cur := chainVars[i], chainVars[i+1]
		steps = append(steps, fmt.Sprintf("Step %d: %s = %s %c %d = %d %c %d = %d",
			i+2, cur, prev, op.Op, op.Operand, values[i], op.Op, op.Operand, values[i+1]))
	}
	return steps
}

// Question 渲染题目：中间步骤作为已知条件，最后一步作为提问
func (c Chain) Question() string {
	givens := []string{fmt.Sprintf("%s = %d", chainVars[0], c.Start)}
	for i, op := range c.Ops[:len(c.Ops)-1] {
		givens = append(givens, fmt.Sprintf("%s = %s %c %d", chainVars[i+1], chainVars[i], op.Op, op.Operand))
	}
	last := c.Ops[len(c.Ops)-1]
	return fmt.Sprintf("Given %s, what is %s %c %d?",
		strings.Join(givens, ", "), chainVars[len(c.Ops)-1], last.Op, last.Operand)
}

// newChain 随机生成 steps 步的链，steps 包含初值赋值这一步
func newChain(rng *rand.Rand, steps int) Chain {
	c := Chain{Start: between(rng, 1, 10)}
	v := c.Start
	first := rng.IntN(len(chainOps))
	for i := 1; i < steps; i++ {
		op := chainOps[(first+i-1)%len(chainOps)]
		var operand int
		switch op {
		case OpAdd:
			operand = between(rng, 1, 5)
		case OpMul:
			operand = between(rng, 2, 4)
		case OpSub:
			// 保持结果为正
			if v <= 1 {
				op, operand = OpAdd, between(rng, 1, 5)
			} else {
				operand = between(rng, 1, min(5, v-1))
			}
		}
		o := Operation{Op: op, Operand: operand}
		v = o.Apply(v)
		c.Ops = append(c.Ops, o)
	}
	return c
}

// generateReasoning 生成一条推理记录，target 由链直接求值得到
func generateReasoning(rng *rand.Rand, id string, difficulty model.Difficulty) *model.ReasoningRecord {
	c := newChain(rng, difficulty.ReasoningSteps())
	return &model.ReasoningRecord{
		ID:         id,
		Input:      c.Question(),
		Steps:      c.Steps(),
		Target:     c.Eval(),
		Difficulty: difficulty,
	}
}
