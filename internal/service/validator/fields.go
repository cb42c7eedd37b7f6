package validator

import (
	"fmt"
	"math"

	"github.com/ashwinyue/hrm-dataset/internal/model"
)

// fields 单条记录的字段访问器，类型不符时记录问题并返回 false
type fields struct {
	m        map[string]any
	problems []string
}

func (f *fields) addf(format string, args ...any) {
	f.problems = append(f.problems, fmt.Sprintf(format, args...))
}

func (f *fields) get(key string) (any, bool) {
	v, ok := f.m[key]
	if !ok || v == nil {
		f.addf("missing field %q", key)
		return nil, false
	}
	return v, true
}

func (f *fields) str(key string) (string, bool) {
	v, ok := f.get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		f.addf("field %q must be a string", key)
		return "", false
	}
	return s, true
}

// nonEmptyStr 非空字符串
func (f *fields) nonEmptyStr(key string) (string, bool) {
	s, ok := f.str(key)
	if ok && s == "" {
		f.addf("field %q must not be empty", key)
		return "", false
	}
	return s, ok
}

func (f *fields) num(key string) (float64, bool) {
	v, ok := f.get(key)
	if !ok {
		return 0, false
	}
	n, ok := v.(float64)
	if !ok {
		f.addf("field %q must be a number", key)
		return 0, false
	}
	return n, true
}

func (f *fields) integer(key string) (int, bool) {
	n, ok := f.num(key)
	if !ok {
		return 0, false
	}
	if !isInteger(n) {
		f.addf("field %q must be an integer, got %v", key, n)
		return 0, false
	}
	return int(n), true
}

func (f *fields) array(key string) ([]any, bool) {
	v, ok := f.get(key)
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	if !ok {
		f.addf("field %q must be an array", key)
		return nil, false
	}
	return arr, true
}

func (f *fields) strList(key string) ([]string, bool) {
	arr, ok := f.array(key)
	if !ok {
		return nil, false
	}
	out := make([]string, len(arr))
	for i, v := range arr {
		s, ok := v.(string)
		if !ok {
			f.addf("field %q element %d must be a string", key, i)
			return nil, false
		}
		out[i] = s
	}
	return out, true
}

func (f *fields) numbers(key string) ([]float64, bool) {
	arr, ok := f.array(key)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(arr))
	for i, v := range arr {
		n, ok := v.(float64)
		if !ok {
			f.addf("field %q element %d must be a number", key, i)
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

// ints 整数数组，每个元素必须落在 [lo, hi]
func (f *fields) ints(key string, lo, hi int) ([]int, bool) {
	nums, ok := f.numbers(key)
	if !ok {
		return nil, false
	}
	out := make([]int, len(nums))
	for i, n := range nums {
		if !isInteger(n) || int(n) < lo || int(n) > hi {
			f.addf("field %q element %d is %v, want an integer in %d-%d", key, i, n, lo, hi)
			return nil, false
		}
		out[i] = int(n)
	}
	return out, true
}

func (f *fields) difficulty() (model.Difficulty, bool) {
	s, ok := f.str("difficulty")
	if !ok {
		return "", false
	}
	d := model.Difficulty(s)
	if !d.Valid() {
		f.addf("difficulty %q is not one of easy, medium, hard", s)
		return "", false
	}
	return d, true
}

func isInteger(n float64) bool {
	return n == math.Trunc(n) && !math.IsInf(n, 0)
}

// approxEqual 相对误差比较，整数在 2^53 内精确相等
func approxEqual(a, b float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= 1e-9*scale
}
