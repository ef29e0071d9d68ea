// Package dsl 提供基于 CEL 的候选/标签表达式求值，
// 用于配置驱动的业务过滤（filter.ExprFilter）。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/listenkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Eval 是候选表达式解释器，使用 CEL (Common Expression Language) 实现。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：item.category == "fantasy" / label.recall_source == "facet"
//   - 数值：item.score > 0.7 / item.duration >= 3600.0
//   - 逻辑：item.category == "scifi" && item.score > 0.5
//   - 包含："Tolkien" in item.creators
type Eval struct {
	candidate *core.Candidate
	rctx      *core.RecommendContext
	env       *cel.Env
}

// NewEval 创建一个新的表达式解释器。
func NewEval(candidate *core.Candidate, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		candidate: candidate,
		rctx:      rctx,
		env:       env,
	}
}

// Evaluate 编译并执行表达式，返回布尔结果。空表达式恒为 true。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		if _, err := getCELEnv(); err != nil {
			return false, fmt.Errorf("cel env: %w", err)
		}
		e.env = celEnv
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q did not evaluate to bool", expr)
	}
	return result, nil
}

// buildInput 将候选、标签与请求上下文展开成 CEL 的求值输入。
func (e *Eval) buildInput() map[string]any {
	item := make(map[string]any)
	label := make(map[string]any)
	rctx := make(map[string]any)

	if e.candidate != nil {
		item["score"] = e.candidate.Score
		if it := e.candidate.Item; it != nil {
			item["id"] = it.ID
			item["title"] = it.Title
			item["category"] = it.Category
			item["performer"] = it.Performer
			item["creators"] = it.Creators
			item["series"] = it.SeriesName
			item["duration"] = it.DurationSeconds
		}
		for k, lbl := range e.candidate.Labels {
			label[k] = lbl.Value
		}
	}
	if e.rctx != nil {
		rctx["user_id"] = e.rctx.UserID
	}

	return map[string]any{
		"item":  item,
		"label": label,
		"rctx":  rctx,
	}
}
