package filter

import (
	"context"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pkg/dsl"
)

// ExprFilter 是表达式过滤器：用 CEL 表达式描述剔除规则，配置驱动。
//
// Expr 对"应当剔除"的候选求值为 true，例如：
//   - `item.duration > 180000.0`            → 剔除超长物品
//   - `item.category == "true_crime"`       → 业务下架某类别
//   - `label.recall_source == "peer" && item.score == 0.0`
type ExprFilter struct {
	Expr string
}

func (f *ExprFilter) Name() string { return "filter.expr" }

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if f.Expr == "" {
		return false, nil
	}
	return dsl.NewEval(c, rctx).Evaluate(f.Expr)
}
