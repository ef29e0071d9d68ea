package recall

import (
	"context"

	"github.com/rushteam/listenkit/core"
)

// Source 表示一个可复用的召回源（facet/peer/...）。
// 可以把它理解为"可并发 fan-out 的策略单元"。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error)
}

// PrefsParamKey 是引擎写入 RecommendContext.Params 的偏好分布键，
// 值类型为 *profile.Preferences。召回与排序节点由此读取。
const PrefsParamKey = "preferences"
