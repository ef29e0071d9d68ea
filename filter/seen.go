package filter

import (
	"context"

	"github.com/rushteam/listenkit/core"
)

// SeenFilter 剔除目标用户自己已收藏或已完成的候选。
// 用在协同召回链路：即使 peer 也收藏了同一物品，目标用户已有的不再推。
//
// 注意：facet 排序链路不用此过滤器 —— 那条链路只排除"已完成"，
// 且排除在候选生成（store 查询）内完成，收藏过但未完成的物品仍可被推荐。
type SeenFilter struct{}

func (f *SeenFilter) Name() string { return "filter.seen" }

func (f *SeenFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil || c.Item == nil {
		return true, nil
	}
	if rctx == nil || rctx.User == nil {
		return false, nil
	}
	seen := rctx.User.SeenSet()
	_, ok := seen[c.Item.ID]
	return ok, nil
}
