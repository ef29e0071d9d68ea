package recall

import (
	"context"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pipeline"
	"github.com/rushteam/listenkit/pkg/utils"
	"github.com/rushteam/listenkit/profile"
)

// FacetRecall 是基于 facet 偏好的候选生成源。
//
// 候选 = 目录中命中任一 Top facet（类别/创作者/演播者，OR 语义）的物品，
// 减去已完成集合，按 Store 顺序截断到 CandidateLimit。
// 排除先于截断；截断前不重排。
//
// 空时间线的用户没有 Top facet，候选集为空 —— 这是正常结果，不是错误。
// FacetRecall 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type FacetRecall struct {
	Store core.RecordStore

	// CandidateLimit 候选上限，默认 50
	CandidateLimit int

	// CreatorFuzzy > 0 时创作者 facet 用归一化编辑距离做模糊匹配（阈值 0~1]
	CreatorFuzzy float64

	// PrefsExtractor 从 RecommendContext 提取偏好分布（可选）。
	// 为空时从 rctx.Params[PrefsParamKey] 读取。
	PrefsExtractor func(rctx *core.RecommendContext) *profile.Preferences
}

func (r *FacetRecall) Name() string        { return "recall.facet" }
func (r *FacetRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *FacetRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *FacetRecall) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if r.Store == nil || rctx == nil {
		return nil, nil
	}

	prefs := r.prefs(rctx)
	if prefs == nil || prefs.Empty() {
		return nil, nil
	}

	limit := r.CandidateLimit
	if limit <= 0 {
		limit = 50
	}

	var exclude []string
	if rctx.User != nil {
		exclude = rctx.User.CompletedItemIDs
	}

	items, err := r.Store.FindCatalogItems(ctx, core.CatalogQuery{
		Categories:   prefs.TopCategories(),
		Creators:     prefs.TopCreators(),
		Performers:   prefs.TopPerformers(),
		ExcludeIDs:   exclude,
		CreatorFuzzy: r.CreatorFuzzy,
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]*core.Candidate, 0, len(items))
	for _, item := range items {
		c := core.NewCandidate(item)
		c.PutLabel("recall_source", utils.Label{Value: "facet", Source: "recall"})
		out = append(out, c)
	}
	return out, nil
}

func (r *FacetRecall) prefs(rctx *core.RecommendContext) *profile.Preferences {
	if r.PrefsExtractor != nil {
		return r.PrefsExtractor(rctx)
	}
	if rctx.Params != nil {
		if p, ok := rctx.Params[PrefsParamKey].(*profile.Preferences); ok {
			return p
		}
	}
	return nil
}
