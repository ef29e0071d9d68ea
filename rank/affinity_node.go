package rank

import (
	"context"
	"sort"

	"github.com/rushteam/listenkit/analytics"
	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/model"
	"github.com/rushteam/listenkit/pipeline"
	"github.com/rushteam/listenkit/pkg/utils"
	"github.com/rushteam/listenkit/profile"
	"github.com/rushteam/listenkit/recall"
)

// NextMilestoneParamKey 是引擎写入 RecommendContext.Params 的
// 下一里程碑键，值类型为 analytics.MilestoneKind。
const NextMilestoneParamKey = "next_milestone"

// AffinityNode 是 facet 亲和度排序节点：用 AffinityModel 对候选打分，
// 按分数降序稳定排序 —— 同分保持候选生成顺序，保证结果可复现。
//
// 偏好分布与下一里程碑从 rctx.Params 读取（引擎在召回前写入）。
// 无偏好时直接透传候选，不打分。
type AffinityNode struct {
	Model *model.AffinityModel
}

func (n *AffinityNode) Name() string        { return "rank.affinity" }
func (n *AffinityNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *AffinityNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(candidates) == 0 || rctx == nil {
		return candidates, nil
	}

	prefs := prefsFromContext(rctx)
	if prefs == nil || prefs.Empty() {
		return candidates, nil
	}

	m := n.Model
	if m == nil {
		m = &model.AffinityModel{}
	}

	// 每个请求只做一次 Top-K
	topCategories := toSet(prefs.TopCategories())
	topCreators := toSet(prefs.TopCreators())
	topPerformers := toSet(prefs.TopPerformers())
	explore := model.ExploreNone
	if next := nextMilestoneFromContext(rctx); next != nil {
		explore = model.ExploreTargetFor(next)
	}

	for _, c := range candidates {
		if c == nil {
			continue
		}
		c.Score = m.Score(model.ScoreInput{
			Item:          c.Item,
			Prefs:         prefs,
			TopCategories: topCategories,
			TopCreators:   topCreators,
			TopPerformers: topPerformers,
			Explore:       explore,
		})
		c.PutLabel("rank_model", utils.Label{Value: "affinity", Source: "rank"})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, nil
}

func prefsFromContext(rctx *core.RecommendContext) *profile.Preferences {
	if rctx.Params == nil {
		return nil
	}
	p, _ := rctx.Params[recall.PrefsParamKey].(*profile.Preferences)
	return p
}

func nextMilestoneFromContext(rctx *core.RecommendContext) analytics.MilestoneKind {
	if rctx.Params == nil {
		return nil
	}
	m, _ := rctx.Params[NextMilestoneParamKey].(analytics.MilestoneKind)
	return m
}

func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
