// Package model 存放排序用的打分模型，与 rank 的 Node 封装分离：
// 模型只管"一个候选值多少分"，编排归 Node。
package model

import (
	"github.com/rushteam/listenkit/analytics"
	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/profile"
)

// AffinityModel 是 facet 亲和度打分模型。
//
// score = categoryWeight[c] * 3        （候选类别命中 Top 类别）
//       + Σ creatorWeight[a] * 1       （每个命中 Top 创作者的创作者）
//       + performerWeight[n] * 2       （候选演播者命中 Top 演播者）
//       + 0.5                          （探索加成，见 ExploreTarget）
//
// 3×/1×/2× 的权重次序是产品决策：类别是最强的口味信号，
// 演播者次之，创作者最弱。次序必须精确保持，测试夹具依赖它。
type AffinityModel struct {
	// 权重；零值时取默认 3 / 1 / 2 / 0.5
	CategoryWeight  float64
	CreatorWeight   float64
	PerformerWeight float64
	ExploreBonus    float64
}

// ExploreTarget 是探索加成指向的 facet。
type ExploreTarget int

const (
	ExploreNone       ExploreTarget = iota
	ExploreCategories               // 下一里程碑：探索 N 个不同类别
	ExploreCreators                 // 下一里程碑：探索 N 个不同创作者
)

// ExploreTargetFor 由下一个未达成里程碑推导探索目标。
// 只有"探索不同类别/创作者"类里程碑给出加成，其余为 ExploreNone。
func ExploreTargetFor(next analytics.MilestoneKind) ExploreTarget {
	switch next.(type) {
	case analytics.DistinctCategories:
		return ExploreCategories
	case analytics.DistinctCreators:
		return ExploreCreators
	default:
		return ExploreNone
	}
}

// ScoreInput 是一次打分的全部输入。Top 集合由调用方（rank 节点）
// 按请求预构建一次，避免每个候选重复做 Top-K。
type ScoreInput struct {
	Item  *core.CatalogItem
	Prefs *profile.Preferences

	TopCategories map[string]struct{}
	TopCreators   map[string]struct{}
	TopPerformers map[string]struct{}

	// Explore 为非 ExploreNone 时，对引入分布之外新 facet 值的候选加分。
	// "新"以分布的全部 key 为准，不是 Top-K。
	Explore ExploreTarget
}

// Score 对单个候选打分。权重单调性：提高任一命中 facet 的偏好权重，
// 依赖它的候选分数不会下降。
func (m *AffinityModel) Score(in ScoreInput) float64 {
	if in.Item == nil || in.Prefs == nil {
		return 0
	}

	categoryWeight := m.CategoryWeight
	if categoryWeight == 0 {
		categoryWeight = 3
	}
	creatorWeight := m.CreatorWeight
	if creatorWeight == 0 {
		creatorWeight = 1
	}
	performerWeight := m.PerformerWeight
	if performerWeight == 0 {
		performerWeight = 2
	}
	exploreBonus := m.ExploreBonus
	if exploreBonus == 0 {
		exploreBonus = 0.5
	}

	var score float64

	if _, ok := in.TopCategories[in.Item.Category]; ok {
		score += in.Prefs.Categories.Weight(in.Item.Category) * categoryWeight
	}
	for _, creator := range in.Item.Creators {
		if _, ok := in.TopCreators[creator]; ok {
			score += in.Prefs.Creators.Weight(creator) * creatorWeight
		}
	}
	if _, ok := in.TopPerformers[in.Item.Performer]; ok {
		score += in.Prefs.Performers.Weight(in.Item.Performer) * performerWeight
	}

	switch in.Explore {
	case ExploreCategories:
		if in.Item.Category != "" && !in.Prefs.Categories.Has(in.Item.Category) {
			score += exploreBonus
		}
	case ExploreCreators:
		for _, creator := range in.Item.Creators {
			if !in.Prefs.Creators.Has(creator) {
				score += exploreBonus
				break
			}
		}
	}

	return score
}
