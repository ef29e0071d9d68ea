// Package engine 是个性化引擎的应用层门面：组装 Pipeline，对外暴露
// "算推荐"与"算分析"两个纯函数式入口。
//
// 引擎自身无持久状态：每次调用先从 RecordStore 取用户快照，再做纯计算。
// 不同用户的调用可任意并发；同一用户的并发读写由 Store 的快照语义兜底
// （条目是原子记录，不存在半写状态）。
package engine

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/listenkit/analytics"
	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/filter"
	"github.com/rushteam/listenkit/model"
	"github.com/rushteam/listenkit/pipeline"
	"github.com/rushteam/listenkit/pkg/utils"
	"github.com/rushteam/listenkit/profile"
	"github.com/rushteam/listenkit/rank"
	"github.com/rushteam/listenkit/recall"
	"github.com/rushteam/listenkit/rerank"
)

// 默认链路规模：facet 排序链返回前 10，协同链返回前 5；
// 百分位人群扫描上限 1000（大人群时相当于抽样，见 Option）。
const (
	DefaultPersonalizedTopN  = 10
	DefaultCollaborativeTopN = 5
	DefaultPopulationCap     = 1000

	populationPageSize = 100
)

// Engine 是引擎门面。零值不可用，必须经 New 创建。
type Engine struct {
	store core.RecordStore

	prefsProvider profile.Provider // 可选：预计算偏好（如 Feast），失败回退现算
	populationCap int
	creatorFuzzy  float64
	exprFilter    string // 可选：CEL 业务过滤表达式，两条链路共用
	now           func() time.Time
}

// Option 配置 Engine。
type Option func(*Engine)

// WithPreferenceProvider 启用预计算偏好来源（失败时回退时间线现算）。
func WithPreferenceProvider(p profile.Provider) Option {
	return func(e *Engine) { e.prefsProvider = p }
}

// WithPopulationCap 限制百分位统计扫描的人群规模。
func WithPopulationCap(n int) Option {
	return func(e *Engine) { e.populationCap = n }
}

// WithCreatorFuzzy 启用创作者 facet 的模糊匹配（归一化编辑距离阈值）。
func WithCreatorFuzzy(threshold float64) Option {
	return func(e *Engine) { e.creatorFuzzy = threshold }
}

// WithExprFilter 追加 CEL 业务过滤规则（对"应当剔除"的候选求值为 true）。
func WithExprFilter(expr string) Option {
	return func(e *Engine) { e.exprFilter = expr }
}

// WithClock 注入时钟（测试用）。
func WithClock(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

func New(store core.RecordStore, opts ...Option) *Engine {
	e := &Engine{
		store:         store,
		populationCap: DefaultPopulationCap,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RecommendationSet 是一次推荐调用的输出。
// 两个列表用途不同，允许重复出现同一物品，引擎不做跨列表去重。
type RecommendationSet struct {
	// Personalized 来自 facet 排序链路（≤ 10）
	Personalized []*core.CatalogItem

	// Collaborative 来自协同链路（≤ 5），presence-based 不打分
	Collaborative []*core.CatalogItem

	// Labels 是请求级观测标签（如 timeline_dropped）
	Labels map[string]utils.Label
}

// ComputeRecommendations 为用户计算推荐。
//
// 用户不存在 → 透传 NOT_FOUND，绝不降级成空用户。
// 空时间线 → 无 Top facet，个性化列表为空；协同链路仍按收藏/完成信号运行。
// 全空用户（无时间线、无收藏、无完成）→ 两个列表都为空，不是错误。
func (e *Engine) ComputeRecommendations(ctx context.Context, userID string) (*RecommendationSet, error) {
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	rctx := &core.RecommendContext{
		UserID: userID,
		Now:    e.now(),
		User:   user,
		Params: make(map[string]any),
	}

	resolved, dropped, err := profile.ResolveTimeline(ctx, e.store, user)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		rctx.PutLabel("timeline_dropped", utils.Label{
			Value:  strconv.Itoa(dropped),
			Source: "engine",
		})
	}

	prefs := e.preferences(ctx, userID, resolved)
	rctx.Params[recall.PrefsParamKey] = prefs

	stats := analytics.Stats{
		CompletedCount:     len(user.CompletedItemIDs),
		TotalSeconds:       prefs.TotalSeconds,
		DistinctCategories: prefs.Categories.Len(),
		DistinctCreators:   prefs.Creators.Len(),
	}
	if next := analytics.NextMilestone(stats); next != nil {
		rctx.Params[rank.NextMilestoneParamKey] = next
	}

	personalized := e.personalizedPipeline()
	collaborative := e.collaborativePipeline()

	var personalizedOut, collaborativeOut []*core.Candidate
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		out, err := personalized.Run(egCtx, rctx, nil)
		personalizedOut = out
		return err
	})
	eg.Go(func() error {
		out, err := collaborative.Run(egCtx, rctx, nil)
		collaborativeOut = out
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &RecommendationSet{
		Personalized:  items(personalizedOut),
		Collaborative: items(collaborativeOut),
		Labels:        rctx.Labels,
	}, nil
}

// ComputeAnalytics 为用户计算参与度报告。
// now 为零值时取 wall-clock。人群扫描分页进行，规模由 populationCap 限制。
func (e *Engine) ComputeAnalytics(ctx context.Context, userID string, now time.Time) (*analytics.Report, error) {
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if now.IsZero() {
		now = e.now()
	}

	resolved, _, err := profile.ResolveTimeline(ctx, e.store, user)
	if err != nil {
		return nil, err
	}

	pop, err := e.scanPopulation(ctx)
	if err != nil {
		return nil, err
	}

	return analytics.Compute(user, resolved, pop, now), nil
}

// preferences 取偏好分布：Provider 优先，失败回退时间线现算。
func (e *Engine) preferences(ctx context.Context, userID string, resolved []profile.ResolvedEntry) *profile.Preferences {
	if e.prefsProvider != nil {
		if prefs, err := e.prefsProvider.Preferences(ctx, userID); err == nil && prefs != nil {
			return prefs
		}
	}
	return profile.BuildPreferences(resolved)
}

func (e *Engine) personalizedPipeline() *pipeline.Pipeline {
	nodes := []pipeline.Node{
		&recall.FacetRecall{Store: e.store, CreatorFuzzy: e.creatorFuzzy},
	}
	if e.exprFilter != "" {
		nodes = append(nodes, &filter.FilterNode{
			Filters: []filter.Filter{&filter.ExprFilter{Expr: e.exprFilter}},
		})
	}
	nodes = append(nodes,
		&rank.AffinityNode{Model: &model.AffinityModel{}},
		&rerank.TopNNode{N: DefaultPersonalizedTopN},
	)
	return &pipeline.Pipeline{Nodes: nodes}
}

func (e *Engine) collaborativePipeline() *pipeline.Pipeline {
	filters := []filter.Filter{&filter.SeenFilter{}}
	if e.exprFilter != "" {
		filters = append(filters, &filter.ExprFilter{Expr: e.exprFilter})
	}
	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.PeerRecall{Store: e.store},
			&filter.FilterNode{Filters: filters},
			&rerank.TopNNode{N: DefaultCollaborativeTopN},
		},
	}
}

// scanPopulation 分页遍历人群，取累计时长与完成数两个序列。
// 只读时间线本身（不解析目录），成本与人群规模线性，上限由 cap 控制。
func (e *Engine) scanPopulation(ctx context.Context) (analytics.Population, error) {
	pop := analytics.Population{}
	cap := e.populationCap
	if cap <= 0 {
		cap = DefaultPopulationCap
	}

	cursor := ""
	for len(pop.TotalSeconds) < cap {
		limit := populationPageSize
		if remain := cap - len(pop.TotalSeconds); remain < limit {
			limit = remain
		}
		users, next, err := e.store.ListUsers(ctx, cursor, limit)
		if err != nil {
			return analytics.Population{}, err
		}
		for _, u := range users {
			pop.TotalSeconds = append(pop.TotalSeconds, u.TotalListeningSeconds())
			pop.CompletedCounts = append(pop.CompletedCounts, float64(len(u.CompletedItemIDs)))
		}
		if next == "" {
			break
		}
		cursor = next
	}
	return pop, nil
}

func items(candidates []*core.Candidate) []*core.CatalogItem {
	out := make([]*core.CatalogItem, 0, len(candidates))
	for _, c := range candidates {
		if c != nil && c.Item != nil {
			out = append(out, c.Item)
		}
	}
	return out
}
