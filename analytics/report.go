// Package analytics 计算用户的参与度统计：累计/时间窗收听时长、streak、
// 收听时段、人群百分位、在听进度与里程碑。
//
// 与排序链路完全独立：输入是解析后的时间线 + 完成集合 + 人群取值，
// 纯计算，无存储副作用。稀疏用户（无完成、无收藏、空时间线）得到
// 零值/空结果，绝不报错。
package analytics

import (
	"time"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/profile"
)

// FacetStat 是单个 facet 值的累计收听时长。
type FacetStat struct {
	Name    string
	Seconds float64
}

// PerformerStat 是演播者统计：累计时长 + 听过的不同物品数。
type PerformerStat struct {
	Name      string
	Seconds   float64
	ItemCount int
}

// ProgressStat 是一本在听物品的进度。
// Percent 不截断：进度超过物品时长时可以大于 100。
type ProgressStat struct {
	Item    *core.CatalogItem
	Percent float64
}

// RelistenStat 是重听统计：时间线中出现次数最多的物品。
type RelistenStat struct {
	Item  *core.CatalogItem
	Count int
}

// MilestoneStatus 是里程碑的达成状态（派生值，不落盘）。
type MilestoneStatus struct {
	Name     string
	Achieved bool
}

// NextMilestoneStat 是下一个未达成里程碑及其进度（百分比，不截断）。
type NextMilestoneStat struct {
	Name     string
	Progress float64
}

// Population 是人群取值，用于百分位统计。两个序列相互独立，
// 通常都包含目标用户自己。
type Population struct {
	TotalSeconds    []float64
	CompletedCounts []float64
}

// Report 是一次分析调用的完整输出。
type Report struct {
	TotalListeningSeconds float64
	CompletedCount        int
	LastWeekSeconds       float64
	LastMonthSeconds      float64

	TopCategories     []FacetStat     // top 5，按累计时长降序，同分按首次收听顺序
	TopCreators       []FacetStat     // top 5，同上
	TopPerformers     []PerformerStat // top 5，同上
	FavoritePerformer *PerformerStat  // TopPerformers 首位

	CurrentStreak int

	// FavoriteHour 是累计收听时长最大的小时（0~23，UTC）。
	// 同分取更小的小时数（确定性决胜）；无任何活动时为 -1。
	FavoriteHour int

	TotalTimePercentile float64
	CompletedPercentile float64

	InProgress      []ProgressStat
	LongestListened *core.CatalogItem // 单次会话进度最大的物品

	Milestones    []MilestoneStatus
	NextMilestone *NextMilestoneStat
	MostRelistened *RelistenStat
}

// 时间窗上限，含端点：now - lastActivity <= 窗口。
const (
	weekWindow  = 7 * 24 * time.Hour
	monthWindow = 30 * 24 * time.Hour
)

// Compute 由解析后的时间线和完成集合生成报告。
// now 由调用方提供，保证结果可复现。
func Compute(u *core.User, entries []profile.ResolvedEntry, pop Population, now time.Time) *Report {
	r := &Report{FavoriteHour: -1}
	if u != nil {
		r.CompletedCount = len(u.CompletedItemIDs)
	}

	categories := profile.NewDistribution()
	creators := profile.NewDistribution()

	// 演播者统计带物品去重，单独累计
	performerOrder := make([]string, 0)
	performerSecs := make(map[string]float64)
	performerItems := make(map[string]map[string]struct{})

	var hours [24]float64
	activityTimes := make([]time.Time, 0, len(entries))

	relistenOrder := make([]string, 0)
	relistenCount := make(map[string]int)
	itemByID := make(map[string]*core.CatalogItem)

	var longest *core.CatalogItem
	var longestProgress float64

	for _, re := range entries {
		e, item := re.Entry, re.Item
		r.TotalListeningSeconds += e.Progress

		if now.Sub(e.LastActivityAt) <= weekWindow {
			r.LastWeekSeconds += e.Progress
		}
		if now.Sub(e.LastActivityAt) <= monthWindow {
			r.LastMonthSeconds += e.Progress
		}

		if item.Category != "" {
			categories.Add(item.Category, e.Progress)
		}
		for _, c := range item.Creators {
			creators.Add(c, e.Progress)
		}
		if item.Performer != "" {
			if _, ok := performerSecs[item.Performer]; !ok {
				performerOrder = append(performerOrder, item.Performer)
				performerItems[item.Performer] = make(map[string]struct{})
			}
			performerSecs[item.Performer] += e.Progress
			performerItems[item.Performer][item.ID] = struct{}{}
		}

		hours[e.LastActivityAt.UTC().Hour()] += e.Progress
		activityTimes = append(activityTimes, e.LastActivityAt)

		if _, ok := relistenCount[item.ID]; !ok {
			relistenOrder = append(relistenOrder, item.ID)
		}
		relistenCount[item.ID]++
		itemByID[item.ID] = item

		if e.Progress > longestProgress {
			longestProgress = e.Progress
			longest = item
		}
	}

	r.TopCategories = topFacets(categories, 5)
	r.TopCreators = topFacets(creators, 5)
	r.TopPerformers = topPerformers(performerOrder, performerSecs, performerItems, 5)
	if len(r.TopPerformers) > 0 {
		fav := r.TopPerformers[0]
		r.FavoritePerformer = &fav
	}

	r.CurrentStreak = CurrentStreak(activityTimes)
	r.FavoriteHour = favoriteHour(hours, r.TotalListeningSeconds)
	r.LongestListened = longest

	r.TotalTimePercentile = Percentile(pop.TotalSeconds, r.TotalListeningSeconds)
	r.CompletedPercentile = Percentile(pop.CompletedCounts, float64(r.CompletedCount))

	r.InProgress = inProgress(u, entries)
	r.MostRelistened = mostRelistened(relistenOrder, relistenCount, itemByID)

	stats := Stats{
		CompletedCount:     r.CompletedCount,
		TotalSeconds:       r.TotalListeningSeconds,
		DistinctCategories: categories.Len(),
		DistinctCreators:   creators.Len(),
	}
	for _, m := range Catalog() {
		r.Milestones = append(r.Milestones, MilestoneStatus{
			Name:     m.Name(),
			Achieved: m.Achieved(stats),
		})
	}
	if next := NextMilestone(stats); next != nil {
		r.NextMilestone = &NextMilestoneStat{
			Name:     next.Name(),
			Progress: next.Progress(stats),
		}
	}

	return r
}

// topFacets 按累计时长取前 k 个 facet 值（Distribution 的稳定 TopK）。
func topFacets(d *profile.Distribution, k int) []FacetStat {
	keys := d.TopK(k)
	out := make([]FacetStat, 0, len(keys))
	for _, key := range keys {
		out = append(out, FacetStat{Name: key, Seconds: d.Weight(key)})
	}
	return out
}

// topPerformers 按累计时长稳定降序取前 k 个演播者，同分按首次收听顺序。
func topPerformers(order []string, secs map[string]float64, items map[string]map[string]struct{}, k int) []PerformerStat {
	out := make([]PerformerStat, 0, len(order))
	for _, name := range order {
		out = append(out, PerformerStat{
			Name:      name,
			Seconds:   secs[name],
			ItemCount: len(items[name]),
		})
	}
	// 插入排序保持稳定（规模 ≤ 不同演播者数，通常很小）
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Seconds > out[j-1].Seconds; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// favoriteHour 取累计时长最大的小时；同分取更小的小时数；无收听返回 -1。
func favoriteHour(hours [24]float64, total float64) int {
	if total <= 0 {
		return -1
	}
	best := 0
	for h := 1; h < 24; h++ {
		if hours[h] > hours[best] {
			best = h
		}
	}
	return best
}

// inProgress 取"在听"物品：当前进度视图中未完成的条目。
// 当前进度 = 该物品最新一条会话记录（append-only 时间线派生）。
// 进度百分比不截断；物品时长为 0 时百分比取 0（除零保护）。
func inProgress(u *core.User, entries []profile.ResolvedEntry) []ProgressStat {
	if u == nil {
		return nil
	}
	idx := make(map[string]int)
	latest := make([]profile.ResolvedEntry, 0)
	for _, re := range entries {
		if i, ok := idx[re.Item.ID]; ok {
			latest[i] = re
			continue
		}
		idx[re.Item.ID] = len(latest)
		latest = append(latest, re)
	}

	out := make([]ProgressStat, 0, len(latest))
	for _, re := range latest {
		if u.IsCompleted(re.Item.ID) {
			continue
		}
		var percent float64
		if re.Item.DurationSeconds > 0 {
			percent = re.Entry.Progress / re.Item.DurationSeconds * 100
		}
		out = append(out, ProgressStat{Item: re.Item, Percent: percent})
	}
	return out
}

// mostRelistened 取时间线中出现次数最多的物品，同数取首次出现的。
func mostRelistened(order []string, count map[string]int, items map[string]*core.CatalogItem) *RelistenStat {
	var best *RelistenStat
	for _, id := range order {
		if best == nil || count[id] > best.Count {
			best = &RelistenStat{Item: items[id], Count: count[id]}
		}
	}
	return best
}
