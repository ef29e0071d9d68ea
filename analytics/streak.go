package analytics

import (
	"sort"
	"time"
)

// CurrentStreak 计算从最近活动日起算的连续活动天数。
//
// 日历日按 UTC 取（与源数据的 ISO 时间戳约定一致）；
// 活动日去重后降序排列，从最近一天开始数严格连续的天数。
// 孤立的一天也是长度 1 的 streak；没有任何活动时为 0。
// streak 不要求包含"今天"——只看最近活动日向前的连续性。
func CurrentStreak(times []time.Time) int {
	if len(times) == 0 {
		return 0
	}

	daySet := make(map[time.Time]struct{}, len(times))
	for _, t := range times {
		u := t.UTC()
		day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
		daySet[day] = struct{}{}
	}

	days := make([]time.Time, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) != 24*time.Hour {
			break
		}
		streak++
	}
	return streak
}
