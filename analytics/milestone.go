package analytics

import "fmt"

// Stats 是里程碑判定用的计数器快照。
type Stats struct {
	CompletedCount     int
	TotalSeconds       float64
	DistinctCategories int
	DistinctCreators   int
}

// MilestoneKind 是里程碑的带标签变体：每种里程碑自带达成判定与进度计算，
// 避免按名称字符串分发。进度为百分比且不做 [0,100] 截断。
type MilestoneKind interface {
	Name() string
	Achieved(s Stats) bool
	Progress(s Stats) float64
}

// FirstCompleted 完成第一个物品。
type FirstCompleted struct{}

func (FirstCompleted) Name() string            { return "First item completed" }
func (FirstCompleted) Achieved(s Stats) bool   { return s.CompletedCount >= 1 }
func (FirstCompleted) Progress(s Stats) float64 {
	return float64(s.CompletedCount) * 100
}

// CountCompleted 完成 N 个物品。
type CountCompleted struct{ N int }

func (m CountCompleted) Name() string          { return fmt.Sprintf("%d items completed", m.N) }
func (m CountCompleted) Achieved(s Stats) bool { return s.CompletedCount >= m.N }
func (m CountCompleted) Progress(s Stats) float64 {
	if m.N <= 0 {
		return 0
	}
	return float64(s.CompletedCount) / float64(m.N) * 100
}

// HoursListened 累计收听 N 小时。
type HoursListened struct{ Hours int }

func (m HoursListened) Name() string          { return fmt.Sprintf("%d hours listened", m.Hours) }
func (m HoursListened) Achieved(s Stats) bool { return s.TotalSeconds >= float64(m.Hours)*3600 }
func (m HoursListened) Progress(s Stats) float64 {
	if m.Hours <= 0 {
		return 0
	}
	return s.TotalSeconds / (float64(m.Hours) * 3600) * 100
}

// DistinctCategories 探索 N 个不同类别。
type DistinctCategories struct{ N int }

func (m DistinctCategories) Name() string          { return fmt.Sprintf("%d distinct categories explored", m.N) }
func (m DistinctCategories) Achieved(s Stats) bool { return s.DistinctCategories >= m.N }
func (m DistinctCategories) Progress(s Stats) float64 {
	if m.N <= 0 {
		return 0
	}
	return float64(s.DistinctCategories) / float64(m.N) * 100
}

// DistinctCreators 探索 N 个不同创作者。
type DistinctCreators struct{ N int }

func (m DistinctCreators) Name() string          { return fmt.Sprintf("%d distinct creators explored", m.N) }
func (m DistinctCreators) Achieved(s Stats) bool { return s.DistinctCreators >= m.N }
func (m DistinctCreators) Progress(s Stats) float64 {
	if m.N <= 0 {
		return 0
	}
	return float64(s.DistinctCreators) / float64(m.N) * 100
}

// Catalog 返回固定顺序的里程碑目录。"next" 取第一个未达成的。
func Catalog() []MilestoneKind {
	return []MilestoneKind{
		FirstCompleted{},
		CountCompleted{N: 5},
		CountCompleted{N: 10},
		HoursListened{Hours: 24},
		HoursListened{Hours: 100},
		DistinctCategories{N: 5},
		DistinctCreators{N: 10},
	}
}

// NextMilestone 返回目录中第一个未达成的里程碑；全部达成时返回 nil。
func NextMilestone(s Stats) MilestoneKind {
	for _, m := range Catalog() {
		if !m.Achieved(s) {
			return m
		}
	}
	return nil
}
