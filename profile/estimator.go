package profile

import "context"

// 下游 Top-K 默认值：排序引擎取前 3 个类别、5 个创作者、3 个演播者。
const (
	DefaultTopCategories = 3
	DefaultTopCreators   = 5
	DefaultTopPerformers = 3
)

// Preferences 是用户在三个 facet 上的偏好分布 + 原始总收听时长。
//
// 不变量：每个非空分布的权重和为 1 ± ε；TotalSeconds 为 0 时三个分布均为空
// （"无偏好"而不是错误）。TotalSeconds 另供分析层使用。
type Preferences struct {
	Categories *Distribution
	Creators   *Distribution
	Performers *Distribution

	TotalSeconds float64
}

func NewPreferences() *Preferences {
	return &Preferences{
		Categories: NewDistribution(),
		Creators:   NewDistribution(),
		Performers: NewDistribution(),
	}
}

// Empty 判断是否为"无偏好"状态。
func (p *Preferences) Empty() bool {
	return p.Categories.Len() == 0 && p.Creators.Len() == 0 && p.Performers.Len() == 0
}

// TopCategories / TopCreators / TopPerformers 返回下游默认规模的 Top-K。
func (p *Preferences) TopCategories() []string { return p.Categories.TopK(DefaultTopCategories) }
func (p *Preferences) TopCreators() []string   { return p.Creators.TopK(DefaultTopCreators) }
func (p *Preferences) TopPerformers() []string { return p.Performers.TopK(DefaultTopPerformers) }

// BuildPreferences 由解析后的时间线推导偏好分布。
//
// 累加规则：每条会话把 Progress 计入物品携带的每个 facet 值；
// 多创作者物品向每个创作者各计入全额 Progress（fan-out，不分摊）。
// 三个 facet 共享同一分母：时间线全部 Progress 之和。
func BuildPreferences(entries []ResolvedEntry) *Preferences {
	p := NewPreferences()

	for _, re := range entries {
		seconds := re.Entry.Progress
		p.TotalSeconds += seconds

		if re.Item.Category != "" {
			p.Categories.Add(re.Item.Category, seconds)
		}
		for _, creator := range re.Item.Creators {
			p.Creators.Add(creator, seconds)
		}
		if re.Item.Performer != "" {
			p.Performers.Add(re.Item.Performer, seconds)
		}
	}

	p.Categories.Normalize(p.TotalSeconds)
	p.Creators.Normalize(p.TotalSeconds)
	p.Performers.Normalize(p.TotalSeconds)
	return p
}

// Provider 是偏好分布的来源抽象。
// 默认实现是从时间线现算（BuildPreferences）；也可以接预计算的
// 特征存储（见 FeastProvider），引擎在 Provider 失败时回退现算。
type Provider interface {
	Name() string
	Preferences(ctx context.Context, userID string) (*Preferences, error)
}
