package core

import (
	"time"

	"github.com/rushteam/listenkit/pkg/utils"
)

// CatalogItem 是内容目录中的一条记录（有声书/播客等）。
// 对引擎而言只读：facet 字段（Category / Creators / Performer）驱动偏好建模与排序。
type CatalogItem struct {
	ID              string
	Title           string
	Creators        []string // 至少一个创作者；多创作者按 fan-out 计入偏好
	Performer       string   // 演播者（narrator）
	Category        string
	SeriesName      string // 可选，所属系列
	ReleaseTime     time.Time
	DurationSeconds float64
}

// HasCreator 判断物品是否带有指定创作者 facet。
func (it *CatalogItem) HasCreator(name string) bool {
	for _, c := range it.Creators {
		if c == name {
			return true
		}
	}
	return false
}

// Candidate 是推荐链路中的统一承载结构：目录物品、分数、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。单次请求内生成、消费，不落盘。
type Candidate struct {
	Item   *CatalogItem
	Score  float64
	Labels map[string]utils.Label
}

func NewCandidate(item *CatalogItem) *Candidate {
	return &Candidate{
		Item:   item,
		Score:  0,
		Labels: make(map[string]utils.Label),
	}
}

// ID 返回候选对应目录物品的 ID；物品为空时返回空串。
func (c *Candidate) ID() string {
	if c.Item == nil {
		return ""
	}
	return c.Item.ID
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}
