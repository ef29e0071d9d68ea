package core

import (
	"time"

	"github.com/rushteam/listenkit/pkg/utils"
)

// RecommendContext 承载单次请求的用户/时间/标签信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string

	// Now 是本次请求的"当前时间"，用于时间窗统计与里程碑判定。
	// 零值表示由调用方兜底（engine 会填充 wall-clock）。
	Now time.Time

	// User 是请求前取到的用户快照。引擎容忍快照滞后：条目是原子记录，
	// 不存在半写状态，读写之间不提供超出 Store 的顺序保证。
	User *User

	// Labels 是请求级标签，用于 explain / 观测（如 timeline_dropped）。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（如 population_cap、fuzzy 阈值等）。
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
