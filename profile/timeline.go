package profile

import (
	"context"

	"github.com/rushteam/listenkit/core"
)

// ResolvedEntry 是解析后的时间线条目：会话记录 + 对应的目录物品。
type ResolvedEntry struct {
	Entry core.TimelineEntry
	Item  *core.CatalogItem
}

// ResolveTimeline 将用户时间线逐条解析到目录物品，保持插入顺序。
//
// 目录是事实来源：引用了不存在物品的条目被静默丢弃（dangling reference
// 不是本引擎的错误条件），丢弃数量通过返回值交给调用方打 label。
// 其他存储错误原样透传。
func ResolveTimeline(ctx context.Context, store core.RecordStore, u *core.User) ([]ResolvedEntry, int, error) {
	if u == nil || len(u.Timeline) == 0 {
		return nil, 0, nil
	}

	resolved := make([]ResolvedEntry, 0, len(u.Timeline))
	dropped := 0

	// 同一物品可能在 append-only 时间线中出现多次，解析结果做一次缓存。
	cache := make(map[string]*core.CatalogItem)

	for _, e := range u.Timeline {
		item, ok := cache[e.ItemID]
		if !ok {
			var err error
			item, err = store.GetCatalogItem(ctx, e.ItemID)
			if err != nil {
				if core.IsNotFound(err) {
					cache[e.ItemID] = nil
					dropped++
					continue
				}
				return nil, dropped, err
			}
			cache[e.ItemID] = item
		}
		if item == nil {
			dropped++
			continue
		}
		resolved = append(resolved, ResolvedEntry{Entry: e, Item: item})
	}

	return resolved, dropped, nil
}
