package core

import "time"

// TimelineEntry 是一次收听会话的记录。
// Progress 以秒计，恒 ≥ 0；Timeline 为 append-only，引擎从不删除条目。
type TimelineEntry struct {
	ItemID         string
	LastActivityAt time.Time
	Progress       float64
}

// User 是引擎关心的用户快照。
//
// Timeline 语义（重要）：
//   - append-only：每次活动追加一条会话记录，同一物品可出现多次
//   - 当前进度 = 该物品最新一条记录（见 LatestEntries）
//   - 重复条目数驱动"最常重听"统计
//
// CompletedItemIDs 是完成状态的唯一权威来源；完成的物品不会从 Timeline
// 中移除，因此一个物品可以同时"在听"和"已完成"。
type User struct {
	ID               string
	Timeline         []TimelineEntry
	FavoriteItemIDs  []string
	CompletedItemIDs []string
}

func NewUser(id string) *User {
	return &User{
		ID:               id,
		Timeline:         make([]TimelineEntry, 0),
		FavoriteItemIDs:  make([]string, 0),
		CompletedItemIDs: make([]string, 0),
	}
}

// RecordActivity 记录一次收听活动（追加一条会话记录）。
func (u *User) RecordActivity(itemID string, at time.Time, progress float64) {
	if progress < 0 {
		progress = 0
	}
	u.Timeline = append(u.Timeline, TimelineEntry{
		ItemID:         itemID,
		LastActivityAt: at,
		Progress:       progress,
	})
}

// LatestEntries 按物品聚合出"当前进度"视图：每个物品取最新一条会话记录，
// 顺序保持该物品在 Timeline 中首次出现的顺序。
func (u *User) LatestEntries() []TimelineEntry {
	idx := make(map[string]int, len(u.Timeline))
	out := make([]TimelineEntry, 0, len(u.Timeline))
	for _, e := range u.Timeline {
		if i, ok := idx[e.ItemID]; ok {
			out[i] = e
			continue
		}
		idx[e.ItemID] = len(out)
		out = append(out, e)
	}
	return out
}

// AddFavorite 添加收藏（去重）。
func (u *User) AddFavorite(itemID string) {
	for _, id := range u.FavoriteItemIDs {
		if id == itemID {
			return
		}
	}
	u.FavoriteItemIDs = append(u.FavoriteItemIDs, itemID)
}

// MarkCompleted 标记完成（去重）。
func (u *User) MarkCompleted(itemID string) {
	for _, id := range u.CompletedItemIDs {
		if id == itemID {
			return
		}
	}
	u.CompletedItemIDs = append(u.CompletedItemIDs, itemID)
}

// IsCompleted 判断物品是否已完成。
func (u *User) IsCompleted(itemID string) bool {
	for _, id := range u.CompletedItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

// SeenSet 返回收藏 ∪ 已完成 的 ID 集合（协同过滤的排除集）。
func (u *User) SeenSet() map[string]struct{} {
	seen := make(map[string]struct{}, len(u.FavoriteItemIDs)+len(u.CompletedItemIDs))
	for _, id := range u.FavoriteItemIDs {
		seen[id] = struct{}{}
	}
	for _, id := range u.CompletedItemIDs {
		seen[id] = struct{}{}
	}
	return seen
}

// TotalListeningSeconds 汇总 Timeline 全部会话的收听时长。
func (u *User) TotalListeningSeconds() float64 {
	var total float64
	for _, e := range u.Timeline {
		total += e.Progress
	}
	return total
}
