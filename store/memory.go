package store

import (
	"context"
	"strconv"
	"sync"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pkg/strutil"
)

// MemoryRecordStore 是内存实现的 RecordStore，用于测试/开发/原型。
//
// 顺序语义："Store 顺序" = 记录写入顺序。候选生成与 peer 发现
// 都按此顺序截断，保证结果可复现。
//
// 并发语义：读写互斥；GetUser 返回快照副本，调用方读到的时间线
// 可能滞后但不会出现半写条目。
type MemoryRecordStore struct {
	mu sync.RWMutex

	users     map[string]*core.User
	userOrder []string

	items     map[string]*core.CatalogItem
	itemOrder []string
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{
		users: make(map[string]*core.User),
		items: make(map[string]*core.CatalogItem),
	}
}

func (m *MemoryRecordStore) Name() string { return "memory" }

// PutUser 写入/覆盖用户记录（首次写入时进入顺序索引）。
func (m *MemoryRecordStore) PutUser(u *core.User) {
	if u == nil || u.ID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		m.userOrder = append(m.userOrder, u.ID)
	}
	m.users[u.ID] = u
}

// PutItem 写入/覆盖目录物品。
func (m *MemoryRecordStore) PutItem(item *core.CatalogItem) {
	if item == nil || item.ID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		m.itemOrder = append(m.itemOrder, item.ID)
	}
	m.items[item.ID] = item
}

func (m *MemoryRecordStore) GetUser(_ context.Context, id string) (*core.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return snapshotUser(u), nil
}

func (m *MemoryRecordStore) GetCatalogItem(_ context.Context, id string) (*core.CatalogItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	if !ok {
		return nil, core.ErrItemNotFound
	}
	return item, nil
}

func (m *MemoryRecordStore) FindCatalogItems(_ context.Context, q core.CatalogQuery) ([]*core.CatalogItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	exclude := make(map[string]struct{}, len(q.ExcludeIDs))
	for _, id := range q.ExcludeIDs {
		exclude[id] = struct{}{}
	}

	out := make([]*core.CatalogItem, 0)
	for _, id := range m.itemOrder {
		if _, ok := exclude[id]; ok {
			continue
		}
		item := m.items[id]
		if !matchQuery(item, q) {
			continue
		}
		out = append(out, item)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryRecordStore) FindPeers(_ context.Context, u *core.User, limit int) ([]*core.User, error) {
	if u == nil {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	favorites := toSet(u.FavoriteItemIDs)
	completed := toSet(u.CompletedItemIDs)

	out := make([]*core.User, 0)
	for _, id := range m.userOrder {
		if id == u.ID {
			continue
		}
		peer := m.users[id]
		if intersects(peer.FavoriteItemIDs, favorites) || intersects(peer.CompletedItemIDs, completed) {
			out = append(out, snapshotUser(peer))
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MemoryRecordStore) ListUsers(_ context.Context, cursor string, limit int) ([]*core.User, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	offset := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, "", core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "store: bad cursor")
		}
		offset = n
	}
	if limit <= 0 {
		limit = 100
	}
	if offset >= len(m.userOrder) {
		return nil, "", nil
	}

	end := offset + limit
	if end > len(m.userOrder) {
		end = len(m.userOrder)
	}
	out := make([]*core.User, 0, end-offset)
	for _, id := range m.userOrder[offset:end] {
		out = append(out, snapshotUser(m.users[id]))
	}

	next := ""
	if end < len(m.userOrder) {
		next = strconv.Itoa(end)
	}
	return out, next, nil
}

func (m *MemoryRecordStore) Close() error { return nil }

// matchQuery 实现 facet 的 OR 匹配；全部 facet 列表为空时不命中任何物品。
func matchQuery(item *core.CatalogItem, q core.CatalogQuery) bool {
	for _, cat := range q.Categories {
		if item.Category == cat {
			return true
		}
	}
	for _, want := range q.Creators {
		for _, c := range item.Creators {
			if c == want {
				return true
			}
			if q.CreatorFuzzy > 0 && strutil.Similarity(c, want) >= q.CreatorFuzzy {
				return true
			}
		}
	}
	for _, p := range q.Performers {
		if item.Performer == p {
			return true
		}
	}
	return false
}

// snapshotUser 返回用户记录的快照副本（切片独立，条目为值拷贝）。
func snapshotUser(u *core.User) *core.User {
	cp := &core.User{
		ID:               u.ID,
		Timeline:         make([]core.TimelineEntry, len(u.Timeline)),
		FavoriteItemIDs:  make([]string, len(u.FavoriteItemIDs)),
		CompletedItemIDs: make([]string, len(u.CompletedItemIDs)),
	}
	copy(cp.Timeline, u.Timeline)
	copy(cp.FavoriteItemIDs, u.FavoriteItemIDs)
	copy(cp.CompletedItemIDs, u.CompletedItemIDs)
	return cp
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func intersects(ids []string, set map[string]struct{}) bool {
	for _, id := range ids {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

// 确保 MemoryRecordStore 实现了 core.RecordStore 接口
var _ core.RecordStore = (*MemoryRecordStore)(nil)
