package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pkg/strutil"
)

// Redis key 布局：
//   lk:user:{id}   → 用户记录 JSON
//   lk:item:{id}   → 目录物品 JSON
//   lk:users:index → zset，score = 注册序号，member = user id（"Store 顺序"）
//   lk:items:index → zset，score = 入库序号，member = item id
const (
	userKeyPrefix = "lk:user:"
	itemKeyPrefix = "lk:item:"
	userIndexKey  = "lk:users:index"
	itemIndexKey  = "lk:items:index"

	// scanPage 是索引遍历的分页大小
	scanPage = 200
)

// RedisRecordStore 是 Redis 实现的 RecordStore，生产环境常用。
//
// facet 查询与 peer 发现在客户端按索引顺序分页匹配：
// 目录与人群规模可控时足够；更大规模应在外围建 facet 倒排索引。
type RedisRecordStore struct {
	client *redis.Client
}

func NewRedisRecordStore(addr string, db int) (*RedisRecordStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisRecordStore{client: client}, nil
}

func (r *RedisRecordStore) Name() string { return "redis" }

// PutUser 写入用户记录并维护注册顺序索引。
func (r *RedisRecordStore) PutUser(ctx context.Context, u *core.User) error {
	if u == nil || u.ID == "" {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "store: user without id")
	}
	data, err := json.Marshal(userRecordFrom(u))
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, userKeyPrefix+u.ID, data, 0)
	pipe.ZAddNX(ctx, userIndexKey, redis.Z{Score: float64(time.Now().UnixNano()), Member: u.ID})
	_, err = pipe.Exec(ctx)
	return err
}

// PutItem 写入目录物品并维护入库顺序索引。
func (r *RedisRecordStore) PutItem(ctx context.Context, item *core.CatalogItem) error {
	if item == nil || item.ID == "" {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "store: item without id")
	}
	data, err := json.Marshal(itemRecordFrom(item))
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, itemKeyPrefix+item.ID, data, 0)
	pipe.ZAddNX(ctx, itemIndexKey, redis.Z{Score: float64(time.Now().UnixNano()), Member: item.ID})
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisRecordStore) GetUser(ctx context.Context, id string) (*core.User, error) {
	data, err := r.client.Get(ctx, userKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, core.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec userRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", id, err)
	}
	return rec.toUser(), nil
}

func (r *RedisRecordStore) GetCatalogItem(ctx context.Context, id string) (*core.CatalogItem, error) {
	data, err := r.client.Get(ctx, itemKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, core.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec itemRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode item %s: %w", id, err)
	}
	return rec.toItem(), nil
}

func (r *RedisRecordStore) FindCatalogItems(ctx context.Context, q core.CatalogQuery) ([]*core.CatalogItem, error) {
	exclude := make(map[string]struct{}, len(q.ExcludeIDs))
	for _, id := range q.ExcludeIDs {
		exclude[id] = struct{}{}
	}

	out := make([]*core.CatalogItem, 0)
	for start := int64(0); ; start += scanPage {
		ids, err := r.client.ZRange(ctx, itemIndexKey, start, start+scanPage-1).Result()
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			break
		}
		for _, id := range ids {
			if _, ok := exclude[id]; ok {
				continue
			}
			item, err := r.GetCatalogItem(ctx, id)
			if err != nil {
				if core.IsNotFound(err) {
					continue // 索引滞后于删除，跳过
				}
				return nil, err
			}
			if !matchRedisQuery(item, q) {
				continue
			}
			out = append(out, item)
			if q.Limit > 0 && len(out) >= q.Limit {
				return out, nil
			}
		}
	}
	return out, nil
}

func (r *RedisRecordStore) FindPeers(ctx context.Context, u *core.User, limit int) ([]*core.User, error) {
	if u == nil {
		return nil, nil
	}
	favorites := toSet(u.FavoriteItemIDs)
	completed := toSet(u.CompletedItemIDs)

	out := make([]*core.User, 0)
	for start := int64(0); ; start += scanPage {
		ids, err := r.client.ZRange(ctx, userIndexKey, start, start+scanPage-1).Result()
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			break
		}
		for _, id := range ids {
			if id == u.ID {
				continue
			}
			peer, err := r.GetUser(ctx, id)
			if err != nil {
				if core.IsNotFound(err) {
					continue
				}
				return nil, err
			}
			if intersects(peer.FavoriteItemIDs, favorites) || intersects(peer.CompletedItemIDs, completed) {
				out = append(out, peer)
				if limit > 0 && len(out) >= limit {
					return out, nil
				}
			}
		}
	}
	return out, nil
}

func (r *RedisRecordStore) ListUsers(ctx context.Context, cursor string, limit int) ([]*core.User, string, error) {
	offset := int64(0)
	if cursor != "" {
		n, err := strconv.ParseInt(cursor, 10, 64)
		if err != nil {
			return nil, "", core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "store: bad cursor")
		}
		offset = n
	}
	if limit <= 0 {
		limit = 100
	}

	ids, err := r.client.ZRange(ctx, userIndexKey, offset, offset+int64(limit)-1).Result()
	if err != nil {
		return nil, "", err
	}
	out := make([]*core.User, 0, len(ids))
	for _, id := range ids {
		u, err := r.GetUser(ctx, id)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, "", err
		}
		out = append(out, u)
	}

	next := ""
	if len(ids) == limit {
		next = strconv.FormatInt(offset+int64(limit), 10)
	}
	return out, next, nil
}

func (r *RedisRecordStore) Close() error {
	return r.client.Close()
}

func matchRedisQuery(item *core.CatalogItem, q core.CatalogQuery) bool {
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

// userRecord / itemRecord 是落盘的 JSON 形态，与领域类型解耦。

type timelineRecord struct {
	ItemID         string    `json:"item_id"`
	LastActivityAt time.Time `json:"last_activity_at"`
	Progress       float64   `json:"progress"`
}

type userRecord struct {
	ID               string           `json:"id"`
	Timeline         []timelineRecord `json:"timeline"`
	FavoriteItemIDs  []string         `json:"favorite_item_ids"`
	CompletedItemIDs []string         `json:"completed_item_ids"`
}

func userRecordFrom(u *core.User) userRecord {
	rec := userRecord{
		ID:               u.ID,
		Timeline:         make([]timelineRecord, 0, len(u.Timeline)),
		FavoriteItemIDs:  u.FavoriteItemIDs,
		CompletedItemIDs: u.CompletedItemIDs,
	}
	for _, e := range u.Timeline {
		rec.Timeline = append(rec.Timeline, timelineRecord{
			ItemID:         e.ItemID,
			LastActivityAt: e.LastActivityAt,
			Progress:       e.Progress,
		})
	}
	return rec
}

func (rec userRecord) toUser() *core.User {
	u := core.NewUser(rec.ID)
	for _, e := range rec.Timeline {
		u.Timeline = append(u.Timeline, core.TimelineEntry{
			ItemID:         e.ItemID,
			LastActivityAt: e.LastActivityAt,
			Progress:       e.Progress,
		})
	}
	if rec.FavoriteItemIDs != nil {
		u.FavoriteItemIDs = rec.FavoriteItemIDs
	}
	if rec.CompletedItemIDs != nil {
		u.CompletedItemIDs = rec.CompletedItemIDs
	}
	return u
}

type itemRecord struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Creators        []string  `json:"creators"`
	Performer       string    `json:"performer"`
	Category        string    `json:"category"`
	SeriesName      string    `json:"series_name,omitempty"`
	ReleaseTime     time.Time `json:"release_time"`
	DurationSeconds float64   `json:"duration_seconds"`
}

func itemRecordFrom(item *core.CatalogItem) itemRecord {
	return itemRecord{
		ID:              item.ID,
		Title:           item.Title,
		Creators:        item.Creators,
		Performer:       item.Performer,
		Category:        item.Category,
		SeriesName:      item.SeriesName,
		ReleaseTime:     item.ReleaseTime,
		DurationSeconds: item.DurationSeconds,
	}
}

func (rec itemRecord) toItem() *core.CatalogItem {
	return &core.CatalogItem{
		ID:              rec.ID,
		Title:           rec.Title,
		Creators:        rec.Creators,
		Performer:       rec.Performer,
		Category:        rec.Category,
		SeriesName:      rec.SeriesName,
		ReleaseTime:     rec.ReleaseTime,
		DurationSeconds: rec.DurationSeconds,
	}
}

// 确保 RedisRecordStore 实现了 core.RecordStore 接口
var _ core.RecordStore = (*RedisRecordStore)(nil)
