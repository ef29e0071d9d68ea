package core

import "context"

// CatalogQuery 是目录候选查询。各 facet 列表之间为 OR 语义：
// 命中任一 facet 即为候选。排除在截断之前生效，顺序由 Store 定义，不重排。
type CatalogQuery struct {
	Categories []string
	Creators   []string
	Performers []string

	// ExcludeIDs 从结果中排除的物品（通常为已完成集合）。
	ExcludeIDs []string

	// CreatorFuzzy 大于 0 时，Creators 匹配使用归一化编辑距离相似度，
	// 阈值取该值（0~1]；0 表示精确匹配。用于 facet 标签的模糊对齐。
	CreatorFuzzy float64

	// Limit 候选上限（排除后截断）；<= 0 表示不截断。
	Limit int
}

// RecordStore 是记录存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 依赖倒置：引擎只依赖本接口，不依赖具体后端
//   - 引擎自身无持久状态，所有读取都是调用前的快照
//
// 实现：
//   - store.MemoryRecordStore（测试/原型）
//   - store.RedisRecordStore（生产）
type RecordStore interface {
	// Name 返回存储后端名称（用于观测标签）
	Name() string

	// GetUser 按 ID 获取用户；不存在时返回 NOT_FOUND 的 DomainError
	GetUser(ctx context.Context, id string) (*User, error)

	// GetCatalogItem 按 ID 获取目录物品；不存在时返回 NOT_FOUND
	GetCatalogItem(ctx context.Context, id string) (*CatalogItem, error)

	// FindCatalogItems 按 facet 查询候选物品（OR 语义，见 CatalogQuery）
	FindCatalogItems(ctx context.Context, q CatalogQuery) ([]*CatalogItem, error)

	// FindPeers 查找口味重叠的用户：收藏与收藏相交、或完成与完成相交，
	// 排除目标用户自身，按 Store 顺序截断到 limit
	FindPeers(ctx context.Context, u *User, limit int) ([]*User, error)

	// ListUsers 分页遍历用户（用于百分位统计）。cursor 为空表示从头开始；
	// 返回的 next 为空表示遍历结束
	ListUsers(ctx context.Context, cursor string, limit int) (users []*User, next string, err error)

	// Close 关闭连接/释放资源
	Close() error
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrUserNotFound 表示用户不存在
	ErrUserNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: user not found")

	// ErrItemNotFound 表示目录物品不存在
	ErrItemNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: catalog item not found")
)
