package core

import "context"

// Store 是存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//
// 使用场景：
//   - 快照数据源：评分、书目的序列化载体
//   - 趋势榜发布：刷新周期结束后写出 zset 供旁路服务消费
//
// 实现：
//   - store.MemoryStore 实现此接口
//   - store.RedisStore 实现此接口
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Get 读取单个 key 的值
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	// Delete 删除单个 key
	Delete(ctx context.Context, key string) error

	// BatchGet 批量读取（减少网络往返）
	BatchGet(ctx context.Context, keys []string) (map[string][]byte, error)

	// BatchSet 批量写入
	BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error

	// Close 关闭连接/释放资源
	Close() error
}

// KeyValueStore 是 Store 的扩展接口，支持更丰富的 KV 操作。
//
// 扩展功能：
//   - 有序集合（SortedSet）：用于趋势榜发布与读取
//   - 哈希表（Hash）：用于书目元数据
//
// 如果后端不支持某些操作，可返回 NOT_SUPPORTED 的 DomainError。
type KeyValueStore interface {
	Store

	// ZAdd 向有序集合添加成员
	ZAdd(ctx context.Context, key string, score float64, member string) error

	// ZRange 按分数降序获取 [start, stop] 区间成员
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// ZScore 获取成员分数
	ZScore(ctx context.Context, key string, member string) (float64, error)

	// HGet 读取哈希字段
	HGet(ctx context.Context, key, field string) ([]byte, error)

	// HSet 写入哈希字段
	HSet(ctx context.Context, key, field string, value []byte) error

	// HGetAll 读取整个哈希
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)
}

// InteractionStore 是交互数据的外部协作方：按快照粒度整体拉取评分。
// 引擎只读消费；评分的持久化与写路径不在本库范围内。
type InteractionStore interface {
	// RatingMatrix 拉取当前全量评分（快照拉取，调用方不做增量合并）。
	RatingMatrix(ctx context.Context) ([]Rating, error)
}

// CatalogStore 是书目目录的外部协作方。
type CatalogStore interface {
	// Books 拉取当前全量书目，key 为书目 ID。
	Books(ctx context.Context) (map[string]*Book, error)
}
