package core

import "context"

// DataStore 是商品与行为数据的来源（SQL、内存、文件等）。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 只暴露"全量读取"，校验与清洗是 DataStore 的职责
//   - 读取失败不应导致核心崩溃，引擎会退化为空数据集
type DataStore interface {
	// Name 返回数据源名称（用于日志/监控）
	Name() string

	// ReadProducts 读取全部商品
	ReadProducts(ctx context.Context) ([]Product, error)

	// ReadInteractions 读取全部用户行为
	ReadInteractions(ctx context.Context) ([]Interaction, error)
}

// Store 是 KV 存储的领域接口，用于推荐结果缓存。
//
// 实现：
//   - store.MemoryStore
//   - store.RedisStore
//   - store.BreakerStore（熔断包装）
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Get 读取单个 key 的值
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value，ttl 单位为秒
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	// Close 关闭连接/释放资源
	Close() error
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrStoreNotFound 表示 key 不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

	// ErrStoreUnavailable 表示存储暂不可用（如熔断打开）
	ErrStoreUnavailable = NewDomainError(ModuleStore, ErrorCodeUnavailable, "store: backend unavailable")
)

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
