package core

import "time"

// RecallConfig 是召回/融合相关的配置接口，用于提供默认值。
type RecallConfig interface {
	// DefaultNeighborCount 返回协同过滤取的相似用户数
	DefaultNeighborCount() int

	// DefaultSimilarPerSeed 返回内容推荐每个种子商品取的相似商品数
	DefaultSimilarPerSeed() int

	// DefaultViewSeedLimit 返回无购买时取浏览商品作为种子的上限
	DefaultViewSeedLimit() int

	// DefaultSeedCount 返回冷启动默认种子数量（最小的 N 个商品 ID）
	DefaultSeedCount() int

	// DefaultRebuildTimeout 返回派生索引重建的超时时间
	DefaultRebuildTimeout() time.Duration
}

// DefaultRecallConfig 是默认的召回配置实现。
type DefaultRecallConfig struct{}

func (c *DefaultRecallConfig) DefaultNeighborCount() int {
	return 5
}

func (c *DefaultRecallConfig) DefaultSimilarPerSeed() int {
	return 5
}

func (c *DefaultRecallConfig) DefaultViewSeedLimit() int {
	return 3
}

func (c *DefaultRecallConfig) DefaultSeedCount() int {
	return 3
}

func (c *DefaultRecallConfig) DefaultRebuildTimeout() time.Duration {
	return 30 * time.Second
}
