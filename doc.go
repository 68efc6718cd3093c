// Package shoprec 是一个混合商品推荐服务。
//
// 设计要点：
// - Engine 是显式构造的上下文对象：持有数据快照与按数据代缓存的派生索引，不使用全局单例
// - 三路排序：用户协同过滤（recall.u2i）、TF-IDF 内容相似（recall.content）、按位置分融合（rank.hybrid）
// - Pipeline-first: Recommend 的后处理（过滤、打散、截断、推荐理由）通过 Node 串联，可由 YAML 配置
// - Labels-first: 召回来源、种子来源、推荐理由以 label 形式全链路透传
package shoprec

import (
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/engine"
	"github.com/rushteam/shoprec/pipeline"
)

// 轻量 facade：便于直接 import "shoprec" 使用核心抽象。
type (
	Engine         = engine.Engine
	Option         = engine.Option
	Recommendation = engine.Recommendation
	Product        = core.Product
	Interaction    = core.Interaction
	DataStore      = core.DataStore
	Pipeline       = pipeline.Pipeline
	Node           = pipeline.Node
	Kind           = pipeline.Kind
)

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

// New 创建推荐引擎，等同于 engine.New。
func New(source DataStore, opts ...Option) *Engine {
	return engine.New(source, opts...)
}
