// Package pipeline 把一次推荐拆成按阶段串联的 Node：召回 → 排序 → 过滤/重排 → 后处理。
package pipeline

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Kind 是 Node 所属的阶段，用于日志与指标分组。
type Kind string

const (
	KindRecall      Kind = "recall"      // 产出候选（协同过滤、内容相似）
	KindFilter      Kind = "filter"      // 剔除候选（黑名单、表达式）
	KindRank        Kind = "rank"        // 融合打分
	KindReRank      Kind = "rerank"      // 类目打散、截断
	KindPostProcess Kind = "postprocess" // 推荐理由等修饰
)

// Node 接收上一阶段的 items 并返回新的 items；召回类 Node 忽略输入。
type Node interface {
	Name() string
	Kind() Kind
	Process(ctx context.Context, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error)
}
