// Package recall 产出候选商品：用户协同过滤、TF-IDF 内容相似，以及并发合并多路召回的 Fanout。
package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Source 是一路召回，返回有序、去重的候选。Name 会写入 recall_source label，
// 融合排序按它区分各路列表与权重。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
