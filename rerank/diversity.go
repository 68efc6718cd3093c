package rerank

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// Diversity 是按类目打散的 ReRank：每个类目最多保留 MaxPerCategory 个商品，保持原有顺序。
// 类目来源优先级：
// - label[LabelKey].Value
// - meta[LabelKey] (string)
// 取不到类目的商品不受限制。
type Diversity struct {
	LabelKey       string // 默认 "category"
	MaxPerCategory int    // 默认 1
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	key := n.LabelKey
	if key == "" {
		key = "category"
	}
	limit := n.MaxPerCategory
	if limit <= 0 {
		limit = 1
	}

	counts := make(map[string]int, 16)
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		cate := it.Label(key)
		if cate == "" {
			if s, ok := it.Meta[key].(string); ok {
				cate = s
			}
		}
		if cate == "" {
			out = append(out, it)
			continue
		}
		if counts[cate] >= limit {
			continue
		}
		counts[cate]++
		out = append(out, it)
	}
	return out, nil
}
