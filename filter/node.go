package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/metrics"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/logging"
)

// FilterNode 依次应用 Filters，命中任一过滤器的商品被移除；过滤器出错时视为未命中。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string        { return "filter.node" }
func (n *FilterNode) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *FilterNode) Process(ctx context.Context, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	kept := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if by := n.rejectedBy(ctx, rctx, it); by != "" {
			logging.Debug().Int64("item", it.ID).Str("filter", by).Msg("item filtered")
			continue
		}
		kept = append(kept, it)
	}
	return kept, nil
}

// rejectedBy 返回第一个命中的过滤器名，未命中返回空串。
func (n *FilterNode) rejectedBy(ctx context.Context, rctx *core.RecommendContext, it *core.Item) string {
	for _, f := range n.Filters {
		hit, err := f.ShouldFilter(ctx, rctx, it)
		if err != nil {
			metrics.FilterErrors.WithLabelValues(f.Name()).Inc()
			logging.Warn().Err(err).Str("filter", f.Name()).Int64("item", it.ID).Msg("filter evaluation failed, item kept")
			continue
		}
		if hit {
			return f.Name()
		}
	}
	return ""
}
