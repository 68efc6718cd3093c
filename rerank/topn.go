package rerank

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// TopNNode 是 Top-N 截断节点，通常放在过滤/重排之后，把结果收敛到请求数量。
//
//	post := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &filter.FilterNode{...},  // 过滤
//	        &rerank.Diversity{...},   // 类目打散
//	        &rerank.TopNNode{},       // 截取请求的 N 个
//	    },
//	}
type TopNNode struct {
	// N 要保留的商品数量。
	// N <= 0 时使用 RecommendContext.N；两者都 <= 0 时不截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.N
	}
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
