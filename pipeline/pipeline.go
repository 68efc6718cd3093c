package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/shoprec/core"
)

// Pipeline 把推荐后处理拆成可组合的 Node 链（Filter → ReRank → PostProcess）。
type Pipeline struct {
	Nodes []Node
}

// Append 返回追加了 nodes 的新 Pipeline，不修改原 Pipeline。
func (p *Pipeline) Append(nodes ...Node) *Pipeline {
	out := &Pipeline{}
	if p != nil {
		out.Nodes = append(out.Nodes, p.Nodes...)
	}
	out.Nodes = append(out.Nodes, nodes...)
	return out
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if p == nil {
		return items, nil
	}
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}
