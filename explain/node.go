package explain

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// MetaProduct 是 Item.Meta 中存放 core.Product 的 key。
const MetaProduct = "product"

// LabelExplanation 是推荐理由写入的 label key。
const LabelExplanation = "explanation"

// Node 是后处理 Node：为每个带商品信息的 Item 写入 explanation label。
// 已购商品名来自 RecommendContext.PurchasedNames。
type Node struct {
	Generator *Generator
}

func (n *Node) Name() string        { return "postprocess.explain" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *Node) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	var names []string
	if rctx != nil {
		names = rctx.PurchasedNames
	}
	for _, it := range items {
		if it == nil {
			continue
		}
		p, ok := it.Meta[MetaProduct].(core.Product)
		if !ok {
			continue
		}
		if it.Labels == nil {
			it.Labels = make(map[string]utils.Label)
		}
		it.Labels[LabelExplanation] = utils.Label{Value: n.Generator.Explain(p, names), Source: "postprocess"}
	}
	return items, nil
}
