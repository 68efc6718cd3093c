package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Filter 决定候选商品是否被剔除：ShouldFilter 返回 true 即剔除。
type Filter interface {
	Name() string
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}

// Func 把普通函数包装成 Filter，便于在代码中临时组合规则。
type Func struct {
	FilterName string
	Fn         func(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}

func (f Func) Name() string {
	if f.FilterName == "" {
		return "filter.func"
	}
	return f.FilterName
}

func (f Func) ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if f.Fn == nil {
		return false, nil
	}
	return f.Fn(ctx, rctx, item)
}
