package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/dsl"
)

// ExprFilter 用 CEL 表达式过滤：表达式为 true 的商品被保留，false 被过滤。
//
// 示例：
//   - `item.meta.price <= 100.0`
//   - `label.category != "Books"`
//   - `item.meta.rating >= 4.0 && rctx.user_id != 7`
type ExprFilter struct {
	program *dsl.Program
}

// NewExprFilter 编译表达式，编译失败时返回错误。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{program: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	keep, err := f.program.Eval(item, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
