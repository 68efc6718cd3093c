// Package dsl 是基于 CEL (Common Expression Language) 的 Label/Item 表达式解释器。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/shoprec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译后的表达式，可被并发求值。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：label.recall_source == "recall.u2i"
//   - 数值：item.score > 0.7 / item.meta.price <= 50.0
//   - 逻辑：label.category == "Books" && item.score > 0.8
//   - 包含：label.recall_source.contains("content")
//
// 访问不存在的 label key 会求值出错，可先用 "key" in label 判断。
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式，表达式必须返回 bool。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	if ast.OutputType() != cel.BoolType && ast.OutputType() != cel.DynType {
		return nil, fmt.Errorf("expression %q must return bool, got %v", expr, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Eval 对 item / rctx 求值。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q must return boolean, got %T", p.expr, out.Value())
	}
	return result, nil
}

// Evaluate 编译并求值一次，适合只用一次的表达式。空表达式视为 true。
func Evaluate(expr string, item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if expr == "" {
		return true, nil
	}
	p, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return p.Eval(item, rctx)
}

func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any)
	itemMap := map[string]any{}
	if item != nil {
		for k, v := range item.Labels {
			labels[k] = v.Value
		}
		meta := make(map[string]any, len(item.Meta))
		for k, v := range item.Meta {
			if p, ok := v.(core.Product); ok {
				// 商品字段平铺到 meta，便于 item.meta.price 之类的表达式
				meta["name"] = p.Name
				meta["category"] = p.Category
				meta["price"] = p.Price
				meta["rating"] = p.Rating
				continue
			}
			meta[k] = v
		}
		itemMap = map[string]any{
			"id":    item.ID,
			"score": item.Score,
			"meta":  meta,
		}
	}

	rctxMap := map[string]any{}
	if rctx != nil {
		purchased := rctx.PurchasedNames
		if purchased == nil {
			purchased = []string{}
		}
		rctxMap = map[string]any{
			"user_id":   rctx.UserID,
			"n":         rctx.N,
			"purchased": purchased,
		}
	}

	return map[string]any{
		"item":  itemMap,
		"label": labels,
		"rctx":  rctxMap,
	}
}
