// Package explain 基于用户已购商品名称生成推荐理由（规则模板，无模型调用）。
package explain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rushteam/shoprec/core"
)

// Rule 是一条类目关键词规则：已购商品名（小写）包含任一关键词即命中该类目。
type Rule struct {
	Category string
	Keywords []string
}

// DefaultRules 按声明顺序匹配。
var DefaultRules = []Rule{
	{Category: "Electronics", Keywords: []string{"headphone", "mouse", "charger", "laptop", "phone"}},
	{Category: "Sports & Fitness", Keywords: []string{"yoga", "fitness", "sport", "gym", "exercise"}},
	{Category: "Books", Keywords: []string{"book", "novel", "planner"}},
	{Category: "Home & Kitchen", Keywords: []string{"kitchen", "pan", "coffee", "bottle", "knife"}},
	{Category: "Fashion", Keywords: []string{"shoes", "jacket", "backpack", "glasses"}},
}

// Generator 生成推荐理由。
type Generator struct {
	Rules []Rule
}

// NewGenerator 使用 DefaultRules 创建 Generator。
func NewGenerator() *Generator {
	return &Generator{Rules: DefaultRules}
}

// MatchCategories 返回已购商品名命中的类目（按规则声明顺序，去重）。
func (g *Generator) MatchCategories(purchasedNames []string) []string {
	if len(purchasedNames) == 0 {
		return nil
	}
	lowered := make([]string, len(purchasedNames))
	for i, name := range purchasedNames {
		lowered[i] = strings.ToLower(name)
	}

	var out []string
	for _, rule := range g.rules() {
		if matchAny(lowered, rule.Keywords) {
			out = append(out, rule.Category)
		}
	}
	return out
}

// Explain 生成一句推荐理由。
//
// 命中类目时：
//
//	Based on your interest in A and B, we recommend this {name}. It has a {rating}/5 rating and offers excellent value at ${price}.
//
// 否则退化为引用商品自身类目与评分的通用句子。
func (g *Generator) Explain(product core.Product, purchasedNames []string) string {
	if categories := g.MatchCategories(purchasedNames); len(categories) > 0 {
		return fmt.Sprintf(
			"Based on your interest in %s, we recommend this %s. It has a %s/5 rating and offers excellent value at $%.2f.",
			strings.Join(categories, " and "), product.Name, FormatRating(product.Rating), product.Price,
		)
	}
	return fmt.Sprintf(
		"We think you'll love this %s! It's highly rated (%s/5) in the %s category.",
		product.Name, FormatRating(product.Rating), product.Category,
	)
}

// FormatRating 以最短形式输出评分，整数补 ".0"（4 → "4.0"，4.5 → "4.5"）。
func FormatRating(r float64) string {
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func (g *Generator) rules() []Rule {
	if g == nil || g.Rules == nil {
		return DefaultRules
	}
	return g.Rules
}

func matchAny(names []string, keywords []string) bool {
	for _, name := range names {
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				return true
			}
		}
	}
	return false
}
