// Package stats 汇总商品目录与行为日志的统计信息。
package stats

import (
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/dataset"
)

// PriceRange 是价格区间统计。
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Summary 是数据集统计。
type Summary struct {
	TotalProducts     int        `json:"total_products"`
	TotalUsers        int        `json:"total_users"`
	TotalInteractions int        `json:"total_interactions"`
	TotalPurchases    int        `json:"total_purchases"`
	Categories        []string   `json:"categories"`
	AvgRating         float64    `json:"avg_rating"`
	PriceRange        PriceRange `json:"price_range"`
}

// Empty 返回全零的统计。
func Empty() Summary {
	return Summary{Categories: []string{}}
}

// Summarize 统计快照。目录或行为日志为空时返回 Empty()。
func Summarize(snap *dataset.Snapshot) Summary {
	if snap.Empty() {
		return Empty()
	}

	s := Summary{
		TotalProducts:     snap.Catalog.Len(),
		TotalUsers:        len(snap.Log.Users()),
		TotalInteractions: snap.Log.Len(),
		Categories:        []string{},
	}
	for i := 0; i < snap.Log.Len(); i++ {
		if snap.Log.At(i).Type == core.InteractionPurchase {
			s.TotalPurchases++
		}
	}

	seen := make(map[string]struct{})
	var ratingSum, priceSum float64
	for i := 0; i < snap.Catalog.Len(); i++ {
		p := snap.Catalog.At(i)
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			s.Categories = append(s.Categories, p.Category)
		}
		ratingSum += p.Rating
		priceSum += p.Price
		if i == 0 || p.Price < s.PriceRange.Min {
			s.PriceRange.Min = p.Price
		}
		if i == 0 || p.Price > s.PriceRange.Max {
			s.PriceRange.Max = p.Price
		}
	}
	n := float64(s.TotalProducts)
	s.AvgRating = ratingSum / n
	s.PriceRange.Avg = priceSum / n
	return s
}
