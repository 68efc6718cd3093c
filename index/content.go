package index

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/dataset"
)

// Content 是商品×商品的内容相似度矩阵，基于 category + " " + description 的 TF-IDF 余弦相似度。
// 行列顺序与 Catalog 目录顺序一致，通过 id → 下标映射定位，不依赖商品 ID 连续。
type Content struct {
	catalog *dataset.Catalog
	tfidf   *TFIDF
	sim     [][]float64
}

// SimilarProduct 是一个相似商品。
type SimilarProduct struct {
	ProductID  int64
	Similarity float64
}

// BuildContent 对目录中所有商品拟合 TF-IDF 并计算完整的相似度矩阵。
func BuildContent(ctx context.Context, catalog *dataset.Catalog, workers int) (*Content, error) {
	c := &Content{catalog: catalog}
	n := catalog.Len()
	docs := make([]string, n)
	for i := 0; i < n; i++ {
		docs[i] = catalog.At(i).Content()
	}
	c.tfidf = FitTFIDF(docs)

	sim, err := squareMatrix(ctx, n, workers, func(i, j int) float64 {
		if i == j {
			return 1
		}
		return c.tfidf.Cosine(i, j)
	})
	if err != nil {
		return nil, err
	}
	c.sim = sim
	return c, nil
}

// Len 返回矩阵维度（商品数）。
func (c *Content) Len() int { return len(c.sim) }

// TFIDF 返回拟合的 TF-IDF 模型。
func (c *Content) TFIDF() *TFIDF { return c.tfidf }

// Similarity 返回两个商品的内容相似度，任一不存在时为 0。
func (c *Content) Similarity(a, b int64) float64 {
	i, ok := c.catalog.IndexOf(a)
	if !ok {
		return 0
	}
	j, ok := c.catalog.IndexOf(b)
	if !ok {
		return 0
	}
	return c.sim[i][j]
}

// MostSimilar 返回与 productID 最相似的 k 个其他商品（不含自身，不设相似度下限）。
// 按相似度降序，相同时商品 ID 升序。
func (c *Content) MostSimilar(productID int64, k int) []SimilarProduct {
	i, ok := c.catalog.IndexOf(productID)
	if !ok || k <= 0 {
		return nil
	}
	out := make([]SimilarProduct, 0, len(c.sim))
	for j, s := range c.sim[i] {
		if j == i {
			continue
		}
		out = append(out, SimilarProduct{ProductID: c.catalog.At(j).ID, Similarity: s})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Similarity != out[b].Similarity {
			return out[a].Similarity > out[b].Similarity
		}
		return out[a].ProductID < out[b].ProductID
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}
