package recall

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/dataset"
	"github.com/rushteam/shoprec/index"
	"github.com/rushteam/shoprec/pkg/utils"
)

// SimilarityIndex 是内容推荐依赖的商品相似度索引，由 index.Content 实现。
type SimilarityIndex interface {
	// MostSimilar 返回与商品最相似的 k 个其他商品
	MostSimilar(productID int64, k int) []index.SimilarProduct
}

var _ SimilarityIndex = (*index.Content)(nil)

// 种子来源，写入 seed_source label
const (
	SeedPurchase = "purchase"
	SeedView     = "view"
	SeedDefault  = "default"
)

// ContentRecall 是基于内容的召回源（Content-Based Recommendation）。
//
// 核心思想："推荐与用户接触过的商品在文本上相似的商品"
//
// 种子选择（命中第一条即止）：
//  1. 用户购买过的商品（去重）
//  2. 前 ViewSeedLimit 个浏览过的商品（去重）
//  3. 冷启动：目录中 ID 最小的 DefaultSeedCount 个商品
//
// 对每个种子（按种子顺序）取 SimilarPerSeed 个最相似商品，跳过种子本身，按首次出现顺序累积。
// 返回顺序即累积顺序，不按分数重排。
type ContentRecall struct {
	Index    SimilarityIndex
	Snapshot *dataset.Snapshot

	// TopK 返回的商品数，默认 20
	TopK int

	// SimilarPerSeed 每个种子取的相似商品数，默认 5
	SimilarPerSeed int

	// ViewSeedLimit 浏览种子上限，默认 3
	ViewSeedLimit int

	// DefaultSeedCount 冷启动默认种子数，默认 3
	DefaultSeedCount int
}

func (r *ContentRecall) Name() string {
	return "recall.content"
}

func (r *ContentRecall) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Index == nil || rctx == nil || rctx.UserID <= 0 || r.Snapshot.Empty() {
		return nil, nil
	}

	topK := r.TopK
	if topK <= 0 {
		topK = 20
	}
	perSeed := r.SimilarPerSeed
	if perSeed <= 0 {
		perSeed = 5
	}

	seeds, seedSource := r.Seeds(rctx.UserID)
	if len(seeds) == 0 {
		return nil, nil
	}
	isSeed := make(map[int64]struct{}, len(seeds))
	for _, id := range seeds {
		isSeed[id] = struct{}{}
	}

	out := make([]*core.Item, 0, topK)
	seen := make(map[int64]*core.Item)
	for _, seed := range seeds {
		for _, sp := range r.Index.MostSimilar(seed, perSeed) {
			if _, ok := isSeed[sp.ProductID]; ok {
				continue
			}
			if it, ok := seen[sp.ProductID]; ok {
				if sp.Similarity > it.Score {
					it.Score = sp.Similarity
				}
				continue
			}
			it := core.NewItem(sp.ProductID)
			it.Score = sp.Similarity
			it.PutLabel("seed_source", utils.Label{Value: seedSource, Source: "recall"})
			seen[sp.ProductID] = it
			out = append(out, it)
		}
	}

	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

// Seeds 返回用户的种子商品及其来源。只保留目录中存在的商品。
func (r *ContentRecall) Seeds(userID int64) ([]int64, string) {
	if ids := r.Snapshot.PurchasedIDs(userID); len(ids) > 0 {
		return ids, SeedPurchase
	}

	viewLimit := r.ViewSeedLimit
	if viewLimit <= 0 {
		viewLimit = 3
	}
	if ids := r.Snapshot.ViewedIDs(userID, viewLimit); len(ids) > 0 {
		return ids, SeedView
	}

	return LowestProductIDs(r.Snapshot.Catalog, r.DefaultSeedCount), SeedDefault
}

// LowestProductIDs 返回目录中最小的 n 个商品 ID（升序），n <= 0 时为 3。
func LowestProductIDs(catalog *dataset.Catalog, n int) []int64 {
	if n <= 0 {
		n = 3
	}
	ids := make([]int64, 0, catalog.Len())
	for i := 0; i < catalog.Len(); i++ {
		ids = append(ids, catalog.At(i).ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}
