package recall

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/index"
	"github.com/rushteam/shoprec/pkg/utils"
)

// NeighborIndex 是 User-CF 依赖的用户相似度索引，由 index.UserItem 实现。
type NeighborIndex interface {
	// Has 判断用户是否有购买行
	Has(userID int64) bool

	// Neighbors 返回最相似的 k 个其他用户（相似度 > 0，降序，同分按用户 ID 升序）
	Neighbors(userID int64, k int) []index.Neighbor

	// RatedProducts 返回用户评分 > 0 的商品
	RatedProducts(userID int64) []int64

	// Purchased 判断用户是否购买过商品
	Purchased(userID, productID int64) bool
}

var _ NeighborIndex = (*index.UserItem)(nil)

// UserBasedCF 是基于用户的协同过滤召回源（User-based Collaborative Filtering, User-CF）。
//
// 核心思想："兴趣相似的用户，喜欢相似的物品"
//
// 算法流程：
//  1. 用户 → 购买评分向量（UserItem 矩阵的一行）
//  2. 用户两两余弦相似度
//  3. 取 TopK 相似用户（不含自己）
//  4. 候选 = 相似用户评分 > 0 且目标用户未购买的商品；权重 = 购买过它的相似用户的相似度之和
//  5. 按权重降序、商品 ID 升序取前 TopKItems
//
// 没有购买记录的用户、没有任何相似用户的孤立用户都返回空列表。
type UserBasedCF struct {
	Index NeighborIndex

	// TopKSimilarUsers 取的相似用户数，默认 5
	TopKSimilarUsers int

	// TopKItems 最终返回的商品数，默认 20
	TopKItems int
}

func (r *UserBasedCF) Name() string {
	return "recall.u2i"
}

func (r *UserBasedCF) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Index == nil || rctx == nil || rctx.UserID <= 0 {
		return nil, nil
	}
	if !r.Index.Has(rctx.UserID) {
		return nil, nil
	}

	topKSimilar := r.TopKSimilarUsers
	if topKSimilar <= 0 {
		topKSimilar = 5
	}
	topK := r.TopKItems
	if topK <= 0 {
		topK = 20
	}

	neighbors := r.Index.Neighbors(rctx.UserID, topKSimilar)
	if len(neighbors) == 0 {
		return nil, nil
	}

	// score[productID] = Σ similarity
	scores := make(map[int64]float64)
	for _, nb := range neighbors {
		for _, pid := range r.Index.RatedProducts(nb.UserID) {
			if r.Index.Purchased(rctx.UserID, pid) {
				continue
			}
			scores[pid] += nb.Similarity
		}
	}

	type scoredItem struct {
		productID int64
		score     float64
	}
	scored := make([]scoredItem, 0, len(scores))
	for pid, s := range scores {
		scored = append(scored, scoredItem{productID: pid, score: s})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].productID < scored[j].productID
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}

	out := make([]*core.Item, 0, len(scored))
	for _, s := range scored {
		it := core.NewItem(s.productID)
		it.Score = s.score
		it.PutLabel("cf_metric", utils.Label{Value: "cosine", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
