package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/dataset"
	"github.com/rushteam/shoprec/explain"
	"github.com/rushteam/shoprec/metrics"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// Recommendation 是带分数与推荐理由的商品。
type Recommendation struct {
	core.Product
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`

	// Sources 是产出该商品的召回源（recall.u2i / recall.content）
	Sources []string `json:"sources"`
}

// Recommend 返回用户的融合推荐及推荐理由。
//
// 流程：HybridRank → 补全商品信息 → 后处理 Pipeline（可选）→ 生成理由。
// 启用结果缓存时按 数据代/用户/n 缓存，数据重新加载后自然失效。
func (e *Engine) Recommend(ctx context.Context, userID int64, n int) (recs []Recommendation, err error) {
	defer func(start time.Time) { metrics.ObserveOperation("recommend", start, err) }(time.Now())

	return e.recommend(ctx, e.snapshot(), userID, n)
}

// recommend 在固定的一代快照上完成排序、补全与缓存。
func (e *Engine) recommend(ctx context.Context, snap *dataset.Snapshot, userID int64, n int) ([]Recommendation, error) {
	if snap == nil {
		return nil, core.ErrUninitialized
	}
	if err := checkArgs(userID, n); err != nil {
		return nil, err
	}
	if n == 0 {
		return []Recommendation{}, nil
	}

	key := fmt.Sprintf("shoprec:rec:%d:%d:%d", snap.Generation, userID, n)
	if cached, ok := e.cachedRecommendations(ctx, key); ok {
		return cached, nil
	}

	items, err := e.hybridItems(ctx, snap, userID, n)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0)
	for _, p := range snap.PurchasedProducts(userID) {
		names = append(names, p.Name)
	}
	rctx := &core.RecommendContext{UserID: userID, N: n, PurchasedNames: names}

	for _, it := range items {
		p, ok := snap.Catalog.Get(it.ID)
		if !ok {
			continue
		}
		if it.Meta == nil {
			it.Meta = make(map[string]any)
		}
		it.Meta[explain.MetaProduct] = p
		it.PutLabel("category", utils.Label{Value: p.Category, Source: "catalog"})
	}

	post := e.post.Append(&explain.Node{Generator: e.explainer})
	items, err = post.Run(ctx, rctx, items)
	if err != nil {
		return nil, fmt.Errorf("post pipeline: %w", err)
	}

	recs := make([]Recommendation, 0, len(items))
	for _, it := range items {
		p, ok := it.Meta[explain.MetaProduct].(core.Product)
		if !ok {
			continue
		}
		recs = append(recs, Recommendation{
			Product:     p,
			Score:       it.Score,
			Explanation: it.Label(explain.LabelExplanation),
			Sources:     it.Labels["recall_source"].Values(),
		})
	}

	e.storeRecommendations(ctx, key, recs)
	return recs, nil
}

// PostPipeline 返回当前的后处理 Pipeline（可能为 nil）。
func (e *Engine) PostPipeline() *pipeline.Pipeline {
	return e.post
}

func (e *Engine) cachedRecommendations(ctx context.Context, key string) ([]Recommendation, bool) {
	if e.results == nil {
		return nil, false
	}
	data, err := e.results.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			metrics.ResultCacheRequests.WithLabelValues("miss").Inc()
		} else {
			metrics.ResultCacheRequests.WithLabelValues("error").Inc()
			e.logger.Warn().Err(err).Str("key", key).Msg("result cache read failed")
		}
		return nil, false
	}
	var recs []Recommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		metrics.ResultCacheRequests.WithLabelValues("error").Inc()
		e.logger.Warn().Err(err).Str("key", key).Msg("result cache entry corrupt")
		return nil, false
	}
	metrics.ResultCacheRequests.WithLabelValues("hit").Inc()
	return recs, true
}

func (e *Engine) storeRecommendations(ctx context.Context, key string, recs []Recommendation) {
	if e.results == nil {
		return
	}
	data, err := json.Marshal(recs)
	if err != nil {
		e.logger.Warn().Err(err).Msg("encode recommendations")
		return
	}
	var ttl []int
	if e.resultTTL > 0 {
		ttl = []int{int(e.resultTTL / time.Second)}
	}
	if err := e.results.Set(ctx, key, data, ttl...); err != nil {
		e.logger.Warn().Err(err).Str("key", key).Msg("result cache write failed")
	}
}
