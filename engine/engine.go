// Package engine 是推荐引擎：显式构造的上下文对象，持有当前数据快照与派生索引缓存，
// 对外提供协同过滤、内容、融合三路排序以及推荐理由与统计。
//
// 引擎接口只使用 core 中的实体与基础类型，不依赖 HTTP 等传输层。
package engine

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/dataset"
	"github.com/rushteam/shoprec/explain"
	"github.com/rushteam/shoprec/index"
	"github.com/rushteam/shoprec/metrics"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/logging"
	"github.com/rushteam/shoprec/rank"
	"github.com/rushteam/shoprec/recall"
	"github.com/rushteam/shoprec/stats"
)

// Engine 是推荐引擎。
//
// 生命周期：New → Load（失败时退化为空数据集）→ 查询 → Reload。
// Load 之前的任何查询都返回 core.ErrUninitialized。
// 快照与索引构建后只读，多个请求可并发查询。
type Engine struct {
	source core.DataStore
	logger zerolog.Logger

	neighborCount    int
	similarPerSeed   int
	viewSeedLimit    int
	defaultSeedCount int
	collabWeight     float64
	contentWeight    float64

	explainer *explain.Generator
	post      *pipeline.Pipeline

	results   core.Store
	resultTTL time.Duration

	indexes *index.Cache

	mu   sync.RWMutex
	snap *dataset.Snapshot
	gen  uint64
}

// Option 是引擎的配置选项，采用函数式选项模式。
type Option func(*Engine)

// WithNeighborCount 设置协同过滤的相似用户数（默认 5）。
func WithNeighborCount(n int) Option {
	return func(e *Engine) { e.neighborCount = n }
}

// WithSeeds 设置内容推荐的种子参数：每个种子的相似商品数、浏览种子上限、冷启动种子数。
func WithSeeds(similarPerSeed, viewSeedLimit, defaultSeedCount int) Option {
	return func(e *Engine) {
		e.similarPerSeed = similarPerSeed
		e.viewSeedLimit = viewSeedLimit
		e.defaultSeedCount = defaultSeedCount
	}
}

// WithWeights 设置融合权重（默认 0.6 / 0.4）。
func WithWeights(collab, content float64) Option {
	return func(e *Engine) {
		e.collabWeight = collab
		e.contentWeight = content
	}
}

// WithIndexBuild 设置派生索引的重建超时与并发数。
func WithIndexBuild(timeout time.Duration, workers int) Option {
	return func(e *Engine) { e.indexes = index.NewCache(timeout, workers) }
}

// WithExplainer 替换推荐理由生成器。
func WithExplainer(g *explain.Generator) Option {
	return func(e *Engine) { e.explainer = g }
}

// WithPostPipeline 设置 Recommend 的后处理 Pipeline（过滤、打散、截断等），在生成理由之前执行。
func WithPostPipeline(p *pipeline.Pipeline) Option {
	return func(e *Engine) { e.post = p }
}

// WithResultCache 启用推荐结果缓存。ttl <= 0 表示不过期（直到数据代变化）。
func WithResultCache(s core.Store, ttl time.Duration) Option {
	return func(e *Engine) {
		e.results = s
		e.resultTTL = ttl
	}
}

// New 创建引擎。创建后需调用 Load 加载数据。
func New(source core.DataStore, opts ...Option) *Engine {
	defaults := &core.DefaultRecallConfig{}
	e := &Engine{
		source:           source,
		logger:           logging.Component("engine"),
		neighborCount:    defaults.DefaultNeighborCount(),
		similarPerSeed:   defaults.DefaultSimilarPerSeed(),
		viewSeedLimit:    defaults.DefaultViewSeedLimit(),
		defaultSeedCount: defaults.DefaultSeedCount(),
		collabWeight:     rank.DefaultCollaborativeWeight,
		contentWeight:    rank.DefaultContentWeight,
		explainer:        explain.NewGenerator(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.indexes == nil {
		e.indexes = index.NewCache(defaults.DefaultRebuildTimeout(), 0)
	}
	return e
}

// Load 从 DataStore 读取全部商品与行为并替换当前快照。
//
// 读取失败时安装空快照（之后的查询返回空列表与全零统计）并返回错误。
func (e *Engine) Load(ctx context.Context) error {
	start := time.Now()
	products, interactions, err := e.read(ctx)

	e.mu.Lock()
	e.gen++
	gen := e.gen
	if err != nil {
		e.snap = dataset.NewSnapshot(nil, nil, gen)
	} else {
		e.snap = dataset.NewSnapshot(products, interactions, gen)
	}
	snap := e.snap
	e.mu.Unlock()
	e.indexes.Invalidate()

	metrics.DatasetGeneration.Set(float64(gen))
	metrics.DatasetRecords.WithLabelValues("products").Set(float64(snap.Catalog.Len()))
	metrics.DatasetRecords.WithLabelValues("interactions").Set(float64(snap.Log.Len()))
	metrics.ObserveOperation("load", start, err)
	if err != nil {
		metrics.DatasetLoads.WithLabelValues("error").Inc()
		e.logger.Error().Err(err).Uint64("generation", gen).Msg("dataset load failed, serving empty dataset")
		return err
	}
	metrics.DatasetLoads.WithLabelValues("success").Inc()
	e.logger.Info().
		Uint64("generation", gen).
		Int("products", snap.Catalog.Len()).
		Int("interactions", snap.Log.Len()).
		Dur("took", time.Since(start)).
		Msg("dataset loaded")
	return nil
}

// Reload 重新加载数据，等同于 Load。
func (e *Engine) Reload(ctx context.Context) error {
	return e.Load(ctx)
}

func (e *Engine) read(ctx context.Context) ([]core.Product, []core.Interaction, error) {
	if e.source == nil {
		return nil, nil, fmt.Errorf("engine: no data store configured")
	}
	products, err := e.source.ReadProducts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("read products from %s: %w", e.source.Name(), err)
	}
	interactions, err := e.source.ReadInteractions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("read interactions from %s: %w", e.source.Name(), err)
	}
	return products, interactions, nil
}

// Generation 返回当前数据代，未加载时为 0。
func (e *Engine) Generation() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.gen
}

// Loaded 判断是否已完成过一次 Load。
func (e *Engine) Loaded() bool {
	return e.snapshot() != nil
}

func (e *Engine) snapshot() *dataset.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

// state 返回当前快照与对应的派生索引。
// indexesFor 返回 snap 这一代的派生索引。一次请求只解析一次快照并一路传下去，
// 请求中途发生 Reload 也不会混用两代数据。
func (e *Engine) indexesFor(ctx context.Context, snap *dataset.Snapshot) (*index.Indexes, error) {
	if snap == nil {
		return nil, core.ErrUninitialized
	}
	return e.indexes.Get(ctx, snap)
}

func checkArgs(userID int64, n int) error {
	if n < 0 {
		return core.ErrInvalidN
	}
	if userID <= 0 {
		return core.ErrInvalidUserID
	}
	return nil
}

func (e *Engine) collaborative(idx *index.Indexes, n int) *recall.UserBasedCF {
	return &recall.UserBasedCF{
		Index:            idx.UserItem,
		TopKSimilarUsers: e.neighborCount,
		TopKItems:        n,
	}
}

func (e *Engine) content(snap *dataset.Snapshot, idx *index.Indexes, n int) *recall.ContentRecall {
	return &recall.ContentRecall{
		Index:            idx.Content,
		Snapshot:         snap,
		TopK:             n,
		SimilarPerSeed:   e.similarPerSeed,
		ViewSeedLimit:    e.viewSeedLimit,
		DefaultSeedCount: e.defaultSeedCount,
	}
}

// CollaborativeRank 返回基于用户协同过滤的前 n 个商品 ID。
func (e *Engine) CollaborativeRank(ctx context.Context, userID int64, n int) (ids []int64, err error) {
	defer func(start time.Time) { metrics.ObserveOperation("collaborative_rank", start, err) }(time.Now())
	return e.rank(ctx, userID, n, func(_ *dataset.Snapshot, idx *index.Indexes) recall.Source {
		return e.collaborative(idx, n)
	})
}

// ContentRank 返回基于内容相似度的前 n 个商品 ID（种子顺序累积，不按分数重排）。
func (e *Engine) ContentRank(ctx context.Context, userID int64, n int) (ids []int64, err error) {
	defer func(start time.Time) { metrics.ObserveOperation("content_rank", start, err) }(time.Now())
	return e.rank(ctx, userID, n, func(snap *dataset.Snapshot, idx *index.Indexes) recall.Source {
		return e.content(snap, idx, n)
	})
}

func (e *Engine) rank(
	ctx context.Context,
	userID int64,
	n int,
	source func(*dataset.Snapshot, *index.Indexes) recall.Source,
) ([]int64, error) {
	snap := e.snapshot()
	idx, err := e.indexesFor(ctx, snap)
	if err != nil {
		return nil, err
	}
	if err := checkArgs(userID, n); err != nil {
		return nil, err
	}
	if n == 0 {
		return []int64{}, nil
	}
	items, err := source(snap, idx).Recall(ctx, &core.RecommendContext{UserID: userID, N: n})
	if err != nil {
		return nil, err
	}
	return core.IDs(items), nil
}

// HybridRank 融合两路排序：各取前 n，按位置分加权求和后取前 n。
func (e *Engine) HybridRank(ctx context.Context, userID int64, n int) (ids []int64, err error) {
	defer func(start time.Time) { metrics.ObserveOperation("hybrid_rank", start, err) }(time.Now())
	items, err := e.hybridItems(ctx, e.snapshot(), userID, n)
	if err != nil {
		return nil, err
	}
	return core.IDs(items), nil
}

func (e *Engine) hybridItems(ctx context.Context, snap *dataset.Snapshot, userID int64, n int) ([]*core.Item, error) {
	idx, err := e.indexesFor(ctx, snap)
	if err != nil {
		return nil, err
	}
	if err := checkArgs(userID, n); err != nil {
		return nil, err
	}
	if n == 0 {
		return []*core.Item{}, nil
	}
	collab := e.collaborative(idx, n)
	content := e.content(snap, idx, n)
	p := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.Fanout{
			Sources:       []recall.Source{collab, content},
			MergeStrategy: "union",
			FailFast:      true,
		},
		&rank.HybridNode{
			Weights: map[string]float64{
				collab.Name():  e.collabWeight,
				content.Name(): e.contentWeight,
			},
			N: n,
		},
	}}
	return p.Run(ctx, &core.RecommendContext{UserID: userID, N: n}, nil)
}

// Explain 为商品生成推荐理由。purchasedNames 是用户已购商品名称。
func (e *Engine) Explain(product core.Product, purchasedNames []string) string {
	return e.explainer.Explain(product, purchasedNames)
}

// Statistics 返回当前数据集的统计；数据为空时为全零。
func (e *Engine) Statistics(_ context.Context) (stats.Summary, error) {
	snap := e.snapshot()
	if snap == nil {
		return stats.Summary{}, core.ErrUninitialized
	}
	return stats.Summarize(snap), nil
}

// UserHistory 返回用户的全部行为（日志顺序）。
func (e *Engine) UserHistory(_ context.Context, userID int64) ([]core.Interaction, error) {
	snap := e.snapshot()
	if snap == nil {
		return nil, core.ErrUninitialized
	}
	if userID <= 0 {
		return nil, core.ErrInvalidUserID
	}
	return snap.Log.User(userID), nil
}

// PurchasedProducts 返回用户购买过的商品（目录顺序）。
func (e *Engine) PurchasedProducts(_ context.Context, userID int64) ([]core.Product, error) {
	snap := e.snapshot()
	if snap == nil {
		return nil, core.ErrUninitialized
	}
	if userID <= 0 {
		return nil, core.ErrInvalidUserID
	}
	out := snap.PurchasedProducts(userID)
	if out == nil {
		out = []core.Product{}
	}
	return out, nil
}

// ProductDetails 返回 ids 中存在于目录的商品（目录顺序），未知 ID 被忽略。
func (e *Engine) ProductDetails(_ context.Context, ids []int64) ([]core.Product, error) {
	snap := e.snapshot()
	if snap == nil {
		return nil, core.ErrUninitialized
	}
	out := snap.ProductsByID(ids)
	if out == nil {
		out = []core.Product{}
	}
	return out, nil
}

// Users 返回行为日志中前 limit 个不同用户（按首次出现），结果升序。limit <= 0 时返回全部。
func (e *Engine) Users(_ context.Context, limit int) ([]int64, error) {
	snap := e.snapshot()
	if snap == nil {
		return nil, core.ErrUninitialized
	}
	users := snap.Log.Users()
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	out := append([]int64{}, users...)
	slices.Sort(out)
	return out, nil
}
