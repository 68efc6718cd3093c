package index

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/dataset"
	"github.com/rushteam/shoprec/metrics"
	"github.com/rushteam/shoprec/pkg/logging"
)

// Indexes 是某一数据代的全部派生索引，构建后只读。
type Indexes struct {
	Generation uint64
	UserItem   *UserItem
	Content    *Content
}

// Cache 按快照的 Generation 缓存派生索引。
//
// 同一代只重建一次（singleflight 合并并发请求），重建期间的请求等待重建完成。
// 重建是唯一可取消的操作：受 RebuildTimeout 约束，不受单个调用方取消的影响。
type Cache struct {
	// RebuildTimeout 重建超时，<= 0 时使用 30s
	RebuildTimeout time.Duration

	// Workers 计算矩阵的并发数，<= 0 时使用 GOMAXPROCS
	Workers int

	mu     sync.RWMutex
	cur    *Indexes
	group  singleflight.Group
	logger zerolog.Logger
}

// NewCache 创建索引缓存。
func NewCache(rebuildTimeout time.Duration, workers int) *Cache {
	return &Cache{
		RebuildTimeout: rebuildTimeout,
		Workers:        workers,
		logger:         logging.Component("index"),
	}
}

// Get 返回 snap 对应代的索引，必要时重建。
func (c *Cache) Get(ctx context.Context, snap *dataset.Snapshot) (*Indexes, error) {
	if snap == nil {
		return nil, core.ErrUninitialized
	}
	c.mu.RLock()
	cur := c.cur
	c.mu.RUnlock()
	if cur != nil && cur.Generation == snap.Generation {
		return cur, nil
	}

	ch := c.group.DoChan(strconv.FormatUint(snap.Generation, 10), func() (any, error) {
		return c.rebuild(context.WithoutCancel(ctx), snap)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Indexes), nil
	}
}

// Invalidate 丢弃当前缓存的索引。
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.cur = nil
	c.mu.Unlock()
}

// Current 返回当前缓存的索引（可能为 nil）。
func (c *Cache) Current() *Indexes {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cur
}

func (c *Cache) rebuild(ctx context.Context, snap *dataset.Snapshot) (*Indexes, error) {
	timeout := c.RebuildTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	idx := &Indexes{Generation: snap.Generation}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		ui, err := BuildUserItem(egCtx, snap, c.Workers)
		if err != nil {
			return fmt.Errorf("user-item matrix: %w", err)
		}
		idx.UserItem = ui
		return nil
	})
	eg.Go(func() error {
		ct, err := BuildContent(egCtx, snap.Catalog, c.Workers)
		if err != nil {
			return fmt.Errorf("content matrix: %w", err)
		}
		idx.Content = ct
		return nil
	})
	err := eg.Wait()
	metrics.IndexRebuildDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.IndexRebuilds.WithLabelValues("error").Inc()
		c.logger.Error().Err(err).Uint64("generation", snap.Generation).Msg("index rebuild failed")
		return nil, fmt.Errorf("rebuild indexes: %w", err)
	}
	metrics.IndexRebuilds.WithLabelValues("success").Inc()

	c.mu.Lock()
	if c.cur == nil || c.cur.Generation <= idx.Generation {
		c.cur = idx
	}
	c.mu.Unlock()

	c.logger.Debug().
		Uint64("generation", snap.Generation).
		Int("users", len(idx.UserItem.Users())).
		Int("products", idx.Content.Len()).
		Dur("took", time.Since(start)).
		Msg("indexes rebuilt")
	return idx, nil
}
