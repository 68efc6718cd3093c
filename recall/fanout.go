package recall

import (
	"context"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// Meta key：召回源内的位置与列表长度，供融合排序计算位置分。
const (
	MetaRecallPosition = "recall_position"
	MetaRecallLength   = "recall_length"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并合并结果。
// 合并结果按 Sources 顺序拼接，与各召回源的完成先后无关。
type Fanout struct {
	Sources       []Source
	Dedup         bool
	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
	MergeStrategy string        // 合并策略：first / union / priority（优先级按 Sources 顺序）

	// FailFast 为 true 时任一召回源出错即返回错误；默认出错的召回源视为空结果
	FailFast bool
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	results := make([][]*core.Item, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		eg.Go(func() error {
			items, err := n.recallOne(egCtx, src, rctx)
			if err != nil {
				if n.FailFast {
					return err
				}
				// 出错的召回源视为空，不影响其他召回源
				return nil
			}
			tagRecall(items, src.Name(), i)
			results[i] = items
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	all := slices.Concat(results...)
	if n.MergeStrategy == "union" {
		return all, nil
	}
	// first / priority：Sources 顺序即优先级，保留先出现的
	return n.mergeFirst(all), nil
}

func (n *Fanout) recallOne(ctx context.Context, src Source, rctx *core.RecommendContext) ([]*core.Item, error) {
	if n.Timeout <= 0 {
		return src.Recall(ctx, rctx)
	}
	tctx, cancel := context.WithTimeout(ctx, n.Timeout)
	defer cancel()
	return src.Recall(tctx, rctx)
}

// tagRecall 写入召回来源、优先级以及在该召回源内的位置。
func tagRecall(items []*core.Item, source string, priority int) {
	for pos, it := range items {
		if it.Meta == nil {
			it.Meta = make(map[string]any, 2)
		}
		it.PutLabel("recall_source", utils.Label{Value: source, Source: "recall"})
		it.PutLabel("recall_priority", utils.Label{Value: strconv.Itoa(priority), Source: "recall"})
		it.Meta[MetaRecallPosition] = pos
		it.Meta[MetaRecallLength] = len(items)
	}
}

// mergeFirst 按 ID 去重，保留第一个出现的，并合并后续同 ID 的 labels。
func (n *Fanout) mergeFirst(all []*core.Item) []*core.Item {
	if !n.Dedup {
		return all
	}
	seen := make(map[int64]*core.Item, len(all))
	out := make([]*core.Item, 0, len(all))
	for _, it := range all {
		if it == nil {
			continue
		}
		if old, ok := seen[it.ID]; ok {
			for k, v := range it.Labels {
				old.PutLabel(k, v)
			}
			continue
		}
		seen[it.ID] = it
		out = append(out, it)
	}
	return out
}
