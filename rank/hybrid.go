// Package rank 实现多路召回结果的融合排序。
package rank

import (
	"context"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
	"github.com/rushteam/shoprec/recall"
)

// 默认融合权重：协同过滤 0.6，内容 0.4。
const (
	DefaultCollaborativeWeight = 0.6
	DefaultContentWeight       = 0.4
)

// WeightedList 是一路带权重的有序候选列表。
type WeightedList struct {
	IDs    []int64
	Weight float64
}

// Scored 是融合后的商品及其总分。
type Scored struct {
	ID    int64
	Score float64
}

// PositionScore 返回长度为 length 的列表中第 pos 位（0 起）的位置分：(length - pos) * weight。
func PositionScore(length, pos int, weight float64) float64 {
	return float64(length-pos) * weight
}

// FuseScored 按位置分融合多路列表：同一商品的分数累加，按总分降序、商品 ID 升序取前 n。
// n < 0 时不截断。
func FuseScored(lists []WeightedList, n int) []Scored {
	acc := orderedmap.New[int64, float64]()
	for _, l := range lists {
		for i, id := range l.IDs {
			s := PositionScore(len(l.IDs), i, l.Weight)
			if old, ok := acc.Get(id); ok {
				s += old
			}
			acc.Set(id, s)
		}
	}

	out := make([]Scored, 0, acc.Len())
	for pair := acc.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Scored{ID: pair.Key, Score: pair.Value})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Fuse 融合协同过滤与内容两路列表（权重 0.6 / 0.4），返回前 n 个商品 ID。
func Fuse(collab, content []int64, n int) []int64 {
	scored := FuseScored([]WeightedList{
		{IDs: collab, Weight: DefaultCollaborativeWeight},
		{IDs: content, Weight: DefaultContentWeight},
	}, n)
	ids := make([]int64, 0, len(scored))
	for _, s := range scored {
		ids = append(ids, s.ID)
	}
	return ids
}

// HybridNode 是融合排序 Node：读取 recall.Fanout 产出的 union 结果，
// 按 recall_source 分组还原各路列表（组内保持出现顺序），再按位置分融合。
type HybridNode struct {
	// Weights 召回源名称 → 权重；未配置的召回源被忽略
	Weights map[string]float64

	// N 返回数量，<= 0 时不截断
	N int
}

// NewHybridNode 创建默认权重的融合 Node（recall.u2i 0.6，recall.content 0.4）。
func NewHybridNode(n int) *HybridNode {
	return &HybridNode{
		Weights: map[string]float64{
			(&recall.UserBasedCF{}).Name():   DefaultCollaborativeWeight,
			(&recall.ContentRecall{}).Name(): DefaultContentWeight,
		},
		N: n,
	}
}

func (n *HybridNode) Name() string        { return "rank.hybrid" }
func (n *HybridNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *HybridNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	type group struct {
		ids    []int64
		weight float64
	}
	groups := orderedmap.New[string, *group]()
	first := make(map[int64]*core.Item, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		src := it.Label("recall_source")
		w, ok := n.Weights[src]
		if !ok {
			continue
		}
		g, ok := groups.Get(src)
		if !ok {
			g = &group{weight: w}
			groups.Set(src, g)
		}
		g.ids = append(g.ids, it.ID)
		if old, ok := first[it.ID]; ok {
			for k, v := range it.Labels {
				old.PutLabel(k, v)
			}
			continue
		}
		first[it.ID] = it
	}

	lists := make([]WeightedList, 0, groups.Len())
	for pair := groups.Oldest(); pair != nil; pair = pair.Next() {
		lists = append(lists, WeightedList{IDs: pair.Value.ids, Weight: pair.Value.weight})
	}

	limit := n.N
	if limit <= 0 {
		limit = -1
	}
	scored := FuseScored(lists, limit)
	out := make([]*core.Item, 0, len(scored))
	for _, s := range scored {
		it := first[s.ID]
		it.Score = s.Score
		it.PutLabel("rank_model", utils.Label{Value: "hybrid", Source: "rank"})
		out = append(out, it)
	}
	return out, nil
}
