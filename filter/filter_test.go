package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/metrics"
	"github.com/rushteam/shoprec/pkg/utils"
	"github.com/rushteam/shoprec/store"
)

func productItem(p core.Product) *core.Item {
	it := core.NewItem(p.ID)
	it.Meta["product"] = p
	it.PutLabel("category", utils.Label{Value: p.Category, Source: "catalog"})
	return it
}

func testItems() []*core.Item {
	return []*core.Item{
		productItem(core.Product{ID: 1, Category: "Electronics", Price: 25, Rating: 4.5}),
		productItem(core.Product{ID: 2, Category: "Books", Price: 12, Rating: 3.9}),
		productItem(core.Product{ID: 3, Category: "Electronics", Price: 199, Rating: 4.8}),
	}
}

func TestFilterNode(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	defer kv.Close()
	if err := kv.Set(ctx, "blacklist", []byte("[3]")); err != nil {
		t.Fatal(err)
	}

	cheap, err := NewExprFilter(`item.meta.price < 100.0`)
	if err != nil {
		t.Fatal(err)
	}
	notBooks, err := NewExprFilter(`label.category != "Books"`)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		filters []Filter
		want    []int64
	}{
		{name: "no filters", want: []int64{1, 2, 3}},
		{name: "memory blacklist", filters: []Filter{NewBlacklistFilter([]int64{2}, nil, "")}, want: []int64{1, 3}},
		{name: "store blacklist", filters: []Filter{NewBlacklistFilter(nil, kv, "blacklist")}, want: []int64{1, 2}},
		{name: "missing store key", filters: []Filter{NewBlacklistFilter(nil, kv, "nope")}, want: []int64{1, 2, 3}},
		{name: "price expr", filters: []Filter{cheap}, want: []int64{1, 2}},
		{name: "combined", filters: []Filter{cheap, notBooks}, want: []int64{1}},
		{name: "func", filters: []Filter{Func{Fn: func(_ context.Context, _ *core.RecommendContext, it *core.Item) (bool, error) {
			return it.ID == 1, nil
		}}}, want: []int64{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &FilterNode{Filters: tt.filters}
			out, err := n.Process(ctx, &core.RecommendContext{UserID: 1}, testItems())
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, core.IDs(out)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewExprFilter_CompileError(t *testing.T) {
	if _, err := NewExprFilter(`item.score >`); err == nil {
		t.Error("expected compile error")
	}
}

func TestFilterNode_ErrorsKeepItemAndAreCounted(t *testing.T) {
	// 表达式引用了不存在的 label，每个商品都会求值失败
	missing, err := NewExprFilter(`label.brand == "acme"`)
	if err != nil {
		t.Fatal(err)
	}
	failing := Func{FilterName: "filter.always_fails", Fn: func(context.Context, *core.RecommendContext, *core.Item) (bool, error) {
		return false, errors.New("backend down")
	}}
	before := testutil.ToFloat64(metrics.FilterErrors.WithLabelValues(failing.Name()))
	beforeExpr := testutil.ToFloat64(metrics.FilterErrors.WithLabelValues(missing.Name()))

	n := &FilterNode{Filters: []Filter{failing, missing, NewBlacklistFilter([]int64{2}, nil, "")}}
	out, err := n.Process(context.Background(), &core.RecommendContext{UserID: 1}, testItems())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int64{1, 3}, core.IDs(out)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if got := testutil.ToFloat64(metrics.FilterErrors.WithLabelValues(failing.Name())) - before; got != 3 {
		t.Errorf("func filter errors = %v, want 3", got)
	}
	if got := testutil.ToFloat64(metrics.FilterErrors.WithLabelValues(missing.Name())) - beforeExpr; got != 3 {
		t.Errorf("expr filter errors = %v, want 3", got)
	}
}
