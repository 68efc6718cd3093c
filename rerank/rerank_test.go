package rerank

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
)

func categorized(id int64, category string) *core.Item {
	it := core.NewItem(id)
	if category != "" {
		it.PutLabel("category", utils.Label{Value: category, Source: "catalog"})
	}
	return it
}

func TestDiversity(t *testing.T) {
	items := []*core.Item{
		categorized(1, "Electronics"),
		categorized(2, "Electronics"),
		categorized(3, "Books"),
		categorized(4, ""),
		categorized(5, "Electronics"),
	}
	tests := []struct {
		name string
		max  int
		want []int64
	}{
		{name: "default one per category", want: []int64{1, 3, 4}},
		{name: "two per category", max: 2, want: []int64{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := (&Diversity{MaxPerCategory: tt.max}).Process(context.Background(), nil, items)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, core.IDs(out)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTopN(t *testing.T) {
	items := []*core.Item{core.NewItem(1), core.NewItem(2), core.NewItem(3)}
	for _, tt := range []struct {
		n    int
		want int
	}{{0, 3}, {2, 2}, {10, 3}} {
		out, _ := (&TopNNode{N: tt.n}).Process(context.Background(), nil, items)
		if len(out) != tt.want {
			t.Errorf("TopN(%d) len = %d, want %d", tt.n, len(out), tt.want)
		}
	}
}
