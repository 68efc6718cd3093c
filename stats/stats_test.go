package stats

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/dataset"
)

func TestSummarize(t *testing.T) {
	snap := dataset.NewSnapshot(
		[]core.Product{
			{ID: 1, Category: "Electronics", Price: 20, Rating: 4},
			{ID: 2, Category: "Books", Price: 10, Rating: 5},
			{ID: 3, Category: "Electronics", Price: 30, Rating: 3},
		},
		[]core.Interaction{
			{UserID: 1, ProductID: 1, Type: core.InteractionPurchase, Rating: 5},
			{UserID: 1, ProductID: 2, Type: core.InteractionView},
			{UserID: 2, ProductID: 3, Type: core.InteractionPurchase, Rating: 4},
			{UserID: 3, ProductID: 42, Type: core.InteractionView},
		},
		1,
	)
	want := Summary{
		TotalProducts:     3,
		TotalUsers:        3,
		TotalInteractions: 4,
		TotalPurchases:    2,
		Categories:        []string{"Electronics", "Books"},
		AvgRating:         4,
		PriceRange:        PriceRange{Min: 10, Max: 30, Avg: 20},
	}
	got := Summarize(snap)
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_Empty(t *testing.T) {
	tests := []struct {
		name string
		snap *dataset.Snapshot
	}{
		{name: "nil", snap: nil},
		{name: "no interactions", snap: dataset.NewSnapshot([]core.Product{{ID: 1, Price: 5}}, nil, 1)},
		{name: "no products", snap: dataset.NewSnapshot(nil, []core.Interaction{{UserID: 1, ProductID: 1}}, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.snap)
			if diff := cmp.Diff(Empty(), got); diff != "" {
				t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
			}
			if math.IsNaN(got.AvgRating) {
				t.Error("AvgRating must not be NaN")
			}
		})
	}
}
