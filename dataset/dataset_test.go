package dataset

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rushteam/shoprec/core"
)

func TestCatalog(t *testing.T) {
	c := NewCatalog([]core.Product{
		{ID: 10, Name: "a"},
		{ID: 3, Name: "b"},
		{ID: 10, Name: "dup"},
	})
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if i, ok := c.IndexOf(3); !ok || i != 1 {
		t.Errorf("IndexOf(3) = %d,%v, want 1,true", i, ok)
	}
	if p, _ := c.Get(10); p.Name != "a" {
		t.Errorf("duplicate id should keep first row, got %q", p.Name)
	}
	if c.Has(1) {
		t.Error("Has(1) should be false for sparse ids")
	}
	var nilCatalog *Catalog
	if nilCatalog.Len() != 0 || nilCatalog.Has(1) {
		t.Error("nil catalog should behave as empty")
	}
}

func TestSnapshotSeeds(t *testing.T) {
	snap := NewSnapshot(
		[]core.Product{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}},
		[]core.Interaction{
			{UserID: 1, ProductID: 3, Type: core.InteractionPurchase, Rating: 4},
			{UserID: 1, ProductID: 1, Type: core.InteractionPurchase, Rating: 5},
			{UserID: 1, ProductID: 3, Type: core.InteractionPurchase, Rating: 2},
			{UserID: 1, ProductID: 77, Type: core.InteractionPurchase, Rating: 2},
			{UserID: 2, ProductID: 5, Type: core.InteractionView},
			{UserID: 2, ProductID: 4, Type: core.InteractionView},
			{UserID: 2, ProductID: 5, Type: core.InteractionView},
			{UserID: 2, ProductID: 2, Type: core.InteractionView},
			{UserID: 2, ProductID: 1, Type: core.InteractionView},
		},
		7,
	)

	if diff := cmp.Diff([]int64{3, 1}, snap.PurchasedIDs(1)); diff != "" {
		t.Errorf("PurchasedIDs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{5, 4, 2}, snap.ViewedIDs(2, 3)); diff != "" {
		t.Errorf("ViewedIDs mismatch (-want +got):\n%s", diff)
	}
	var names []int64
	for _, p := range snap.PurchasedProducts(1) {
		names = append(names, p.ID)
	}
	if diff := cmp.Diff([]int64{1, 3}, names); diff != "" {
		t.Errorf("PurchasedProducts should be in catalog order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{1, 2}, snap.Log.Users()); diff != "" {
		t.Errorf("Users mismatch (-want +got):\n%s", diff)
	}
	if len(snap.Log.User(1)) != 4 {
		t.Errorf("User(1) should keep duplicate rows, got %d", len(snap.Log.User(1)))
	}
}
