package index

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/dataset"
)

const eps = 1e-9

func purchase(user, product int64, rating float64) core.Interaction {
	return core.Interaction{UserID: user, ProductID: product, Type: core.InteractionPurchase, Rating: rating}
}

func testSnapshot(gen uint64) *dataset.Snapshot {
	products := []core.Product{
		{ID: 1, Name: "Wireless Mouse", Category: "Electronics", Description: "A wireless mouse for the laptop"},
		{ID: 2, Name: "Headphones", Category: "Electronics", Description: "Wireless headphones with noise cancelling"},
		{ID: 3, Name: "Novel", Category: "Books", Description: "A gripping mystery novel"},
		{ID: 5, Name: "Yoga Mat", Category: "Sports", Description: "Non slip yoga mat"},
	}
	interactions := []core.Interaction{
		purchase(1, 1, 2),
		purchase(1, 2, 3),
		purchase(1, 1, 5), // 覆盖前一条
		purchase(2, 1, 5),
		purchase(2, 2, 3),
		purchase(3, 3, 4),
		purchase(4, 99, 5), // 目录中不存在
		{UserID: 5, ProductID: 5, Type: core.InteractionView},
	}
	return dataset.NewSnapshot(products, interactions, gen)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{text: "The Wireless mouse, a laptop's best friend!", want: []string{"wireless", "mouse", "laptop", "best", "friend"}},
		{text: "Café crème for the Überküche", want: []string{"café", "crème", "überküche"}},
		{text: "ナイキ ランニング shoes_v2 x 42", want: []string{"ナイキ", "ランニング", "shoes_v2", "42"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, Tokenize(tt.text)); diff != "" {
			t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.text, diff)
		}
	}
}

func TestFitTFIDF(t *testing.T) {
	m := FitTFIDF([]string{
		"electronics wireless mouse",
		"electronics wireless headphones",
		"books novel",
		"the and of",
	})

	if got := m.VocabularySize(); got != 6 {
		t.Errorf("VocabularySize() = %d, want 6", got)
	}
	for i := 0; i < 3; i++ {
		if got := m.Cosine(i, i); math.Abs(got-1) > eps {
			t.Errorf("Cosine(%d,%d) = %v, want 1", i, i, got)
		}
	}
	if got := m.Cosine(0, 1); got <= 0 || got >= 1 {
		t.Errorf("Cosine(0,1) = %v, want in (0,1)", got)
	}
	if got := m.Cosine(0, 2); got != 0 {
		t.Errorf("Cosine(0,2) = %v, want 0", got)
	}
	if got := m.Cosine(3, 0); got != 0 {
		t.Errorf("stop-word only document should be a zero vector, got %v", got)
	}

	// doc0: electronics/wireless idf = ln(5/3)+1, mouse idf = ln(5/2)+1
	shared := math.Log(5.0/3.0) + 1
	unique := math.Log(5.0/2.0) + 1
	norm := math.Sqrt(2*shared*shared + unique*unique)
	if got := m.Weight(0, "mouse"); math.Abs(got-unique/norm) > eps {
		t.Errorf("Weight(mouse) = %v, want %v", got, unique/norm)
	}
	wantCos := 2 * shared * shared / (norm * norm)
	if got := m.Cosine(0, 1); math.Abs(got-wantCos) > eps {
		t.Errorf("Cosine(0,1) = %v, want %v", got, wantCos)
	}
}

func TestBuildUserItem(t *testing.T) {
	ui, err := BuildUserItem(context.Background(), testSnapshot(1), 2)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]int64{1, 2, 3}, ui.Users()); diff != "" {
		t.Errorf("Users() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{1, 2, 3}, ui.Products()); diff != "" {
		t.Errorf("Products() mismatch (-want +got):\n%s", diff)
	}
	if got := ui.Rating(1, 1); got != 5 {
		t.Errorf("last purchase should win: Rating(1,1) = %v, want 5", got)
	}
	if ui.Has(4) {
		t.Error("user with only unknown-product purchases should have no row")
	}
	if got := ui.Similarity(1, 2); math.Abs(got-1) > eps {
		t.Errorf("identical users Similarity = %v, want 1", got)
	}
	if got, rev := ui.Similarity(1, 3), ui.Similarity(3, 1); got != 0 || rev != 0 {
		t.Errorf("disjoint users Similarity = %v/%v, want 0", got, rev)
	}
	if got := ui.Similarity(3, 3); got != 1 {
		t.Errorf("self Similarity = %v, want 1", got)
	}

	if n := ui.Neighbors(3, 5); len(n) != 0 {
		t.Errorf("isolated user Neighbors = %v, want none", n)
	}
	want := []Neighbor{{UserID: 2, Similarity: 1}}
	got := ui.Neighbors(1, 5)
	if len(got) != 1 || got[0].UserID != want[0].UserID || math.Abs(got[0].Similarity-1) > eps {
		t.Errorf("Neighbors(1) = %v, want %v", got, want)
	}
}

func TestUserItemNeighborTieBreak(t *testing.T) {
	snap := dataset.NewSnapshot(
		[]core.Product{{ID: 1, Category: "a"}, {ID: 2, Category: "b"}},
		[]core.Interaction{purchase(9, 1, 5), purchase(7, 1, 5), purchase(8, 1, 5), purchase(1, 1, 5)},
		1,
	)
	ui, err := BuildUserItem(context.Background(), snap, 0)
	if err != nil {
		t.Fatal(err)
	}
	var ids []int64
	for _, n := range ui.Neighbors(8, 2) {
		ids = append(ids, n.UserID)
	}
	if diff := cmp.Diff([]int64{1, 7}, ids); diff != "" {
		t.Errorf("Neighbors tie-break mismatch (-want +got):\n%s", diff)
	}
}

func TestContentMostSimilar(t *testing.T) {
	snap := testSnapshot(1)
	c, err := BuildContent(context.Background(), snap.Catalog, 0)
	if err != nil {
		t.Fatal(err)
	}
	got := c.MostSimilar(1, 5)
	if len(got) != 3 {
		t.Fatalf("MostSimilar(1) returned %d products, want 3", len(got))
	}
	if got[0].ProductID != 2 {
		t.Errorf("most similar to mouse = %d, want 2", got[0].ProductID)
	}
	// 3 与 5 与商品 1 相似度均为 0，按 ID 升序
	if got[1].ProductID != 3 || got[2].ProductID != 5 {
		t.Errorf("zero-similarity tie-break = %d,%d, want 3,5", got[1].ProductID, got[2].ProductID)
	}
	if c.MostSimilar(42, 5) != nil {
		t.Error("unknown product should have no neighbours")
	}
	if got := c.Similarity(5, 5); got != 1 {
		t.Errorf("self similarity by sparse id = %v, want 1", got)
	}
}

func TestCacheRebuildsPerGeneration(t *testing.T) {
	c := NewCache(time.Second, 2)
	ctx := context.Background()

	snap := testSnapshot(1)
	var wg sync.WaitGroup
	results := make([]*Indexes, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			idx, err := c.Get(ctx, snap)
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = idx
		}(i)
	}
	wg.Wait()
	for _, r := range results[1:] {
		if r != results[0] {
			t.Fatal("concurrent requests for one generation should share indexes")
		}
	}

	again, err := c.Get(ctx, snap)
	if err != nil {
		t.Fatal(err)
	}
	if again != results[0] {
		t.Error("unchanged generation should be served from cache")
	}

	next, err := c.Get(ctx, testSnapshot(2))
	if err != nil {
		t.Fatal(err)
	}
	if next == results[0] || next.Generation != 2 {
		t.Error("new generation should trigger a rebuild")
	}
}

func TestCacheUninitialized(t *testing.T) {
	c := NewCache(0, 0)
	if _, err := c.Get(context.Background(), nil); !core.IsUninitialized(err) {
		t.Errorf("Get(nil) error = %v, want uninitialized", err)
	}
}
