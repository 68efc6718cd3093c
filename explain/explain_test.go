package explain

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rushteam/shoprec/core"
)

func TestMatchCategories(t *testing.T) {
	g := NewGenerator()
	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{name: "none", names: nil, want: nil},
		{name: "no match", names: []string{"Umbrella"}, want: nil},
		{name: "single", names: []string{"Wireless Mouse"}, want: []string{"Electronics"}},
		{
			name:  "declared order not purchase order",
			names: []string{"Mystery Novel", "Yoga Mat", "USB Charger"},
			want:  []string{"Electronics", "Sports & Fitness", "Books"},
		},
		{name: "dedup", names: []string{"Phone Case", "Laptop Stand"}, want: []string{"Electronics"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, g.MatchCategories(tt.names)); diff != "" {
				t.Errorf("MatchCategories() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExplain(t *testing.T) {
	g := NewGenerator()
	keyboard := core.Product{ID: 4, Name: "Mechanical Keyboard", Category: "Electronics", Price: 89.5, Rating: 4}

	got := g.Explain(keyboard, []string{"Wireless Mouse", "Yoga Mat"})
	want := "Based on your interest in Electronics and Sports & Fitness, we recommend this Mechanical Keyboard. " +
		"It has a 4.0/5 rating and offers excellent value at $89.50."
	if got != want {
		t.Errorf("Explain() =\n%q\nwant\n%q", got, want)
	}

	got = g.Explain(keyboard, []string{"Umbrella"})
	want = "We think you'll love this Mechanical Keyboard! It's highly rated (4.0/5) in the Electronics category."
	if got != want {
		t.Errorf("fallback Explain() =\n%q\nwant\n%q", got, want)
	}
}

func TestExplain_ElectronicsScenario(t *testing.T) {
	p := core.Product{ID: 9, Name: "Bluetooth Headphones", Category: "Electronics", Price: 59.99, Rating: 4.5}
	got := NewGenerator().Explain(p, []string{"Wireless Mouse"})
	if !strings.Contains(got, "Electronics") {
		t.Errorf("explanation %q should mention Electronics", got)
	}
}

func TestFormatRating(t *testing.T) {
	for in, want := range map[float64]string{4: "4.0", 4.5: "4.5", 0: "0.0", 3.25: "3.25"} {
		if got := FormatRating(in); got != want {
			t.Errorf("FormatRating(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestNode(t *testing.T) {
	it := core.NewItem(1)
	it.Meta[MetaProduct] = core.Product{ID: 1, Name: "Novel", Category: "Books", Rating: 5}
	bare := core.NewItem(2)

	n := &Node{Generator: NewGenerator()}
	out, err := n.Process(context.Background(), &core.RecommendContext{PurchasedNames: []string{"Planner"}}, []*core.Item{it, bare})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out[0].Label(LabelExplanation), "Based on your interest in Books") {
		t.Errorf("explanation = %q", out[0].Label(LabelExplanation))
	}
	if out[1].Label(LabelExplanation) != "" {
		t.Error("item without product meta should not be explained")
	}
}
