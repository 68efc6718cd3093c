package utils

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name     string
		existing Label
		incoming Label
		want     Label
	}{
		{
			name:     "empty existing",
			incoming: Label{Value: "recall.u2i", Source: "recall"},
			want:     Label{Value: "recall.u2i", Source: "recall"},
		},
		{
			name:     "empty incoming",
			existing: Label{Value: "recall.u2i", Source: "recall"},
			want:     Label{Value: "recall.u2i", Source: "recall"},
		},
		{
			name:     "accumulate",
			existing: Label{Value: "recall.u2i", Source: "recall"},
			incoming: Label{Value: "recall.content", Source: "recall"},
			want:     Label{Value: "recall.u2i|recall.content", Source: "recall"},
		},
		{
			name:     "duplicate value",
			existing: Label{Value: "hybrid", Source: "rank"},
			incoming: Label{Value: "hybrid", Source: "rerank"},
			want:     Label{Value: "hybrid", Source: "rank,rerank"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, MergeLabel(tt.existing, tt.incoming)); diff != "" {
				t.Errorf("MergeLabel mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLabelValues(t *testing.T) {
	l := Label{Value: "recall.u2i|recall.content"}
	if diff := cmp.Diff([]string{"recall.u2i", "recall.content"}, l.Values()); diff != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", diff)
	}
	if !l.Has("recall.content") || l.Has("recall") {
		t.Error("Has() mismatch")
	}
	if (Label{}).Values() != nil {
		t.Error("empty label should have no values")
	}
}
