package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rushteam/shoprec/core"
)

type funcNode struct {
	name string
	fn   func([]*core.Item) ([]*core.Item, error)
}

func (n *funcNode) Name() string { return n.name }
func (n *funcNode) Kind() Kind   { return KindReRank }
func (n *funcNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	return n.fn(items)
}

func appendID(id int64) *funcNode {
	return &funcNode{name: "append", fn: func(items []*core.Item) ([]*core.Item, error) {
		return append(items, core.NewItem(id)), nil
	}}
}

func TestPipelineRun(t *testing.T) {
	p := &Pipeline{Nodes: []Node{appendID(1), appendID(2)}}
	q := p.Append(appendID(3))

	got, err := q.Run(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int64{1, 2, 3}, core.IDs(got)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if len(p.Nodes) != 2 {
		t.Errorf("Append modified the original pipeline: %d nodes", len(p.Nodes))
	}
}

func TestPipelineRun_NilAndError(t *testing.T) {
	var p *Pipeline
	items := []*core.Item{core.NewItem(9)}
	got, err := p.Run(context.Background(), nil, items)
	if err != nil || len(got) != 1 {
		t.Errorf("nil pipeline: %v, %v", got, err)
	}
	if got := p.Append(appendID(1)); len(got.Nodes) != 1 {
		t.Errorf("nil Append: %d nodes", len(got.Nodes))
	}

	boom := errors.New("boom")
	failing := &Pipeline{Nodes: []Node{&funcNode{name: "broken", fn: func([]*core.Item) ([]*core.Item, error) {
		return nil, boom
	}}}}
	_, err = failing.Run(context.Background(), nil, items)
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "broken") {
		t.Errorf("error = %v", err)
	}
}

func TestBuildFromConfig(t *testing.T) {
	cfg, err := ParseYAML([]byte("pipeline:\n  name: post\n  nodes:\n    - type: add\n      config:\n        id: 5\n"))
	if err != nil {
		t.Fatal(err)
	}
	f := NewNodeFactory()
	f.Register("add", func(c map[string]interface{}) (Node, error) {
		return appendID(int64(c["id"].(int))), nil
	})
	p, err := cfg.BuildPipeline(f)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := p.Run(context.Background(), nil, nil)
	if diff := cmp.Diff([]int64{5}, core.IDs(got)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	if _, err := NewNodeFactory().Build("missing", nil); err == nil {
		t.Error("expected unknown node type error")
	}
}
