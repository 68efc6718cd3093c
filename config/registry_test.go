package config_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rushteam/shoprec/config"
	_ "github.com/rushteam/shoprec/config/builders"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

const pipelineYAML = `
pipeline:
  name: post
  nodes:
    - type: filter
      config:
        filters:
          - type: blacklist
            item_ids: [2]
          - type: expr
            expr: 'item.score > 0.5'
    - type: rerank.diversity
      config:
        max_per_category: 1
    - type: rerank.topn
      config:
        n: 2
`

func TestBuildPipelineFromYAML(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(pipelineYAML))
	if err != nil {
		t.Fatal(err)
	}
	p, err := config.BuildPipeline(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(p.Nodes))
	}

	mk := func(id int64, score float64, cate string) *core.Item {
		it := core.NewItem(id)
		it.Score = score
		it.PutLabel("category", utils.Label{Value: cate})
		return it
	}
	items := []*core.Item{mk(1, 0.9, "A"), mk(2, 0.9, "B"), mk(3, 0.8, "A"), mk(4, 0.1, "C"), mk(5, 0.7, "D"), mk(6, 0.6, "E")}
	out, err := p.Run(context.Background(), &core.RecommendContext{UserID: 1}, items)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int64{1, 5}, core.IDs(out)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestValidatePipelineConfig_Unknown(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte("pipeline:\n  nodes:\n    - type: rank.magic\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := config.BuildPipeline(cfg); err == nil {
		t.Error("expected unsupported node type error")
	}
}

func TestLoadPipeline_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.json")
	body := `{"pipeline":{"name":"post","nodes":[{"type":"rerank.topn","config":{"n":1}}]}}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	p, err := config.LoadPipeline(path)
	if err != nil {
		t.Fatal(err)
	}
	out, err := p.Run(context.Background(), &core.RecommendContext{}, []*core.Item{core.NewItem(1), core.NewItem(2)})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int64{1}, core.IDs(out)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	if p, err := config.LoadPipeline(""); p != nil || err != nil {
		t.Errorf("empty path: %v, %v", p, err)
	}
	for _, typ := range []string{"filter", "rerank.topn", "rerank.diversity"} {
		if !slices.Contains(config.SupportedTypes(), typ) {
			t.Errorf("%s not registered", typ)
		}
	}
}
