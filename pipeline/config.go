package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Config 描述一条后处理 Pipeline，YAML 与 JSON 使用同一套字段名。
type Config struct {
	Pipeline struct {
		Name  string       `yaml:"name" json:"name"`
		Nodes []NodeConfig `yaml:"nodes" json:"nodes"`
	} `yaml:"pipeline" json:"pipeline"`
}

// NodeConfig 是单个 Node 的类型（filter / rerank.topn / rerank.diversity ...）及其参数。
type NodeConfig struct {
	Type   string         `yaml:"type" json:"type"`
	Config map[string]any `yaml:"config" json:"config"`
}

// LoadConfig 读取 Pipeline 配置文件，.json 按 JSON 解析，其余按 YAML 解析。
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline config: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

func ParseYAML(data []byte) (*Config, error) {
	cfg := new(Config)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

func ParseJSON(data []byte) (*Config, error) {
	cfg := new(Config)
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return cfg, nil
}

// BuildPipeline 按配置顺序逐个构建 Node。factory 由调用方注入（见 config 包），pipeline 包不依赖具体 Node 实现。
func (c *Config) BuildPipeline(factory *NodeFactory) (*Pipeline, error) {
	p := &Pipeline{Nodes: make([]Node, 0, len(c.Pipeline.Nodes))}
	for i, nc := range c.Pipeline.Nodes {
		node, err := factory.Build(nc.Type, nc.Config)
		if err != nil {
			return nil, fmt.Errorf("node #%d (%s): %w", i, nc.Type, err)
		}
		p.Nodes = append(p.Nodes, node)
	}
	return p, nil
}

// NodeBuilder 根据参数构建 Node。
type NodeBuilder func(map[string]any) (Node, error)

// NodeFactory 按类型名查找 NodeBuilder。
type NodeFactory struct {
	builders map[string]NodeBuilder
}

func NewNodeFactory() *NodeFactory {
	return &NodeFactory{builders: map[string]NodeBuilder{}}
}

// Register 注册（或覆盖）某类型的构建器。
func (f *NodeFactory) Register(nodeType string, builder NodeBuilder) {
	f.builders[nodeType] = builder
}

// Types 返回已注册的类型名（升序）。
func (f *NodeFactory) Types() []string {
	types := make([]string, 0, len(f.builders))
	for t := range f.builders {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

func (f *NodeFactory) Build(nodeType string, params map[string]any) (Node, error) {
	builder, ok := f.builders[nodeType]
	if !ok {
		return nil, fmt.Errorf("unknown node type %q (registered: %s)", nodeType, strings.Join(f.Types(), ", "))
	}
	return builder(params)
}
