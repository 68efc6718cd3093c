package config

import (
	"fmt"
	"sync"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// 配置驱动的 Node 需要先 import _ "github.com/rushteam/shoprec/config/builders"，
// 由其 init 把 filter、rerank.topn、rerank.diversity 注册进来。

// NodeBuilder 即 pipeline.NodeBuilder。
type NodeBuilder = pipeline.NodeBuilder

// registry 是进程级的 Node 注册表，另持有配置驱动 Node 共享的 KV 存储。
var registry struct {
	sync.RWMutex
	builders map[string]NodeBuilder
	store    core.Store
}

// Register 注册 Node 构建器，通常在组件的 init 中调用。空类型名或 nil builder 被忽略。
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	registry.Lock()
	defer registry.Unlock()
	if registry.builders == nil {
		registry.builders = make(map[string]NodeBuilder)
	}
	registry.builders[typeName] = builder
}

// DefaultFactory 返回包含全部已注册类型的 NodeFactory 快照。
func DefaultFactory() *pipeline.NodeFactory {
	registry.RLock()
	defer registry.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range registry.builders {
		f.Register(typeName, builder)
	}
	return f
}

// SupportedTypes 返回已注册的 Node 类型（升序）。
func SupportedTypes() []string {
	return DefaultFactory().Types()
}

// SetSharedStore 设置配置驱动 Node 共享的 KV 存储（黑名单等），需在构建 Pipeline 前调用。
func SetSharedStore(s core.Store) {
	registry.Lock()
	defer registry.Unlock()
	registry.store = s
}

// SharedStore 返回共享 KV 存储，未设置时为 nil。
func SharedStore() core.Store {
	registry.RLock()
	defer registry.RUnlock()
	return registry.store
}

// ValidatePipelineConfig 在构建前检查所有 node 类型均已注册。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	registry.RLock()
	defer registry.RUnlock()
	for i, nc := range cfg.Pipeline.Nodes {
		if nc.Type == "" {
			return fmt.Errorf("pipeline node #%d: missing type", i)
		}
		if _, ok := registry.builders[nc.Type]; !ok {
			return fmt.Errorf("pipeline node #%d: unsupported type %q", i, nc.Type)
		}
	}
	return nil
}

// LoadPipeline 读取 YAML/JSON 配置并构建 Pipeline。path 为空时返回 nil。
func LoadPipeline(path string) (*pipeline.Pipeline, error) {
	if path == "" {
		return nil, nil
	}
	cfg, err := pipeline.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load pipeline %s: %w", path, err)
	}
	return BuildPipeline(cfg)
}

// BuildPipeline 校验并构建 Pipeline。
func BuildPipeline(cfg *pipeline.Config) (*pipeline.Pipeline, error) {
	if cfg == nil {
		return nil, nil
	}
	if err := ValidatePipelineConfig(cfg); err != nil {
		return nil, err
	}
	return cfg.BuildPipeline(DefaultFactory())
}
