package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix 是环境变量前缀：SHOPREC_SERVER_ADDR → server.addr。
const EnvPrefix = "SHOPREC_"

// PathEnvVar 指定配置文件路径。
const PathEnvVar = "SHOPREC_CONFIG"

// Settings 是服务的完整配置。加载顺序：默认值 → YAML 文件 → 环境变量。
type Settings struct {
	Server    ServerSettings    `koanf:"server"`
	Log       LogSettings       `koanf:"log"`
	Data      DataSettings      `koanf:"data"`
	Recommend RecommendSettings `koanf:"recommend"`
	Cache     CacheSettings     `koanf:"cache"`
}

type ServerSettings struct {
	Addr         string        `koanf:"addr" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gt=0"`
	// UsersLimit 是 /api/users 返回的用户数上限
	UsersLimit int `koanf:"users_limit" validate:"gt=0"`
}

type LogSettings struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

type DataSettings struct {
	// Driver: sqlite / memory（memory 使用内置演示数据）
	Driver string `koanf:"driver" validate:"oneof=sqlite memory"`
	DSN    string `koanf:"dsn" validate:"required_if=Driver sqlite"`
}

type RecommendSettings struct {
	DefaultN         int           `koanf:"default_n" validate:"gte=0"`
	NeighborCount    int           `koanf:"neighbor_count" validate:"gt=0"`
	SimilarPerSeed   int           `koanf:"similar_per_seed" validate:"gt=0"`
	ViewSeedLimit    int           `koanf:"view_seed_limit" validate:"gt=0"`
	DefaultSeedCount int           `koanf:"default_seed_count" validate:"gt=0"`
	CollabWeight     float64       `koanf:"collab_weight" validate:"gte=0"`
	ContentWeight    float64       `koanf:"content_weight" validate:"gte=0"`
	RebuildTimeout   time.Duration `koanf:"rebuild_timeout" validate:"gt=0"`
	Workers          int           `koanf:"workers" validate:"gte=0"`
	// PipelinePath 是后处理 Pipeline 的 YAML 配置（可选）
	PipelinePath string `koanf:"pipeline_path"`
}

type CacheSettings struct {
	// Backend: none / memory / redis
	Backend       string        `koanf:"backend" validate:"oneof=none memory redis"`
	TTL           time.Duration `koanf:"ttl" validate:"gte=0"`
	RedisAddr     string        `koanf:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db" validate:"gte=0"`
	// BreakerFailures 连续失败多少次后熔断 Redis
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// Defaults 返回默认配置。
func Defaults() Settings {
	return Settings{
		Server: ServerSettings{
			Addr:         ":5000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			UsersLimit:   20,
		},
		Log: LogSettings{Level: "info", Format: "json"},
		Data: DataSettings{
			Driver: "sqlite",
			DSN:    "ecommerce_recommender.db",
		},
		Recommend: RecommendSettings{
			DefaultN:         5,
			NeighborCount:    5,
			SimilarPerSeed:   5,
			ViewSeedLimit:    3,
			DefaultSeedCount: 3,
			CollabWeight:     0.6,
			ContentWeight:    0.4,
			RebuildTimeout:   30 * time.Second,
		},
		Cache: CacheSettings{
			Backend:         "memory",
			TTL:             5 * time.Minute,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
	}
}

// Load 加载配置。path 为空时依次尝试 $SHOPREC_CONFIG 与 ./shoprec.yaml，都不存在则只用默认值与环境变量。
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	defaults := Defaults()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate 校验配置。
func (s *Settings) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(s); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// envKey 把 SHOPREC_RECOMMEND_NEIGHBOR_COUNT 转为 recommend.neighbor_count：
// 前缀后的第一段是配置分组，其余是字段名。
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if s == "config" {
		return ""
	}
	return strings.Replace(s, "_", ".", 1)
}

func findConfigFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	for _, p := range []string{"shoprec.yaml", "shoprec.yml"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
