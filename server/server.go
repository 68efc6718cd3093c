// Package server 是推荐引擎的 HTTP 接口（chi 路由 + JSON）。
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/engine"
	"github.com/rushteam/shoprec/pkg/logging"
	"github.com/rushteam/shoprec/stats"
)

// Recommender 是 HTTP 层依赖的引擎能力，由 *engine.Engine 实现。
type Recommender interface {
	Recommend(ctx context.Context, userID int64, n int) ([]engine.Recommendation, error)
	Users(ctx context.Context, limit int) ([]int64, error)
	Statistics(ctx context.Context) (stats.Summary, error)
	PurchasedProducts(ctx context.Context, userID int64) ([]core.Product, error)
	Reload(ctx context.Context) error
	Loaded() bool
}

var _ Recommender = (*engine.Engine)(nil)

// Options 是 HTTP 层的可调参数，零值使用默认值。
type Options struct {
	// DefaultN 未指定 n 时的推荐数量，默认 5
	DefaultN int

	// UsersLimit /api/users 返回的用户数上限，默认 20
	UsersLimit int

	// RequestTimeout 单个请求的超时，<= 0 时不限制
	RequestTimeout time.Duration
}

// Server 持有路由与处理器。
type Server struct {
	rec    Recommender
	opts   Options
	logger zerolog.Logger
}

// New 创建 Server。
func New(rec Recommender, opts Options) *Server {
	if opts.DefaultN <= 0 {
		opts.DefaultN = 5
	}
	if opts.UsersLimit <= 0 {
		opts.UsersLimit = 20
	}
	return &Server{rec: rec, opts: opts, logger: logging.Component("http")}
}

// Handler 返回完整的路由。
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.observe)
	if s.opts.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(s.opts.RequestTimeout))
	}

	r.Get("/", s.home)
	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/recommendations/{userID}", s.recommendations)
		r.Get("/users", s.users)
		r.Get("/statistics", s.statistics)
		r.Get("/user/{userID}/history", s.history)
		r.Post("/reload", s.reload)
	})
	return r
}
