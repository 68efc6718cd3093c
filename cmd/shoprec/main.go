// Command shoprec 启动推荐服务的 HTTP 接口。
//
//	shoprec -config shoprec.yaml
//	SHOPREC_DATA_DRIVER=memory shoprec
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rushteam/shoprec/config"
	_ "github.com/rushteam/shoprec/config/builders"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/engine"
	"github.com/rushteam/shoprec/pkg/logging"
	"github.com/rushteam/shoprec/server"
	"github.com/rushteam/shoprec/store"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	seedDemo := flag.Bool("seed-demo", false, "seed an empty sqlite database with the built-in demo data")
	flag.Parse()

	if err := run(*configPath, *seedDemo); err != nil {
		logging.Error().Err(err).Msg("shoprec exited")
		os.Exit(1)
	}
}

func run(configPath string, seedDemo bool) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logging.Init(logging.Config{
		Level:  settings.Log.Level,
		Format: settings.Log.Format,
		Caller: settings.Log.Caller,
	})
	log := logging.Component("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := openDataStore(ctx, settings.Data, seedDemo)
	if err != nil {
		return err
	}
	defer closeSource()

	results, err := openResultCache(ctx, settings.Cache)
	if err != nil {
		return err
	}
	if results != nil {
		defer results.Close()
		config.SetSharedStore(results)
	}

	post, err := config.LoadPipeline(settings.Recommend.PipelinePath)
	if err != nil {
		return err
	}

	rs := settings.Recommend
	opts := []engine.Option{
		engine.WithNeighborCount(rs.NeighborCount),
		engine.WithSeeds(rs.SimilarPerSeed, rs.ViewSeedLimit, rs.DefaultSeedCount),
		engine.WithWeights(rs.CollabWeight, rs.ContentWeight),
		engine.WithIndexBuild(rs.RebuildTimeout, rs.Workers),
		engine.WithPostPipeline(post),
	}
	if results != nil {
		opts = append(opts, engine.WithResultCache(results, settings.Cache.TTL))
	}
	eng := engine.New(source, opts...)
	if err := eng.Load(ctx); err != nil {
		// 加载失败时继续以空数据集提供服务，可通过 /api/reload 重试
		log.Warn().Err(err).Msg("initial load failed")
	}

	srv := &http.Server{
		Addr: settings.Server.Addr,
		Handler: server.New(eng, server.Options{
			DefaultN:       rs.DefaultN,
			UsersLimit:     settings.Server.UsersLimit,
			RequestTimeout: settings.Server.WriteTimeout,
		}).Handler(),
		ReadTimeout:  settings.Server.ReadTimeout,
		WriteTimeout: settings.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("data", source.Name()).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openDataStore(ctx context.Context, s config.DataSettings, seedDemo bool) (core.DataStore, func(), error) {
	if s.Driver == "memory" {
		ds, err := store.NewDemoDataStore()
		if err != nil {
			return nil, nil, err
		}
		return ds, func() {}, nil
	}

	ds, err := store.OpenSQLite(s.DSN)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { _ = ds.Close() }
	if !seedDemo {
		return ds, closeFn, nil
	}
	if err := ds.Migrate(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	n, err := ds.CountProducts(ctx)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	if n == 0 {
		products, interactions, err := store.DemoData()
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		if err := ds.Seed(ctx, products, interactions); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("seed demo data: %w", err)
		}
		logging.Info().Int("products", len(products)).Int("interactions", len(interactions)).Msg("seeded demo data")
	}
	return ds, closeFn, nil
}

func openResultCache(ctx context.Context, s config.CacheSettings) (core.Store, error) {
	switch s.Backend {
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		rs, err := store.NewRedisStore(ctx, s.RedisAddr, s.RedisPassword, s.RedisDB)
		if err != nil {
			return nil, err
		}
		return store.NewBreakerStore(rs, store.BreakerSettings{
			ConsecutiveFailures: s.BreakerFailures,
			OpenTimeout:         s.BreakerTimeout,
		}), nil
	default:
		return nil, nil
	}
}
