package store

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/metrics"
	"github.com/rushteam/shoprec/pkg/logging"
)

// BreakerStore 用熔断器包装 core.Store（通常是 RedisStore）。
// 后端连续失败时熔断打开，期间请求直接返回 core.ErrStoreUnavailable，不再访问后端。
// key 不存在（ErrStoreNotFound）不计为失败。
type BreakerStore struct {
	next core.Store
	cb   *gobreaker.CircuitBreaker[[]byte]
}

// BreakerSettings 是熔断参数。
type BreakerSettings struct {
	// ConsecutiveFailures 连续失败多少次后打开，默认 5
	ConsecutiveFailures uint32

	// OpenTimeout 打开多久后进入半开，默认 30s
	OpenTimeout time.Duration

	// HalfOpenRequests 半开状态允许的试探请求数，默认 1
	HalfOpenRequests uint32
}

// NewBreakerStore 创建熔断包装。
func NewBreakerStore(next core.Store, s BreakerSettings) *BreakerStore {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}
	if s.HalfOpenRequests == 0 {
		s.HalfOpenRequests = 1
	}

	name := "store." + next.Name()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.HalfOpenRequests,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || core.IsStoreNotFound(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
	return &BreakerStore{next: next, cb: cb}
}

var _ core.Store = (*BreakerStore)(nil)

func (b *BreakerStore) Name() string { return b.next.Name() }

// State 返回熔断器当前状态。
func (b *BreakerStore) State() gobreaker.State { return b.cb.State() }

func (b *BreakerStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := b.cb.Execute(func() ([]byte, error) {
		return b.next.Get(ctx, key)
	})
	return v, translate(err)
}

func (b *BreakerStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.next.Set(ctx, key, value, ttl...)
	})
	return translate(err)
}

func (b *BreakerStore) Close() error { return b.next.Close() }

func translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return core.ErrStoreUnavailable
	}
	return err
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
