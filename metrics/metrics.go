// Package metrics 定义推荐服务的 Prometheus 指标。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 查询操作
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shoprec_operation_duration_seconds",
			Help:    "Duration of recommendation engine operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoprec_operations_total",
			Help: "Total number of recommendation engine operations",
		},
		[]string{"operation", "status"},
	)

	// 数据集
	DatasetRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "shoprec_dataset_records",
			Help: "Number of records in the loaded dataset",
		},
		[]string{"kind"}, // products / interactions
	)

	DatasetGeneration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shoprec_dataset_generation",
			Help: "Generation counter of the loaded dataset",
		},
	)

	DatasetLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoprec_dataset_loads_total",
			Help: "Total number of dataset loads",
		},
		[]string{"status"},
	)

	// 派生索引
	IndexRebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shoprec_index_rebuild_duration_seconds",
			Help:    "Duration of derived index rebuilds in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	IndexRebuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoprec_index_rebuilds_total",
			Help: "Total number of derived index rebuilds",
		},
		[]string{"status"},
	)

	// 推荐结果缓存
	ResultCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoprec_result_cache_requests_total",
			Help: "Result cache lookups by outcome",
		},
		[]string{"result"}, // hit / miss / error
	)

	// 后处理过滤器求值失败（视为未命中，商品保留）
	FilterErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoprec_filter_errors_total",
			Help: "Filter evaluations that failed and were treated as no match",
		},
		[]string{"filter"},
	)

	// 熔断器
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "shoprec_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoprec_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// HTTP
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shoprec_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveOperation 记录一次引擎操作的耗时与结果。
func ObserveOperation(operation string, start time.Time, err error) {
	OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	status := "success"
	if err != nil {
		status = "error"
	}
	OperationsTotal.WithLabelValues(operation, status).Inc()
}
