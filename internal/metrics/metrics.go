// Package metrics 应用自身的 Prometheus 指标
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry 应用指标注册表，/metrics 只暴露这里的指标
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "marketplace",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	// lifecycleTransitions 状态流转结果：applied / rejected / conflict
	lifecycleTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "lifecycle",
			Name:      "transitions_total",
			Help:      "Status transitions attempted per entity and action.",
		},
		[]string{"entity", "action", "result"},
	)

	appErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "errors",
			Name:      "total",
			Help:      "Application errors by error code.",
		},
		[]string{"code"},
	)
)

// 流转结果
const (
	ResultApplied  = "applied"
	ResultRejected = "rejected"
	ResultConflict = "conflict"
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		lifecycleTransitions,
		appErrors,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler 暴露注册表中的指标
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveHTTP 记录一次 HTTP 请求
func ObserveHTTP(method, path string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// RecordTransition 记录一次状态流转
func RecordTransition(entity, action, result string) {
	lifecycleTransitions.WithLabelValues(entity, action, result).Inc()
}

// RecordError 按错误码计数
func RecordError(code int) {
	appErrors.WithLabelValues(strconv.Itoa(code)).Inc()
}
