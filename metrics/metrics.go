// Package metrics holds the Prometheus collectors of the map server.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RendersTotal        *prometheus.CounterVec
	RenderDuration      *prometheus.HistogramVec
	PathsStored         prometheus.Gauge
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// DefaultRegistry 进程内共享的注册表
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry 创建独立的注册表 (测试里每个用例一个)
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "velograph_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "velograph_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	r.RendersTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "velograph_renders_total",
			Help: "Total number of rendered maps",
		},
		[]string{"kind", "status"},
	)
	r.RenderDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "velograph_render_duration_seconds",
			Help:    "Time spent rendering a map",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"kind"},
	)
	r.PathsStored = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "velograph_paths_stored",
			Help: "Number of paths in the store",
		},
	)
	return r
}

// Handler /metrics 的 HTTP 处理器
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Registry) RecordHTTPRequest(method, path, status string, d time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

// RecordRender kind 为 "static" 或 "interactive"
func (r *Registry) RecordRender(kind string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.RendersTotal.WithLabelValues(kind, status).Inc()
	r.RenderDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (r *Registry) SetPathsStored(n int64) {
	r.PathsStored.Set(float64(n))
}
