// Package prometheus exports tenk metrics: calls to the external language
// model and embedding services, and index cache activity.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/tenk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tenk"

// Services labelling external calls.
const (
	ServiceGenerate = "generate"
	ServiceEmbed    = "embed"
)

// Metrics holds the tenk collectors and the registry they are registered with.
type Metrics struct {
	Registry *prometheus.Registry

	calls    *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	texts    prometheus.Counter
}

// NewMetrics returns Metrics registered with a new registry that also
// carries the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_calls_total",
			Help:      "Calls to the external language model and embedding services.",
		}, []string{"service"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_errors_total",
			Help:      "Failed calls to the external services by error code.",
		}, []string{"service", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_call_duration_seconds",
			Help:      "Latency of calls to the external services.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		}, []string{"service"}),
		texts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedded_texts_total",
			Help:      "Texts sent to the embedding service.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// RegisterCache exports the index cache counters read from stats on every scrape.
func (m *Metrics) RegisterCache(stats func() tenk.CacheStats) error {
	cs := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_cache_hits_total",
			Help:      "Index Set lookups served from the cache.",
		}, func() float64 { return float64(stats().Hits) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_cache_misses_total",
			Help:      "Index Set lookups that were not cached.",
		}, func() float64 { return float64(stats().Misses) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_cache_builds_total",
			Help:      "Index Sets built by the cache.",
		}, func() float64 { return float64(stats().Builds) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_cache_entries",
			Help:      "Index Sets currently cached.",
		}, func() float64 { return float64(stats().Entries) }),
	}
	for _, c := range cs {
		if err := m.Registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) observe(service string, begin time.Time, err error) {
	m.calls.WithLabelValues(service).Inc()
	m.duration.WithLabelValues(service).Observe(time.Since(begin).Seconds())
	if err != nil {
		m.errors.WithLabelValues(service, tenk.ErrorCode(err)).Inc()
	}
}

// Ensure Generator implements tenk.Generator at compile time.
var _ tenk.Generator = (*Generator)(nil)

// Generator records metrics for every completion of the wrapped generator.
type Generator struct {
	next    tenk.Generator
	metrics *Metrics
}

// NewGenerator wraps next with metrics.
func NewGenerator(next tenk.Generator, m *Metrics) *Generator {
	return &Generator{next: next, metrics: m}
}

func (g *Generator) Generate(ctx context.Context, cred tenk.Credential, prompt string) (text string, err error) {
	defer func(begin time.Time) { g.metrics.observe(ServiceGenerate, begin, err) }(time.Now())
	return g.next.Generate(ctx, cred, prompt)
}

// Ensure Embedder implements tenk.Embedder at compile time.
var _ tenk.Embedder = (*Embedder)(nil)

// Embedder records metrics for every batch sent to the wrapped embedder.
type Embedder struct {
	next    tenk.Embedder
	metrics *Metrics
}

// NewEmbedder wraps next with metrics.
func NewEmbedder(next tenk.Embedder, m *Metrics) *Embedder {
	return &Embedder{next: next, metrics: m}
}

func (e *Embedder) Model() string {
	return e.next.Model()
}

func (e *Embedder) Embed(ctx context.Context, cred tenk.Credential, texts []string) (vecs [][]float32, err error) {
	defer func(begin time.Time) { e.metrics.observe(ServiceEmbed, begin, err) }(time.Now())
	e.metrics.texts.Add(float64(len(texts)))
	return e.next.Embed(ctx, cred, texts)
}
