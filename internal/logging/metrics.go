package logging

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"
)

// Metrics holds the training counters on a private registry so several
// runs in one process never collide
type Metrics struct {
	Registry *prometheus.Registry

	Rollouts         prometheus.Counter
	RolloutsDiverged prometheus.Counter
	CacheHits        prometheus.Counter
	Generation       prometheus.Gauge
	BestScore        prometheus.Gauge
	MeanScore        prometheus.Gauge
	RolloutSeconds   prometheus.Histogram

	rollouts atomic.Int64
}

// NewMetrics creates and registers every collector
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Rollouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walkerga_rollouts_total",
			Help: "Physics rollouts executed.",
		}),
		RolloutsDiverged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walkerga_rollouts_diverged_total",
			Help: "Rollouts aborted on non-finite physics state.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walkerga_rollout_cache_hits_total",
			Help: "Scores served from the genome memo.",
		}),
		Generation: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "walkerga_generation",
			Help: "Last evaluated generation.",
		}),
		BestScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "walkerga_best_score",
			Help: "Best score seen so far. Lower is better.",
		}),
		MeanScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "walkerga_mean_score",
			Help: "Mean score of the last evaluated generation.",
		}),
		RolloutSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "walkerga_rollout_seconds",
			Help:    "Wall-clock duration of one rollout.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
	}
	m.Registry.MustRegister(m.Rollouts, m.RolloutsDiverged, m.CacheHits,
		m.Generation, m.BestScore, m.MeanScore, m.RolloutSeconds)
	return m
}

// ObserveRollout records one executed rollout
func (m *Metrics) ObserveRollout(d time.Duration, diverged bool) {
	if m == nil {
		return
	}
	m.Rollouts.Inc()
	m.rollouts.Add(1)
	m.RolloutSeconds.Observe(d.Seconds())
	if diverged {
		m.RolloutsDiverged.Inc()
	}
}

// RolloutCount returns how many rollouts were executed
func (m *Metrics) RolloutCount() int64 {
	if m == nil {
		return 0
	}
	return m.rollouts.Load()
}

// ObserveCacheHit records a memoized score
func (m *Metrics) ObserveCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// ObserveGeneration records a finished generation
func (m *Metrics) ObserveGeneration(gen int, best, mean float64) {
	if m == nil {
		return
	}
	m.Generation.Set(float64(gen))
	m.BestScore.Set(best)
	m.MeanScore.Set(mean)
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done
func (m *Metrics) Serve(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		klog.InfoS("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			klog.ErrorS(err, "Metrics server stopped", "addr", addr)
		}
	}()
}
