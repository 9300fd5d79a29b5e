package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Launchpad Metrics Collector

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all launchpad metrics
type Collector struct {
	// Pool metrics
	PoolsCreated   *prometheus.CounterVec
	SupplyEscrowed *prometheus.CounterVec
	WindowsClosed  prometheus.Counter
	PoolsFinalized prometheus.Counter
	RaisedSwept    prometheus.Counter
	PendingWindows prometheus.Gauge

	// Participant metrics
	Contributions     *prometheus.CounterVec
	ContributedAmount *prometheus.CounterVec
	Claims            *prometheus.CounterVec
	ClaimedTokens     *prometheus.CounterVec

	// Rejections by operation and error kind
	Rejections *prometheus.CounterVec

	// Block metrics
	BlockHeight      prometheus.Gauge
	EndBlockLatency  prometheus.Histogram
	InvariantsBroken *prometheus.CounterVec
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector(prometheus.DefaultRegisterer)
	})
	return collector
}

// NewCollector creates a collector registered on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	return newCollector(reg)
}

func newCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{}

	c.PoolsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "launchpad",
			Subsystem: "pools",
			Name:      "created_total",
			Help:      "Number of pools created",
		},
		[]string{"asset_denom"},
	)

	c.SupplyEscrowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "launchpad",
			Subsystem: "pools",
			Name:      "supply_escrowed_total",
			Help:      "Asset units moved into pool escrow",
		},
		[]string{"asset_denom"},
	)

	c.WindowsClosed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "launchpad",
			Subsystem: "pools",
			Name:      "windows_closed_total",
			Help:      "Contribution windows that have closed",
		},
	)

	c.PoolsFinalized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "launchpad",
			Subsystem: "pools",
			Name:      "finalized_total",
			Help:      "Number of pools finalized",
		},
	)

	c.RaisedSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "launchpad",
			Subsystem: "pools",
			Name:      "raised_swept_total",
			Help:      "Raise currency swept to pool authorities",
		},
	)

	c.PendingWindows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "launchpad",
			Subsystem: "pools",
			Name:      "pending_windows",
			Help:      "Pools whose contribution window has not closed yet",
		},
	)

	c.Contributions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "launchpad",
			Subsystem: "participants",
			Name:      "contributions_total",
			Help:      "Accepted contributions",
		},
		[]string{"pool_id"},
	)

	c.ContributedAmount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "launchpad",
			Subsystem: "participants",
			Name:      "contributed_total",
			Help:      "Raise currency contributed",
		},
		[]string{"pool_id"},
	)

	c.Claims = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "launchpad",
			Subsystem: "participants",
			Name:      "claims_total",
			Help:      "Successful claims",
		},
		[]string{"pool_id"},
	)

	c.ClaimedTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "launchpad",
			Subsystem: "participants",
			Name:      "claimed_tokens_total",
			Help:      "Asset units paid out by claims",
		},
		[]string{"pool_id"},
	)

	c.Rejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "launchpad",
			Subsystem: "operations",
			Name:      "rejections_total",
			Help:      "Operations refused, by operation and error kind",
		},
		[]string{"operation", "kind"},
	)

	c.BlockHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "launchpad",
			Subsystem: "chain",
			Name:      "block_height",
			Help:      "Last processed block height",
		},
	)

	c.EndBlockLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "launchpad",
			Subsystem: "chain",
			Name:      "endblock_latency_ms",
			Help:      "EndBlocker latency in milliseconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500},
		},
	)

	c.InvariantsBroken = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "launchpad",
			Subsystem: "chain",
			Name:      "invariants_broken_total",
			Help:      "Invariant checks that failed",
		},
		[]string{"invariant"},
	)

	c.registerAll(reg)

	return c
}

// registerAll registers all metrics with Prometheus
func (c *Collector) registerAll(reg prometheus.Registerer) {
	reg.MustRegister(
		c.PoolsCreated,
		c.SupplyEscrowed,
		c.WindowsClosed,
		c.PoolsFinalized,
		c.RaisedSwept,
		c.PendingWindows,
		c.Contributions,
		c.ContributedAmount,
		c.Claims,
		c.ClaimedTokens,
		c.Rejections,
		c.BlockHeight,
		c.EndBlockLatency,
		c.InvariantsBroken,
	)
}

// ============ Recording Helpers ============

// RecordPoolCreated records a new pool
func (c *Collector) RecordPoolCreated(assetDenom string, totalSupply uint64) {
	c.PoolsCreated.WithLabelValues(assetDenom).Inc()
	c.SupplyEscrowed.WithLabelValues(assetDenom).Add(float64(totalSupply))
}

// RecordContribution records an accepted contribution
func (c *Collector) RecordContribution(poolID string, amount uint64) {
	c.Contributions.WithLabelValues(poolID).Inc()
	c.ContributedAmount.WithLabelValues(poolID).Add(float64(amount))
}

// RecordFinalize records a finalized pool
func (c *Collector) RecordFinalize(poolID string, amountSwept uint64) {
	c.PoolsFinalized.Inc()
	c.RaisedSwept.Add(float64(amountSwept))
}

// RecordClaim records a successful claim
func (c *Collector) RecordClaim(poolID string, tokenAmount uint64) {
	c.Claims.WithLabelValues(poolID).Inc()
	c.ClaimedTokens.WithLabelValues(poolID).Add(float64(tokenAmount))
}

// RecordRejection records a refused operation
func (c *Collector) RecordRejection(operation, kind string) {
	c.Rejections.WithLabelValues(operation, kind).Inc()
}

// RecordWindowClosed records a closed contribution window
func (c *Collector) RecordWindowClosed(poolID string) {
	c.WindowsClosed.Inc()
}

// RecordInvariantBroken records a failed invariant check
func (c *Collector) RecordInvariantBroken(name string) {
	c.InvariantsBroken.WithLabelValues(name).Inc()
}

// UpdateBlockMetrics updates per-block metrics
func (c *Collector) UpdateBlockMetrics(blockHeight int64, pendingWindows int, endBlockMs float64) {
	c.BlockHeight.Set(float64(blockHeight))
	c.PendingWindows.Set(float64(pendingWindows))
	c.EndBlockLatency.Observe(endBlockMs)
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until ctx is cancelled
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
