package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ledgerd/logx"
)

type nodePromMetrics struct {
	nodeUpUnixSeconds  prometheus.Gauge
	poolSize           prometheus.Gauge
	chainHeight        prometheus.Gauge
	sealedBlockCount   prometheus.Counter
	miningAttemptCount prometheus.Counter
	rejectedTxCount    prometheus.Counter
	validationFailures prometheus.Counter
	persistFailures    prometheus.Counter
	miningSeconds      prometheus.Histogram
	panicCount         prometheus.Counter
}

func newNodePromMetrics() *nodePromMetrics {
	return &nodePromMetrics{
		nodeUpUnixSeconds: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledgerd_node_up_timestamp_unix_seconds",
				Help: "Unix timestamp of the node start",
			},
		),
		poolSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledgerd_pool_size",
				Help: "The total pending transactions queued in the pool",
			},
		),
		chainHeight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledgerd_chain_height",
				Help: "Index of the latest sealed block",
			},
		),
		sealedBlockCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ledgerd_sealed_block_count",
				Help: "The total number of blocks sealed and appended",
			},
		),
		miningAttemptCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ledgerd_mining_attempt_count",
				Help: "The total number of nonce attempts across all mining runs",
			},
		),
		rejectedTxCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ledgerd_rejected_tx_count",
				Help: "The total number of rejected transactions",
			},
		),
		validationFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ledgerd_validation_failure_count",
				Help: "The total number of chain scans that found an integrity violation",
			},
		),
		persistFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ledgerd_persist_failure_count",
				Help: "The total number of snapshot saves that failed",
			},
		),
		miningSeconds: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledgerd_mining_seconds",
				Help:    "Duration in seconds of successful nonce searches",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
		),
		panicCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ledgerd_panic_count",
				Help: "The total number of recovered panics",
			},
		),
	}
}

var metrics = newNodePromMetrics()

func SetPoolSize(n int)              { metrics.poolSize.Set(float64(n)) }
func SetChainHeight(index uint64)    { metrics.chainHeight.Set(float64(index)) }
func IncreaseSealedBlockCount()      { metrics.sealedBlockCount.Inc() }
func AddMiningAttempts(n uint64)     { metrics.miningAttemptCount.Add(float64(n)) }
func IncreaseRejectedTxCount()       { metrics.rejectedTxCount.Inc() }
func IncreaseValidationFailures()    { metrics.validationFailures.Inc() }
func IncreasePersistFailures()       { metrics.persistFailures.Inc() }
func ObserveMiningSeconds(s float64) { metrics.miningSeconds.Observe(s) }
func IncreasePanicCount()            { metrics.panicCount.Inc() }

// Start serves the prometheus registry on addr under /metrics.
func Start(addr string) {
	metrics.nodeUpUnixSeconds.Set(float64(time.Now().Unix()))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logx.Error("MONITORING", "metrics server stopped: ", err)
		}
	}()
	logx.Info("MONITORING", "metrics listening on ", addr)
}
