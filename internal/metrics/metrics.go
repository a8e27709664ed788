package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the crawler collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	tasks              *prometheus.CounterVec
	retries            *prometheus.CounterVec
	unblocks           prometheus.Counter
	statusChecks       *prometheus.CounterVec
	queueDepth         *prometheus.GaugeVec
	bufferedRecords    prometheus.Gauge
	checkpoints        *prometheus.CounterVec
	checkpointDuration prometheus.Histogram
	recordsFlushed     prometheus.Counter
	phase              *prometheus.GaugeVec
	proxyInfo          *prometheus.GaugeVec
}

// New registers the crawler collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "househunter_tasks_total",
			Help: "Crawl tasks by kind and outcome.",
		}, []string{"kind", "outcome"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "househunter_fetch_retries_total",
			Help: "Fetch retries by failure class.",
		}, []string{"class"}),
		unblocks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "househunter_unblocks_total",
			Help: "Challenge pages handed to the unblocker.",
		}),
		statusChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "househunter_status_checks_total",
			Help: "Side-channel HTTP status checks by result class.",
		}, []string{"class"}),
		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "househunter_queue_depth",
			Help: "Pending tasks per queue.",
		}, []string{"queue"}),
		bufferedRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "househunter_buffered_records",
			Help: "Records collected but not yet flushed.",
		}),
		checkpoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "househunter_checkpoints_total",
			Help: "Checkpoints by trigger and result.",
		}, []string{"trigger", "result"}),
		checkpointDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "househunter_checkpoint_duration_seconds",
			Help:    "Snapshot plus flush latency.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		recordsFlushed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "househunter_records_flushed_total",
			Help: "Records written to the dataset sink.",
		}),
		phase: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "househunter_phase",
			Help: "1 for the coordinator's current phase.",
		}, []string{"phase"}),
		proxyInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "househunter_proxy_info",
			Help: "Proxy URL this crawler uses (1 when set).",
		}, []string{"proxy"}),
	}
	reg.MustRegister(
		m.tasks, m.retries, m.unblocks, m.statusChecks, m.queueDepth, m.bufferedRecords,
		m.checkpoints, m.checkpointDuration, m.recordsFlushed, m.phase, m.proxyInfo,
	)
	return m
}

// Handler serves the collectors gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) TaskOutcome(kind, outcome string) {
	if m == nil {
		return
	}
	m.tasks.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) Retry(class string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(class).Inc()
}

func (m *Metrics) Unblock() {
	if m == nil {
		return
	}
	m.unblocks.Inc()
}

func (m *Metrics) StatusCheck(class string) {
	if m == nil {
		return
	}
	m.statusChecks.WithLabelValues(class).Inc()
}

// Queues records queue and buffer depths.
func (m *Metrics) Queues(navigation, listings, buffered int) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues("navigation").Set(float64(navigation))
	m.queueDepth.WithLabelValues("listings").Set(float64(listings))
	m.bufferedRecords.Set(float64(buffered))
}

func (m *Metrics) Checkpoint(trigger string, err error, took time.Duration, flushed int) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.checkpoints.WithLabelValues(trigger, result).Inc()
	m.checkpointDuration.Observe(took.Seconds())
	if err == nil {
		m.recordsFlushed.Add(float64(flushed))
	}
}

// Phase marks current as the only active phase among all.
func (m *Metrics) Phase(current string, all ...string) {
	if m == nil {
		return
	}
	for _, p := range all {
		m.phase.WithLabelValues(p).Set(0)
	}
	m.phase.WithLabelValues(current).Set(1)
}

func (m *Metrics) Proxy(proxyURL string) {
	if m == nil || proxyURL == "" {
		return
	}
	m.proxyInfo.WithLabelValues(proxyURL).Set(1)
}
