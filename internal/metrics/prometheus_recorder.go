package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once              sync.Once
	phaseDuration     *prom.HistogramVec
	runDuration       prom.Histogram
	phaseResults      *prom.CounterVec
	runOutcome        *prom.CounterVec
	fetchDuration     *prom.HistogramVec
	fetchResults      *prom.CounterVec
	objectConcurrency prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.phaseDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "gitsalvage",
			Name:      "phase_duration_seconds",
			Help:      "Duration of individual pipeline phases",
			Buckets:   prom.DefBuckets,
		}, []string{"phase"})
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "gitsalvage",
			Name:      "run_duration_seconds",
			Help:      "Total salvage run duration",
			Buckets:   prom.DefBuckets,
		})
		pr.phaseResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "gitsalvage",
			Name:      "phase_results_total",
			Help:      "Phase result counts by outcome",
		}, []string{"phase", "result"})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "gitsalvage",
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by final state",
		}, []string{"outcome"})
		pr.fetchDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "gitsalvage",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of individual file fetches",
			Buckets:   prom.DefBuckets,
		}, []string{"kind", "result"})
		pr.fetchResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "gitsalvage",
			Name:      "fetch_results_total",
			Help:      "Fetch results by kind and success/failure",
		}, []string{"kind", "result"})
		pr.objectConcurrency = prom.NewGauge(prom.GaugeOpts{
			Namespace: "gitsalvage",
			Name:      "object_concurrency",
			Help:      "Observed worker count for the last object download phase",
		})
		reg.MustRegister(pr.phaseDuration, pr.runDuration, pr.phaseResults, pr.runOutcome, pr.fetchDuration, pr.fetchResults, pr.objectConcurrency)
	})
	return pr
}

func (p *PrometheusRecorder) ObservePhaseDuration(phase string, d time.Duration) {
	if p == nil || p.phaseDuration == nil {
		return
	}
	p.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPhaseResult(phase string, result ResultLabel) {
	if p == nil || p.phaseResults == nil {
		return
	}
	p.phaseResults.WithLabelValues(phase, string(result)).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome RunOutcomeLabel) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveFetchDuration(kind FetchKind, d time.Duration, success bool) {
	if p == nil || p.fetchDuration == nil {
		return
	}
	res := "failure"
	if success {
		res = "success"
	}
	p.fetchDuration.WithLabelValues(string(kind), res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFetchResult(kind FetchKind, success bool) {
	if p == nil || p.fetchResults == nil {
		return
	}
	res := "failure"
	if success {
		res = "success"
	}
	p.fetchResults.WithLabelValues(string(kind), res).Inc()
}

func (p *PrometheusRecorder) SetObjectConcurrency(n int) {
	if p == nil || p.objectConcurrency == nil {
		return
	}
	p.objectConcurrency.Set(float64(n))
}
