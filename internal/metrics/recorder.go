package metrics

import "time"

// ResultLabel enumerates phase result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailure ResultLabel = "failure"
)

// RunOutcomeLabel enumerates final run outcomes.
type RunOutcomeLabel string

const (
	OutcomeComplete RunOutcomeLabel = "complete"
	OutcomeAborted  RunOutcomeLabel = "aborted"
)

// FetchKind labels which part of the pipeline issued a fetch.
type FetchKind string

const (
	FetchBootstrap FetchKind = "bootstrap"
	FetchRef       FetchKind = "ref"
	FetchObject    FetchKind = "object"
	FetchPack      FetchKind = "pack"
)

// Recorder defines observability hooks for run and fetch metrics. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe for nil receivers
// when using the NoopRecorder (allowing optional injection).
type Recorder interface {
	ObservePhaseDuration(phase string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncPhaseResult(phase string, result ResultLabel)
	IncRunOutcome(outcome RunOutcomeLabel)
	ObserveFetchDuration(kind FetchKind, d time.Duration, success bool)
	IncFetchResult(kind FetchKind, success bool)
	SetObjectConcurrency(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePhaseDuration(string, time.Duration)          {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                    {}
func (NoopRecorder) IncPhaseResult(string, ResultLabel)                  {}
func (NoopRecorder) IncRunOutcome(RunOutcomeLabel)                       {}
func (NoopRecorder) ObserveFetchDuration(FetchKind, time.Duration, bool) {}
func (NoopRecorder) IncFetchResult(FetchKind, bool)                      {}
func (NoopRecorder) SetObjectConcurrency(int)                            {}
