// Package metrics provides an observability framework for salvage run metrics.
//
// The package implements the Null Object pattern: components receive a
// Recorder through dependency injection and use NoopRecorder by default, so
// no nil checks are needed at call sites and disabled metrics cost nothing.
//
// When a metrics endpoint is configured, the CLI swaps in a
// PrometheusRecorder backed by a private registry and serves it via
// HTTPHandler for the duration of the run:
//
//	reg := prom.NewRegistry()
//	recorder := metrics.NewPrometheusRecorder(reg)
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
