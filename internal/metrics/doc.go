// Package metrics provides build observability hooks for codebook.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection needs no nil checks at call sites:
//
//	svc := build.NewService(cfg)                                   // NoopRecorder
//	svc = svc.WithRecorder(metrics.NewPrometheusRecorder(registry)) // real metrics
//
// The CLI has no long-running HTTP surface, so the Prometheus registry is
// exported with WriteTextfile for node_exporter's textfile collector.
package metrics
