// Package metrics provides observability hooks for publish runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics impose zero overhead unless the daemon enables the
// Prometheus recorder and its HTTP endpoint.
package metrics
