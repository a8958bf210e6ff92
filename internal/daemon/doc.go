// Package daemon provides continuous publishing: filesystem watching with
// debounce, interval scheduling, and optional NATS notifications and a
// Prometheus endpoint. Publish runs are strictly serialized; triggers that
// arrive while a run is in flight coalesce into a single follow-up run.
package daemon
