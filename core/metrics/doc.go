// Package metrics defines the Prometheus collectors of the synchronization engine.
//
// Collectors are registered on the default registry at init and updated through
// small Record* helpers so that callers never touch label values directly.
// Handler exposes the registry on the fiber server at /metrics.
package metrics
