// Package metrics exposes Prometheus collectors for the search pipeline and
// an optional HTTP endpoint serving them.
//
// Collectors are grouped in a Recorder rather than package globals so each
// pipeline (and each test) can own a registry.
package metrics
