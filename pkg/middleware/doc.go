// Package middleware provides ambient instrumentation for a wayfind
// router: Prometheus metrics, OpenTelemetry tracing, and structured
// logging, each attached through the router's listener registries and
// detached by the returned unhook function.
package middleware
