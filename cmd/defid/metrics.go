package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// serveMetrics exposes the process-wide Prometheus registry every
// engine's metrics.go registers into, the same /metrics-over-promhttp
// shape the retrieval pack's own observability middleware uses.
func serveMetrics(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
