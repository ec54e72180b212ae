package server

import (
	"net/http"
	"sync"
)

// Metrics holds in-process counters, exposed as a JSON snapshot at /metrics.
type Metrics struct {
	mu sync.Mutex

	requestsTotal    int64
	requestErrors4xx int64
	requestErrors5xx int64

	uploadsTotal     int64
	uploadBytesTotal int64
}

var globalMetrics = &Metrics{}

// GetMetrics returns the global metrics instance.
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordRequest records a completed request by status class.
func (m *Metrics) RecordRequest(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestsTotal++
	switch {
	case status >= 500:
		m.requestErrors5xx++
	case status >= 400:
		m.requestErrors4xx++
	}
}

// RecordUpload records a stored payload.
func (m *Metrics) RecordUpload(bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadsTotal++
	m.uploadBytesTotal += bytes
}

// Snapshot returns a copy of all counters.
func (m *Metrics) Snapshot() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]int64{
		"requests_total":     m.requestsTotal,
		"request_errors_4xx": m.requestErrors4xx,
		"request_errors_5xx": m.requestErrors5xx,
		"uploads_total":      m.uploadsTotal,
		"upload_bytes_total": m.uploadBytesTotal,
	}
}

// metricsHandler handles GET /metrics.
func metricsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, GetMetrics().Snapshot())
}
