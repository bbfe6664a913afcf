package handler

import "net/http"

// PoolStats is the slice of worker.Pool the snapshot endpoint reads.
type PoolStats interface {
	Size() int
	Depth() int
	Capacity() int
}

// MetricsHandler serves a human-readable JSON snapshot of the worker pool.
// Raw Prometheus metrics (counters, histograms) are available at /metrics
// via promhttp and are separate from this endpoint.
type MetricsHandler struct {
	pool PoolStats
}

func NewMetricsHandler(pool PoolStats) *MetricsHandler {
	return &MetricsHandler{pool: pool}
}

// GetMetrics handles GET /api/v1/metrics
//
// @Summary  Real-time worker pool snapshot
// @Tags     metrics
// @Produce  json
// @Success  200  {object}  map[string]any
// @Router   /api/v1/metrics [get]
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"workers": h.pool.Size(),
		"queue": map[string]int{
			"depth":    h.pool.Depth(),
			"capacity": h.pool.Capacity(),
		},
	})
}
