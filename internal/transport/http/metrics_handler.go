package http

import (
	"net/http"

	apierrors "ratecli/internal/errors"
)

// MetricsHandler exposes the Prometheus registry, or a 503 problem when
// metrics are disabled.
type MetricsHandler struct {
	prometheus   http.Handler
	errorHandler *apierrors.ErrorHandler
}

// NewMetricsHandler creates a new metrics handler. prometheus may be nil.
func NewMetricsHandler(prometheus http.Handler, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	return &MetricsHandler{prometheus: prometheus, errorHandler: errorHandler}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.prometheus == nil {
		h.errorHandler.HandleError(w, r,
			apierrors.New(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "metrics are disabled"))
		return
	}
	h.prometheus.ServeHTTP(w, r)
}
