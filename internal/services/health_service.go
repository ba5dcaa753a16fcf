package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"ratecli/internal/infrastructure"
)

// Readiness is implemented by anything the server needs before it can serve.
type Readiness interface {
	Ready() bool
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	startTime time.Time
	monitor   *infrastructure.RuntimeMonitor
	checks    map[string]Readiness
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                       `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Version   string                       `json:"version"`
	Runtime   *infrastructure.RuntimeStats `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth     `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. monitor may be nil.
func NewHealthService(version string, monitor *infrastructure.RuntimeMonitor, checks map[string]Readiness, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		startTime: time.Now(),
		monitor:   monitor,
		checks:    checks,
		logger:    infrastructure.WithComponent(logger, "health_service"),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
	if hs.readiness(ctx, nil) {
		return status
	}
	status.Status = "degraded"
	return status
}

// ReadinessCheck reports every registered check.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]ServiceHealth, len(hs.checks)),
	}
	if !hs.readiness(ctx, status.Services) {
		status.Status = "not_ready"
	}
	return status
}

// LivenessCheck returns liveness status with runtime statistics.
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
	if hs.monitor != nil {
		stats := hs.monitor.Snapshot()
		status.Runtime = &stats
	}
	return status
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	return map[string]interface{}{
		"version":    hs.version,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"uptime":     time.Since(hs.startTime).Seconds(),
		"start_time": hs.startTime.Format(time.RFC3339),
	}
}

// readiness runs every check, recording results in out when it is non-nil.
func (hs *HealthService) readiness(ctx context.Context, out map[string]ServiceHealth) bool {
	allReady := true
	for name, check := range hs.checks {
		health := ServiceHealth{Status: "ready"}
		if check == nil || !check.Ready() {
			allReady = false
			health = ServiceHealth{Status: "not_ready", Message: name + " is not loaded"}
			hs.logger.WarnContext(ctx, "readiness check failed", slog.String("check", name))
		}
		if out != nil {
			out[name] = health
		}
	}
	return allReady
}
