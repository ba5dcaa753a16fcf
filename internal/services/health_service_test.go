package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"ratecli/internal/infrastructure"
	"ratecli/internal/shared/testutil"
)

type staticReadiness bool

func (r staticReadiness) Ready() bool { return bool(r) }

func TestHealthService_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]Readiness
		wantStatus string
		wantHealth string
	}{
		{
			name:       "all ready",
			checks:     map[string]Readiness{"rates": staticReadiness(true)},
			wantStatus: "ready",
			wantHealth: "ok",
		},
		{
			name:       "one not ready",
			checks:     map[string]Readiness{"rates": staticReadiness(false), "other": staticReadiness(true)},
			wantStatus: "not_ready",
			wantHealth: "degraded",
		},
		{
			name:       "nil check",
			checks:     map[string]Readiness{"rates": nil},
			wantStatus: "not_ready",
			wantHealth: "degraded",
		},
		{
			name:       "no checks",
			wantStatus: "ready",
			wantHealth: "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, handler := testutil.NewTestLogger(t)
			hs := NewHealthService("1.0.0", nil, tt.checks, logger)

			status := hs.ReadinessCheck(context.Background())

			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Len(t, status.Services, len(tt.checks))
			assert.Equal(t, tt.wantHealth, hs.HealthCheck(context.Background()).Status)
			if tt.wantStatus == "not_ready" {
				testutil.AssertLogContains(t, handler, slog.LevelWarn, "readiness check failed")
				assert.Equal(t, "not_ready", status.Services["rates"].Status)
			}
		})
	}
}

func TestHealthService_LivenessCheck(t *testing.T) {
	mp := sdkmetric.NewMeterProvider()
	t.Cleanup(func() { mp.Shutdown(context.Background()) })
	monitor, err := infrastructure.NewRuntimeMonitor(mp.Meter("test"))
	require.NoError(t, err)

	hs := NewHealthService("1.0.0", monitor, nil, nil)
	status := hs.LivenessCheck(context.Background())

	assert.Equal(t, "alive", status.Status)
	require.NotNil(t, status.Runtime)
	assert.Positive(t, status.Runtime.Goroutines)

	assert.Nil(t, NewHealthService("1.0.0", nil, nil, nil).LivenessCheck(context.Background()).Runtime)
}

func TestHealthService_Version(t *testing.T) {
	v := NewHealthService("1.2.3", nil, nil, nil).Version()

	assert.Equal(t, "1.2.3", v["version"])
	assert.Contains(t, v, "go_version")
}
