package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ratecli/internal/errors"
	"ratecli/internal/series"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ratecli.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNewEnv(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		wantMode series.KeyMode
		wantErr  apperrors.ErrorType
	}{
		{
			name:     "defaults",
			config:   "logging:\n  level: debug\n",
			wantMode: series.KeyByDate,
		},
		{
			name:     "datetime keys",
			config:   "inference:\n  key_mode: datetime\n",
			wantMode: series.KeyByDatetime,
		},
		{
			name:    "stdout logging is rejected",
			config:  "logging:\n  output: stdout\n",
			wantErr: apperrors.ErrTypeConfig,
		},
		{
			name:    "invalid key mode",
			config:  "inference:\n  key_mode: weekly\n",
			wantErr: apperrors.ErrTypeConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			env, err := NewEnv("test", &CommonFlags{ConfigFile: writeConfig(t, tt.config)}, &stderr)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = env.Close(context.Background()) })

			assert.Equal(t, "test", env.Name)
			assert.Equal(t, tt.wantMode, env.KeyMode)
			assert.NotNil(t, env.Files)
			assert.NotNil(t, env.Parser())
		})
	}
}

func TestEnv_FailLogsErrorType(t *testing.T) {
	var stderr bytes.Buffer
	env, err := NewEnv("sortcsv", &CommonFlags{ConfigFile: writeConfig(t, "telemetry:\n  metrics: false\n")}, &stderr)
	require.NoError(t, err)

	code := env.Fail(Start(), apperrors.NewStorageError("failed to read in.csv", errors.New("no such file")))

	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr.String(), `"msg":"command failed"`)
	assert.Contains(t, stderr.String(), `"error_type":"STORAGE"`)
	assert.Contains(t, stderr.String(), `"command":"sortcsv"`)
	assert.Equal(t, ExitOK, env.Finish(context.Background(), ExitOK))
}

func TestEnv_CloseWritesMetricsFile(t *testing.T) {
	metrics := filepath.Join(t.TempDir(), "metrics.prom")
	var stderr bytes.Buffer
	env, err := NewEnv("mda", &CommonFlags{
		ConfigFile:  writeConfig(t, "telemetry:\n  metrics: false\n"),
		MetricsFile: metrics,
	}, &stderr)
	require.NoError(t, err)
	require.NotNil(t, env.Telemetry.Registry, "a metrics file turns metrics on")

	require.NoError(t, env.Close(context.Background()))

	_, err = os.Stat(metrics)
	assert.NoError(t, err)
}

func TestUsage(t *testing.T) {
	fs := flag.NewFlagSet("mda", flag.ContinueOnError)
	RegisterCommonFlags(fs)
	var stderr bytes.Buffer

	code := Usage(fs, &stderr, "-file is required")

	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr.String(), "mda: -file is required")
	assert.Contains(t, stderr.String(), "-metrics-file")
	assert.Contains(t, stderr.String(), "-config")
}
