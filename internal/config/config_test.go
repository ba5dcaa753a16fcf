package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ratecli/internal/errors"
)

var envVars = []string{
	"RATECLI_CONFIG_FILE",
	"RATECLI_LOGGING_LEVEL", "RATECLI_LOGGING_OUTPUT", "RATECLI_LOGGING_FILE_PATH",
	"RATECLI_INFERENCE_MAX_BACKWARD_OFFSET", "RATECLI_INFERENCE_HEADER_SAMPLE_ROWS", "RATECLI_INFERENCE_KEY_MODE",
	"RATECLI_SERVER_PORT", "RATECLI_SERVER_READ_TIMEOUT", "RATECLI_SERVER_RATE_LIMIT_RPS",
	"RATECLI_TELEMETRY_TRACE_EXPORTER", "RATECLI_TELEMETRY_METRICS",
}

// clearEnv unsets every variable the tests touch; t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, envVar := range envVars {
		t.Setenv(envVar, "")
		os.Unsetenv(envVar)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "ratecli.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	return configFile
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
				assert.Equal(t, DefaultMaxBackwardOffset, cfg.Inference.MaxBackwardOffset)
				assert.Equal(t, DefaultHeaderSampleRows, cfg.Inference.HeaderSampleRows)
				assert.Equal(t, DefaultKeyMode, cfg.Inference.KeyMode)
				assert.Equal(t, DefaultLogOutput, cfg.Logging.Output)
			},
		},
		{
			name: "custom environment variables",
			env: map[string]string{
				"RATECLI_SERVER_PORT":                   "9090",
				"RATECLI_SERVER_READ_TIMEOUT":           "30s",
				"RATECLI_LOGGING_LEVEL":                 "debug",
				"RATECLI_INFERENCE_MAX_BACKWARD_OFFSET": "3",
				"RATECLI_INFERENCE_KEY_MODE":            "datetime",
				"RATECLI_SERVER_RATE_LIMIT_RPS":         "2.5",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 3, cfg.Inference.MaxBackwardOffset)
				assert.Equal(t, "datetime", cfg.Inference.KeyMode)
				assert.Equal(t, 2.5, cfg.Server.RateLimit.RPS)
			},
		},
		{
			name:    "invalid port number",
			env:     map[string]string{"RATECLI_SERVER_PORT": "99999"},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			env:     map[string]string{"RATECLI_SERVER_READ_TIMEOUT": "-5s"},
			wantErr: true,
		},
		{
			name:    "negative backward offset",
			env:     map[string]string{"RATECLI_INFERENCE_MAX_BACKWARD_OFFSET": "-1"},
			wantErr: true,
		},
		{
			name:    "unknown key mode",
			env:     map[string]string{"RATECLI_INFERENCE_KEY_MODE": "weekly"},
			wantErr: true,
		},
		{
			name:    "unparsable number",
			env:     map[string]string{"RATECLI_SERVER_PORT": "eighty"},
			wantErr: true,
		},
		{
			name: "warning level is normalized",
			env:  map[string]string{"RATECLI_LOGGING_LEVEL": "warning"},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "warn", cfg.Logging.Level)
			},
		},
		{
			name: "config file with environment override",
			env: map[string]string{
				"RATECLI_SERVER_PORT":   "7070",
				"RATECLI_LOGGING_LEVEL": "warn",
			},
			fileContent: `
server:
  port: 6060
  read_timeout: 20s
logging:
  level: error
inference:
  max_backward_offset: 4
telemetry:
  trace_exporter: stdout
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, "warn", cfg.Logging.Level)
				assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 4, cfg.Inference.MaxBackwardOffset)
				assert.Equal(t, "stdout", cfg.Telemetry.TraceExporter)
				assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
			},
		},
		{
			name:        "invalid value in file",
			fileContent: "inference:\n  key_mode: hourly\n",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.fileContent != "" {
				t.Setenv(ConfigFileEnv, writeConfig(t, tt.fileContent))
			}

			cfg, err := Load()

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	clearEnv(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

// TestLoadFromFile tests the loadFromFile function
func TestLoadFromFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "valid YAML config",
			fileContent: `
server:
  port: 9000
  read_timeout: 25s
  rate_limit:
    enabled: false
logging:
  level: debug
  output: file
  file_path: /tmp/ratecli.log
inference:
  header_sample_rows: 5
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, 25*time.Second, cfg.Server.ReadTimeout)
				assert.False(t, cfg.Server.RateLimit.Enabled)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "file", cfg.Logging.Output)
				assert.Equal(t, 5, cfg.Inference.HeaderSampleRows)
			},
		},
		{
			name:        "invalid YAML syntax",
			fileContent: "invalid: yaml: content: [unclosed",
			wantErr:     true,
		},
		{
			name: "partial config keeps defaults",
			fileContent: `
server:
  port: 8888
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8888, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, 10, cfg.Inference.MaxBackwardOffset)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadFromFile(writeConfig(t, tt.fileContent))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

// TestMergeConfigs tests the mergeConfigs function
func TestMergeConfigs(t *testing.T) {
	fileConfig := *Default()
	fileConfig.Server.Port = 6060
	fileConfig.Server.ReadTimeout = 20 * time.Second
	fileConfig.Logging.Level = "error"
	fileConfig.Inference.MaxBackwardOffset = 4

	envConfig := *Default()
	envConfig.Server.Port = 7070
	envConfig.Server.RateLimit.Burst = 5
	envConfig.Inference.KeyMode = "datetime"

	merged := mergeConfigs(fileConfig, envConfig, *Default())

	// Environment should take precedence when it differs from the default
	assert.Equal(t, 7070, merged.Server.Port)
	assert.Equal(t, 5, merged.Server.RateLimit.Burst)
	assert.Equal(t, "datetime", merged.Inference.KeyMode)

	// File values survive where env kept the default
	assert.Equal(t, 20*time.Second, merged.Server.ReadTimeout)
	assert.Equal(t, "error", merged.Logging.Level)
	assert.Equal(t, 4, merged.Inference.MaxBackwardOffset)
}

// TestValidate tests the validate function
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid configuration",
			mutate: func(*Config) {},
		},
		{
			name:    "invalid port - zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
			errMsg:  "Port",
		},
		{
			name:    "invalid write timeout",
			mutate:  func(c *Config) { c.Server.WriteTimeout = 0 },
			wantErr: true,
			errMsg:  "WriteTimeout",
		},
		{
			name:    "zero header sample rows",
			mutate:  func(c *Config) { c.Inference.HeaderSampleRows = 0 },
			wantErr: true,
			errMsg:  "HeaderSampleRows",
		},
		{
			name: "file output needs a path",
			mutate: func(c *Config) {
				c.Logging.Output = "file"
				c.Logging.FilePath = ""
			},
			wantErr: true,
			errMsg:  "FilePath",
		},
		{
			name:    "unknown trace exporter",
			mutate:  func(c *Config) { c.Telemetry.TraceExporter = "jaeger" },
			wantErr: true,
			errMsg:  "TraceExporter",
		},
		{
			name:   "zero backward offset allows exact matches only",
			mutate: func(c *Config) { c.Inference.MaxBackwardOffset = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.validate()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGetConfigFilePath(t *testing.T) {
	clearEnv(t)

	t.Run("env variable wins", func(t *testing.T) {
		t.Setenv(ConfigFileEnv, "/etc/ratecli/custom.yaml")
		assert.Equal(t, "/etc/ratecli/custom.yaml", getConfigFilePath())
	})

	t.Run("working directory file is found", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "ratecli.yaml"), []byte("{}"), 0644))
		originalDir, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(tempDir))
		t.Cleanup(func() { os.Chdir(originalDir) })

		assert.Equal(t, "ratecli.yaml", getConfigFilePath())
	})
}
