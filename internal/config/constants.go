package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "ratecli"
	AppVersion = "1.0.0"

	// Environment
	EnvPrefix     = "RATECLI"
	ConfigFileEnv = "RATECLI_CONFIG_FILE"

	// Inference defaults
	DefaultMaxBackwardOffset = 10
	DefaultHeaderSampleRows  = 20
	DefaultKeyMode           = "date"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogOutput = "stderr"
	DefaultLogsDir   = "logs"

	// API Endpoints
	APIBasePath     = "/api/v1"
	RatesEndpoint   = "/api/v1/rates"
	FormatEndpoint  = "/api/v1/format"
	HealthEndpoint  = "/health"
	MetricsEndpoint = "/metrics"
)
