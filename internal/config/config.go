package config

import (
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "ratecli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Inference InferenceConfig `yaml:"inference" envconfig:"INFERENCE"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stderr" validate:"oneof=stdout stderr file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/ratecli.log" validate:"required_if=Output file,required_if=Output both"`
}

// InferenceConfig tunes dialect detection and rate lookups.
type InferenceConfig struct {
	MaxBackwardOffset int    `yaml:"max_backward_offset" envconfig:"MAX_BACKWARD_OFFSET" default:"10" validate:"gte=0,lte=3660"`
	HeaderSampleRows  int    `yaml:"header_sample_rows" envconfig:"HEADER_SAMPLE_ROWS" default:"20" validate:"gte=1"`
	KeyMode           string `yaml:"key_mode" envconfig:"KEY_MODE" default:"date" validate:"oneof=date datetime"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" default:"8080" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s" validate:"gt=0"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s" validate:"gt=0"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50" validate:"gte=1"`
}

// TelemetryConfig selects tracing and metrics exporters.
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"ratecli" validate:"required"`
	Environment   string `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none" validate:"oneof=none stdout"`
	Metrics       bool   `yaml:"metrics" envconfig:"METRICS" default:"true"`
}

// Load loads configuration from the first config file found and the
// environment. Environment values win over the file.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file; an empty path skips the file.
func LoadFile(configFile string) (*Config, error) {
	var envCfg Config
	if err := envconfig.Process(EnvPrefix, &envCfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	cfg := envCfg
	if configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config from %s", configFile), err)
		}
		cfg = mergeConfigs(*fileCfg, envCfg, *Default())
	}

	if err := cfg.validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file over the defaults
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeConfigs takes every env value that differs from its default and the
// file value otherwise.
func mergeConfigs(fileConfig, envConfig, defaults Config) Config {
	merged := fileConfig
	mergeValue(reflect.ValueOf(&merged).Elem(), reflect.ValueOf(envConfig), reflect.ValueOf(defaults))
	return merged
}

func mergeValue(dst, env, def reflect.Value) {
	if dst.Kind() == reflect.Struct && dst.Type() != reflect.TypeOf(time.Duration(0)) {
		for i := 0; i < dst.NumField(); i++ {
			mergeValue(dst.Field(i), env.Field(i), def.Field(i))
		}
		return
	}
	if !reflect.DeepEqual(env.Interface(), def.Interface()) {
		dst.Set(env)
	}
}

// validate validates the configuration
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return path
	}

	locations := []string{
		"ratecli.yaml",
		"configs/ratecli.yaml",
		"../configs/ratecli.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stderr",
			FilePath: "logs/ratecli.log",
		},
		Inference: InferenceConfig{
			MaxBackwardOffset: 10,
			HeaderSampleRows:  20,
			KeyMode:           "date",
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Telemetry: TelemetryConfig{
			ServiceName:   "ratecli",
			Environment:   "development",
			TraceExporter: "none",
			Metrics:       true,
		},
	}
}
