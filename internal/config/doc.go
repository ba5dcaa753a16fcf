// Package config provides configuration loading for the ratecli tools and
// the rate server.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// The file is taken from RATECLI_CONFIG_FILE or, when unset, the first of
// ratecli.yaml, configs/ratecli.yaml and ../configs/ratecli.yaml that exists.
//
// # Environment Variables
//
// All environment variables use the RATECLI_ prefix followed by the section:
//
//	RATECLI_LOGGING_LEVEL=debug
//	RATECLI_INFERENCE_MAX_BACKWARD_OFFSET=5
//	RATECLI_INFERENCE_KEY_MODE=datetime
//	RATECLI_SERVER_PORT=9090
//	RATECLI_TELEMETRY_TRACE_EXPORTER=stdout
//
// An environment value only overrides the file when it differs from the
// built-in default.
//
// # Validation
//
// Every section is validated with struct tags at load time; failures are
// returned as CONFIG errors.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests that need no environment or file should use config.Default().
package config
