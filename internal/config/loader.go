// Package config provides configuration management for the health-check runner.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// legacyEnv maps configuration keys to the environment variable names used by
// existing deployments. They are consulted after the PROMCHECK_ prefixed names.
var legacyEnv = map[string]string{
	"datasources.prometheus.endpoint": "PROMETHEUS_ENDPOINT",
	"sensu.address":                   "SENSU_SOCKET_ADDRESS",
	"sensu.port":                      "SENSU_SOCKET_PORT",
	"run.debug":                       "PROM_DEBUG",
}

// Load reads runtime configuration from an optional YAML file and environment variables.
// With an empty configPath only defaults and environment variables are used.
// Environment variables take precedence over file values.
// Environment variable format: PROMCHECK_<SECTION>_<KEY> (e.g., PROMCHECK_SENSU_PORT)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults first
	setDefaults(v)

	// Configure environment variable binding
	v.SetEnvPrefix("PROMCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		envName := "PROMCHECK_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envName, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file not found: %s", ErrConfigInvalid, configPath)
		}

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfigInvalid, err)
		}
	}

	// PROM_DEBUG is historically set to any non-empty value
	v.Set("run.debug", parseFlag(v.GetString("run.debug")))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal config: %v", ErrConfigInvalid, err)
	}

	cfg.Datasources.Prometheus.Endpoint = normalizeEndpoint(cfg.Datasources.Prometheus.Endpoint)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values for all configuration options.
func setDefaults(v *viper.Viper) {
	// Datasources defaults
	v.SetDefault("datasources.prometheus.endpoint", "http://localhost:9090")
	v.SetDefault("datasources.prometheus.connect_timeout", 3*time.Second)
	v.SetDefault("datasources.prometheus.timeout", 3*time.Second)

	// Sensu client socket defaults
	v.SetDefault("sensu.address", "localhost")
	v.SetDefault("sensu.port", 3030)
	v.SetDefault("sensu.timeout", 3*time.Second)

	// Run defaults
	v.SetDefault("run.timeout", time.Duration(0)) // 0 表示不限制检查耗时
	v.SetDefault("run.debug", false)

	// Report defaults, no reports unless formats are requested
	v.SetDefault("report.output_dir", "./reports")
	v.SetDefault("report.formats", []string{})
	v.SetDefault("report.filename_template", "promcheck_{{.Date}}")
	v.SetDefault("report.timezone", "Local")
	v.SetDefault("report.html_template", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// normalizeEndpoint adds an http scheme to bare host:port endpoints.
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" || strings.Contains(endpoint, "://") {
		return endpoint
	}
	return "http://" + endpoint
}

// parseFlag interprets a boolean-ish setting. Unparseable non-empty values are true.
func parseFlag(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return true
	}
	return b
}
