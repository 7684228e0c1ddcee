// Package config provides configuration management for the health-check runner.
package config

import "time"

// Config is the root runtime configuration structure.
// Check definitions live in a separate checks file, see LoadChecks.
type Config struct {
	Datasources DatasourcesConfig `mapstructure:"datasources" validate:"required"`
	Sensu       SensuConfig       `mapstructure:"sensu"`
	Run         RunConfig         `mapstructure:"run"`
	Report      ReportConfig      `mapstructure:"report"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// DatasourcesConfig contains configurations for data sources.
type DatasourcesConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus" validate:"required"`
}

// PrometheusConfig contains configuration for the Prometheus-compatible query API.
type PrometheusConfig struct {
	Endpoint       string        `mapstructure:"endpoint" validate:"required,url"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"gte=0"` // TCP 建连超时
	Timeout        time.Duration `mapstructure:"timeout" validate:"gte=0"`         // 单次请求总超时
}

// SensuConfig contains configuration for the Sensu client socket.
type SensuConfig struct {
	Address string        `mapstructure:"address" validate:"required"`
	Port    int           `mapstructure:"port" validate:"gte=1,lte=65535"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"` // 建连及写入超时
}

// RunConfig contains configurations for run behavior.
type RunConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
	// Debug prints events to stdout instead of sending them to Sensu.
	Debug bool `mapstructure:"debug"`
}

// ReportConfig contains configurations for optional run reports.
type ReportConfig struct {
	OutputDir        string   `mapstructure:"output_dir"`
	Formats          []string `mapstructure:"formats" validate:"dive,oneof=excel html textfile"`
	FilenameTemplate string   `mapstructure:"filename_template"`
	Timezone         string   `mapstructure:"timezone" validate:"timezone"`
	HTMLTemplate     string   `mapstructure:"html_template"` // 自定义 HTML 模板路径，为空时使用内置模板
}

// LoggingConfig contains configurations for logging.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}
