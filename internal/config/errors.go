// Package config provides configuration management for the health-check runner.
package config

import "errors"

// ErrConfigInvalid is matched by every configuration loading or validation error.
var ErrConfigInvalid = errors.New("invalid configuration")
