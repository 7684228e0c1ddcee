// Package config provides configuration management for the health-check runner.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"promcheck/internal/model"
)

// DefaultChecksFile is used when no checks file argument is given.
const DefaultChecksFile = "config.yml"

// LoadChecks reads the checks file: event defaults, catalog checks and custom checks.
// Every returned error matches ErrConfigInvalid.
func LoadChecks(path string) (*model.ChecksFile, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: checks file path is required", ErrConfigInvalid)
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: checks file not found: %s", ErrConfigInvalid, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read checks file: %v", ErrConfigInvalid, err)
	}

	return ParseChecks(data)
}

// ParseChecks decodes and validates checks file content.
func ParseChecks(data []byte) (*model.ChecksFile, error) {
	var file model.ChecksFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: failed to parse checks file: %v", ErrConfigInvalid, err)
	}

	if err := ValidateChecks(&file); err != nil {
		return nil, err
	}

	return &file, nil
}

// ValidateChecks validates check kinds, per-kind required options and custom checks.
func ValidateChecks(file *model.ChecksFile) error {
	validationErrors := structErrors(file)

	if file.Config.Whitelist != "" {
		if _, err := regexp.Compile(file.Config.Whitelist); err != nil {
			validationErrors = append(validationErrors, &ValidationError{
				Field:   "config.whitelist",
				Tag:     "regexp",
				Value:   file.Config.Whitelist,
				Message: fmt.Sprintf("invalid whitelist expression: %v", err),
			})
		}
	}

	for i, spec := range file.Checks {
		field := fmt.Sprintf("checks[%d].cfg", i)
		validationErrors = append(validationErrors, validateCheckOptions(field, spec.Check, spec.Cfg)...)
	}

	for i, cfg := range file.Custom {
		field := fmt.Sprintf("custom[%d]", i)
		validationErrors = append(validationErrors, validateCheckOptions(field, model.CheckCustom, cfg)...)
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

// validateCheckOptions validates the options a check kind cannot run without.
func validateCheckOptions(field, kind string, cfg model.CheckConfig) ValidationErrors {
	var errors ValidationErrors

	require := func(option, value string) {
		if value == "" {
			errors = append(errors, &ValidationError{
				Field:   field + "." + option,
				Tag:     "required",
				Value:   value,
				Message: fmt.Sprintf("%s is required for %s checks", option, kind),
			})
		}
	}

	switch kind {
	case model.CheckDisk, model.CheckInode:
		require("mount", cfg.Mount)
	case model.CheckMemoryPerCluster, model.CheckLoadPerCluster, model.CheckLoadPerClusterMinusN:
		require("cluster", cfg.Cluster)
	case model.CheckService:
		require("name", cfg.Name)
	case model.CheckCustom:
		require("name", cfg.Name)
		require("query", cfg.Query)
		errors = append(errors, validateClassifier(field+".check", cfg.Check)...)
	}

	return errors
}

// validateClassifier validates the classifier of a custom check.
func validateClassifier(field string, c model.ClassifierConfig) ValidationErrors {
	var errors ValidationErrors

	if !model.IsKnownClassifier(c.Type) {
		errors = append(errors, &ValidationError{
			Field:   field + ".type",
			Tag:     "oneof",
			Value:   c.Type,
			Message: fmt.Sprintf("value must be one of: %s %s", model.ClassifierCheck, model.ClassifierEquals),
		})
		return errors
	}

	want := 1
	if c.Type == model.ClassifierCheck {
		want = 2
	}
	if len(c.Value) != want {
		errors = append(errors, &ValidationError{
			Field:   field + ".value",
			Tag:     "len",
			Value:   []string(c.Value),
			Message: fmt.Sprintf("%s classifier expects %d value(s), got %d", c.Type, want, len(c.Value)),
		})
	}

	return errors
}

// RunDefaults builds the immutable run context from the checks file.
func RunDefaults(file *model.ChecksFile) (model.RunDefaults, error) {
	defaults := model.RunDefaults{
		ReportedBy:  file.Config.ReportedBy,
		Occurrences: file.Config.OccurrencesOrDefault(),
		Domain:      file.Config.Domain,
	}

	if file.Config.Whitelist != "" {
		re, err := regexp.Compile(file.Config.Whitelist)
		if err != nil {
			return defaults, fmt.Errorf("%w: invalid whitelist expression: %v", ErrConfigInvalid, err)
		}
		defaults.Whitelist = re
	}

	return defaults, nil
}
