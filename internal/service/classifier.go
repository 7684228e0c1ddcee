package service

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"promcheck/internal/model"
)

// numericPrefix matches the leading number of a loosely formatted value.
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ParseValue converts a backend value to a number with loose coercion:
// the leading numeric prefix is used and anything unparseable, NaN or Inf is 0.
func ParseValue(s string) float64 {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	}

	prefix := numericPrefix.FindString(s)
	if prefix == "" {
		return 0
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Classify maps a value to a status: below warn is ok, at or above crit is
// critical, anything in between is warning. Both thresholds are inclusive.
func Classify(value, warn, crit float64) model.Status {
	if value < warn {
		return model.StatusOK
	}
	if value >= crit {
		return model.StatusCritical
	}
	return model.StatusWarning
}

// ClassifyEquals returns ok when value equals expected, critical otherwise.
func ClassifyEquals(value, expected float64) model.Status {
	if value == expected {
		return model.StatusOK
	}
	return model.StatusCritical
}

// ClassifierFunc classifies a raw backend value with raw threshold arguments.
type ClassifierFunc func(value string, args model.ThresholdValues) (model.Status, error)

// classifiers is the registry of classifiers selectable by custom checks.
var classifiers = map[string]ClassifierFunc{
	model.ClassifierCheck: func(value string, args model.ThresholdValues) (model.Status, error) {
		if len(args) != 2 {
			return model.StatusUnknown, fmt.Errorf("check classifier expects [warn, crit], got %d value(s)", len(args))
		}
		return Classify(ParseValue(value), ParseValue(args[0]), ParseValue(args[1])), nil
	},
	model.ClassifierEquals: func(value string, args model.ThresholdValues) (model.Status, error) {
		if len(args) != 1 {
			return model.StatusUnknown, fmt.Errorf("equals classifier expects one value, got %d", len(args))
		}
		return ClassifyEquals(ParseValue(value), ParseValue(args[0])), nil
	},
}

// LookupClassifier returns the classifier registered under name.
func LookupClassifier(name string) (ClassifierFunc, error) {
	fn, ok := classifiers[name]
	if !ok {
		return nil, fmt.Errorf("unknown classifier %q", name)
	}
	return fn, nil
}
