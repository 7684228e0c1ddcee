package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promcheck/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		warn  float64
		crit  float64
		want  model.Status
	}{
		{"below warn", 10, 80, 90, model.StatusOK},
		{"equal warn", 80, 80, 90, model.StatusWarning},
		{"between", 85, 80, 90, model.StatusWarning},
		{"equal crit", 90, 80, 90, model.StatusCritical},
		{"above crit", 95, 80, 90, model.StatusCritical},
		{"negative", -1, 0, 1, model.StatusOK},
		{"fractional", 0.75, 0.7, 1.0, model.StatusWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.value, tt.warn, tt.crit))
		})
	}
}

func TestClassifyProperty(t *testing.T) {
	for warn := -5.0; warn <= 5; warn++ {
		for crit := warn + 0.5; crit <= 6; crit += 0.5 {
			for v := -7.0; v <= 7; v += 0.25 {
				got := Classify(v, warn, crit)
				switch {
				case v < warn:
					assert.Equal(t, model.StatusOK, got)
				case v >= crit:
					assert.Equal(t, model.StatusCritical, got)
				default:
					assert.Equal(t, model.StatusWarning, got)
				}
			}
		}
	}
}

func TestClassifyEquals(t *testing.T) {
	assert.Equal(t, model.StatusOK, ClassifyEquals(1, 1))
	assert.Equal(t, model.StatusOK, ClassifyEquals(ParseValue("1"), ParseValue("1.0")))
	assert.Equal(t, model.StatusCritical, ClassifyEquals(0, 1))
	assert.Equal(t, model.StatusCritical, ClassifyEquals(1.5, 1))
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"95", 95},
		{"95.7", 95.7},
		{" 12 ", 12},
		{"1e3", 1000},
		{"-3.5", -3.5},
		{"12abc", 12},
		{".5x", 0.5},
		{"abc", 0},
		{"", 0},
		{"NaN", 0},
		{"+Inf", 0},
		{"-Inf", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseValue(tt.in)
			assert.False(t, math.IsNaN(got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupClassifier(t *testing.T) {
	check, err := LookupClassifier(model.ClassifierCheck)
	require.NoError(t, err)

	status, err := check("7", model.ThresholdValues{"5", "10"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusWarning, status)

	_, err = check("7", model.ThresholdValues{"5"})
	assert.Error(t, err)

	equals, err := LookupClassifier(model.ClassifierEquals)
	require.NoError(t, err)

	status, err = equals("1.0", model.ThresholdValues{"1"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusOK, status)

	status, err = equals("0", model.ThresholdValues{"1"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCritical, status)

	_, err = LookupClassifier("regex")
	assert.Error(t, err)
}
