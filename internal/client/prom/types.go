// Package prom provides a client for the Prometheus HTTP query API.
package prom

import (
	"fmt"
	"strconv"

	"promcheck/internal/model"
)

// QueryResponse represents the API response from /api/v1/query endpoint.
// This structure follows the Prometheus HTTP API specification.
type QueryResponse struct {
	Status    string    `json:"status"`    // success 或 error
	Data      QueryData `json:"data"`      // 查询数据
	ErrorType string    `json:"errorType"` // 错误类型（仅在 status=error 时存在）
	Error     string    `json:"error"`     // 错误信息（仅在 status=error 时存在）
	Warnings  []string  `json:"warnings"`  // 警告信息列表
}

// IsSuccess returns true if the query was successful.
func (r *QueryResponse) IsSuccess() bool {
	return r.Status == "success"
}

// IsError returns true if the backend reported a query evaluation error.
func (r *QueryResponse) IsError() bool {
	return r.Status == "error"
}

// QueryData contains the result data from a query.
type QueryData struct {
	ResultType string   `json:"resultType"` // vector, matrix, scalar, string
	Result     []Sample `json:"result"`     // 结果样本列表
}

// IsVector returns true if the result type is "vector" (instant vector).
func (d *QueryData) IsVector() bool {
	return d.ResultType == "vector"
}

// Sample represents a single sample of an instant vector.
type Sample struct {
	Metric Metric      `json:"metric"` // 指标标签
	Value  SampleValue `json:"value"`  // [timestamp, value]
}

// Metric represents a set of label-value pairs for a time series.
type Metric map[string]string

// SampleValue represents a single [timestamp, value] pair.
// In Prometheus API, this is represented as a two-element array:
// [unix_timestamp_float, "value_string"]
type SampleValue []interface{}

// Timestamp returns the Unix timestamp as float64.
func (v SampleValue) Timestamp() (float64, error) {
	if len(v) != 2 {
		return 0, fmt.Errorf("invalid sample value: length %d", len(v))
	}
	switch ts := v[0].(type) {
	case float64:
		return ts, nil
	case string:
		f, err := strconv.ParseFloat(ts, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse timestamp %q: %w", ts, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unexpected timestamp type: %T", v[0])
	}
}

// Raw returns the sample value as the string sent by the backend.
func (v SampleValue) Raw() (string, error) {
	if len(v) != 2 {
		return "", fmt.Errorf("invalid sample value: length %d", len(v))
	}
	switch val := v[1].(type) {
	case string:
		return val, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unexpected value type: %T", v[1])
	}
}

// ParseRows converts a vector QueryResponse into metric rows.
// Values are kept as sent; NaN and Inf are not filtered.
func ParseRows(resp *QueryResponse) ([]model.MetricRow, error) {
	if !resp.Data.IsVector() {
		return nil, fmt.Errorf("%w: unexpected result type %q (expected vector)", ErrBackendMalformed, resp.Data.ResultType)
	}

	rows := make([]model.MetricRow, 0, len(resp.Data.Result))
	for i, sample := range resp.Data.Result {
		ts, err := sample.Value.Timestamp()
		if err != nil {
			return nil, fmt.Errorf("%w: sample %d: %v", ErrBackendMalformed, i, err)
		}
		raw, err := sample.Value.Raw()
		if err != nil {
			return nil, fmt.Errorf("%w: sample %d: %v", ErrBackendMalformed, i, err)
		}

		labels := sample.Metric
		if labels == nil {
			labels = Metric{}
		}

		rows = append(rows, model.MetricRow{
			Labels:    labels,
			Timestamp: ts,
			Value:     raw,
		})
	}

	return rows, nil
}
