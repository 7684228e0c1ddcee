// Package model provides data models for the health-check runner.
package model

// MetricRow is one observation returned by the metrics backend for an instant query.
type MetricRow struct {
	Labels    map[string]string // 标签集合
	Timestamp float64           // 采样时间戳（Unix 秒）
	Value     string            // 原始数值字符串
}

// Label returns the value of a label, or empty string if not found.
func (r MetricRow) Label(name string) string {
	if r.Labels == nil {
		return ""
	}
	return r.Labels[name]
}

// Instance returns the instance label.
func (r MetricRow) Instance() string {
	return r.Label("instance")
}
