// Package model provides data models for the health-check runner.
package model

// Status is the severity of a check result.
type Status int

const (
	StatusOK       Status = 0 // 正常
	StatusWarning  Status = 1 // 警告
	StatusCritical Status = 2 // 严重
	StatusUnknown  Status = 3 // 未知（保留）
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusWarning:
		return "warning"
	case StatusCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// IsOK returns true if the status is 0.
func (s Status) IsOK() bool {
	return s == StatusOK
}
