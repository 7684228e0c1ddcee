// Package model provides data models for the health-check runner.
package model

import "time"

// CheckFailure records a check invocation that failed and contributed no results.
type CheckFailure struct {
	Check string `json:"check"` // 检查类型
	Name  string `json:"name"`  // 配置名称
	Error string `json:"error"` // 错误信息
}

// RunReport is the complete record of one run, consumed by report writers.
type RunReport struct {
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Duration   time.Duration  `json:"duration"`
	ChecksRun  int            `json:"checks_run"` // 成功执行的检查次数
	Dispatched []*Event       `json:"dispatched"` // 已发送事件
	Dropped    []*Event       `json:"dropped"`    // 未通过白名单的事件
	Failures   []CheckFailure `json:"failures"`   // 执行失败的检查
	Result     RunResult      `json:"result"`
	Debug      bool           `json:"debug"`
	Version    string         `json:"version"`
}

// NewRunReport creates an empty report for a run starting at startedAt.
func NewRunReport(startedAt time.Time) *RunReport {
	return &RunReport{
		StartedAt:  startedAt,
		Dispatched: make([]*Event, 0),
		Dropped:    make([]*Event, 0),
		Failures:   make([]CheckFailure, 0),
	}
}

// Finalize sets the end time and duration of the run.
func (r *RunReport) Finalize(finishedAt time.Time) {
	r.FinishedAt = finishedAt
	r.Duration = finishedAt.Sub(r.StartedAt)
}

// CountByStatus returns the number of dispatched events per status.
func (r *RunReport) CountByStatus() map[Status]int {
	counts := make(map[Status]int)
	for _, e := range r.Dispatched {
		if e == nil {
			continue
		}
		counts[e.Status]++
	}
	return counts
}
