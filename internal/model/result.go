// Package model provides data models for the health-check runner.
package model

import "regexp"

// RawResult is the output of one check invocation for one source.
// Source is the raw instance identifier reported by the backend, not yet canonicalized.
type RawResult struct {
	Status Status // 状态
	Output string // 可读输出
	Name   string // 检查标识
	Source string // 原始实例标识
}

// Event is the canonical unit sent to the event backend.
type Event struct {
	Status      Status `json:"status"`
	Output      string `json:"output"`
	Name        string `json:"name"`
	Source      string `json:"source"`
	ReportedBy  string `json:"reported_by"`
	Occurrences int    `json:"occurrences"`
	Address     string `json:"address"`
}

// RunDefaults is the immutable run context threaded through event building.
type RunDefaults struct {
	ReportedBy  string
	Occurrences int
	Domain      string
	Whitelist   *regexp.Regexp // nil matches every source
}

// Allows reports whether an event source passes the whitelist.
func (d RunDefaults) Allows(source string) bool {
	if d.Whitelist == nil {
		return true
	}
	return d.Whitelist.MatchString(source)
}

// RunResult summarizes a whole run.
type RunResult struct {
	Status int    // 0 全部正常，1 存在异常
	Output string // 汇总输出
}

// NodeMap maps raw instance identifiers to canonical short hostnames.
type NodeMap map[string]string

// Hostname returns the canonical hostname of an instance, falling back
// to the instance itself when it is not mapped.
func (m NodeMap) Hostname(instance string) string {
	if name, ok := m[instance]; ok {
		return name
	}
	return instance
}
