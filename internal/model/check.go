// Package model provides data models for the health-check runner.
package model

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Check kinds of the fixed catalog.
const (
	CheckDisk                 = "disk"
	CheckDiskAll              = "disk_all"
	CheckInode                = "inode"
	CheckMemory               = "memory"
	CheckMemoryPerCluster     = "memory_per_cluster"
	CheckLoadPerCluster       = "load_per_cluster"
	CheckLoadPerClusterMinusN = "load_per_cluster_minus_n"
	CheckLoadPerCPU           = "load_per_cpu"
	CheckService              = "service"
	CheckPredictDiskAll       = "predict_disk_all"
	CheckCustom               = "custom"
)

var checkKinds = map[string]struct{}{
	CheckDisk:                 {},
	CheckDiskAll:              {},
	CheckInode:                {},
	CheckMemory:               {},
	CheckMemoryPerCluster:     {},
	CheckLoadPerCluster:       {},
	CheckLoadPerClusterMinusN: {},
	CheckLoadPerCPU:           {},
	CheckService:              {},
	CheckPredictDiskAll:       {},
	CheckCustom:               {},
}

// IsKnownCheckKind reports whether kind names a check of the catalog.
func IsKnownCheckKind(kind string) bool {
	_, ok := checkKinds[kind]
	return ok
}

// KnownCheckKinds returns all catalog check kinds in sorted order.
func KnownCheckKinds() []string {
	kinds := make([]string, 0, len(checkKinds))
	for k := range checkKinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Classifier types usable by custom checks.
const (
	ClassifierCheck  = "check"  // 阈值判断：value = [warn, crit]
	ClassifierEquals = "equals" // 相等判断：value = expected
)

// IsKnownClassifier reports whether t names a classifier usable by custom checks.
func IsKnownClassifier(t string) bool {
	return t == ClassifierCheck || t == ClassifierEquals
}

// ThresholdValues holds classifier arguments as raw strings.
// In YAML it may be written as a scalar (`value: 1`) or a list (`value: [80, 90]`).
type ThresholdValues []string

// UnmarshalYAML accepts both scalar and sequence nodes.
func (t *ThresholdValues) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*t = ThresholdValues{node.Value}
		return nil
	case yaml.SequenceNode:
		values := make(ThresholdValues, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: threshold values must be scalars", item.Line)
			}
			values = append(values, item.Value)
		}
		*t = values
		return nil
	default:
		return fmt.Errorf("line %d: threshold value must be a scalar or a list", node.Line)
	}
}

// ClassifierConfig selects the classifier of a custom check and its arguments.
type ClassifierConfig struct {
	Type  string          `yaml:"type"`  // check 或 equals
	Value ThresholdValues `yaml:"value"` // 阈值参数
}

// CheckConfig is the configuration block of one check.
// The recognized options vary per check kind; this is their closed superset.
type CheckConfig struct {
	Name          string           `yaml:"name"`           // 检查名称 / 服务名
	Mount         string           `yaml:"mount"`          // 挂载点
	Warn          float64          `yaml:"warn"`           // 警告阈值
	Crit          float64          `yaml:"crit"`           // 严重阈值
	Cluster       string           `yaml:"cluster"`        // 集群（job 标签）
	MinusN        int              `yaml:"minus_n"`        // 容忍宕机节点数
	Days          int              `yaml:"days"`           // 预测天数
	SampleSize    string           `yaml:"sample_size"`    // 预测采样窗口，默认 24h
	Filter        string           `yaml:"filter"`         // 预测标签过滤，如 {fstype="ext4"}
	ExitCode      *int             `yaml:"exit_code"`      // 预测命中时的状态，默认 1
	IgnoreFS      string           `yaml:"ignore_fs"`      // 忽略的文件系统正则，默认 tmpfs
	State         string           `yaml:"state"`          // systemd 状态，默认 active
	StateRequired *float64         `yaml:"state_required"` // 期望值，默认 1
	Query         string           `yaml:"query"`          // 自定义查询表达式
	Check         ClassifierConfig `yaml:"check"`          // 自定义检查的判断方式
	Msg           []string         `yaml:"msg"`            // 按状态索引的输出
	Source        string           `yaml:"source"`         // 集群类检查的事件来源
}

// CheckSpec is one entry of the checks list: a catalog kind and its configuration.
type CheckSpec struct {
	Check string      `yaml:"check" validate:"required,check_kind"`
	Cfg   CheckConfig `yaml:"cfg"`
}

// EventDefaults holds the run-level values copied into every event.
type EventDefaults struct {
	ReportedBy  string `yaml:"reported_by"`
	Occurences  *int   `yaml:"occurences"` // 兼容旧配置的拼写
	Occurrences *int   `yaml:"occurrences"`
	Domain      string `yaml:"domain"`
	Whitelist   string `yaml:"whitelist"`
}

// OccurrencesOrDefault returns the configured occurrences, defaulting to 1.
func (d EventDefaults) OccurrencesOrDefault() int {
	if d.Occurrences != nil {
		return *d.Occurrences
	}
	if d.Occurences != nil {
		return *d.Occurences
	}
	return 1
}

// ChecksFile is the root structure of the checks file.
type ChecksFile struct {
	Config EventDefaults `yaml:"config"`
	Checks []CheckSpec   `yaml:"checks" validate:"dive"`
	Custom []CheckConfig `yaml:"custom"`
}

// Total returns the number of configured checks including custom ones.
func (f *ChecksFile) Total() int {
	return len(f.Checks) + len(f.Custom)
}
