package service

import (
	"fmt"
	"strings"
)

// Fixed PromQL expressions shared by several checks.
const (
	exprCPUCountByInstance = `(count(node_cpu{mode="system"})by(instance))`
	exprLoad5              = `node_load5`
	exprNodeInfo           = `max_over_time(node_uname_info[1d])`
)

// PercentFree composes an expression for the used percentage of a resource,
// 100 - (available/total)*100. Operands are not validated.
func PercentFree(total, available string) string {
	return fmt.Sprintf("100-((%s/%s)*100)", available, total)
}

// escapeLabelValue escapes a value for use inside a double-quoted label matcher.
func escapeLabelValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// escapeQuotedValue escapes a value for use inside a single-quoted label matcher.
func escapeQuotedValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// MountSelector returns a matcher selecting one mount point.
func MountSelector(mount string) string {
	return fmt.Sprintf(`mountpoint="%s"`, escapeLabelValue(mount))
}

// FSTypeExcludeSelector returns a matcher excluding file system types matching re.
func FSTypeExcludeSelector(re string) string {
	return fmt.Sprintf(`fstype!~"%s"`, escapeLabelValue(re))
}

// jobSelector returns a matcher selecting one cluster by job label.
func jobSelector(cluster string) string {
	return fmt.Sprintf(`job="%s"`, escapeLabelValue(cluster))
}

// DiskUsage composes the used space percentage for the given selector.
func DiskUsage(selector string) string {
	return PercentFree(
		fmt.Sprintf("node_filesystem_size{%s}", selector),
		fmt.Sprintf("node_filesystem_avail{%s}", selector),
	)
}

// InodeUsage composes the used inode percentage for the given selector.
func InodeUsage(selector string) string {
	return PercentFree(
		fmt.Sprintf("node_filesystem_files{%s}", selector),
		fmt.Sprintf("node_filesystem_files_free{%s}", selector),
	)
}

// MemoryUsage composes the used memory percentage of every node.
func MemoryUsage() string {
	return PercentFree("node_memory_MemTotal", "node_memory_MemAvailable")
}

// ClusterMemoryUsage composes the used memory percentage of a whole cluster.
func ClusterMemoryUsage(cluster string) string {
	job := jobSelector(cluster)
	return PercentFree(
		fmt.Sprintf("sum(node_memory_MemTotal{%s})", job),
		fmt.Sprintf("sum(node_memory_MemAvailable{%s})", job),
	)
}

// ClusterLoad composes the 5 minute load of a cluster divided by its CPU count.
func ClusterLoad(cluster string) string {
	job := jobSelector(cluster)
	return fmt.Sprintf(`sum(node_load5{%s})/count(node_cpu{mode="system",%s})`, job, job)
}

// ClusterLoadMinusN composes the cluster load as if minusN nodes were down:
// the CPU count is reduced by minusN times the average CPUs per node.
func ClusterLoadMinusN(cluster string, minusN int) string {
	job := jobSelector(cluster)
	sumLoad := fmt.Sprintf("sum(node_load5{%s})", job)
	totalCPUs := fmt.Sprintf(`count(node_cpu{mode="system",%s})`, job)
	totalNodes := fmt.Sprintf("count(node_load5{%s})", job)

	return fmt.Sprintf("%s/(%s-(%s/%s)*%d)", sumLoad, totalCPUs, totalCPUs, totalNodes, minusN)
}

// PredictDiskFull composes an expression selecting file systems predicted to
// have no space left after the given number of seconds. filter is an optional
// label selector including braces, e.g. {fstype="ext4"}.
func PredictDiskFull(filter, window string, seconds int) string {
	return fmt.Sprintf("predict_linear(node_filesystem_avail%s[%s], %d) < 0", filter, window, seconds)
}

// ServiceState composes the systemd unit state gauge of one unit.
func ServiceState(name, state string) string {
	return fmt.Sprintf("node_systemd_unit_state{name='%s',state='%s'}",
		escapeQuotedValue(name), escapeQuotedValue(state))
}

// NiceDiskName converts a mount point into an identifier fragment:
// "/" becomes "root", "/var/log/" becomes "var_log".
func NiceDiskName(mount string) string {
	if mount == "/" {
		return "root"
	}
	name := strings.TrimPrefix(mount, "/")
	name = strings.TrimSuffix(name, "/")
	return strings.ReplaceAll(name, "/", "_")
}
