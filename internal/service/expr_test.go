package service

import (
	"go/constant"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentFree(t *testing.T) {
	assert.Equal(t, "100-((avail/total)*100)", PercentFree("total", "avail"))

	// total=100, available=25 evaluates to 75.
	tv, err := types.Eval(token.NewFileSet(), nil, token.NoPos, PercentFree("100.0", "25.0"))
	require.NoError(t, err)
	require.NotNil(t, tv.Value)
	got, _ := constant.Float64Val(tv.Value)
	assert.Equal(t, 75.0, got)
}

func TestSelectors(t *testing.T) {
	assert.Equal(t, `mountpoint="/"`, MountSelector("/"))
	assert.Equal(t, `mountpoint="/a\"b"`, MountSelector(`/a"b`))
	assert.Equal(t, `fstype!~"tmpfs|overlay"`, FSTypeExcludeSelector("tmpfs|overlay"))
	assert.Equal(t, `fstype!~"a\\.b"`, FSTypeExcludeSelector(`a\.b`))
}

func TestUsageExpressions(t *testing.T) {
	assert.Equal(t,
		`100-((node_filesystem_avail{mountpoint="/"}/node_filesystem_size{mountpoint="/"})*100)`,
		DiskUsage(MountSelector("/")))
	assert.Equal(t,
		`100-((node_filesystem_files_free{fstype!~"tmpfs"}/node_filesystem_files{fstype!~"tmpfs"})*100)`,
		InodeUsage(FSTypeExcludeSelector("tmpfs")))
	assert.Equal(t,
		`100-((node_memory_MemAvailable/node_memory_MemTotal)*100)`,
		MemoryUsage())
}

func TestClusterExpressions(t *testing.T) {
	assert.Equal(t,
		`100-((sum(node_memory_MemAvailable{job="web"})/sum(node_memory_MemTotal{job="web"}))*100)`,
		ClusterMemoryUsage("web"))
	assert.Equal(t,
		`sum(node_load5{job="web"})/count(node_cpu{mode="system",job="web"})`,
		ClusterLoad("web"))
	assert.Equal(t,
		`sum(node_load5{job="web"})/(count(node_cpu{mode="system",job="web"})-(count(node_cpu{mode="system",job="web"})/count(node_load5{job="web"}))*2)`,
		ClusterLoadMinusN("web", 2))
}

func TestPredictAndServiceExpressions(t *testing.T) {
	assert.Equal(t,
		`predict_linear(node_filesystem_avail{fstype="ext4"}[24h], 259200) < 0`,
		PredictDiskFull(`{fstype="ext4"}`, "24h", 3*86400))
	assert.Equal(t, `predict_linear(node_filesystem_avail[1h], 86400) < 0`, PredictDiskFull("", "1h", 86400))
	assert.Equal(t, `node_systemd_unit_state{name='sshd.service',state='active'}`, ServiceState("sshd.service", "active"))
	assert.Equal(t, `node_systemd_unit_state{name='it\'s\\x.service',state='active'}`, ServiceState(`it's\x.service`, "active"))
}

func TestNiceDiskName(t *testing.T) {
	tests := []struct {
		mount string
		want  string
	}{
		{"/", "root"},
		{"/var/log/", "var_log"},
		{"/data", "data"},
		{"/srv/a/b", "srv_a_b"},
		{"data/", "data"},
	}

	for _, tt := range tests {
		t.Run(tt.mount, func(t *testing.T) {
			assert.Equal(t, tt.want, NiceDiskName(tt.mount))
		})
	}
}
