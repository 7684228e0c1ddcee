package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promcheck/internal/model"
)

const sampleChecks = `
config:
  reported_by: monitoring01
  occurences: 3
  domain: example.com
  whitelist: "^web"
checks:
  - check: disk
    cfg:
      name: root
      mount: /
      warn: 80
      crit: 90
  - check: service
    cfg:
      name: nginx.service
  - check: predict_disk_all
    cfg:
      days: 7
      exit_code: 2
      source: cluster01
custom:
  - name: heartbeat
    query: up
    check:
      type: equals
      value: 1
    msg:
      - "OK: target up"
      - "WARNING"
      - "CRITICAL: target down"
  - name: queue_depth
    query: queue_depth
    check:
      type: check
      value: [100, 500]
    msg: ["ok", "warn", "crit"]
`

func TestParseChecks_Success(t *testing.T) {
	file, err := ParseChecks([]byte(sampleChecks))
	require.NoError(t, err)

	assert.Equal(t, "monitoring01", file.Config.ReportedBy)
	assert.Equal(t, 3, file.Config.OccurrencesOrDefault())
	assert.Len(t, file.Checks, 3)
	assert.Len(t, file.Custom, 2)
	assert.Equal(t, 5, file.Total())

	disk := file.Checks[0]
	assert.Equal(t, model.CheckDisk, disk.Check)
	assert.Equal(t, "/", disk.Cfg.Mount)
	assert.Equal(t, 80.0, disk.Cfg.Warn)
	assert.Equal(t, 90.0, disk.Cfg.Crit)

	predict := file.Checks[2].Cfg
	require.NotNil(t, predict.ExitCode)
	assert.Equal(t, 2, *predict.ExitCode)
	assert.Nil(t, predict.StateRequired)

	assert.Equal(t, model.ThresholdValues{"1"}, file.Custom[0].Check.Value)
	assert.Equal(t, model.ThresholdValues{"100", "500"}, file.Custom[1].Check.Value)
	assert.Equal(t, "CRITICAL: target down", file.Custom[0].Msg[2])
}

func TestParseChecks_UnknownKind(t *testing.T) {
	_, err := ParseChecks([]byte(`
checks:
  - check: cpu_temperature
    cfg: {}
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigInvalid))
	assert.Contains(t, err.Error(), "checks[0].check")
	assert.Contains(t, err.Error(), "cpu_temperature")
}

func TestParseChecks_MissingRequiredOptions(t *testing.T) {
	_, err := ParseChecks([]byte(`
checks:
  - check: disk
    cfg:
      name: root
  - check: load_per_cluster
    cfg:
      source: cluster01
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checks[0].cfg.mount")
	assert.Contains(t, err.Error(), "checks[1].cfg.cluster")
}

func TestParseChecks_InvalidCustomClassifier(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{
			name: "unknown_type",
			content: `
custom:
  - name: c
    query: up
    check: {type: greater, value: 1}
`,
			field: "custom[0].check.type",
		},
		{
			name: "check_needs_two_values",
			content: `
custom:
  - name: c
    query: up
    check: {type: check, value: 1}
`,
			field: "custom[0].check.value",
		},
		{
			name: "missing_query",
			content: `
custom:
  - name: c
    check: {type: equals, value: 1}
`,
			field: "custom[0].query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseChecks([]byte(tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfigInvalid))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestParseChecks_InvalidWhitelist(t *testing.T) {
	_, err := ParseChecks([]byte(`
config:
  whitelist: "web(["
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.whitelist")
}

func TestParseChecks_InvalidYAML(t *testing.T) {
	_, err := ParseChecks([]byte("checks: [this is: not: valid"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigInvalid))
}

func TestLoadChecks_FileNotFound(t *testing.T) {
	_, err := LoadChecks("/nonexistent/config.yml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigInvalid))
}

func TestLoadChecks_FromFile(t *testing.T) {
	path := writeTempFile(t, "config-*.yml", sampleChecks)

	file, err := LoadChecks(path)
	require.NoError(t, err)
	assert.Len(t, file.Checks, 3)
}

func TestRunDefaults(t *testing.T) {
	file, err := ParseChecks([]byte(sampleChecks))
	require.NoError(t, err)

	defaults, err := RunDefaults(file)
	require.NoError(t, err)

	assert.Equal(t, "monitoring01", defaults.ReportedBy)
	assert.Equal(t, 3, defaults.Occurrences)
	assert.Equal(t, "example.com", defaults.Domain)
	require.NotNil(t, defaults.Whitelist)
	assert.True(t, defaults.Allows("web01"))
	assert.False(t, defaults.Allows("db01"))
}

func TestRunDefaults_ExplicitZeroOccurrences(t *testing.T) {
	file, err := ParseChecks([]byte("config:\n  occurrences: 0\n"))
	require.NoError(t, err)

	defaults, err := RunDefaults(file)
	require.NoError(t, err)
	assert.Equal(t, 0, defaults.Occurrences)
}

func TestRunDefaults_EmptyWhitelistAllowsAll(t *testing.T) {
	defaults, err := RunDefaults(&model.ChecksFile{})
	require.NoError(t, err)

	assert.Nil(t, defaults.Whitelist)
	assert.Equal(t, 1, defaults.Occurrences)
	assert.True(t, defaults.Allows("anything"))
}
