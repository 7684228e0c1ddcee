package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promcheck/internal/config"
	"promcheck/internal/model"
	"promcheck/internal/service"
)

const scenarioChecks = `
config:
  reported_by: promcheck
  occurences: 1
  domain: example.com
  whitelist: ".*"
checks:
  - check: disk
    cfg:
      name: root
      mount: /
      warn: 80
      crit: 90
custom: []
`

type sample struct {
	labels map[string]string
	value  string
}

// newPrometheus serves instant queries from a fixed table.
func newPrometheus(t *testing.T, answers map[string][]sample) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/query" {
			http.NotFound(w, r)
			return
		}

		result := make([]map[string]interface{}, 0)
		for _, s := range answers[r.URL.Query().Get("query")] {
			result = append(result, map[string]interface{}{
				"metric": s.labels,
				"value":  []interface{}{1700000000.0, s.value},
			})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"data":   map[string]interface{}{"resultType": "vector", "result": result},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func scenarioPrometheus(t *testing.T) *httptest.Server {
	return newPrometheus(t, map[string][]sample{
		service.DiskUsage(service.MountSelector("/")): {
			{labels: map[string]string{"instance": "10.0.0.1:9100"}, value: "95"},
		},
		"max_over_time(node_uname_info[1d])": {
			{labels: map[string]string{"instance": "10.0.0.1:9100", "nodename": "web01.internal"}, value: "1"},
		},
	})
}

// listenSensu accepts event lines on a local TCP port.
func listenSensu(t *testing.T) (string, int, <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	lines := make(chan string, 10)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			scanner := bufio.NewScanner(conn)
			for scanner.Scan() {
				lines <- scanner.Text()
			}
			conn.Close()
		}
	}()

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port, lines
}

func writeChecks(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig(endpoint, sensuHost string, sensuPort int) *config.Config {
	return &config.Config{
		Datasources: config.DatasourcesConfig{
			Prometheus: config.PrometheusConfig{Endpoint: endpoint, ConnectTimeout: time.Second, Timeout: time.Second},
		},
		Sensu: config.SensuConfig{Address: sensuHost, Port: sensuPort, Timeout: time.Second},
		Run:   config.RunConfig{Timeout: 10 * time.Second},
	}
}

func TestExecuteDispatchesEvents(t *testing.T) {
	prom := scenarioPrometheus(t)
	host, port, lines := listenSensu(t)
	var stdout bytes.Buffer

	code, report := execute(context.Background(), testConfig(prom.URL, host, port), writeChecks(t, scenarioChecks), &stdout, zerolog.Nop())

	assert.Equal(t, exitFailing, code)
	require.NotNil(t, report)
	assert.Equal(t,
		"Source: web01: Check: check_disk_root: Output: Disk: 95%, Mountpoint: / |disk=95: Status: 2\n",
		stdout.String())

	select {
	case line := <-lines:
		var event model.Event
		require.NoError(t, json.Unmarshal([]byte(line), &event))
		assert.Equal(t, model.StatusCritical, event.Status)
		assert.Equal(t, "check_disk_root", event.Name)
		assert.Equal(t, "web01", event.Source)
		assert.Equal(t, "web01.example.com", event.Address)
		assert.Equal(t, "promcheck", event.ReportedBy)
		assert.Equal(t, 1, event.Occurrences)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestExecuteDebugPrintsEvents(t *testing.T) {
	prom := scenarioPrometheus(t)
	cfg := testConfig(prom.URL, "127.0.0.1", 1)
	cfg.Run.Debug = true
	var stdout bytes.Buffer

	code, report := execute(context.Background(), cfg, writeChecks(t, scenarioChecks), &stdout, zerolog.Nop())

	assert.Equal(t, exitOK, code)
	require.NotNil(t, report)
	assert.True(t, report.Debug)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)

	var event model.Event
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &event))
	assert.Equal(t, "web01", event.Source)
	assert.Contains(t, lines[1], "Status: 2")
}

func TestExecuteAllOK(t *testing.T) {
	prom := newPrometheus(t, map[string][]sample{
		service.DiskUsage(service.MountSelector("/")): {
			{labels: map[string]string{"instance": "10.0.0.1:9100"}, value: "12"},
		},
	})
	host, port, _ := listenSensu(t)
	var stdout bytes.Buffer

	code, _ := execute(context.Background(), testConfig(prom.URL, host, port), writeChecks(t, scenarioChecks), &stdout, zerolog.Nop())

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "OK: Ran 1 checks successfully!\n", stdout.String())
}

func TestExecuteDispatchFailureAborts(t *testing.T) {
	prom := scenarioPrometheus(t)

	// grab a free port and close it so nothing is listening
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	var stdout bytes.Buffer
	code, report := execute(context.Background(), testConfig(prom.URL, "127.0.0.1", port), writeChecks(t, scenarioChecks), &stdout, zerolog.Nop())

	assert.Equal(t, exitAborted, code)
	require.NotNil(t, report)
	assert.True(t, strings.HasPrefix(stdout.String(), "Run aborted: "))
}

func TestExecuteInvalidChecksFile(t *testing.T) {
	var stdout bytes.Buffer

	code, report := execute(context.Background(), testConfig("http://127.0.0.1:1", "127.0.0.1", 1), writeChecks(t, "checks:\n  - check: cpu\n"), &stdout, zerolog.Nop())

	assert.Equal(t, exitAborted, code)
	assert.Nil(t, report)
	assert.Contains(t, stdout.String(), "Run aborted")
}

func TestExecuteMissingChecksFile(t *testing.T) {
	var stdout bytes.Buffer

	code, _ := execute(context.Background(), testConfig("http://127.0.0.1:1", "127.0.0.1", 1), filepath.Join(t.TempDir(), "missing.yml"), &stdout, zerolog.Nop())

	assert.Equal(t, exitAborted, code)
}

func TestWriteReports(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig("http://localhost:9090", "localhost", 3030)
	cfg.Report = config.ReportConfig{
		OutputDir:        dir,
		Formats:          []string{"excel", "html", "textfile"},
		FilenameTemplate: "run_{{.Date}}",
	}

	start := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	runReport := model.NewRunReport(start)
	runReport.Finalize(start.Add(time.Second))

	require.NoError(t, writeReports(runReport, cfg, time.UTC, zerolog.Nop()))

	for _, name := range []string{"run_2026-10-14.xlsx", "run_2026-10-14.html", "run_2026-10-14.prom"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestWriteReportsNoFormats(t *testing.T) {
	cfg := testConfig("http://localhost:9090", "localhost", 3030)
	cfg.Report.OutputDir = filepath.Join(t.TempDir(), "never")

	require.NoError(t, writeReports(model.NewRunReport(time.Now()), cfg, time.UTC, zerolog.Nop()))

	_, err := os.Stat(cfg.Report.OutputDir)
	assert.True(t, os.IsNotExist(err), "output dir should not be created without formats")
}

func TestGenerateFilename(t *testing.T) {
	at := time.Date(2026, 10, 14, 23, 30, 0, 0, time.UTC)
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	assert.Equal(t, "promcheck_2026-10-14", generateFilename("", time.UTC, at))
	assert.Equal(t, "report-2026-10-14", generateFilename("report-{{ .Date }}", time.UTC, at))
	assert.Equal(t, "promcheck_2026-10-15", generateFilename("promcheck_{{.Date}}", shanghai, at))
}

func TestChecksFileArg(t *testing.T) {
	assert.Equal(t, config.DefaultChecksFile, checksFileArg(nil))
	assert.Equal(t, config.DefaultChecksFile, checksFileArg([]string{""}))
	assert.Equal(t, "checks.yml", checksFileArg([]string{"checks.yml"}))
}

func TestReportTimezone(t *testing.T) {
	assert.Equal(t, time.Local, reportTimezone(&config.Config{}))
	assert.Equal(t, "UTC", reportTimezone(&config.Config{Report: config.ReportConfig{Timezone: "UTC"}}).String())
	assert.Equal(t, time.Local, reportTimezone(&config.Config{Report: config.ReportConfig{Timezone: "Nowhere/City"}}))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "json")
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
}
