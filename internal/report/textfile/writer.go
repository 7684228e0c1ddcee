// Package textfile exports run results in the Prometheus text exposition
// format, for node_exporter's textfile collector.
package textfile

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"promcheck/internal/model"
)

const namespace = "promcheck"

// Writer implements report.ReportWriter for the textfile format.
type Writer struct{}

// NewWriter creates a new textfile report writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "textfile"
}

// Extension returns the file extension of generated reports.
func (w *Writer) Extension() string {
	return ".prom"
}

// Write renders the run metrics into outputPath. The file is replaced
// atomically so the collector never reads a partial file.
func (w *Writer) Write(report *model.RunReport, outputPath string) error {
	if report == nil {
		return fmt.Errorf("run report is nil")
	}

	if !strings.HasSuffix(strings.ToLower(outputPath), ".prom") {
		outputPath = outputPath + ".prom"
	}

	registry, err := newRegistry(report)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	if err := prometheus.WriteToTextfile(outputPath, registry); err != nil {
		return fmt.Errorf("failed to write textfile: %w", err)
	}

	return nil
}

// newRegistry builds a private registry holding the metrics of one run.
func newRegistry(report *model.RunReport) (*prometheus.Registry, error) {
	registry := prometheus.NewRegistry()

	gauge := func(name, help string, value float64) prometheus.Gauge {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
		g.Set(value)
		return g
	}

	events := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events",
		Help:      "Events of the last run by status and whether they passed the whitelist.",
	}, []string{"status", "state"})

	for _, s := range []model.Status{model.StatusOK, model.StatusWarning, model.StatusCritical, model.StatusUnknown} {
		events.WithLabelValues(s.String(), "dispatched").Set(0)
		events.WithLabelValues(s.String(), "dropped").Set(0)
	}
	for _, e := range report.Dispatched {
		events.WithLabelValues(e.Status.String(), "dispatched").Inc()
	}
	for _, e := range report.Dropped {
		events.WithLabelValues(e.Status.String(), "dropped").Inc()
	}

	debug := 0.0
	if report.Debug {
		debug = 1
	}

	buildInfo := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "build_info",
		Help:      "Version of the tool that produced the last run.",
	}, []string{"version"})
	buildInfo.WithLabelValues(report.Version).Set(1)

	collectors := []prometheus.Collector{
		gauge("run_status", "Aggregate status of the last run, 0 ok, 1 failing checks.", float64(report.Result.Status)),
		gauge("run_duration_seconds", "Duration of the last run.", report.Duration.Seconds()),
		gauge("run_timestamp_seconds", "Unix time the last run finished.", float64(report.FinishedAt.UnixNano())/1e9),
		gauge("run_debug", "Whether the last run was in debug mode.", debug),
		gauge("checks_run", "Check invocations completed in the last run.", float64(report.ChecksRun)),
		gauge("check_failures", "Check invocations that failed in the last run.", float64(len(report.Failures))),
		events,
		buildInfo,
	}

	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
