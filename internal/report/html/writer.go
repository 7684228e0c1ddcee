// Package html provides HTML run reports.
// It implements the report.ReportWriter interface to generate .html files
// with the run summary, events and failed checks.
package html

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"promcheck/internal/model"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Writer implements report.ReportWriter for HTML format.
type Writer struct {
	timezone     *time.Location
	templatePath string // User-defined template path (optional)
}

// TemplateData holds all data passed to the HTML template.
type TemplateData struct {
	Title       string
	StartedAt   string
	Duration    string
	ChecksRun   int
	Summary     *SummaryData
	Result      model.RunResult
	Debug       bool
	Events      []*EventData
	Dropped     []*EventData
	Failures    []model.CheckFailure
	Version     string
	GeneratedAt string
}

// SummaryData holds the event counts shown in the summary cards.
type SummaryData struct {
	Dispatched int
	OK         int
	Warning    int
	Critical   int
	Unknown    int
	Dropped    int
	Failures   int
}

// EventData represents an event formatted for template rendering.
type EventData struct {
	Source      string
	Name        string
	Output      string
	Address     string
	ReportedBy  string
	Status      string
	StatusClass string
}

// NewWriter creates a new HTML report writer.
// If timezone is nil, it defaults to the local timezone.
// If templatePath is empty, the embedded default template will be used.
func NewWriter(timezone *time.Location, templatePath string) *Writer {
	if timezone == nil {
		timezone = time.Local
	}
	return &Writer{
		timezone:     timezone,
		templatePath: templatePath,
	}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "html"
}

// Extension returns the file extension of generated reports.
func (w *Writer) Extension() string {
	return ".html"
}

// Write generates an HTML report from the run report.
func (w *Writer) Write(report *model.RunReport, outputPath string) error {
	if report == nil {
		return fmt.Errorf("run report is nil")
	}

	if !strings.HasSuffix(strings.ToLower(outputPath), ".html") {
		outputPath = outputPath + ".html"
	}

	tmpl, err := w.loadTemplate()
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	data := w.prepareTemplateData(report)

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := tmpl.Execute(file, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}

// loadTemplate loads the HTML template.
// It first tries to load a user-defined template, then falls back to the embedded default.
func (w *Writer) loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"statusClass": statusClass,
	}

	if w.templatePath != "" {
		if _, err := os.Stat(w.templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(w.templatePath)).Funcs(funcMap).ParseFiles(w.templatePath)
			if err != nil {
				return nil, fmt.Errorf("failed to parse user template: %w", err)
			}
			return tmpl, nil
		}
		// User template not found, fall through to default
	}

	tmpl, err := template.New("default.html").Funcs(funcMap).ParseFS(embeddedTemplates, "templates/default.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}

// prepareTemplateData converts a RunReport to TemplateData for template rendering.
func (w *Writer) prepareTemplateData(report *model.RunReport) *TemplateData {
	counts := report.CountByStatus()

	return &TemplateData{
		Title:     "健康检查报告",
		StartedAt: report.StartedAt.In(w.timezone).Format("2006-01-02 15:04:05"),
		Duration:  formatDuration(report.Duration),
		ChecksRun: report.ChecksRun,
		Summary: &SummaryData{
			Dispatched: len(report.Dispatched),
			OK:         counts[model.StatusOK],
			Warning:    counts[model.StatusWarning],
			Critical:   counts[model.StatusCritical],
			Unknown:    counts[model.StatusUnknown],
			Dropped:    len(report.Dropped),
			Failures:   len(report.Failures),
		},
		Result:      report.Result,
		Debug:       report.Debug,
		Events:      convertEvents(report.Dispatched, true),
		Dropped:     convertEvents(report.Dropped, false),
		Failures:    report.Failures,
		Version:     report.Version,
		GeneratedAt: time.Now().In(w.timezone).Format("2006-01-02 15:04:05"),
	}
}

// convertEvents converts events for template rendering, optionally sorting
// them by severity (critical first) then by source.
func convertEvents(events []*model.Event, bySeverity bool) []*EventData {
	sorted := make([]*model.Event, 0, len(events))
	for _, e := range events {
		if e != nil {
			sorted = append(sorted, e)
		}
	}

	if bySeverity {
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Status != sorted[j].Status {
				return statusPriority(sorted[i].Status) > statusPriority(sorted[j].Status)
			}
			return sorted[i].Source < sorted[j].Source
		})
	}

	result := make([]*EventData, 0, len(sorted))
	for _, e := range sorted {
		result = append(result, &EventData{
			Source:      e.Source,
			Name:        e.Name,
			Output:      e.Output,
			Address:     e.Address,
			ReportedBy:  e.ReportedBy,
			Status:      statusText(e.Status),
			StatusClass: statusClass(e.Status),
		})
	}
	return result
}

// formatDuration formats a duration in a human-readable format.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1f秒", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1f分钟", d.Minutes())
	}
	return fmt.Sprintf("%.1f小时", d.Hours())
}

// statusText converts an event status to Chinese text.
func statusText(status model.Status) string {
	switch status {
	case model.StatusOK:
		return "正常"
	case model.StatusWarning:
		return "警告"
	case model.StatusCritical:
		return "严重"
	default:
		return "未知"
	}
}

// statusClass returns the CSS class of a status.
func statusClass(status model.Status) string {
	switch status {
	case model.StatusOK:
		return "status-normal"
	case model.StatusWarning:
		return "status-warning"
	case model.StatusCritical:
		return "status-critical"
	default:
		return "status-unknown"
	}
}

func statusPriority(status model.Status) int {
	switch status {
	case model.StatusCritical:
		return 3
	case model.StatusWarning:
		return 2
	case model.StatusUnknown:
		return 1
	default:
		return 0
	}
}
