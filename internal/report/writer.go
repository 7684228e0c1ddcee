// Package report provides run report generation.
// It defines the ReportWriter interface and a registry of the supported
// formats: Excel, HTML and the node_exporter textfile format.
package report

import (
	"promcheck/internal/model"
)

// ReportWriter defines the interface for generating run reports.
type ReportWriter interface {
	// Write generates a report from the run report and saves it to the
	// specified output path. The format's extension is appended when missing.
	Write(report *model.RunReport, outputPath string) error

	// Format returns the format identifier for this writer.
	Format() string

	// Extension returns the file extension of generated reports, e.g. ".xlsx".
	Extension() string
}
