package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"promcheck/internal/report/excel"
	"promcheck/internal/report/html"
	"promcheck/internal/report/textfile"
)

// Registry manages report writers for different formats.
type Registry struct {
	writers map[string]ReportWriter
}

// NewRegistry creates a new report registry with the Excel, HTML and
// textfile writers registered.
// If timezone is nil, the local timezone is used.
// htmlTemplatePath is optional; if empty, the HTML writer uses the embedded default template.
func NewRegistry(timezone *time.Location, htmlTemplatePath string) *Registry {
	if timezone == nil {
		timezone = time.Local
	}

	r := &Registry{
		writers: make(map[string]ReportWriter),
	}

	for _, w := range []ReportWriter{
		excel.NewWriter(timezone),
		html.NewWriter(timezone, htmlTemplatePath),
		textfile.NewWriter(),
	} {
		r.writers[w.Format()] = w
	}

	return r
}

// Get returns a writer for the specified format.
// Format names are case-insensitive (e.g., "Excel", "EXCEL", "excel" all work).
// Returns an error if the format is not supported.
func (r *Registry) Get(format string) (ReportWriter, error) {
	normalizedFormat := strings.ToLower(strings.TrimSpace(format))

	writer, ok := r.writers[normalizedFormat]
	if !ok {
		supported := r.GetAll()
		return nil, fmt.Errorf("unsupported report format %q, supported formats: %s",
			format, strings.Join(supported, ", "))
	}

	return writer, nil
}

// GetAll returns all supported format names in sorted order.
func (r *Registry) GetAll() []string {
	formats := make([]string, 0, len(r.writers))
	for format := range r.writers {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

// Has checks if the specified format is supported.
// Format names are case-insensitive.
func (r *Registry) Has(format string) bool {
	normalizedFormat := strings.ToLower(strings.TrimSpace(format))
	_, ok := r.writers[normalizedFormat]
	return ok
}
