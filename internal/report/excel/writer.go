// Package excel provides Excel run reports.
// It implements the report.ReportWriter interface to generate .xlsx files
// with the run summary, dispatched and dropped events, and failed checks.
package excel

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"promcheck/internal/model"
)

const (
	// Sheet names
	sheetSummary  = "运行概览"
	sheetEvents   = "事件明细"
	sheetFailures = "执行失败"

	// Default sheet to remove
	defaultSheet = "Sheet1"

	// Colors for conditional formatting (RGB without #)
	colorWarningBg  = "FFEB9C"
	colorWarningFg  = "9C6500"
	colorCriticalBg = "FFC7CE"
	colorCriticalFg = "9C0006"
	colorHeaderBg   = "4472C4"
	colorHeaderFg   = "FFFFFF"
	colorNormalBg   = "C6EFCE"
	colorNormalFg   = "006100"
	colorMutedFg    = "808080"
)

// Writer implements report.ReportWriter for Excel format.
type Writer struct {
	timezone *time.Location
}

// NewWriter creates a new Excel report writer.
// If timezone is nil, it defaults to the local timezone.
func NewWriter(timezone *time.Location) *Writer {
	if timezone == nil {
		timezone = time.Local
	}
	return &Writer{
		timezone: timezone,
	}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "excel"
}

// Extension returns the file extension of generated reports.
func (w *Writer) Extension() string {
	return ".xlsx"
}

// Write generates an Excel report from the run report.
func (w *Writer) Write(report *model.RunReport, outputPath string) error {
	if report == nil {
		return fmt.Errorf("run report is nil")
	}

	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("failed to create styles: %w", err)
	}

	if err := w.createSummarySheet(f, report, styles); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := w.createEventsSheet(f, report, styles); err != nil {
		return fmt.Errorf("failed to create events sheet: %w", err)
	}

	if err := w.createFailuresSheet(f, report, styles); err != nil {
		return fmt.Errorf("failed to create failures sheet: %w", err)
	}

	// Sheet1 exists in every new file
	_ = f.DeleteSheet(defaultSheet)

	idx, _ := f.GetSheetIndex(sheetSummary)
	f.SetActiveSheet(idx)

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

// styles holds the style IDs shared by all sheets.
type styles struct {
	title    int
	header   int
	value    int
	normal   int
	warning  int
	critical int
	muted    int
}

func newStyles(f *excelize.File) (*styles, error) {
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	s := &styles{}
	defs := []struct {
		target *int
		style  *excelize.Style
	}{
		{&s.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 18}, Alignment: center}},
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 11, Color: colorHeaderFg},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{colorHeaderBg}, Pattern: 1},
			Alignment: center,
		}},
		{&s.value, &excelize.Style{Font: &excelize.Font{Size: 12}, Alignment: center}},
		{&s.normal, fillStyle(colorNormalFg, colorNormalBg)},
		{&s.warning, fillStyle(colorWarningFg, colorWarningBg)},
		{&s.critical, fillStyle(colorCriticalFg, colorCriticalBg)},
		{&s.muted, &excelize.Style{Font: &excelize.Font{Color: colorMutedFg}, Alignment: center}},
	}

	for _, def := range defs {
		id, err := f.NewStyle(def.style)
		if err != nil {
			return nil, err
		}
		*def.target = id
	}

	return s, nil
}

func fillStyle(fg, bg string) *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{Color: fg},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{bg},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	}
}

// statusStyle returns the cell style of a status.
func (s *styles) statusStyle(status model.Status) int {
	switch status {
	case model.StatusOK:
		return s.normal
	case model.StatusWarning:
		return s.warning
	case model.StatusCritical:
		return s.critical
	default:
		return s.muted
	}
}

// createSummarySheet creates the run summary worksheet.
func (w *Writer) createSummarySheet(f *excelize.File, report *model.RunReport, s *styles) error {
	idx, err := f.NewSheet(sheetSummary)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	f.SetColWidth(sheetSummary, "A", "A", 20)
	f.SetColWidth(sheetSummary, "B", "B", 60)

	// Title
	f.MergeCell(sheetSummary, "A1", "B1")
	f.SetCellValue(sheetSummary, "A1", "健康检查报告")
	f.SetCellStyle(sheetSummary, "A1", "B1", s.title)
	f.SetRowHeight(sheetSummary, 1, 30)

	counts := report.CountByStatus()
	summaryData := []struct {
		label string
		value interface{}
	}{
		{"开始时间", report.StartedAt.In(w.timezone).Format("2006-01-02 15:04:05")},
		{"运行耗时", formatDuration(report.Duration)},
		{"执行检查", report.ChecksRun},
		{"失败检查", len(report.Failures)},
		{"发送事件", len(report.Dispatched)},
		{"正常事件", counts[model.StatusOK]},
		{"警告事件", counts[model.StatusWarning]},
		{"严重事件", counts[model.StatusCritical]},
		{"过滤事件", len(report.Dropped)},
		{"运行状态", report.Result.Status},
		{"调试模式", boolToText(report.Debug)},
	}

	if report.Version != "" {
		summaryData = append(summaryData, struct {
			label string
			value interface{}
		}{"工具版本", report.Version})
	}

	for i, item := range summaryData {
		row := i + 3
		f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", row), item.label)
		f.SetCellValue(sheetSummary, fmt.Sprintf("B%d", row), item.value)
		f.SetCellStyle(sheetSummary, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), s.header)
		f.SetCellStyle(sheetSummary, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), s.value)
		f.SetRowHeight(sheetSummary, row, 22)
	}

	// Run output may be long, keep it below the table
	outputRow := len(summaryData) + 4
	f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", outputRow), "运行输出")
	f.SetCellStyle(sheetSummary, fmt.Sprintf("A%d", outputRow), fmt.Sprintf("A%d", outputRow), s.header)
	f.SetCellValue(sheetSummary, fmt.Sprintf("B%d", outputRow), report.Result.Output)

	return nil
}

// createEventsSheet lists dispatched events, failing first, followed by dropped events.
func (w *Writer) createEventsSheet(f *excelize.File, report *model.RunReport, s *styles) error {
	if _, err := f.NewSheet(sheetEvents); err != nil {
		return err
	}

	headers := []string{"来源", "检查名称", "状态", "输出", "地址", "上报者", "发送"}
	colWidths := []float64{20, 30, 10, 60, 30, 15, 10}
	writeHeader(f, sheetEvents, headers, colWidths, s.header)

	sorted := make([]*model.Event, len(report.Dispatched))
	copy(sorted, report.Dispatched)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Status != sorted[j].Status {
			return statusPriority(sorted[i].Status) > statusPriority(sorted[j].Status)
		}
		return sorted[i].Source < sorted[j].Source
	})

	row := 2
	for _, e := range sorted {
		writeEventRow(f, row, e, "是")
		cell := fmt.Sprintf("C%d", row)
		f.SetCellStyle(sheetEvents, cell, cell, s.statusStyle(e.Status))
		row++
	}
	for _, e := range report.Dropped {
		writeEventRow(f, row, e, "否")
		f.SetCellStyle(sheetEvents, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), s.muted)
		row++
	}

	return nil
}

func writeEventRow(f *excelize.File, row int, e *model.Event, sent string) {
	rowStr := fmt.Sprintf("%d", row)
	f.SetCellValue(sheetEvents, "A"+rowStr, e.Source)
	f.SetCellValue(sheetEvents, "B"+rowStr, e.Name)
	f.SetCellValue(sheetEvents, "C"+rowStr, statusText(e.Status))
	f.SetCellValue(sheetEvents, "D"+rowStr, e.Output)
	f.SetCellValue(sheetEvents, "E"+rowStr, e.Address)
	f.SetCellValue(sheetEvents, "F"+rowStr, e.ReportedBy)
	f.SetCellValue(sheetEvents, "G"+rowStr, sent)
}

// createFailuresSheet lists checks that failed to run.
func (w *Writer) createFailuresSheet(f *excelize.File, report *model.RunReport, s *styles) error {
	if _, err := f.NewSheet(sheetFailures); err != nil {
		return err
	}

	headers := []string{"检查类型", "配置名称", "错误信息"}
	colWidths := []float64{25, 25, 80}
	writeHeader(f, sheetFailures, headers, colWidths, s.header)

	for i, failure := range report.Failures {
		rowStr := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheetFailures, "A"+rowStr, failure.Check)
		f.SetCellValue(sheetFailures, "B"+rowStr, failure.Name)
		f.SetCellValue(sheetFailures, "C"+rowStr, failure.Error)
	}

	return nil
}

// writeHeader writes a frozen header row.
func writeHeader(f *excelize.File, sheet string, headers []string, colWidths []float64, style int) {
	for i, width := range colWidths {
		col := columnName(i + 1)
		f.SetColWidth(sheet, col, col, width)
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", columnName(i+1))
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, style)
	}
	f.SetRowHeight(sheet, 1, 25)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// columnName converts a 1-based column index to Excel column name (A, B, ..., Z, AA, AB, ...).
func columnName(index int) string {
	result := ""
	for index > 0 {
		index--
		result = string(rune('A'+index%26)) + result
		index /= 26
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

// statusPriority orders statuses for display, critical first.
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

func boolToText(b bool) string {
	if b {
		return "是"
	}
	return "否"
}
