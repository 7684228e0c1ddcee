//go:build ignore
// +build ignore

// This script generates sample run reports in every format for manual verification.
// Run with: go run scripts/sample_report.go [output-dir]
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"promcheck/internal/model"
	"promcheck/internal/report"
)

func main() {
	dir := "."
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	runReport := createSampleReport()
	registry := report.NewRegistry(time.Local, "")

	for _, format := range registry.GetAll() {
		writer, _ := registry.Get(format)
		path := filepath.Join(dir, "sample_run_report"+writer.Extension())
		if err := writer.Write(runReport, path); err != nil {
			fmt.Printf("❌ %s: %v\n", format, err)
			os.Exit(1)
		}
		fmt.Printf("✅ %s: %s\n", format, path)
	}
}

func createSampleReport() *model.RunReport {
	start := time.Now().Add(-1200 * time.Millisecond)
	r := model.NewRunReport(start)
	r.ChecksRun = 5
	r.Version = "sample"

	event := func(status model.Status, name, host, output string) *model.Event {
		return &model.Event{
			Status:      status,
			Output:      output,
			Name:        name,
			Source:      host,
			ReportedBy:  "promcheck",
			Occurrences: 1,
			Address:     host + ".example.com",
		}
	}

	r.Dispatched = []*model.Event{
		event(model.StatusOK, "check_memory", "web01", "Memory 41%|memory=41"),
		event(model.StatusOK, "check_memory", "web02", "Memory 63%|memory=63"),
		event(model.StatusWarning, "check_disk_root", "web02", "Disk: 84%, Mountpoint: / |disk=84"),
		event(model.StatusCritical, "check_disk_data", "db01", "Disk: 96%, Mountpoint: /data |disk=96"),
		event(model.StatusCritical, "check_service_nginx.service", "web01", "Service: nginx.service (active=0)"),
		event(model.StatusOK, "cluster_web_load", "prometheus", "Cluster Load: 0.42|load=0.42"),
	}
	r.Dropped = []*model.Event{
		event(model.StatusOK, "check_memory", "build01", "Memory 22%|memory=22"),
	}
	r.Failures = []model.CheckFailure{
		{Check: "memory_per_cluster", Name: "", Error: "memory_per_cluster: query returned no data"},
	}

	var failed string
	for _, e := range r.Dispatched {
		if e.Status != model.StatusOK {
			if failed != "" {
				failed += " "
			}
			failed += fmt.Sprintf("Source: %s: Check: %s: Output: %s: Status: %d", e.Source, e.Name, e.Output, e.Status)
		}
	}
	r.Result = model.RunResult{Status: 1, Output: failed}
	r.Finalize(time.Now())
	return r
}
