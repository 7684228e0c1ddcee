package service

import (
	"regexp"

	"promcheck/internal/model"
)

var unsafeChars = regexp.MustCompile(`[^\w.-]+`)

// Sanitize replaces every run of characters outside [A-Za-z0-9_.-] with "_".
func Sanitize(s string) string {
	return unsafeChars.ReplaceAllString(s, "_")
}

// BuildEvent turns a raw result into a canonical event.
func BuildEvent(raw model.RawResult, nodes model.NodeMap, defaults model.RunDefaults) *model.Event {
	hostname := nodes.Hostname(raw.Source)
	address := hostname + "." + defaults.Domain

	return &model.Event{
		Status:      raw.Status,
		Output:      raw.Output,
		Name:        Sanitize(raw.Name),
		Source:      Sanitize(hostname),
		ReportedBy:  defaults.ReportedBy,
		Occurrences: defaults.Occurrences,
		Address:     Sanitize(address),
	}
}
