package service

import (
	"context"
	"fmt"
	"unicode"

	"promcheck/internal/model"
)

// Custom evaluates an arbitrary expression with a configured classifier.
// The output of each result is the message indexed by its status.
func (c *Catalog) Custom(ctx context.Context, cfg model.CheckConfig) ([]model.RawResult, error) {
	classify, err := LookupClassifier(cfg.Check.Type)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", model.CheckCustom, cfg.Name, err)
	}

	rows, err := c.query(ctx, model.CheckCustom, cfg.Query)
	if err != nil {
		return nil, err
	}

	results := make([]model.RawResult, 0, len(rows))
	for _, row := range rows {
		status, err := classify(row.Value, cfg.Check.Value)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", model.CheckCustom, cfg.Name, err)
		}

		var output string
		if int(status) >= 0 && int(status) < len(cfg.Msg) {
			output = cfg.Msg[status]
		}

		results = append(results, model.RawResult{
			Status: status,
			Output: output,
			Name:   cfg.Name,
			Source: customSource(row),
		})
	}
	return results, nil
}

// customSource prefers the app label over bare IP instances.
func customSource(row model.MetricRow) string {
	instance := row.Instance()
	if app := row.Label("app"); app != "" && instance != "" && unicode.IsDigit(rune(instance[0])) {
		return app
	}
	return instance
}
