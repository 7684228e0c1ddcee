package service

import (
	"context"
	"fmt"

	"promcheck/internal/model"
)

const (
	defaultServiceState    = "active"
	defaultServiceRequired = 1.0
)

// Memory checks the used memory percentage of every node.
func (c *Catalog) Memory(ctx context.Context, cfg model.CheckConfig) ([]model.RawResult, error) {
	rows, err := c.query(ctx, model.CheckMemory, MemoryUsage())
	if err != nil {
		return nil, err
	}

	results := make([]model.RawResult, 0, len(rows))
	for _, row := range rows {
		v := intValue(row.Value)
		results = append(results, model.RawResult{
			Status: Classify(float64(v), cfg.Warn, cfg.Crit),
			Output: fmt.Sprintf("Memory %d%%|memory=%d", v, v),
			Name:   "check_memory",
			Source: row.Instance(),
		})
	}
	return results, nil
}

// LoadPerCPU checks the 5 minute load of every node divided by its CPU count.
// Nodes missing from the CPU count are skipped.
func (c *Catalog) LoadPerCPU(ctx context.Context, cfg model.CheckConfig) ([]model.RawResult, error) {
	cpuRows, err := c.query(ctx, model.CheckLoadPerCPU, exprCPUCountByInstance)
	if err != nil {
		return nil, err
	}
	cpus := make(map[string]float64, len(cpuRows))
	for _, row := range cpuRows {
		cpus[row.Instance()] = ParseValue(row.Value)
	}

	loadRows, err := c.query(ctx, model.CheckLoadPerCPU, exprLoad5)
	if err != nil {
		return nil, err
	}

	results := make([]model.RawResult, 0, len(loadRows))
	for _, row := range loadRows {
		source := row.Instance()
		count, ok := cpus[source]
		if !ok || count == 0 {
			c.logger.Error().Str("check", model.CheckLoadPerCPU).Str("source", source).Msg("no cpu count for instance, skipping")
			continue
		}

		v := round2(ParseValue(row.Value)) / count
		out := formatFloat(v)
		results = append(results, model.RawResult{
			Status: Classify(v, cfg.Warn, cfg.Crit),
			Output: fmt.Sprintf("Load: %s|load=%s", out, out),
			Name:   "check_load",
			Source: source,
		})
	}
	return results, nil
}

// Service checks that a systemd unit is in the expected state on every node.
func (c *Catalog) Service(ctx context.Context, cfg model.CheckConfig) ([]model.RawResult, error) {
	state := cfg.State
	if state == "" {
		state = defaultServiceState
	}
	required := defaultServiceRequired
	if cfg.StateRequired != nil {
		required = *cfg.StateRequired
	}

	rows, err := c.query(ctx, model.CheckService, ServiceState(cfg.Name, state))
	if err != nil {
		return nil, err
	}

	results := make([]model.RawResult, 0, len(rows))
	for _, row := range rows {
		v := intValue(row.Value)
		results = append(results, model.RawResult{
			Status: ClassifyEquals(float64(v), required),
			Output: fmt.Sprintf("Service: %s (%s=%d)", cfg.Name, state, v),
			Name:   "check_service_" + cfg.Name,
			Source: row.Instance(),
		})
	}
	return results, nil
}
