package service

import (
	"context"
	"fmt"

	"promcheck/internal/model"
)

// MemoryPerCluster checks the aggregate used memory of a cluster.
func (c *Catalog) MemoryPerCluster(ctx context.Context, cfg model.CheckConfig) ([]model.RawResult, error) {
	row, err := c.first(ctx, model.CheckMemoryPerCluster, ClusterMemoryUsage(cfg.Cluster))
	if err != nil {
		return nil, err
	}

	v := round2(ParseValue(row.Value))
	out := formatFloat(v)
	return []model.RawResult{{
		Status: Classify(v, cfg.Warn, cfg.Crit),
		Output: fmt.Sprintf("Cluster Memory: %s%%|memory=%s", out, out),
		Name:   fmt.Sprintf("cluster_%s_memory", cfg.Cluster),
		Source: cfg.Source,
	}}, nil
}

// LoadPerCluster checks the 5 minute load of a cluster per CPU.
func (c *Catalog) LoadPerCluster(ctx context.Context, cfg model.CheckConfig) ([]model.RawResult, error) {
	row, err := c.first(ctx, model.CheckLoadPerCluster, ClusterLoad(cfg.Cluster))
	if err != nil {
		return nil, err
	}
	return []model.RawResult{clusterLoadResult(row, cfg, fmt.Sprintf("cluster_%s_load", cfg.Cluster))}, nil
}

// LoadPerClusterMinusN checks the cluster load as if minus_n nodes were lost.
func (c *Catalog) LoadPerClusterMinusN(ctx context.Context, cfg model.CheckConfig) ([]model.RawResult, error) {
	row, err := c.first(ctx, model.CheckLoadPerClusterMinusN, ClusterLoadMinusN(cfg.Cluster, cfg.MinusN))
	if err != nil {
		return nil, err
	}
	return []model.RawResult{clusterLoadResult(row, cfg, fmt.Sprintf("cluster_%s_load_minus_n", cfg.Cluster))}, nil
}

func clusterLoadResult(row model.MetricRow, cfg model.CheckConfig, name string) model.RawResult {
	v := round2(ParseValue(row.Value))
	out := formatFloat(v)
	return model.RawResult{
		Status: Classify(v, cfg.Warn, cfg.Crit),
		Output: fmt.Sprintf("Cluster Load: %s|load=%s", out, out),
		Name:   name,
		Source: cfg.Source,
	}
}
