// Package service provides the check evaluation and event dispatch pipeline.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"promcheck/internal/model"
)

// errNoData is returned by checks that need at least one row and got none.
var errNoData = errors.New("query returned no data")

// Querier executes instant queries against the metrics backend.
type Querier interface {
	QueryRows(ctx context.Context, query string) ([]model.MetricRow, error)
}

// CheckFunc evaluates one configured check into zero or more raw results.
type CheckFunc func(ctx context.Context, cfg model.CheckConfig) ([]model.RawResult, error)

// Catalog is the registry of check kinds, keyed by the name used in the checks file.
type Catalog struct {
	querier Querier
	checks  map[string]CheckFunc
	logger  zerolog.Logger
}

// NewCatalog creates a Catalog with every check kind registered.
func NewCatalog(querier Querier, logger zerolog.Logger) *Catalog {
	c := &Catalog{
		querier: querier,
		logger:  logger.With().Str("component", "catalog").Logger(),
	}

	c.checks = map[string]CheckFunc{
		model.CheckDisk:                 c.Disk,
		model.CheckDiskAll:              c.DiskAll,
		model.CheckInode:                c.Inode,
		model.CheckMemory:               c.Memory,
		model.CheckMemoryPerCluster:     c.MemoryPerCluster,
		model.CheckLoadPerCluster:       c.LoadPerCluster,
		model.CheckLoadPerClusterMinusN: c.LoadPerClusterMinusN,
		model.CheckLoadPerCPU:           c.LoadPerCPU,
		model.CheckService:              c.Service,
		model.CheckPredictDiskAll:       c.PredictDiskAll,
		model.CheckCustom:               c.Custom,
	}

	return c
}

// Run evaluates the check registered under kind.
func (c *Catalog) Run(ctx context.Context, kind string, cfg model.CheckConfig) ([]model.RawResult, error) {
	fn, ok := c.checks[kind]
	if !ok {
		return nil, fmt.Errorf("unknown check %q", kind)
	}
	return fn(ctx, cfg)
}

// Kinds returns the registered check kinds in sorted order.
func (c *Catalog) Kinds() []string {
	kinds := make([]string, 0, len(c.checks))
	for k := range c.checks {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// query runs an expression and returns its rows.
func (c *Catalog) query(ctx context.Context, check, expr string) ([]model.MetricRow, error) {
	rows, err := c.querier.QueryRows(ctx, expr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", check, err)
	}
	return rows, nil
}

// first runs an expression and returns its first row.
func (c *Catalog) first(ctx context.Context, check, expr string) (model.MetricRow, error) {
	rows, err := c.query(ctx, check, expr)
	if err != nil {
		return model.MetricRow{}, err
	}
	if len(rows) == 0 {
		return model.MetricRow{}, fmt.Errorf("%s: %w: %s", check, errNoData, expr)
	}
	return rows[0], nil
}

// intValue truncates a backend value to an integer, saturating at the int64 range.
func intValue(raw string) int64 {
	v := math.Trunc(ParseValue(raw))
	switch {
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	}
	return int64(v)
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// formatFloat renders a float with the shortest representation, always
// keeping a fractional part (2 -> "2.0").
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".IN") {
		s += ".0"
	}
	return s
}
