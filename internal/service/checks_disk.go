package service

import (
	"context"
	"fmt"
	"strings"

	"promcheck/internal/model"
)

const (
	defaultIgnoreFS   = "tmpfs"
	defaultSampleSize = "24h"
	secondsPerDay     = 86400
)

// Disk checks the used space of one mount point on every node.
func (c *Catalog) Disk(ctx context.Context, cfg model.CheckConfig) ([]model.RawResult, error) {
	rows, err := c.query(ctx, model.CheckDisk, DiskUsage(MountSelector(cfg.Mount)))
	if err != nil {
		return nil, err
	}

	results := make([]model.RawResult, 0, len(rows))
	for _, row := range rows {
		v := intValue(row.Value)
		c.logger.Debug().Str("check", model.CheckDisk).Int64("value", v).Str("source", row.Instance()).Msg("disk usage")
		results = append(results, model.RawResult{
			Status: Classify(float64(v), cfg.Warn, cfg.Crit),
			Output: fmt.Sprintf("Disk: %d%%, Mountpoint: %s |disk=%d", v, cfg.Mount, v),
			Name:   "check_disk_" + cfg.Name,
			Source: row.Instance(),
		})
	}
	return results, nil
}

// Inode checks the used inodes of one mount point on every node.
func (c *Catalog) Inode(ctx context.Context, cfg model.CheckConfig) ([]model.RawResult, error) {
	rows, err := c.query(ctx, model.CheckInode, InodeUsage(MountSelector(cfg.Mount)))
	if err != nil {
		return nil, err
	}

	results := make([]model.RawResult, 0, len(rows))
	for _, row := range rows {
		v := intValue(row.Value)
		c.logger.Debug().Str("check", model.CheckInode).Int64("value", v).Str("source", row.Instance()).Msg("inode usage")
		results = append(results, model.RawResult{
			Status: Classify(float64(v), cfg.Warn, cfg.Crit),
			Output: fmt.Sprintf("Disk: %s, Inodes: %d%% |inodes=%d", cfg.Mount, v, v),
			Name:   "check_inodes_" + cfg.Name,
			Source: row.Instance(),
		})
	}
	return results, nil
}

// DiskAll checks inode and space usage of every mounted file system whose
// type does not match ignore_fs. Inode results come first.
func (c *Catalog) DiskAll(ctx context.Context, cfg model.CheckConfig) ([]model.RawResult, error) {
	ignored := cfg.IgnoreFS
	if ignored == "" {
		ignored = defaultIgnoreFS
	}
	selector := FSTypeExcludeSelector(ignored)

	inodes, err := c.query(ctx, model.CheckDiskAll, InodeUsage(selector))
	if err != nil {
		return nil, err
	}
	space, err := c.query(ctx, model.CheckDiskAll, DiskUsage(selector))
	if err != nil {
		return nil, err
	}

	results := make([]model.RawResult, 0, len(inodes)+len(space))
	for _, row := range inodes {
		v := intValue(row.Value)
		mount := row.Label("mountpoint")
		results = append(results, model.RawResult{
			Status: Classify(float64(v), cfg.Warn, cfg.Crit),
			Output: fmt.Sprintf("Disk: %s, Inode Usage: %d%% |inodes=%d", mount, v, v),
			Name:   "check_inode_" + NiceDiskName(mount),
			Source: row.Instance(),
		})
	}
	for _, row := range space {
		v := intValue(row.Value)
		mount := row.Label("mountpoint")
		results = append(results, model.RawResult{
			Status: Classify(float64(v), cfg.Warn, cfg.Crit),
			Output: fmt.Sprintf("Disk: %s, Usage: %d%% |disk=%d", mount, v, v),
			Name:   "check_disk_" + NiceDiskName(mount),
			Source: row.Instance(),
		})
	}
	return results, nil
}

// PredictDiskAll reports file systems predicted to run out of space within
// cfg.Days days, based on a linear fit over sample_size. It always yields
// exactly one result attributed to cfg.Source.
func (c *Catalog) PredictDiskAll(ctx context.Context, cfg model.CheckConfig) ([]model.RawResult, error) {
	window := cfg.SampleSize
	if window == "" {
		window = defaultSampleSize
	}
	failStatus := model.StatusWarning
	if cfg.ExitCode != nil {
		failStatus = model.Status(*cfg.ExitCode)
	}

	rows, err := c.query(ctx, model.CheckPredictDiskAll, PredictDiskFull(cfg.Filter, window, cfg.Days*secondsPerDay))
	if err != nil {
		return nil, err
	}

	result := model.RawResult{
		Status: model.StatusOK,
		Output: fmt.Sprintf("No disks are predicted to run out of space in the next %d days", cfg.Days),
		Name:   "predict_disks",
		Source: cfg.Source,
	}
	if len(rows) > 0 {
		disks := make([]string, 0, len(rows))
		for _, row := range rows {
			disks = append(disks, row.Instance()+":"+row.Label("mountpoint"))
		}
		result.Status = failStatus
		result.Output = fmt.Sprintf("Disks predicted to run out of space in the next %d days: %s", cfg.Days, strings.Join(disks, ","))
	}
	return []model.RawResult{result}, nil
}
