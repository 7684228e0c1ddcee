package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"promcheck/internal/model"
)

// Runner executes a checks file end to end: it evaluates every check,
// resolves node names, builds and filters events, dispatches them and
// aggregates the run result.
type Runner struct {
	catalog  *Catalog
	resolver *Resolver
	sink     EventSink
	defaults model.RunDefaults
	debug    bool
	version  string
	now      func() time.Time
	logger   zerolog.Logger

	// checkTimeout bounds check execution only, zero disables it
	checkTimeout time.Duration
}

// RunnerOption is a functional option for configuring a Runner.
type RunnerOption func(*Runner)

// WithDebug enables debug mode: dropped events are logged and the run
// status is always 0.
func WithDebug(debug bool) RunnerOption {
	return func(r *Runner) {
		r.debug = debug
	}
}

// WithVersion sets the tool version recorded in the run report.
func WithVersion(version string) RunnerOption {
	return func(r *Runner) {
		r.version = version
	}
}

// WithCheckTimeout bounds the time spent evaluating checks. Once it expires no
// further checks are started; results already collected are still resolved
// and dispatched.
func WithCheckTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.checkTimeout = d
	}
}

// NewRunner creates a Runner with the given dependencies.
func NewRunner(
	catalog *Catalog,
	resolver *Resolver,
	sink EventSink,
	defaults model.RunDefaults,
	logger zerolog.Logger,
	opts ...RunnerOption,
) *Runner {
	r := &Runner{
		catalog:  catalog,
		resolver: resolver,
		sink:     sink,
		defaults: defaults,
		version:  "dev",
		now:      time.Now,
		logger:   logger.With().Str("component", "runner").Logger(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes all checks and custom checks of file. A failing check is
// logged and recorded in the report; it never aborts the run. Checks that
// were not started before the check timeout expired are recorded as
// failures. A failed dispatch or a cancelled ctx aborts the run and returns
// the partial report together with the error.
func (r *Runner) Run(ctx context.Context, file *model.ChecksFile) (*model.RunReport, error) {
	report := model.NewRunReport(r.now())
	report.Debug = r.debug
	report.Version = r.version

	r.logger.Info().
		Int("checks", file.Total()).
		Bool("debug", r.debug).
		Dur("check_timeout", r.checkTimeout).
		Msg("starting run")

	checkCtx := ctx
	if r.checkTimeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, r.checkTimeout)
		defer cancel()
	}

	specs := make([]model.CheckSpec, 0, file.Total())
	specs = append(specs, file.Checks...)
	for _, cfg := range file.Custom {
		specs = append(specs, model.CheckSpec{Check: model.CheckCustom, Cfg: cfg})
	}

	var results []model.RawResult
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			report.Finalize(r.now())
			return report, fmt.Errorf("run aborted: %w", err)
		}
		if err := checkCtx.Err(); err != nil {
			r.skipCheck(report, spec, err)
			continue
		}
		results = r.runCheck(checkCtx, report, results, spec.Check, spec.Cfg)
	}

	nodes := r.resolver.Resolve(ctx)

	var failed []string
	for _, raw := range results {
		event := BuildEvent(raw, nodes, r.defaults)

		if !r.defaults.Allows(event.Source) {
			report.Dropped = append(report.Dropped, event)
			r.logDropped(raw, event)
			continue
		}

		if err := r.sink.Dispatch(ctx, event); err != nil {
			report.Finalize(r.now())
			return report, fmt.Errorf("dispatch %s for %s: %w", event.Name, event.Source, err)
		}
		report.Dispatched = append(report.Dispatched, event)

		if event.Status != model.StatusOK {
			failed = append(failed, fmt.Sprintf("Source: %s: Check: %s: Output: %s: Status: %d",
				event.Source, event.Name, event.Output, event.Status))
		}
	}

	report.Result = r.aggregate(report.ChecksRun, failed)
	report.Finalize(r.now())

	r.logger.Info().
		Int("checks_run", report.ChecksRun).
		Int("check_failures", len(report.Failures)).
		Int("dispatched", len(report.Dispatched)).
		Int("dropped", len(report.Dropped)).
		Int("status", report.Result.Status).
		Dur("duration", report.Duration).
		Msg("run completed")

	return report, nil
}

// runCheck evaluates one check and appends its results.
func (r *Runner) runCheck(
	ctx context.Context,
	report *model.RunReport,
	results []model.RawResult,
	kind string,
	cfg model.CheckConfig,
) []model.RawResult {
	raws, err := r.catalog.Run(ctx, kind, cfg)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("check", kind).
			Str("name", cfg.Name).
			Msg("check failed")
		report.Failures = append(report.Failures, model.CheckFailure{
			Check: kind,
			Name:  cfg.Name,
			Error: err.Error(),
		})
		return results
	}

	report.ChecksRun++
	r.logger.Debug().
		Str("check", kind).
		Str("name", cfg.Name).
		Int("results", len(raws)).
		Msg("check completed")
	return append(results, raws...)
}

// skipCheck records a check that was not started because the check timeout expired.
func (r *Runner) skipCheck(report *model.RunReport, spec model.CheckSpec, cause error) {
	r.logger.Warn().
		Str("check", spec.Check).
		Str("name", spec.Cfg.Name).
		Dur("check_timeout", r.checkTimeout).
		Msg("check not started, check timeout expired")
	report.Failures = append(report.Failures, model.CheckFailure{
		Check: spec.Check,
		Name:  spec.Cfg.Name,
		Error: fmt.Sprintf("not started: %v", cause),
	})
}

func (r *Runner) logDropped(raw model.RawResult, event *model.Event) {
	e := r.logger.Debug()
	if r.debug {
		e = r.logger.Info()
	}

	whitelist := ""
	if r.defaults.Whitelist != nil {
		whitelist = r.defaults.Whitelist.String()
	}

	e.Str("source", raw.Source).
		Str("name", event.Name).
		Str("whitelist", whitelist).
		Msg("event dropped, source did not match whitelist")
}

// aggregate builds the run result from the failing event lines.
func (r *Runner) aggregate(checksRun int, failed []string) model.RunResult {
	if len(failed) == 0 {
		return model.RunResult{
			Status: 0,
			Output: fmt.Sprintf("OK: Ran %d checks successfully!", checksRun),
		}
	}

	result := model.RunResult{
		Status: 1,
		Output: strings.Join(failed, " "),
	}
	if r.debug {
		result.Status = 0
	}
	return result
}
