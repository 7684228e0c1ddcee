package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"promcheck/internal/client/prom"
	"promcheck/internal/client/sensu"
	"promcheck/internal/config"
	"promcheck/internal/model"
	"promcheck/internal/report"
	"promcheck/internal/service"
)

// Process exit codes.
const (
	exitOK      = 0 // 全部检查正常
	exitFailing = 1 // 存在非正常事件
	exitAborted = 2 // 运行中止（配置错误、事件发送失败、中断）
)

// Command flags
var (
	outputDir string   // Output directory for reports
	formats   []string // Report formats (excel, html, textfile)
	debugMode bool     // Print events instead of sending them
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run [checks-file]",
	Short: "执行健康检查",
	Long: `执行检查配置文件中的全部检查，流程如下：
1. 依次执行 checks 与 custom 中的检查，单个检查失败只记录日志
2. 通过 node_uname_info 解析实例对应的主机名
3. 生成 Sensu 事件并按白名单过滤来源
4. 发送事件到 Sensu client socket（调试模式下输出到标准输出）
5. 汇总结果：全部正常退出码为 0，存在异常为 1，运行中止为 2

检查配置文件默认为 config.yml。

示例:
  # 使用默认检查文件
  promcheck run

  # 指定检查文件和运行配置
  promcheck run checks.yml -c promcheck.yaml

  # 调试模式：只打印事件，不发送
  PROM_DEBUG=1 promcheck run checks.yml

  # 同时生成报告
  promcheck run checks.yml -f excel,html,textfile -o ./reports`,
	Args: cobra.MaximumNArgs(1),
	Run:  runChecks,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "报告格式 (excel,html,textfile)，可用逗号分隔多个")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "", "报告输出目录")
	runCmd.Flags().BoolVar(&debugMode, "debug", false, "调试模式：事件输出到标准输出而不发送")
}

// runChecks executes the run command and exits with the run status.
func runChecks(cmd *cobra.Command, args []string) {
	checksPath := checksFileArg(args)

	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		tmpLogger := setupLogger("error", "console")
		tmpLogger.Error().Err(err).Str("path", GetConfigFile()).Msg("failed to load config")
		fmt.Fprintf(os.Stdout, "Run aborted: %v\n", err)
		os.Exit(exitAborted)
	}

	logger := setupLogger(resolveLogLevel(cfg.Logging.Level), cfg.Logging.Format)
	if debugMode {
		cfg.Run.Debug = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code, runReport := execute(ctx, cfg, checksPath, os.Stdout, logger)

	if runReport != nil {
		tz := reportTimezone(cfg)
		if err := writeReports(runReport, cfg, tz, logger); err != nil {
			logger.Error().Err(err).Msg("failed to write reports")
		}
	}

	stop()
	os.Exit(code)
}

// execute loads the checks file, runs every check and prints the run
// output to stdout. It returns the process exit code and, when the run
// started, its report.
func execute(
	ctx context.Context,
	cfg *config.Config,
	checksPath string,
	stdout io.Writer,
	logger zerolog.Logger,
) (int, *model.RunReport) {
	file, err := config.LoadChecks(checksPath)
	if err != nil {
		logger.Error().Err(err).Str("path", checksPath).Msg("failed to load checks")
		fmt.Fprintf(stdout, "Run aborted: %v\n", err)
		return exitAborted, nil
	}

	defaults, err := config.RunDefaults(file)
	if err != nil {
		logger.Error().Err(err).Msg("invalid event defaults")
		fmt.Fprintf(stdout, "Run aborted: %v\n", err)
		return exitAborted, nil
	}

	logger.Debug().
		Str("checks_file", checksPath).
		Int("checks", file.Total()).
		Str("endpoint", cfg.Datasources.Prometheus.Endpoint).
		Bool("debug", cfg.Run.Debug).
		Msg("checks loaded")

	promClient := prom.NewClient(&cfg.Datasources.Prometheus, logger)

	var sink service.EventSink
	if cfg.Run.Debug {
		sink = service.NewWriterSink(stdout)
	} else {
		sink = sensu.NewClient(&cfg.Sensu, logger)
	}

	runner := service.NewRunner(
		service.NewCatalog(promClient, logger),
		service.NewResolver(promClient, logger),
		sink,
		defaults,
		logger,
		service.WithDebug(cfg.Run.Debug),
		service.WithVersion(Version),
		service.WithCheckTimeout(cfg.Run.Timeout),
	)

	runReport, err := runner.Run(ctx, file)
	if err != nil {
		logger.Error().Err(err).Msg("run aborted")
		fmt.Fprintf(stdout, "Run aborted: %v\n", err)
		return exitAborted, runReport
	}

	fmt.Fprintln(stdout, runReport.Result.Output)
	if runReport.Result.Status != 0 {
		return exitFailing, runReport
	}
	return exitOK, runReport
}

// checksFileArg returns the checks file path argument or the default.
func checksFileArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return config.DefaultChecksFile
}

// writeReports writes the run report in every requested format.
func writeReports(runReport *model.RunReport, cfg *config.Config, tz *time.Location, logger zerolog.Logger) error {
	outputFormats := resolveFormats(cfg)
	if len(outputFormats) == 0 {
		return nil
	}

	dir := resolveOutputDir(cfg)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	registry := report.NewRegistry(tz, cfg.Report.HTMLTemplate)
	baseName := generateFilename(cfg.Report.FilenameTemplate, tz, runReport.StartedAt)

	var failed []string
	for _, format := range outputFormats {
		writer, err := registry.Get(format)
		if err != nil {
			failed = append(failed, err.Error())
			continue
		}

		path := filepath.Join(dir, baseName+writer.Extension())
		if err := writer.Write(runReport, path); err != nil {
			logger.Error().Err(err).Str("format", format).Str("path", path).Msg("failed to write report")
			failed = append(failed, fmt.Sprintf("%s: %v", format, err))
			continue
		}
		logger.Info().Str("format", format).Str("path", path).Msg("report written")
	}

	if len(failed) > 0 {
		return fmt.Errorf("%s", strings.Join(failed, "; "))
	}
	return nil
}

// resolveFormats determines the report formats to use.
// Command line flags take precedence over config file.
func resolveFormats(cfg *config.Config) []string {
	if len(formats) > 0 {
		return formats
	}
	return cfg.Report.Formats
}

// resolveOutputDir determines the output directory to use.
// Command line flags take precedence over config file.
func resolveOutputDir(cfg *config.Config) string {
	if outputDir != "" {
		return outputDir
	}
	if cfg.Report.OutputDir != "" {
		return cfg.Report.OutputDir
	}
	return "./reports"
}

// reportTimezone returns the configured report timezone, local time by default.
func reportTimezone(cfg *config.Config) *time.Location {
	if cfg.Report.Timezone == "" {
		return time.Local
	}
	tz, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		return time.Local
	}
	return tz
}

// generateFilename creates a filename from the template.
// Supports {{.Date}} placeholder for the run date.
func generateFilename(template string, tz *time.Location, at time.Time) string {
	if template == "" {
		template = "promcheck_{{.Date}}"
	}

	dateStr := at.In(tz).Format("2006-01-02")

	filename := strings.ReplaceAll(template, "{{.Date}}", dateStr)
	filename = strings.ReplaceAll(filename, "{{ .Date }}", dateStr)

	return filename
}
