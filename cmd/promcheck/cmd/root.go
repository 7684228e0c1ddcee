// Package cmd provides CLI commands for promcheck.
package cmd

import (
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information, injected at build time via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Global flags
var (
	cfgFile  string // Runtime settings file path (optional)
	logLevel string // Log level
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "promcheck",
	Short: "声明式健康检查 - 基于 Prometheus 指标生成 Sensu 事件",
	Long: `promcheck 根据检查配置文件查询 Prometheus 兼容的指标后端，
按阈值评估磁盘、内存、负载、服务状态及自定义表达式，
将结果规范化为 Sensu 事件并发送到 Sensu client socket。

数据流: node_exporter → Prometheus → 本工具 → Sensu client socket

主要功能:
  - 内置磁盘、inode、内存、负载、systemd 服务、磁盘预测等检查
  - 支持自定义 PromQL 表达式与阈值/相等判断
  - 通过白名单过滤事件来源
  - 可选生成 Excel、HTML 及 node_exporter textfile 运行报告`,
	Version: Version,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(exitAborted)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "运行配置文件路径（可选，默认仅使用内置默认值和环境变量）")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "日志级别 (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// GetConfigFile returns the config file path from command line flag.
func GetConfigFile() string {
	return cfgFile
}

// GetLogLevel returns the log level from command line flag.
func GetLogLevel() string {
	return logLevel
}

// GetVersionInfo returns formatted version information.
func GetVersionInfo() string {
	return Version + "\n" +
		"Build Time: " + BuildTime + "\n" +
		"Git Commit: " + GitCommit + "\n" +
		"Go Version: " + runtime.Version() + "\n" +
		"OS/Arch: " + runtime.GOOS + "/" + runtime.GOARCH
}
