package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"promcheck/internal/config"
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate [checks-file]",
	Short: "验证配置文件",
	Long:  "加载并验证运行配置和检查配置文件，检查格式、必填字段、检查类型、判断类型和白名单正则。",
	Args:  cobra.MaximumNArgs(1),
	Run:   runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate executes the validate command logic.
func runValidate(cmd *cobra.Command, args []string) {
	if _, err := config.Load(GetConfigFile()); err != nil {
		fmt.Fprintf(os.Stderr, "❌ 运行配置验证失败: %v\n", err)
		os.Exit(exitFailing)
	}

	checksPath := checksFileArg(args)
	file, err := config.LoadChecks(checksPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 检查配置验证失败: %v\n", err)
		os.Exit(exitFailing)
	}

	fmt.Printf("✅ 检查配置验证通过: %s (%d 个检查)\n", checksPath, file.Total())
}
