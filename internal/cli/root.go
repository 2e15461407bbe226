// Package cli 命令行入口
package cli

import (
	"github.com/spf13/cobra"
)

// newRootCmd 创建根命令
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "excelprocessor",
		Short: "Excel 数据匹配处理工具",
		Long: `按匹配字段比对两个 Excel 文件，只保留源文件1中能在源文件2找到的行。
处理前自动备份源文件，每次运行的日志写入 logs 目录。`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.stderr = cmd.ErrOrStderr()
			return a.setup()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config.toml 路径（默认：可执行文件同目录）")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "数据目录（覆盖配置文件）")

	root.AddCommand(
		newProcessCmd(a),
		newFieldsCmd(a),
		newConfigCmd(a),
		newBackupCmd(a),
		newHistoryCmd(a),
		newServeCmd(a),
	)
	return root
}

// Execute 运行命令行
func Execute() error {
	a := &app{}
	defer a.close()
	return newRootCmd(a).Execute()
}
