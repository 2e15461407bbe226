package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dengyintao/ProcessExcelData/internal/model"
	"github.com/dengyintao/ProcessExcelData/internal/util"
)

// errRunFailed 处理失败；详情已写入会话日志并打印
var errRunFailed = errors.New("处理失败")

type processOptions struct {
	source1, source2, output string
	field1, field2           string
	matchType                string
	save                     bool
	open                     bool
}

func newProcessCmd(a *app) *cobra.Command {
	var opts processOptions

	cmd := &cobra.Command{
		Use:   "process",
		Short: "备份源文件并按匹配字段生成结果文件",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := a.settings.Load()
			cfg, err := opts.apply(cmd, cfg, a)
			if err != nil {
				return err
			}

			if opts.save {
				if err := a.settings.Save(cfg); err != nil {
					a.log.Log("保存配置时发生错误: " + err.Error())
					renderError(cmd.ErrOrStderr(), err)
					return errRunFailed
				}
				a.log.Log("配置已保存")
			}

			report, err := a.proc.Run(cfg)
			if err != nil {
				renderError(cmd.ErrOrStderr(), err)
				return errRunFailed
			}
			renderReport(cmd.OutOrStdout(), report)

			if opts.open {
				if err := util.OpenTarget(report.Output); err != nil {
					a.diag.Warn().Err(err).Msg("无法打开输出文件")
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.source1, "source1", "", "源文件1（输入文件）")
	f.StringVar(&opts.source2, "source2", "", "源文件2（反馈结果文件）")
	f.StringVarP(&opts.output, "output", "o", "", "输出文件")
	f.StringVar(&opts.field1, "field1", "", "源文件1的匹配字段")
	f.StringVar(&opts.field2, "field2", "", "源文件2的匹配字段")
	f.StringVar(&opts.matchType, "match-type", "", "匹配类型：medical_insurance|social_insurance|unselected（或 医保/社保）")
	f.BoolVar(&opts.save, "save", false, "处理前把本次参数保存为默认配置")
	f.BoolVar(&opts.open, "open", false, "处理完成后打开输出文件")
	return cmd
}

// apply 命令行参数覆盖已保存的配置；--match-type 先套用预设，显式的 --field1/--field2 优先
func (o processOptions) apply(cmd *cobra.Command, cfg model.Configuration, a *app) (model.Configuration, error) {
	flags := cmd.Flags()
	if flags.Changed("match-type") {
		mt, ok := model.ParseMatchType(o.matchType)
		if !ok {
			return cfg, fmt.Errorf("未知的匹配类型: %s", o.matchType)
		}
		cfg = applyPreset(cfg, mt, a)
	}
	if flags.Changed("source1") {
		cfg.SourceFile1 = o.source1
	}
	if flags.Changed("source2") {
		cfg.SourceFile2 = o.source2
	}
	if flags.Changed("output") {
		cfg.OutputFile = o.output
	}
	if flags.Changed("field1") {
		cfg.MatchField1 = o.field1
	}
	if flags.Changed("field2") {
		cfg.MatchField2 = o.field2
	}
	return cfg, nil
}
