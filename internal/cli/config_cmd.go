package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dengyintao/ProcessExcelData/internal/config"
	"github.com/dengyintao/ProcessExcelData/internal/model"
	"github.com/dengyintao/ProcessExcelData/internal/service/settings"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "查看或修改保存的配置",
	}
	cmd.AddCommand(
		newConfigInitCmd(a),
		&cobra.Command{
			Use:   "show",
			Short: "显示当前配置",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, info := a.settings.Load()
				if info.DefaultsUsed {
					fmt.Fprintln(cmd.ErrOrStderr(), info.Reason)
				}
				renderConfig(cmd.OutOrStdout(), cfg, a.settings.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "set key=value...",
			Short: "修改配置项（source_file1 source_file2 output_file match_field1 match_field2 match_type）",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _ := a.settings.Load()
				for _, arg := range args {
					key, value, ok := strings.Cut(arg, "=")
					if !ok {
						return fmt.Errorf("参数格式应为 key=value: %s", arg)
					}
					if err := setKey(&cfg, strings.TrimSpace(key), value); err != nil {
						return err
					}
				}
				return saveConfig(cmd, a, cfg)
			},
		},
		&cobra.Command{
			Use:   "preset <medical_insurance|social_insurance|unselected>",
			Short: "切换匹配类型，按预设填充匹配字段",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				mt, ok := model.ParseMatchType(args[0])
				if !ok {
					return fmt.Errorf("未知的匹配类型: %s", args[0])
				}
				cfg, _ := a.settings.Load()
				return saveConfig(cmd, a, applyPreset(cfg, mt, a))
			},
		},
	)
	return cmd
}

// newConfigInitCmd 生成带默认值的 config.toml
func newConfigInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "生成默认的 config.toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.info.Path
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("配置文件已存在: %s（使用 --force 覆盖）", path)
			}
			if err := config.SaveConfig(path, config.DefaultConfig()); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			a.log.Log("已生成配置文件: " + path)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "覆盖已存在的配置文件")
	return cmd
}

func applyPreset(cfg model.Configuration, mt model.MatchType, a *app) model.Configuration {
	return settings.ApplyPreset(cfg, mt, a.cfg.Presets)
}

func setKey(cfg *model.Configuration, key, value string) error {
	switch key {
	case "source_file1":
		cfg.SourceFile1 = value
	case "source_file2":
		cfg.SourceFile2 = value
	case "output_file":
		cfg.OutputFile = value
	case "match_field1":
		cfg.MatchField1 = value
	case "match_field2":
		cfg.MatchField2 = value
	case "match_type":
		mt, ok := model.ParseMatchType(value)
		if !ok {
			return fmt.Errorf("未知的匹配类型: %s", value)
		}
		cfg.MatchType = mt
	default:
		return fmt.Errorf("未知的配置项: %s", key)
	}
	return nil
}

func saveConfig(cmd *cobra.Command, a *app, cfg model.Configuration) error {
	if err := a.settings.Save(cfg); err != nil {
		a.log.Log("保存配置时发生错误: " + err.Error())
		renderError(cmd.ErrOrStderr(), err)
		return errRunFailed
	}
	a.log.Log("配置已保存")
	renderConfig(cmd.OutOrStdout(), cfg, a.settings.Path())
	return nil
}
