package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFieldsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields [PATH...]",
		Short: "列出 Excel 文件的表头字段（默认：配置中的两个源文件）",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) > 0 {
				failed := false
				for _, path := range args {
					cols, err := a.proc.Columns(path)
					if err != nil {
						renderError(cmd.ErrOrStderr(), err)
						failed = true
						continue
					}
					renderColumns(out, path, cols, "")
				}
				if failed {
					return errRunFailed
				}
				return nil
			}

			cfg, _ := a.settings.Load()
			lists, err := a.proc.RefreshFields(cfg)
			if err != nil {
				renderError(cmd.ErrOrStderr(), err)
				return errRunFailed
			}
			renderColumns(out, "源文件1: "+cfg.SourceFile1, lists.Fields1, cfg.MatchField1)
			renderColumns(out, "源文件2: "+cfg.SourceFile2, lists.Fields2, cfg.MatchField2)
			if cfg.MatchField1 != "" && !lists.Field1Found {
				fmt.Fprintf(out, "匹配字段1 '%s' 不在源文件1中\n", cfg.MatchField1)
			}
			if cfg.MatchField2 != "" && !lists.Field2Found {
				fmt.Fprintf(out, "匹配字段2 '%s' 不在源文件2中\n", cfg.MatchField2)
			}
			return nil
		},
	}
}
