package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup PATH...",
		Short: "备份文件到备份目录",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, path := range args {
				dest, err := a.proc.Backup(path)
				if err != nil {
					renderError(cmd.ErrOrStderr(), err)
					failed = true
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", path, dest)
			}
			if failed {
				return errRunFailed
			}
			return nil
		},
	}
}
