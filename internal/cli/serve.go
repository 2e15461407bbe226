package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dengyintao/ProcessExcelData/internal/server"
	"github.com/dengyintao/ProcessExcelData/internal/util"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port      int
		devMode   bool
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动本地 HTTP 服务",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg := a.cfg

			// 命令行端口仅在 config.toml / 环境变量未显式配置时生效
			if port > 0 && !a.info.PortSpecified {
				cfg.Server.Port = port
			}
			if devMode {
				cfg.Server.DevMode = true
			}

			var history server.RunLister
			if a.history != nil {
				history = a.history
			}
			h := server.NewHandler(a.settings, a.proc, a.log, history, cfg.Presets)
			srv := server.NewServer(cfg, h, a.diag)

			addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
			url := fmt.Sprintf("http://localhost:%d/api/status", cfg.Server.Port)

			fmt.Fprintf(out, "数据目录: %s\n", a.paths.DataDir)
			fmt.Fprintf(out, "会话日志: %s\n", a.log.Path())

			errCh := make(chan error, 1)
			go func() {
				fmt.Fprintf(out, "服务启动中，监听 %s ...\n", addr)
				errCh <- srv.Run(addr)
			}()

			if !noBrowser && !cfg.Server.DevMode {
				if err := util.OpenTarget(url); err != nil {
					fmt.Fprintf(out, "无法自动打开浏览器，请手动访问: %s\n", url)
				}
			}

			fmt.Fprintln(out, "按 Ctrl+C 停止服务...")

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err := <-errCh:
				return fmt.Errorf("服务启动失败: %w", err)
			case <-quit:
				fmt.Fprintln(out, "正在关闭服务...")
				return nil
			}
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "服务端口（config.toml 优先；仅当未显式配置 port 时生效）")
	cmd.Flags().BoolVar(&devMode, "dev", false, "开发模式")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "不自动打开浏览器")
	return cmd
}
