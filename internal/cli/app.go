package cli

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/dengyintao/ProcessExcelData/internal/config"
	"github.com/dengyintao/ProcessExcelData/internal/service/backup"
	"github.com/dengyintao/ProcessExcelData/internal/service/processor"
	"github.com/dengyintao/ProcessExcelData/internal/service/runlog"
	"github.com/dengyintao/ProcessExcelData/internal/service/settings"
	"github.com/dengyintao/ProcessExcelData/internal/store"
)

// app 一次命令执行期间共享的依赖
type app struct {
	configPath string
	dataDir    string
	stderr     io.Writer

	cfg      *config.AppConfig
	info     config.LoadConfigInfo
	paths    config.Paths
	diag     zerolog.Logger
	log      *runlog.Logger
	settings *settings.Store
	history  *store.Store
	proc     *processor.Processor
}

// setup 加载 config.toml 并创建各服务
func (a *app) setup() error {
	if a.stderr == nil {
		a.stderr = os.Stderr
	}

	cfg, info, err := config.LoadConfigWithInfo(a.configPath)
	loadErr := err
	if err != nil {
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{Path: info.Path}
	}
	if a.dataDir != "" {
		cfg.Data.DataDir = a.dataDir
	}
	a.cfg, a.info = cfg, info

	a.diag = runlog.NewDiagnostics(a.stderr, cfg.Log.Level, cfg.Log.Console)
	if loadErr != nil {
		a.diag.Warn().Err(loadErr).Str("path", info.Path).Msg("加载配置失败，使用默认配置")
	}

	paths, err := config.EnsureDataDirs(cfg)
	if err != nil {
		return err
	}
	a.paths = paths

	a.log = runlog.New(paths.LogDir, nil).WithDiagnostics(a.diag)
	a.settings = settings.NewStore(paths.SettingsFile)

	// 处理记录不可用时不影响主流程
	history, err := store.New(paths.HistoryDB)
	if err != nil {
		a.diag.Error().Err(err).Str("path", paths.HistoryDB).Msg("处理记录数据库不可用")
	} else {
		a.history = history
	}

	var recorder processor.History
	if a.history != nil {
		recorder = a.history
	}
	a.proc = processor.New(backup.NewService(paths.BackupDir), a.log, recorder).WithDiagnostics(a.diag)
	return nil
}

func (a *app) close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.diag.Error().Err(err).Msg("failed to close history database")
		}
		a.history = nil
	}
}
