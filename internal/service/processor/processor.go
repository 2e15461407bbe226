// Package processor 串起"开始处理"的完整流程：备份 -> 读取 -> 匹配 -> 写出
package processor

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dengyintao/ProcessExcelData/internal/apperr"
	"github.com/dengyintao/ProcessExcelData/internal/model"
	"github.com/dengyintao/ProcessExcelData/internal/service/backup"
	"github.com/dengyintao/ProcessExcelData/internal/service/excel"
	"github.com/dengyintao/ProcessExcelData/internal/service/merge"
)

// Logger 会话日志
type Logger interface {
	Log(msg string)
}

// History 处理记录存储
type History interface {
	CreateRun(run model.ProcessRun) error
	FinishRun(id string, out model.RunOutcome) error
}

// Report 一次处理的结果
type Report struct {
	RunID     string             `json:"runId"`
	StartedAt time.Time          `json:"startedAt"`
	Backup1   string             `json:"backup1"`
	Backup2   string             `json:"backup2"`
	Output    string             `json:"output"`
	Result    *model.MergeResult `json:"result"`
}

// FieldLists 两个源文件的表头
type FieldLists struct {
	Fields1     []string `json:"fields1"`
	Fields2     []string `json:"fields2"`
	Field1Found bool     `json:"field1Found"` // 已保存的匹配字段1 是否在 Fields1 中
	Field2Found bool     `json:"field2Found"`
}

// Processor 处理流程，所有步骤顺序执行，任何一步失败立即停止
type Processor struct {
	backups *backup.Service
	log     Logger
	history History
	diag    zerolog.Logger
	now     func() time.Time
	newID   func() string
}

// New 创建处理器；history 可为 nil
func New(backups *backup.Service, log Logger, history History) *Processor {
	return &Processor{
		backups: backups,
		log:     log,
		history: history,
		diag:    zerolog.Nop(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// WithDiagnostics 设置诊断日志
func (p *Processor) WithDiagnostics(diag zerolog.Logger) *Processor {
	p.diag = diag.With().Str("component", "processor").Logger()
	return p
}

// Run 执行一次完整处理
func (p *Processor) Run(cfg model.Configuration) (*Report, error) {
	if err := validate(cfg); err != nil {
		p.log.Log(apperr.Message(err))
		return nil, err
	}

	report := &Report{
		RunID:     p.newID(),
		StartedAt: p.now(),
		Output:    cfg.OutputFile,
	}
	p.recordStart(report, cfg)

	err := p.run(cfg, report)

	outcome := model.RunOutcome{
		FinishedAt: p.now(),
		Backup1:    report.Backup1,
		Backup2:    report.Backup2,
		Result:     report.Result,
		Status:     model.RunStatusSuccess,
	}
	if err != nil {
		p.log.Log("错误: " + apperr.Message(err))
		outcome.Status = model.RunStatusFailed
		outcome.ErrorKind = apperr.KindOf(err).String()
		outcome.ErrorMsg = err.Error()
	}
	p.recordFinish(report.RunID, outcome)

	return report, err
}

func (p *Processor) run(cfg model.Configuration, report *Report) error {
	var err error

	p.log.Log("开始备份源文件...")
	if report.Backup1, err = p.backups.Backup(cfg.SourceFile1); err != nil {
		return err
	}
	if report.Backup2, err = p.backups.Backup(cfg.SourceFile2); err != nil {
		return err
	}
	p.log.Log("文件备份完成")

	p.log.Log("开始处理Excel文件...")
	ds1, err := excel.ReadDataset(cfg.SourceFile1)
	if err != nil {
		return err
	}
	ds2, err := excel.ReadDataset(cfg.SourceFile2)
	if err != nil {
		return err
	}
	p.diag.Debug().Int("rows1", ds1.Len()).Int("rows2", ds2.Len()).Msg("datasets loaded")

	result, err := merge.Merge(ds1, ds2, cfg.MatchField1, cfg.MatchField2)
	if err != nil {
		return err
	}
	if err := excel.WriteDataset(cfg.OutputFile, result.Output); err != nil {
		return err
	}
	report.Result = result

	p.log.Log(Summary(result))
	return nil
}

// Summary 处理完成后的统计信息
func Summary(r *model.MergeResult) string {
	return fmt.Sprintf("数据处理完成！原始数据：%d条，匹配数据：%d条，过滤掉：%d条",
		r.OriginalCount, r.MatchedCount, r.FilteredOutCount)
}

func validate(cfg model.Configuration) error {
	if blank(cfg.SourceFile1) || blank(cfg.SourceFile2) || blank(cfg.OutputFile) {
		return apperr.Validation("请选择所有必需的文件")
	}
	if blank(cfg.MatchField1) || blank(cfg.MatchField2) {
		return apperr.Validation("请选择匹配字段")
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// RefreshFields 读取两个源文件的表头，并检查已保存的匹配字段是否仍然存在
func (p *Processor) RefreshFields(cfg model.Configuration) (FieldLists, error) {
	if blank(cfg.SourceFile1) || blank(cfg.SourceFile2) {
		err := apperr.Validation("请先选择输入文件和小士兵反馈结果文件")
		p.log.Log(apperr.Message(err))
		return FieldLists{}, err
	}

	fields1, err := excel.ListColumns(cfg.SourceFile1)
	if err != nil {
		p.log.Log("读取字段列表时发生错误: " + apperr.Message(err))
		return FieldLists{}, err
	}
	fields2, err := excel.ListColumns(cfg.SourceFile2)
	if err != nil {
		p.log.Log("读取字段列表时发生错误: " + apperr.Message(err))
		return FieldLists{}, err
	}

	p.log.Log("字段列表已更新")
	return FieldLists{
		Fields1:     fields1,
		Fields2:     fields2,
		Field1Found: contains(fields1, cfg.MatchField1),
		Field2Found: contains(fields2, cfg.MatchField2),
	}, nil
}

func contains(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Columns 读取单个文件的表头
func (p *Processor) Columns(path string) ([]string, error) {
	cols, err := excel.ListColumns(path)
	if err != nil {
		p.log.Log("读取字段列表时发生错误: " + apperr.Message(err))
		return nil, err
	}
	return cols, nil
}

// Backup 单独备份一个文件
func (p *Processor) Backup(path string) (string, error) {
	if blank(path) {
		err := apperr.Validation("请选择要备份的文件")
		p.log.Log(err.Error())
		return "", err
	}
	dest, err := p.backups.Backup(path)
	if err != nil {
		p.log.Log("错误: " + apperr.Message(err))
		return "", err
	}
	p.log.Log("文件已备份: " + dest)
	return dest, nil
}

func (p *Processor) recordStart(report *Report, cfg model.Configuration) {
	if p.history == nil {
		return
	}
	err := p.history.CreateRun(model.ProcessRun{
		ID:          report.RunID,
		StartedAt:   report.StartedAt,
		SourceFile1: cfg.SourceFile1,
		SourceFile2: cfg.SourceFile2,
		OutputFile:  cfg.OutputFile,
		MatchField1: cfg.MatchField1,
		MatchField2: cfg.MatchField2,
		MatchType:   cfg.MatchType,
		Status:      model.RunStatusRunning,
	})
	if err != nil {
		p.diag.Error().Err(err).Str("run", report.RunID).Msg("failed to record run start")
	}
}

func (p *Processor) recordFinish(id string, out model.RunOutcome) {
	if p.history == nil {
		return
	}
	if err := p.history.FinishRun(id, out); err != nil {
		p.diag.Error().Err(err).Str("run", id).Msg("failed to record run result")
	}
}
