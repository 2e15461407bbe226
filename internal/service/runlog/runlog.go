// Package runlog 会话日志：每次启动一个日志文件，同时保留内存副本供界面展示
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dengyintao/ProcessExcelData/internal/model"
)

// FileTimeLayout 日志文件名中的时间格式
const FileTimeLayout = "20060102_150405"

// Logger 会话日志
//
// 每条日志以追加方式写入会话文件，写完即关闭；写文件失败不会影响调用方，
// 只在内存缓冲中记录一次失败提示。
type Logger struct {
	mu       sync.Mutex
	path     string
	now      func() time.Time
	entries  []model.LogEntry
	warned   bool
	diag     zerolog.Logger
	openFile func(name string, flag int, perm os.FileMode) (*os.File, error)
}

// New 创建会话日志，日志文件名在创建时确定
func New(logDir string, now func() time.Time) *Logger {
	if now == nil {
		now = time.Now
	}
	l := &Logger{
		now:      now,
		diag:     zerolog.Nop(),
		openFile: os.OpenFile,
	}
	l.path = filepath.Join(logDir, fmt.Sprintf("excel_processor_%s.log", now().Format(FileTimeLayout)))
	_ = os.MkdirAll(logDir, 0755)
	return l
}

// WithDiagnostics 把每条日志同步输出到诊断日志
func (l *Logger) WithDiagnostics(diag zerolog.Logger) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.diag = diag.With().Str("component", "runlog").Logger()
	return l
}

// Path 会话日志文件路径
func (l *Logger) Path() string {
	return l.path
}

// Log 记录一条日志
func (l *Logger) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := model.LogEntry{Time: l.now(), Message: msg}
	l.entries = append(l.entries, entry)
	l.diag.Info().Msg(msg)

	if err := l.appendLine(entry.Line()); err != nil {
		l.diag.Error().Err(err).Str("path", l.path).Msg("failed to write session log")
		if !l.warned {
			l.warned = true
			l.entries = append(l.entries, model.LogEntry{
				Time:    l.now(),
				Message: fmt.Sprintf("日志写入失败: %v", err),
			})
		}
	}
}

func (l *Logger) appendLine(line string) error {
	f, err := l.openFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Entries 返回内存中日志的副本
func (l *Logger) Entries() []model.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.LogEntry(nil), l.entries...)
}

// Lines 返回格式化后的日志行
func (l *Logger) Lines() []string {
	entries := l.Entries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Line()
	}
	return lines
}
