// Package backup 在处理前把源文件复制到备份目录
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dengyintao/ProcessExcelData/internal/apperr"
)

// TimestampLayout 备份文件名中的时间戳格式
const TimestampLayout = "20060102_150405"

// Service 备份服务
type Service struct {
	dir string
	now func() time.Time
}

// NewService 创建备份服务，dir 在第一次备份时创建
func NewService(dir string) *Service {
	return &Service{dir: dir, now: time.Now}
}

// WithClock 替换时钟（测试用）
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Dir 备份目录
func (s *Service) Dir() string {
	return s.dir
}

// DestinationFor 计算备份目标路径：{dir}/{YYYYMMDD_HHMMSS}_{文件名}
func (s *Service) DestinationFor(sourcePath string, at time.Time) string {
	name := fmt.Sprintf("%s_%s", at.Format(TimestampLayout), filepath.Base(sourcePath))
	return filepath.Join(s.dir, name)
}

// Backup 复制源文件到备份目录并保留修改时间，返回备份路径
// 同名备份已存在时失败，不会覆盖
func (s *Service) Backup(sourcePath string) (string, error) {
	fail := func(err error) (string, error) {
		return "", apperr.New(apperr.KindBackupIO, "backup", sourcePath, err)
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return fail(err)
	}
	if info.IsDir() {
		return fail(fmt.Errorf("不是文件"))
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fail(err)
	}

	dest := s.DestinationFor(sourcePath, s.now())
	if err := copyFile(sourcePath, dest, info); err != nil {
		return fail(err)
	}
	// 尽量保留权限与修改时间，平台不支持时忽略
	_ = os.Chmod(dest, info.Mode().Perm())
	_ = os.Chtimes(dest, info.ModTime(), info.ModTime())
	return dest, nil
}

func copyFile(src, dest string, info os.FileInfo) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("备份文件已存在: %s", dest)
		}
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(dest)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
