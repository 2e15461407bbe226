// Package apperr 定义核心操作的错误分类
//
// 每个核心操作都返回显式错误，调用方用 errors.Is / errors.As 区分种类，
// 再交给日志输出给操作员，进程本身不会因此退出。
package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误种类
type Kind int

const (
	KindUnknown Kind = iota
	KindConfigIO
	KindBackupIO
	KindDataParse
	KindMissingField
	KindMergeWrite
	KindValidation
)

// 种类哨兵，配合 errors.Is 使用
var (
	ErrConfigIO     = &kindSentinel{KindConfigIO}
	ErrBackupIO     = &kindSentinel{KindBackupIO}
	ErrDataParse    = &kindSentinel{KindDataParse}
	ErrMissingField = &kindSentinel{KindMissingField}
	ErrMergeWrite   = &kindSentinel{KindMergeWrite}
	ErrValidation   = &kindSentinel{KindValidation}
)

type kindSentinel struct{ kind Kind }

func (s *kindSentinel) Error() string { return s.kind.String() }

// String 返回种类的英文标识（用于 API 和历史记录）
func (k Kind) String() string {
	switch k {
	case KindConfigIO:
		return "config_io"
	case KindBackupIO:
		return "backup_io"
	case KindDataParse:
		return "data_parse"
	case KindMissingField:
		return "missing_field"
	case KindMergeWrite:
		return "merge_write"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Label 返回面向操作员的上下文词
func (k Kind) Label() string {
	switch k {
	case KindConfigIO:
		return "配置"
	case KindBackupIO:
		return "备份"
	case KindDataParse:
		return "读取"
	case KindMissingField:
		return "校验"
	case KindMergeWrite:
		return "写入"
	case KindValidation:
		return "参数"
	default:
		return "错误"
	}
}

// Error 带种类的错误
type Error struct {
	Kind Kind
	Op   string // 失败的操作，如 "backup"、"read"
	Path string // 相关文件路径，可为空
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Path)
	}
	if e.Err != nil {
		if msg == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is 让 errors.Is(err, ErrBackupIO) 按种类匹配
func (e *Error) Is(target error) bool {
	s, ok := target.(*kindSentinel)
	return ok && s.kind == e.Kind
}

// New 创建带种类的错误
func New(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// MissingFieldError 匹配字段不在数据集表头中
type MissingFieldError struct {
	Dataset int // 1 或 2
	Field   string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("源文件%d中不存在字段 '%s'", e.Dataset, e.Field)
}

// MissingField 构造 KindMissingField 错误
func MissingField(dataset int, field string) *Error {
	return &Error{
		Kind: KindMissingField,
		Op:   "validate",
		Err:  &MissingFieldError{Dataset: dataset, Field: field},
	}
}

// Validation 构造参数校验错误
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Err: errors.New(msg)}
}

// KindOf 取出错误链中的种类；非本包错误返回 KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message 生成 "<上下文词>: <详情>" 形式的可读信息
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		detail := err.Error()
		var mf *MissingFieldError
		if errors.As(err, &mf) {
			detail = mf.Error()
		}
		return fmt.Sprintf("%s: %s", e.Kind.Label(), detail)
	}
	return fmt.Sprintf("%s: %v", KindUnknown.Label(), err)
}
