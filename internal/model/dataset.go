package model

import (
	"strconv"
	"time"
)

// CellKind 单元格值类型
type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
	CellBool
	CellDate
)

// Value 单元格值
type Value struct {
	Kind   CellKind
	Text   string
	Number float64
	Bool   bool
	Time   time.Time
}

func EmptyValue() Value           { return Value{Kind: CellEmpty} }
func StringValue(s string) Value  { return Value{Kind: CellString, Text: s} }
func NumberValue(f float64) Value { return Value{Kind: CellNumber, Number: f} }
func BoolValue(b bool) Value      { return Value{Kind: CellBool, Bool: b} }
func DateValue(t time.Time) Value { return Value{Kind: CellDate, Time: t} }
func (v Value) IsEmpty() bool     { return v.Kind == CellEmpty }

// String 显示用文本
func (v Value) String() string {
	switch v.Kind {
	case CellString:
		return v.Text
	case CellNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case CellBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case CellDate:
		if v.Time.Hour() == 0 && v.Time.Minute() == 0 && v.Time.Second() == 0 {
			return v.Time.Format("2006-01-02")
		}
		return v.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Dataset 内存中的表格：表头 + 按行存放的单元格
//
// 列名允许重复或为空，按名称查找时取第一个出现的位置。
type Dataset struct {
	Columns []string
	Rows    [][]Value
}

// ColumnIndex 返回列名第一次出现的下标，不存在返回 -1
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn 是否包含列
func (d *Dataset) HasColumn(name string) bool {
	return d.ColumnIndex(name) >= 0
}

// Len 数据行数（不含表头）
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Cell 读取单元格，越界返回空值
func (d *Dataset) Cell(row, col int) Value {
	if row < 0 || row >= len(d.Rows) || col < 0 || col >= len(d.Rows[row]) {
		return EmptyValue()
	}
	return d.Rows[row][col]
}
