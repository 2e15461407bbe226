package excel

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dengyintao/ProcessExcelData/internal/apperr"
)

// ListColumns 只读取第一个工作表的表头行，按原顺序返回列名
// 重复列名与空列名原样返回
func ListColumns(path string) ([]string, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, parseError("list columns", path, err)
	}

	var cols []string
	switch format {
	case FormatXLSX:
		cols, err = xlsxHeader(path)
	case FormatXLS:
		cols, err = xlsHeader(path)
	default:
		err = errUnsupportedFormat
	}
	if err != nil {
		return nil, parseError("list columns", path, err)
	}
	if cols == nil {
		cols = []string{}
	}
	return cols, nil
}

func xlsxHeader(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	sheet, err := firstSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return []string{}, rows.Error()
	}
	return rows.Columns()
}

func firstSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", errors.New("工作簿中没有工作表")
	}
	return sheets[0], nil
}

func parseError(op, path string, err error) error {
	return apperr.New(apperr.KindDataParse, op, path, err)
}
