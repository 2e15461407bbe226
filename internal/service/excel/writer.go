package excel

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/dengyintao/ProcessExcelData/internal/apperr"
	"github.com/dengyintao/ProcessExcelData/internal/model"
)

// OutputSheet 输出工作表名称
const OutputSheet = "Sheet1"

// WriteDataset 以 xlsx 格式写出数据集
// 先写入同目录临时文件再重命名，失败时不会留下写了一半的目标文件
func WriteDataset(path string, ds *model.Dataset) error {
	fail := func(err error) error {
		return apperr.New(apperr.KindMergeWrite, "write", path, err)
	}

	f, err := buildWorkbook(ds)
	if err != nil {
		return fail(err)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fail(err)
	}
	tmp, err := os.CreateTemp(dir, ".excel_processor_*.xlsx")
	if err != nil {
		return fail(err)
	}
	tmpPath := tmp.Name()

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fail(err)
	}
	// CreateTemp 建出的文件只有属主可读写
	if err := os.Chmod(tmpPath, outputFileMode); err != nil {
		_ = os.Remove(tmpPath)
		return fail(err)
	}
	if err := osRename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fail(err)
	}
	return nil
}

const outputFileMode = 0644

var osRename = os.Rename

func buildWorkbook(ds *model.Dataset) (*excelize.File, error) {
	f := excelize.NewFile()

	header := make([]interface{}, len(ds.Columns))
	for i, name := range ds.Columns {
		header[i] = name
	}
	if len(header) > 0 {
		if err := f.SetSheetRow(OutputSheet, "A1", &header); err != nil {
			f.Close()
			return nil, err
		}
		headerStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
		})
		if err == nil {
			_ = f.SetRowStyle(OutputSheet, 1, 1, headerStyle)
		}
	}

	for i, row := range ds.Rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(OutputSheet, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	return f, nil
}

func cellValue(v model.Value) interface{} {
	switch v.Kind {
	case model.CellString:
		return v.Text
	case model.CellNumber:
		return v.Number
	case model.CellBool:
		return v.Bool
	case model.CellDate:
		return v.Time
	default:
		return nil
	}
}
