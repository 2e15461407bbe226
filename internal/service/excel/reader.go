package excel

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/dengyintao/ProcessExcelData/internal/model"
)

// ReadDataset 读取第一个工作表为数据集：第一行为表头，其余为数据行
// 整行为空的行会被跳过
func ReadDataset(path string) (*model.Dataset, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, parseError("read", path, err)
	}

	var grid [][]model.Value
	var header []string
	switch format {
	case FormatXLSX:
		header, grid, err = readXLSX(path)
	case FormatXLS:
		header, grid, err = readXLS(path)
	default:
		err = errUnsupportedFormat
	}
	if err != nil {
		return nil, parseError("read", path, err)
	}

	return buildDataset(header, grid), nil
}

// buildDataset 规整行宽：短行补空值，超出表头的单元格补空列名
func buildDataset(header []string, grid [][]model.Value) *model.Dataset {
	ds := &model.Dataset{Columns: append([]string{}, header...)}

	width := len(ds.Columns)
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}
	for len(ds.Columns) < width {
		ds.Columns = append(ds.Columns, "")
	}

	ds.Rows = make([][]model.Value, 0, len(grid))
	for _, row := range grid {
		if isBlankRow(row) {
			continue
		}
		full := make([]model.Value, width)
		copy(full, row)
		ds.Rows = append(ds.Rows, full)
	}
	return ds
}

func isBlankRow(row []model.Value) bool {
	for _, v := range row {
		if !v.IsEmpty() {
			return false
		}
	}
	return true
}

func readXLSX(path string) ([]string, [][]model.Value, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	sheet, err := firstSheet(f)
	if err != nil {
		return nil, nil, err
	}

	shown, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, err
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, err
	}
	if len(shown) == 0 {
		return []string{}, nil, nil
	}

	cr := newCellReader(f, sheet)
	grid := make([][]model.Value, 0, len(shown)-1)
	for r := 1; r < len(shown); r++ {
		var rawRow []string
		if r < len(raw) {
			rawRow = raw[r]
		}
		row := make([]model.Value, len(shown[r]))
		for c, text := range shown[r] {
			rawText := text
			if c < len(rawRow) {
				rawText = rawRow[c]
			}
			row[c] = cr.value(r, c, rawText, text)
		}
		grid = append(grid, row)
	}
	return shown[0], grid, nil
}

// cellReader 结合单元格类型与数字格式还原单元格值
type cellReader struct {
	f         *excelize.File
	sheet     string
	date1904  bool
	dateStyle map[int]bool
}

func newCellReader(f *excelize.File, sheet string) *cellReader {
	cr := &cellReader{f: f, sheet: sheet, dateStyle: map[int]bool{}}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		cr.date1904 = *props.Date1904
	}
	return cr
}

func (cr *cellReader) value(r, c int, raw, shown string) model.Value {
	if raw == "" && shown == "" {
		return model.EmptyValue()
	}

	cell, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return model.StringValue(shown)
	}
	typ, err := cr.f.GetCellType(cr.sheet, cell)
	if err != nil {
		return model.StringValue(shown)
	}

	switch typ {
	case excelize.CellTypeBool:
		return model.BoolValue(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeDate:
		for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, strings.TrimSuffix(raw, "Z")); err == nil {
				return model.DateValue(t)
			}
		}
		return model.StringValue(shown)
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		num, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
			return model.StringValue(shown)
		}
		if cr.isDateCell(cell) {
			if t, err := excelize.ExcelDateToTime(num, cr.date1904); err == nil {
				return model.DateValue(t)
			}
		}
		return model.NumberValue(num)
	default:
		return model.StringValue(shown)
	}
}

func (cr *cellReader) isDateCell(cell string) bool {
	idx, err := cr.f.GetCellStyle(cr.sheet, cell)
	if err != nil || idx == 0 {
		return false
	}
	if v, ok := cr.dateStyle[idx]; ok {
		return v
	}
	isDate := false
	if style, err := cr.f.GetStyle(idx); err == nil && style != nil {
		isDate = isDateNumFmt(style.NumFmt)
		if !isDate && style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		}
	}
	cr.dateStyle[idx] = isDate
	return isDate
}

// isDateNumFmt 内置日期/时间数字格式编号
func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode 自定义格式中去掉引号文本和方括号段后，含年月日时分秒占位符即视为日期
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range code {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	s := strings.ToLower(b.String())
	if strings.Contains(s, "general") {
		return false
	}
	return strings.ContainsAny(s, "ydh") || strings.Contains(s, "mm") || strings.Contains(s, "ss") ||
		strings.ContainsAny(s, "年月日")
}

// withXLSSheet 打开旧版工作簿的第一个工作表，fn 返回后立即关闭文件
func withXLSSheet(path string, fn func(sheet *xls.WorkSheet) error) (err error) {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// 旧版格式解析库遇到损坏文件可能 panic，这里转成错误
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("xls 文件已损坏: %v", r)
		}
	}()

	wb, err := xls.OpenReader(file, "utf-8")
	if err != nil {
		return fmt.Errorf("failed to open xls: %w", err)
	}
	if wb.NumSheets() == 0 {
		return fmt.Errorf("工作簿中没有工作表")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return fmt.Errorf("无法读取第一个工作表")
	}
	return fn(sheet)
}

// xlsRow 没有 ROW 记录的行（中间的空行）返回 nil
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if r := recover(); r != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

func xlsRowCells(sheet *xls.WorkSheet, i int) []string {
	row := xlsRow(sheet, i)
	if row == nil {
		return nil
	}
	cells := make([]string, row.LastCol())
	for c := row.FirstCol(); c < row.LastCol(); c++ {
		cells[c] = row.Col(c)
	}
	return trimTrailingEmpty(cells)
}

func xlsHeader(path string) ([]string, error) {
	var header []string
	err := withXLSSheet(path, func(sheet *xls.WorkSheet) error {
		header = xlsRowCells(sheet, 0)
		return nil
	})
	return header, err
}

func readXLS(path string) ([]string, [][]model.Value, error) {
	var rows [][]string
	err := withXLSSheet(path, func(sheet *xls.WorkSheet) error {
		rows = make([][]string, 0, int(sheet.MaxRow)+1)
		for i := 0; i <= int(sheet.MaxRow); i++ {
			rows = append(rows, xlsRowCells(sheet, i))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return []string{}, nil, nil
	}

	grid := make([][]model.Value, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		row := make([]model.Value, len(cells))
		for c, text := range cells {
			row[c] = inferValue(text)
		}
		grid = append(grid, row)
	}
	return rows[0], grid, nil
}

func trimTrailingEmpty(cells []string) []string {
	end := len(cells)
	for end > 0 && cells[end-1] == "" {
		end--
	}
	return cells[:end]
}

// inferValue 旧版格式只提供显示文本：规范写法的数字按数字处理，
// 带前导零、正号或空白的文本保持文本，避免丢失编号前导零
func inferValue(text string) model.Value {
	if text == "" {
		return model.EmptyValue()
	}
	if looksPlainNumber(text) {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return model.NumberValue(f)
		}
	}
	return model.StringValue(text)
}

func looksPlainNumber(s string) bool {
	if s == "" || s != strings.TrimSpace(s) || s[0] == '+' {
		return false
	}
	digits := strings.TrimPrefix(s, "-")
	if digits == "" || !(digits[0] == '.' || (digits[0] >= '0' && digits[0] <= '9')) {
		return false
	}
	if len(digits) > 1 && digits[0] == '0' && digits[1] != '.' {
		return false
	}
	return true
}
