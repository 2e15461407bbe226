// Package merge 实现按匹配字段的内连接过滤
package merge

import (
	"github.com/dengyintao/ProcessExcelData/internal/apperr"
	"github.com/dengyintao/ProcessExcelData/internal/model"
)

// Merge 以 ds1.key1 == ds2.key2 做内连接
//
// 输出行 = ds1 的整行 + ds2 的 key2 列。ds1 中没有匹配的行被丢弃；
// 一行匹配到 ds2 多行时按 ds2 原顺序展开为多行。输出顺序跟随 ds1。
// 字段缺失在连接前检查，返回 MissingField 错误。
func Merge(ds1, ds2 *model.Dataset, key1, key2 string) (*model.MergeResult, error) {
	if ds1 == nil || ds2 == nil {
		return nil, apperr.Validation("数据集未加载")
	}

	col1 := ds1.ColumnIndex(key1)
	if col1 < 0 {
		return nil, apperr.MissingField(1, key1)
	}
	col2 := ds2.ColumnIndex(key2)
	if col2 < 0 {
		return nil, apperr.MissingField(2, key2)
	}

	// 同名匹配字段合并为一列，与左表其他列重名时追加 _y
	appendKey := key2 != key1
	columns := append([]string{}, ds1.Columns...)
	if appendKey {
		name := key2
		if ds1.HasColumn(key2) {
			name = key2 + "_y"
		}
		columns = append(columns, name)
	}

	index := buildIndex(ds2, col2)

	out := &model.Dataset{Columns: columns, Rows: make([][]model.Value, 0, ds1.Len())}
	dropped := 0
	for r := range ds1.Rows {
		key := CanonicalKey(ds1.Cell(r, col1))
		matches := index[key]
		if key == "" || len(matches) == 0 {
			dropped++
			continue
		}
		for _, r2 := range matches {
			row := make([]model.Value, len(columns))
			copy(row, ds1.Rows[r])
			if appendKey {
				row[len(columns)-1] = ds2.Cell(r2, col2)
			}
			out.Rows = append(out.Rows, row)
		}
	}

	return &model.MergeResult{
		Output:           out,
		OriginalCount:    ds1.Len(),
		MatchedCount:     out.Len(),
		FilteredOutCount: ds1.Len() - out.Len(),
		DroppedRows:      dropped,
	}, nil
}

// buildIndex 规范键 -> ds2 行号（保持原顺序）
func buildIndex(ds *model.Dataset, col int) map[string][]int {
	index := make(map[string][]int, ds.Len())
	for r := range ds.Rows {
		key := CanonicalKey(ds.Cell(r, col))
		if key == "" {
			continue
		}
		index[key] = append(index[key], r)
	}
	return index
}
