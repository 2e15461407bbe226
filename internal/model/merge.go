package model

// MergeResult 合并结果与统计
//
// FilteredOutCount 恒等于 OriginalCount - MatchedCount；一行匹配多行时
// MatchedCount 可能大于 OriginalCount，此时 FilteredOutCount 为负。
type MergeResult struct {
	Output           *Dataset `json:"-"`
	OriginalCount    int      `json:"originalCount"`
	MatchedCount     int      `json:"matchedCount"`
	FilteredOutCount int      `json:"filteredOutCount"`
	DroppedRows      int      `json:"droppedRows"` // 源文件1中没有任何匹配的行数，始终 >= 0
}
