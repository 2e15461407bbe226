package merge

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/dengyintao/ProcessExcelData/internal/model"
)

// plainNumber 规范写法的数字文本，与旧版工作簿的数字推断一致（".5"、"2." 也算数字）；
// 带前导零的编号（如 "007"）不在此列，按文本比较
var plainNumber = regexp.MustCompile(`^-?((0|[1-9][0-9]*)(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?$`)

// CanonicalKey 把单元格值转换成比较用的规范键
//
//   - 空值返回 ""，空键不参与匹配
//   - 文本先做 NFKC（全角数字、全角空格转半角）再去首尾空白
//   - 数字与规范写法的数字文本统一为十进制最简形式："2"、"2.0"、" 2 "、"２" 都得到 "2"
//   - 日期取 2006-01-02，含时间部分时追加 15:04:05
//   - 布尔值为 TRUE / FALSE
//
// 比较区分大小写。
func CanonicalKey(v model.Value) string {
	switch v.Kind {
	case model.CellNumber:
		if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
			return v.String()
		}
		return decimal.NewFromFloat(v.Number).String()
	case model.CellString:
		s := strings.TrimSpace(norm.NFKC.String(v.Text))
		if plainNumber.MatchString(s) {
			if d, err := decimal.NewFromString(s); err == nil {
				return d.String()
			}
		}
		return s
	case model.CellBool, model.CellDate:
		return v.String()
	default:
		return ""
	}
}
