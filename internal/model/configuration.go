package model

import "strings"

// MatchType 匹配类型预设
type MatchType string

const (
	MatchTypeUnselected       MatchType = "unselected"
	MatchTypeMedicalInsurance MatchType = "medical_insurance" // 医保
	MatchTypeSocialInsurance  MatchType = "social_insurance"  // 社保
)

// matchTypeAliases 兼容旧版配置文件中的中文取值
var matchTypeAliases = map[string]MatchType{
	"请选择": MatchTypeUnselected,
	"医保":  MatchTypeMedicalInsurance,
	"社保":  MatchTypeSocialInsurance,
}

// ParseMatchType 解析匹配类型，无法识别时返回 unselected 和 false
func ParseMatchType(s string) (MatchType, bool) {
	s = strings.TrimSpace(s)
	switch MatchType(s) {
	case MatchTypeUnselected, MatchTypeMedicalInsurance, MatchTypeSocialInsurance:
		return MatchType(s), true
	}
	if mt, ok := matchTypeAliases[s]; ok {
		return mt, true
	}
	return MatchTypeUnselected, s == ""
}

// Label 中文显示名
func (m MatchType) Label() string {
	switch m {
	case MatchTypeMedicalInsurance:
		return "医保"
	case MatchTypeSocialInsurance:
		return "社保"
	default:
		return "请选择"
	}
}

// Configuration 持久化的用户设置（config.json）
type Configuration struct {
	SourceFile1 string    `json:"source_file1"`
	SourceFile2 string    `json:"source_file2"`
	OutputFile  string    `json:"output_file"`
	MatchField1 string    `json:"match_field1"`
	MatchField2 string    `json:"match_field2"`
	MatchType   MatchType `json:"match_type"`
}

// DefaultConfiguration 首次运行时的默认设置
func DefaultConfiguration() Configuration {
	return Configuration{MatchType: MatchTypeUnselected}
}
