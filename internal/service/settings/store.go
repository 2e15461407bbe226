// Package settings 负责 config.json 的读取与保存
package settings

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dengyintao/ProcessExcelData/internal/apperr"
	"github.com/dengyintao/ProcessExcelData/internal/config"
	"github.com/dengyintao/ProcessExcelData/internal/model"
)

// 配置文件中的键名
const (
	keySourceFile1 = "source_file1"
	keySourceFile2 = "source_file2"
	keyOutputFile  = "output_file"
	keyMatchField1 = "match_field1"
	keyMatchField2 = "match_field2"
	keyMatchType   = "match_type"
)

// LoadInfo 加载结果说明
type LoadInfo struct {
	DefaultsUsed bool   // 文件不存在或无法读取，使用了默认值
	Reason       string // DefaultsUsed 时的原因
}

// Store 配置存储
type Store struct {
	path string
}

// NewStore 创建配置存储
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path 配置文件路径
func (s *Store) Path() string {
	return s.path
}

// Load 读取配置；文件缺失或损坏时返回默认值并在 LoadInfo 中说明
func (s *Store) Load() (model.Configuration, LoadInfo) {
	cfg := model.DefaultConfiguration()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, LoadInfo{DefaultsUsed: true, Reason: "配置文件不存在，已使用默认配置"}
		}
		return cfg, LoadInfo{DefaultsUsed: true, Reason: fmt.Sprintf("读取配置文件失败，已使用默认配置: %v", err)}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return cfg, LoadInfo{DefaultsUsed: true, Reason: fmt.Sprintf("配置文件格式错误，已使用默认配置: %v", err)}
	}

	str := func(key string) string {
		msg, ok := raw[key]
		if !ok {
			return ""
		}
		var v string
		if err := json.Unmarshal(msg, &v); err != nil {
			return ""
		}
		return v
	}

	cfg.SourceFile1 = str(keySourceFile1)
	cfg.SourceFile2 = str(keySourceFile2)
	cfg.OutputFile = str(keyOutputFile)
	cfg.MatchField1 = str(keyMatchField1)
	cfg.MatchField2 = str(keyMatchField2)
	cfg.MatchType, _ = model.ParseMatchType(str(keyMatchType))

	return cfg, LoadInfo{}
}

// Save 覆盖写入全部六个键
func (s *Store) Save(cfg model.Configuration) error {
	mt := cfg.MatchType
	if mt == "" {
		mt = model.MatchTypeUnselected
	}

	// 使用 map 保证始终输出全部键，键按字母序排列
	record := map[string]string{
		keySourceFile1: cfg.SourceFile1,
		keySourceFile2: cfg.SourceFile2,
		keyOutputFile:  cfg.OutputFile,
		keyMatchField1: cfg.MatchField1,
		keyMatchField2: cfg.MatchField2,
		keyMatchType:   string(mt),
	}

	if err := writeJSONAtomic(s.path, record); err != nil {
		return apperr.New(apperr.KindConfigIO, "save config", s.path, err)
	}
	return nil
}

// ApplyPreset 按匹配类型填充两个匹配字段；unselected 清空字段
func ApplyPreset(cfg model.Configuration, mt model.MatchType, presets config.PresetsConfig) model.Configuration {
	cfg.MatchType = mt
	switch mt {
	case model.MatchTypeMedicalInsurance:
		cfg.MatchField1 = presets.MedicalInsurance.Field1
		cfg.MatchField2 = presets.MedicalInsurance.Field2
	case model.MatchTypeSocialInsurance:
		cfg.MatchField1 = presets.SocialInsurance.Field1
		cfg.MatchField2 = presets.SocialInsurance.Field2
	default:
		cfg.MatchType = model.MatchTypeUnselected
		cfg.MatchField1 = ""
		cfg.MatchField2 = ""
	}
	return cfg
}
