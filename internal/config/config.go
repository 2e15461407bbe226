package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置（config.toml）
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Presets PresetsConfig `toml:"presets"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig 本地 HTTP 服务配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据目录配置，相对路径均相对 DataDir
type DataConfig struct {
	DataDir      string `toml:"data_dir"`
	SettingsFile string `toml:"settings_file"`
	LogDir       string `toml:"log_dir"`
	BackupDir    string `toml:"backup_dir"`
	HistoryDB    string `toml:"history_db"`
}

// FieldPreset 匹配类型对应的两个匹配字段
type FieldPreset struct {
	Field1 string `toml:"field1"`
	Field2 string `toml:"field2"`
}

// PresetsConfig 匹配类型预设
type PresetsConfig struct {
	MedicalInsurance FieldPreset `toml:"medical_insurance"`
	SocialInsurance  FieldPreset `toml:"social_insurance"`
}

// LogConfig 诊断日志配置
type LogConfig struct {
	Level   string `toml:"level"`
	Console bool   `toml:"console"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// Paths 解析后的绝对路径
type Paths struct {
	DataDir      string
	SettingsFile string
	LogDir       string
	BackupDir    string
	HistoryDB    string
}

const (
	envDataDir = "EXCEL_PROCESSOR_DATA_DIR"
	envPort    = "EXCEL_PROCESSOR_PORT"
)

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:      ".",
			SettingsFile: "config.json",
			LogDir:       "logs",
			BackupDir:    "backups",
			HistoryDB:    "history.db",
		},
		Presets: PresetsConfig{
			MedicalInsurance: FieldPreset{Field1: "医保号", Field2: "医保号"},
			SocialInsurance:  FieldPreset{Field1: "社保号", Field2: "社保号"},
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverMap, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath config.toml 默认位置：可执行文件同目录
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
// path 为空时使用可执行文件同目录下的 config.toml
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	// .env 只用于本地覆盖，不存在时忽略
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, info, err
		}
		// 配置文件不存在，使用默认配置
	} else {
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	}

	applyEnv(config, &info)
	return config, info, nil
}

func applyEnv(config *AppConfig, info *LoadConfigInfo) {
	if v := os.Getenv(envDataDir); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv(envPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Server.Port = port
			info.PortSpecified = true
		}
	}
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(path string, config *AppConfig) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolvePaths 计算各数据文件的绝对路径（不创建目录）
func ResolvePaths(config *AppConfig) (Paths, error) {
	dataDir, err := filepath.Abs(config.Data.DataDir)
	if err != nil {
		return Paths{}, err
	}

	under := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dataDir, p)
	}

	return Paths{
		DataDir:      dataDir,
		SettingsFile: under(config.Data.SettingsFile),
		LogDir:       under(config.Data.LogDir),
		BackupDir:    under(config.Data.BackupDir),
		HistoryDB:    under(config.Data.HistoryDB),
	}, nil
}

// EnsureDataDirs 确保数据目录、日志目录存在
// 备份目录由备份服务在首次备份时创建
func EnsureDataDirs(config *AppConfig) (Paths, error) {
	paths, err := ResolvePaths(config)
	if err != nil {
		return Paths{}, err
	}

	for _, dir := range []string{paths.DataDir, paths.LogDir, filepath.Dir(paths.SettingsFile)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Paths{}, err
		}
	}

	return paths, nil
}
