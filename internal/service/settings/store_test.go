package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dengyintao/ProcessExcelData/internal/apperr"
	"github.com/dengyintao/ProcessExcelData/internal/config"
	"github.com/dengyintao/ProcessExcelData/internal/model"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "config.json"))

	cfg, info := s.Load()
	if !info.DefaultsUsed {
		t.Fatalf("expected DefaultsUsed")
	}
	if cfg != model.DefaultConfiguration() {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MatchType != model.MatchTypeUnselected {
		t.Fatalf("MatchType=%q", cfg.MatchType)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", "config.json"))
	want := model.Configuration{
		SourceFile1: "/data/输入文件.xlsx",
		SourceFile2: "/data/反馈结果.xls",
		OutputFile:  "/data/新任务.xlsx",
		MatchField1: "社保号",
		MatchField2: "社保编号",
		MatchType:   model.MatchTypeSocialInsurance,
	}

	if err := s.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, info := s.Load()
	if info.DefaultsUsed {
		t.Fatalf("unexpected defaults: %s", info.Reason)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSaveWritesAllKeysAndKeepsChinese(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	s := NewStore(path)

	if err := s.Save(model.Configuration{MatchField1: "医保号"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	text := string(data)
	for _, key := range []string{keySourceFile1, keySourceFile2, keyOutputFile, keyMatchField1, keyMatchField2, keyMatchType} {
		if !strings.Contains(text, `"`+key+`"`) {
			t.Fatalf("missing key %s in %s", key, text)
		}
	}
	if !strings.Contains(text, "医保号") {
		t.Fatalf("non-ASCII should be written verbatim: %s", text)
	}
	if !strings.Contains(text, `"match_type": "unselected"`) {
		t.Fatalf("empty match type should be written as unselected: %s", text)
	}
}

func TestLoadToleratesUnknownAndLegacyValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
    "source_file1": "a.xlsx",
    "match_field1": 12,
    "match_type": "医保",
    "window_size": [800, 600]
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, info := NewStore(path).Load()
	if info.DefaultsUsed {
		t.Fatalf("unexpected defaults: %s", info.Reason)
	}
	if cfg.SourceFile1 != "a.xlsx" {
		t.Fatalf("SourceFile1=%q", cfg.SourceFile1)
	}
	if cfg.MatchField1 != "" {
		t.Fatalf("non-string value should default to empty, got %q", cfg.MatchField1)
	}
	if cfg.MatchType != model.MatchTypeMedicalInsurance {
		t.Fatalf("MatchType=%q", cfg.MatchType)
	}
	if cfg.SourceFile2 != "" || cfg.OutputFile != "" {
		t.Fatalf("missing keys should be empty: %+v", cfg)
	}
}

func TestLoadMalformedFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, info := NewStore(path).Load()
	if !info.DefaultsUsed || info.Reason == "" {
		t.Fatalf("expected defaults with reason, got %+v", info)
	}
	if cfg != model.DefaultConfiguration() {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestSaveFailureIsConfigIO(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "config.json"))

	orig := osRename
	osRename = func(string, string) error { return errors.New("disk full") }
	defer func() { osRename = orig }()

	err := s.Save(model.DefaultConfiguration())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, apperr.ErrConfigIO) {
		t.Fatalf("expected ConfigIO, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("temp file left behind: %v", entries)
	}
}

func TestApplyPreset(t *testing.T) {
	presets := config.DefaultConfig().Presets
	cfg := model.Configuration{SourceFile1: "a.xlsx", MatchField1: "x", MatchField2: "y"}

	got := ApplyPreset(cfg, model.MatchTypeMedicalInsurance, presets)
	if got.MatchField1 != "医保号" || got.MatchField2 != "医保号" || got.SourceFile1 != "a.xlsx" {
		t.Fatalf("medical preset: %+v", got)
	}

	got = ApplyPreset(got, model.MatchTypeSocialInsurance, presets)
	if got.MatchField1 != "社保号" || got.MatchType != model.MatchTypeSocialInsurance {
		t.Fatalf("social preset: %+v", got)
	}

	got = ApplyPreset(got, model.MatchTypeUnselected, presets)
	if got.MatchField1 != "" || got.MatchField2 != "" {
		t.Fatalf("unselected should clear fields: %+v", got)
	}
}
