package runlog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestLoggerWritesFileAndBuffer(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	at := time.Date(2024, 3, 9, 8, 7, 6, 0, time.Local)
	l := New(dir, fixedClock(at))

	if want := filepath.Join(dir, "excel_processor_20240309_080706.log"); l.Path() != want {
		t.Fatalf("Path=%s, want %s", l.Path(), want)
	}

	l.Log("开始处理")
	l.Log("原始数据：5条")

	wantLines := []string{
		"[2024-03-09 08:07:06] 开始处理",
		"[2024-03-09 08:07:06] 原始数据：5条",
	}
	lines := l.Lines()
	if strings.Join(lines, "|") != strings.Join(wantLines, "|") {
		t.Fatalf("Lines=%q, want %q", lines, wantLines)
	}

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if string(data) != strings.Join(wantLines, "\n")+"\n" {
		t.Fatalf("file content=%q", data)
	}
}

func TestLoggerFileFailureIsReportedOnce(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "logs")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	l := New(blocker, fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)))
	l.Log("a")
	l.Log("b")

	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 2 messages + 1 failure note, got %d: %v", len(entries), l.Lines())
	}
	if entries[0].Message != "a" || entries[2].Message != "b" {
		t.Fatalf("unexpected order: %v", l.Lines())
	}
	if !strings.HasPrefix(entries[1].Message, "日志写入失败") {
		t.Fatalf("failure note=%q", entries[1].Message)
	}
}

func TestLoggerMirrorsToDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	l := New(t.TempDir(), nil).WithDiagnostics(NewDiagnostics(&buf, "info", false))

	l.Log("备份完成")

	out := buf.String()
	if !strings.Contains(out, "备份完成") || !strings.Contains(out, `"component":"runlog"`) {
		t.Fatalf("diagnostics output=%s", out)
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	l := New(t.TempDir(), nil)
	l.Log("x")

	entries := l.Entries()
	entries[0].Message = "changed"
	if l.Entries()[0].Message != "x" {
		t.Fatalf("Entries should return a copy")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "debug",
		" WARN ":  "warn",
		"error":   "error",
		"":        "info",
		"verbose": "info",
	}
	for in, want := range cases {
		if got := ParseLevel(in).String(); got != want {
			t.Fatalf("ParseLevel(%q)=%s, want %s", in, got, want)
		}
	}
}
