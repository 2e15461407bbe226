package util

import (
	"errors"
	"runtime"
	"testing"
)

func TestOpenTargetUsesDefaultCommand(t *testing.T) {
	var calls [][]string
	orig := execStart
	execStart = func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	}
	defer func() { execStart = orig }()

	if err := OpenTarget("http://localhost:20262"); err != nil {
		t.Fatalf("OpenTarget failed: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("calls=%v, want exactly one", calls)
	}
	last := calls[0][len(calls[0])-1]
	if last != "http://localhost:20262" {
		t.Fatalf("target not passed through: %v", calls[0])
	}
}

func TestOpenTargetFallsBack(t *testing.T) {
	var calls int
	orig := execStart
	execStart = func(name string, args ...string) error {
		calls++
		if calls == 1 {
			return errors.New("not found")
		}
		return nil
	}
	defer func() { execStart = orig }()

	err := OpenTarget("http://localhost:1")
	if runtime.GOOS != "linux" && runtime.GOOS != "windows" {
		if err == nil {
			t.Fatalf("no fallback on this platform, expected error")
		}
		return
	}
	if err != nil {
		t.Fatalf("expected fallback to succeed, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls=%d, want 2", calls)
	}
}

func TestOpenTargetRejectsEmpty(t *testing.T) {
	if err := OpenTarget("  "); err == nil {
		t.Fatalf("expected error for empty target")
	}
}
