package util

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// execStart 启动外部命令（测试中替换）
var execStart = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// openCommand 系统默认打开方式
// 支持 Windows 7/10/11, macOS, Linux
func openCommand(target string) (string, []string) {
	switch runtime.GOOS {
	case "windows":
		// rundll32 调用 url.dll 在 Windows 7 上比 cmd /c start 更稳定，网址和文件都能打开
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	case "darwin":
		return "open", []string{target}
	default:
		return "xdg-open", []string{target}
	}
}

// fallbackCommands 默认方式失败时依次尝试
func fallbackCommands(target string) [][]string {
	switch runtime.GOOS {
	case "windows":
		return [][]string{{"explorer", target}}
	case "linux":
		if !isURL(target) {
			return [][]string{{"gio", "open", target}}
		}
		var cmds [][]string
		for _, browser := range []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"} {
			cmds = append(cmds, []string{browser, target})
		}
		return cmds
	}
	return nil
}

func isURL(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// OpenTarget 用系统默认程序打开网址或文件（如处理结果 xlsx）
func OpenTarget(target string) error {
	if strings.TrimSpace(target) == "" {
		return fmt.Errorf("nothing to open")
	}

	name, args := openCommand(target)
	err := execStart(name, args...)
	if err == nil {
		return nil
	}

	for _, cmd := range fallbackCommands(target) {
		if execStart(cmd[0], cmd[1:]...) == nil {
			return nil
		}
	}
	return fmt.Errorf("failed to open %s: %w", target, err)
}
