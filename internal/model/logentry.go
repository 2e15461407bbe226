package model

import (
	"fmt"
	"time"
)

// LogTimeLayout 日志行时间格式（本地时间，精确到秒）
const LogTimeLayout = "2006-01-02 15:04:05"

// LogEntry 一条操作日志
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// Line 格式化为 "[时间] 消息"
func (e LogEntry) Line() string {
	return fmt.Sprintf("[%s] %s", e.Time.Format(LogTimeLayout), e.Message)
}
