package model

import "time"

// RunStatus 处理记录状态
type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// ProcessRun 一次"开始处理"的记录
type ProcessRun struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`

	SourceFile1 string    `json:"sourceFile1"`
	SourceFile2 string    `json:"sourceFile2"`
	OutputFile  string    `json:"outputFile"`
	MatchField1 string    `json:"matchField1"`
	MatchField2 string    `json:"matchField2"`
	MatchType   MatchType `json:"matchType"`

	Backup1 string `json:"backup1,omitempty"`
	Backup2 string `json:"backup2,omitempty"`

	OriginalCount    int `json:"originalCount"`
	MatchedCount     int `json:"matchedCount"`
	FilteredOutCount int `json:"filteredOutCount"`

	Status       RunStatus `json:"status"`
	ErrorKind    string    `json:"errorKind,omitempty"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
}

// RunOutcome 处理结束时回填的字段
type RunOutcome struct {
	FinishedAt time.Time
	Backup1    string
	Backup2    string
	Result     *MergeResult
	Status     RunStatus
	ErrorKind  string
	ErrorMsg   string
}
