package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dengyintao/ProcessExcelData/internal/model"
)

// DefaultListLimit ListRuns 未指定数量时的默认条数
const DefaultListLimit = 20

// CreateRun 写入一条状态为 running 的处理记录
func (s *Store) CreateRun(run model.ProcessRun) error {
	if run.Status == "" {
		run.Status = model.RunStatusRunning
	}
	_, err := s.db.Exec(`
		INSERT INTO process_runs (
			id, started_at,
			source1, source2, output,
			field1, field2, match_type,
			status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.StartedAt.UTC(),
		run.SourceFile1, run.SourceFile2, run.OutputFile,
		run.MatchField1, run.MatchField2, string(run.MatchType),
		string(run.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to create process run: %w", err)
	}
	return nil
}

// FinishRun 回填处理结果
func (s *Store) FinishRun(id string, out model.RunOutcome) error {
	var original, matched, filtered int
	if out.Result != nil {
		original = out.Result.OriginalCount
		matched = out.Result.MatchedCount
		filtered = out.Result.FilteredOutCount
	}
	res, err := s.db.Exec(`
		UPDATE process_runs SET
			finished_at = ?,
			backup1 = ?,
			backup2 = ?,
			original_count = ?,
			matched_count = ?,
			filtered_out_count = ?,
			status = ?,
			error_kind = ?,
			error_message = ?
		WHERE id = ?
	`, out.FinishedAt.UTC(), out.Backup1, out.Backup2,
		original, matched, filtered,
		string(out.Status), out.ErrorKind, out.ErrorMsg, id)
	if err != nil {
		return fmt.Errorf("failed to finish process run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("process run not found: %s", id)
	}
	return nil
}

// ListRuns 按开始时间倒序列出最近的处理记录
func (s *Store) ListRuns(limit int) ([]model.ProcessRun, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.Query(`
		SELECT
			id, started_at, finished_at,
			source1, source2, output,
			field1, field2, match_type,
			backup1, backup2,
			original_count, matched_count, filtered_out_count,
			status, error_kind, error_message
		FROM process_runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query process runs failed: %w", err)
	}
	defer rows.Close()

	out := []model.ProcessRun{}
	for rows.Next() {
		var (
			run       model.ProcessRun
			finished  sql.NullTime
			matchType string
			status    string
		)
		if err := rows.Scan(
			&run.ID, &run.StartedAt, &finished,
			&run.SourceFile1, &run.SourceFile2, &run.OutputFile,
			&run.MatchField1, &run.MatchField2, &matchType,
			&run.Backup1, &run.Backup2,
			&run.OriginalCount, &run.MatchedCount, &run.FilteredOutCount,
			&status, &run.ErrorKind, &run.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("scan process run failed: %w", err)
		}
		run.StartedAt = run.StartedAt.In(time.Local)
		if finished.Valid {
			t := finished.Time.In(time.Local)
			run.FinishedAt = &t
		}
		run.MatchType = model.MatchType(matchType)
		run.Status = model.RunStatus(status)
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate process runs failed: %w", err)
	}
	return out, nil
}
