package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"weeklydash/internal/model"
)

// CreateImportLog 업로드 시작 시 processing 상태로 기록
func (s *Store) CreateImportLog(batchID string, uploadType model.UploadType, filename string, reportID *int64) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (batch_id, upload_type, filename, report_id, status)
		VALUES (?, ?, ?, ?, 'processing')
	`, batchID, string(uploadType), filename, reportID)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// UpdateImportLog 업로드 완료/실패 기록
func (s *Store) UpdateImportLog(id int64, totalRows, importedRows, skippedRows int, status, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			total_rows = ?,
			imported_rows = ?,
			skipped_rows = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, totalRows, importedRows, skippedRows, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// SetImportMapping 헤더 행 위치와 컬럼 매핑을 추적용으로 남긴다
func (s *Store) SetImportMapping(id int64, headerRow int, mapping any) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET header_row = ?, column_mapping_json = ? WHERE id = ?
	`, headerRow, BuildMappingJSON(mapping), id)
	if err != nil {
		return fmt.Errorf("failed to update import mapping: %w", err)
	}
	return nil
}

// BuildMappingJSON 매핑을 JSON 문자열로. 실패하면 "[]".
func BuildMappingJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// ListImportLogs 최근 업로드 이력 (최신순)
func (s *Store) ListImportLogs(limit int) ([]model.ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, batch_id, upload_type, filename, report_id,
			total_rows, imported_rows, skipped_rows, status, error_message,
			created_at, completed_at
		FROM import_logs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query import logs failed: %w", err)
	}
	defer rows.Close()

	out := []model.ImportLog{}
	for rows.Next() {
		var (
			l         model.ImportLog
			uType     string
			reportID  sql.NullInt64
			completed sql.NullTime
			created   time.Time
		)
		if err := rows.Scan(&l.ID, &l.BatchID, &uType, &l.Filename, &reportID,
			&l.TotalRows, &l.ImportedRows, &l.SkippedRows, &l.Status, &l.ErrorMessage,
			&created, &completed); err != nil {
			return nil, fmt.Errorf("scan import log failed: %w", err)
		}
		l.UploadType = model.UploadType(uType)
		l.CreatedAt = created
		if reportID.Valid {
			v := reportID.Int64
			l.ReportID = &v
		}
		if completed.Valid {
			v := completed.Time
			l.CompletedAt = &v
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
