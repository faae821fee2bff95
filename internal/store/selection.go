package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// GetSelectedWeek 세션이 선택해 둔 주차 id
func (s *Store) GetSelectedWeek(sessionID string) (int64, error) {
	var reportID int64
	err := s.db.QueryRow(`SELECT report_id FROM week_selections WHERE session_id = ?`, sessionID).Scan(&reportID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrSelectionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query week selection failed: %w", err)
	}
	return reportID, nil
}

// SetSelectedWeek 세션의 선택 주차를 저장 (있으면 갱신)
func (s *Store) SetSelectedWeek(sessionID string, reportID int64) error {
	if _, err := s.GetWeek(reportID); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO week_selections (session_id, report_id) VALUES (?, ?)
		ON CONFLICT(session_id) DO UPDATE SET report_id = excluded.report_id, updated_at = CURRENT_TIMESTAMP
	`, sessionID, reportID)
	if err != nil {
		return fmt.Errorf("failed to save week selection: %w", err)
	}
	return nil
}
