package store

import (
	"database/sql"
	"errors"
	"fmt"

	"weeklydash/internal/model"
	"weeklydash/internal/week"
)

const weekColumns = `id, title, start_date, end_date, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWeek(sc rowScanner) (model.ReportingWeek, error) {
	var w model.ReportingWeek
	var status string
	if err := sc.Scan(&w.ID, &w.Title, &w.StartDate, &w.EndDate, &status, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return w, err
	}
	w.Status = model.WeekStatus(status)
	return w, nil
}

// ListWeeks 전체 주차 (start_date, id 오름차순)
func (s *Store) ListWeeks() ([]model.ReportingWeek, error) {
	rows, err := s.db.Query(`SELECT ` + weekColumns + ` FROM weeks ORDER BY start_date, id`)
	if err != nil {
		return nil, fmt.Errorf("query weeks failed: %w", err)
	}
	defer rows.Close()

	var out []model.ReportingWeek
	for rows.Next() {
		w, err := scanWeek(rows)
		if err != nil {
			return nil, fmt.Errorf("scan week failed: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weeks failed: %w", err)
	}
	return out, nil
}

// ListWeeksByYear start_date 기준 해당 연도 주차만. year <= 0 이면 전체.
func (s *Store) ListWeeksByYear(year int) ([]model.ReportingWeek, error) {
	if year <= 0 {
		return s.ListWeeks()
	}
	rows, err := s.db.Query(`SELECT `+weekColumns+` FROM weeks
		WHERE substr(start_date, 1, 4) = ?
		ORDER BY start_date, id`, fmt.Sprintf("%04d", year))
	if err != nil {
		return nil, fmt.Errorf("query weeks by year failed: %w", err)
	}
	defer rows.Close()

	var out []model.ReportingWeek
	for rows.Next() {
		w, err := scanWeek(rows)
		if err != nil {
			return nil, fmt.Errorf("scan week failed: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// GetWeek id 로 주차 조회
func (s *Store) GetWeek(id int64) (model.ReportingWeek, error) {
	w, err := scanWeek(s.db.QueryRow(`SELECT `+weekColumns+` FROM weeks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return w, fmt.Errorf("%w: id=%d", ErrWeekNotFound, id)
	}
	if err != nil {
		return w, fmt.Errorf("query week failed: %w", err)
	}
	return w, nil
}

// CreateWeek 주차 생성. 기존 주차와 하루라도 겹치면 ErrWeekOverlap.
func (s *Store) CreateWeek(title, startDate, endDate string, status model.WeekStatus) (model.ReportingWeek, error) {
	if err := week.ValidateInterval(startDate, endDate); err != nil {
		return model.ReportingWeek{}, err
	}
	if status == "" {
		status = model.WeekStatusDraft
	}

	var id int64
	err := s.InTx(func(tx *sql.Tx) error {
		var conflict int64
		err := tx.QueryRow(`
			SELECT id FROM weeks
			WHERE start_date <= ? AND end_date >= ?
			ORDER BY start_date, id LIMIT 1
		`, endDate, startDate).Scan(&conflict)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s~%s conflicts with week %d", ErrWeekOverlap, startDate, endDate, conflict)
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("query overlapping week failed: %w", err)
		}

		res, err := tx.Exec(`
			INSERT INTO weeks (title, start_date, end_date, status) VALUES (?, ?, ?, ?)
		`, title, startDate, endDate, string(status))
		if err != nil {
			return fmt.Errorf("failed to insert week: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return model.ReportingWeek{}, err
	}
	return s.GetWeek(id)
}

// WeekPatch 수정 가능한 필드 (nil 은 유지)
type WeekPatch struct {
	Title  *string
	Status *model.WeekStatus
}

// UpdateWeek 제목/상태만 수정한다. 기간은 바꿀 수 없다.
func (s *Store) UpdateWeek(id int64, patch WeekPatch) (model.ReportingWeek, error) {
	cur, err := s.GetWeek(id)
	if err != nil {
		return cur, err
	}
	if patch.Title != nil {
		cur.Title = *patch.Title
	}
	if patch.Status != nil {
		cur.Status = *patch.Status
	}

	if _, err := s.db.Exec(`
		UPDATE weeks SET title = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, cur.Title, string(cur.Status), id); err != nil {
		return cur, fmt.Errorf("failed to update week: %w", err)
	}
	return s.GetWeek(id)
}
