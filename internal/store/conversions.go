package store

import (
	"fmt"

	"weeklydash/internal/model"
)

// WeekFunnel 주차별 퍼널 합계.
// 클릭/DB 는 광고 집계(cost_trend), Payments 는 주차 거래의 정제 결제 건수 합이다.
// AdPayments 는 광고 시트의 결제수 그대로.
type WeekFunnel struct {
	Week       model.ReportingWeek
	Clicks     int64
	DBCount    int64
	Payments   int64
	AdPayments int64
}

// ListWeekFunnels 광고 업로드가 있는 주차의 퍼널 합계를 start_date 오름차순으로 돌려준다.
// year > 0 이면 해당 연도만, limit > 0 이면 가장 최근 limit 개 주차만.
func (s *Store) ListWeekFunnels(year, limit int) ([]WeekFunnel, error) {
	query := `
		SELECT w.id, w.title, w.start_date, w.end_date, w.status, w.created_at, w.updated_at,
			c.total_clicks, c.total_db_count, c.total_payments,
			COALESCE((SELECT SUM(t.payment_count_refined) FROM sales_transactions t WHERE t.report_id = w.id), 0)
		FROM weeks w
		JOIN cost_trend c ON c.report_id = w.id
		WHERE (? = '' OR substr(w.start_date, 1, 4) = ?)
		ORDER BY w.start_date DESC, w.id DESC
	`
	yearKey := ""
	if year > 0 {
		yearKey = fmt.Sprintf("%04d", year)
	}
	args := []any{yearKey, yearKey}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query week funnels failed: %w", err)
	}
	defer rows.Close()

	var out []WeekFunnel
	for rows.Next() {
		var f WeekFunnel
		var status string
		if err := rows.Scan(&f.Week.ID, &f.Week.Title, &f.Week.StartDate, &f.Week.EndDate, &status,
			&f.Week.CreatedAt, &f.Week.UpdatedAt, &f.Clicks, &f.DBCount, &f.AdPayments, &f.Payments); err != nil {
			return nil, fmt.Errorf("scan week funnel failed: %w", err)
		}
		f.Week.Status = model.WeekStatus(status)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate week funnels failed: %w", err)
	}

	// 최근 N 개를 잘랐으니 다시 시간순으로
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// GetRefinedPaymentCount 주차 거래의 정제 결제 건수 합
func (s *Store) GetRefinedPaymentCount(reportID int64) (int64, error) {
	var n int64
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(payment_count_refined), 0) FROM sales_transactions WHERE report_id = ?
	`, reportID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("query refined payment count failed: %w", err)
	}
	return n, nil
}
