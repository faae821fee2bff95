package store

import (
	"database/sql"
	"fmt"

	"weeklydash/internal/model"
)

// ReplaceWeekStats 주차의 상품분류/판매자 통계를 지우고 다시 넣는다.
// 삭제와 삽입은 한 트랜잭션이라 삽입이 실패하면 기존 행이 그대로 남는다.
func (s *Store) ReplaceWeekStats(reportID int64, revenue []model.RevenueStat, sellers []model.SellerStat) error {
	return s.InTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM revenue_stats WHERE report_id = ?`, reportID); err != nil {
			return fmt.Errorf("failed to clear revenue_stats: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM seller_stats WHERE report_id = ?`, reportID); err != nil {
			return fmt.Errorf("failed to clear seller_stats: %w", err)
		}

		revStmt, err := tx.Prepare(`
			INSERT INTO revenue_stats (
				report_id, product_type, transaction_count, payment_count,
				gross_revenue, refund_amount, net_revenue
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer revStmt.Close()
		for _, r := range revenue {
			if _, err := revStmt.Exec(reportID, string(r.ProductType), r.TransactionCount, r.PaymentCount,
				r.GrossRevenue, r.RefundAmount, r.NetRevenue); err != nil {
				return fmt.Errorf("failed to insert revenue_stats %s: %w", r.ProductType, err)
			}
		}

		sellerStmt, err := tx.Prepare(`
			INSERT INTO seller_stats (
				report_id, seller, seller_type, payment_count,
				gross_revenue, refund_amount, net_revenue
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer sellerStmt.Close()
		for _, r := range sellers {
			if _, err := sellerStmt.Exec(reportID, r.Seller, string(r.SellerType), r.PaymentCount,
				r.GrossRevenue, r.RefundAmount, r.NetRevenue); err != nil {
				return fmt.Errorf("failed to insert seller_stats %s: %w", r.Seller, err)
			}
		}
		return nil
	})
}

// ReplaceAdOverview 매체별 광고 성과를 교체하고 주차 합계(cost_trend)를 upsert 한다
func (s *Store) ReplaceAdOverview(reportID int64, rows []model.AdOverview, trend model.CostTrend) error {
	return s.InTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM ad_overview WHERE report_id = ?`, reportID); err != nil {
			return fmt.Errorf("failed to clear ad_overview: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO ad_overview (
				report_id, channel, spend, impressions, clicks, db_count, payments, revenue,
				conversion_rate, revenue_conversion_rate, cost_per_db
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()
		for _, r := range rows {
			if _, err := stmt.Exec(reportID, r.Channel, r.Spend, r.Impressions, r.Clicks, r.DBCount, r.Payments, r.Revenue,
				r.ConversionRate, r.RevenueConversionRate, r.CostPerDB); err != nil {
				return fmt.Errorf("failed to insert ad_overview %s: %w", r.Channel, err)
			}
		}

		if _, err := tx.Exec(`
			INSERT INTO cost_trend (
				report_id, total_spend, total_clicks, total_db_count, total_payments, cost_per_db, conversion_rate
			) VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(report_id) DO UPDATE SET
				total_spend = excluded.total_spend,
				total_clicks = excluded.total_clicks,
				total_db_count = excluded.total_db_count,
				total_payments = excluded.total_payments,
				cost_per_db = excluded.cost_per_db,
				conversion_rate = excluded.conversion_rate,
				updated_at = CURRENT_TIMESTAMP
		`, reportID, trend.TotalSpend, trend.TotalClicks, trend.TotalDBCount, trend.TotalPayments,
			trend.CostPerDB, trend.ConversionRate); err != nil {
			return fmt.Errorf("failed to upsert cost_trend: %w", err)
		}
		return nil
	})
}

// ReplaceConsultantAvailability 직무별 컨설턴트 현황 교체
func (s *Store) ReplaceConsultantAvailability(reportID int64, rows []model.ConsultantAvailability) error {
	return s.InTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM consultant_availability WHERE report_id = ?`, reportID); err != nil {
			return fmt.Errorf("failed to clear consultant_availability: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO consultant_availability (
				report_id, job_group, total, available, tier_a, tier_b, tier_c, rate
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()
		for _, r := range rows {
			if _, err := stmt.Exec(reportID, r.JobGroup, r.Total, r.Available, r.TierA, r.TierB, r.TierC, r.Rate); err != nil {
				return fmt.Errorf("failed to insert consultant_availability %s: %w", r.JobGroup, err)
			}
		}
		return nil
	})
}

// UpsertWeeklyRevenue 주차별 실매출 upsert (report_id 당 1행)
func (s *Store) UpsertWeeklyRevenue(rows []model.WeeklyRevenue) error {
	if len(rows) == 0 {
		return nil
	}
	return s.InTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO weekly_revenue (report_id, real_revenue, refund_amount, net_revenue)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(report_id) DO UPDATE SET
				real_revenue = excluded.real_revenue,
				refund_amount = excluded.refund_amount,
				net_revenue = excluded.net_revenue,
				updated_at = CURRENT_TIMESTAMP
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()
		for _, r := range rows {
			if _, err := stmt.Exec(r.ReportID, r.RealRevenue, r.RefundAmount, r.NetRevenue); err != nil {
				return fmt.Errorf("failed to upsert weekly_revenue %d: %w", r.ReportID, err)
			}
		}
		return nil
	})
}

// GetRevenueStats 주차의 상품분류별 매출
func (s *Store) GetRevenueStats(reportID int64) ([]model.RevenueStat, error) {
	rows, err := s.db.Query(`
		SELECT product_type, transaction_count, payment_count, gross_revenue, refund_amount, net_revenue
		FROM revenue_stats WHERE report_id = ?
		ORDER BY CASE product_type
			WHEN 'gameton' THEN 0 WHEN 'guarantee' THEN 1 WHEN 'portfolio' THEN 2
			WHEN 'general' THEN 3 ELSE 4 END
	`, reportID)
	if err != nil {
		return nil, fmt.Errorf("query revenue_stats failed: %w", err)
	}
	defer rows.Close()

	out := []model.RevenueStat{}
	for rows.Next() {
		r := model.RevenueStat{ReportID: reportID}
		var pType string
		if err := rows.Scan(&pType, &r.TransactionCount, &r.PaymentCount, &r.GrossRevenue, &r.RefundAmount, &r.NetRevenue); err != nil {
			return nil, fmt.Errorf("scan revenue_stats failed: %w", err)
		}
		r.ProductType = model.ProductType(pType)
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetSellerStats 주차의 판매자별 실적
func (s *Store) GetSellerStats(reportID int64) ([]model.SellerStat, error) {
	rows, err := s.db.Query(`
		SELECT seller, seller_type, payment_count, gross_revenue, refund_amount, net_revenue
		FROM seller_stats WHERE report_id = ?
		ORDER BY seller
	`, reportID)
	if err != nil {
		return nil, fmt.Errorf("query seller_stats failed: %w", err)
	}
	defer rows.Close()

	out := []model.SellerStat{}
	for rows.Next() {
		r := model.SellerStat{ReportID: reportID}
		var sType string
		if err := rows.Scan(&r.Seller, &sType, &r.PaymentCount, &r.GrossRevenue, &r.RefundAmount, &r.NetRevenue); err != nil {
			return nil, fmt.Errorf("scan seller_stats failed: %w", err)
		}
		r.SellerType = model.SellerType(sType)
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetAdOverview 주차의 매체별 광고 성과 (입력 순서)
func (s *Store) GetAdOverview(reportID int64) ([]model.AdOverview, error) {
	rows, err := s.db.Query(`
		SELECT channel, spend, impressions, clicks, db_count, payments, revenue,
			conversion_rate, revenue_conversion_rate, cost_per_db
		FROM ad_overview WHERE report_id = ?
		ORDER BY id
	`, reportID)
	if err != nil {
		return nil, fmt.Errorf("query ad_overview failed: %w", err)
	}
	defer rows.Close()

	out := []model.AdOverview{}
	for rows.Next() {
		r := model.AdOverview{ReportID: reportID}
		if err := rows.Scan(&r.Channel, &r.Spend, &r.Impressions, &r.Clicks, &r.DBCount, &r.Payments, &r.Revenue,
			&r.ConversionRate, &r.RevenueConversionRate, &r.CostPerDB); err != nil {
			return nil, fmt.Errorf("scan ad_overview failed: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetCostTrend 주차 광고비 합계. 없으면 (nil, nil).
func (s *Store) GetCostTrend(reportID int64) (*model.CostTrend, error) {
	r := model.CostTrend{ReportID: reportID}
	err := s.db.QueryRow(`
		SELECT total_spend, total_clicks, total_db_count, total_payments, cost_per_db, conversion_rate
		FROM cost_trend WHERE report_id = ?
	`, reportID).Scan(&r.TotalSpend, &r.TotalClicks, &r.TotalDBCount, &r.TotalPayments, &r.CostPerDB, &r.ConversionRate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query cost_trend failed: %w", err)
	}
	return &r, nil
}

// GetWeeklyRevenue 주차 실매출. 없으면 (nil, nil).
func (s *Store) GetWeeklyRevenue(reportID int64) (*model.WeeklyRevenue, error) {
	r := model.WeeklyRevenue{ReportID: reportID}
	err := s.db.QueryRow(`
		SELECT real_revenue, refund_amount, net_revenue FROM weekly_revenue WHERE report_id = ?
	`, reportID).Scan(&r.RealRevenue, &r.RefundAmount, &r.NetRevenue)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query weekly_revenue failed: %w", err)
	}
	return &r, nil
}

// GetConsultantAvailability 주차의 직무별 컨설턴트 현황 (입력 순서)
func (s *Store) GetConsultantAvailability(reportID int64) ([]model.ConsultantAvailability, error) {
	rows, err := s.db.Query(`
		SELECT job_group, total, available, tier_a, tier_b, tier_c, rate
		FROM consultant_availability WHERE report_id = ?
		ORDER BY id
	`, reportID)
	if err != nil {
		return nil, fmt.Errorf("query consultant_availability failed: %w", err)
	}
	defer rows.Close()

	out := []model.ConsultantAvailability{}
	for rows.Next() {
		r := model.ConsultantAvailability{ReportID: reportID}
		if err := rows.Scan(&r.JobGroup, &r.Total, &r.Available, &r.TierA, &r.TierB, &r.TierC, &r.Rate); err != nil {
			return nil, fmt.Errorf("scan consultant_availability failed: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
