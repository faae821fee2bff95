package store

import (
	"database/sql"
	"fmt"
	"sort"

	"weeklydash/internal/model"
)

// SaveTransactions 거래를 row_fingerprint 기준으로 upsert 한다 (단일 트랜잭션).
// 주차 지정 없이 올린 거래용이다. 같은 파일을 다시 올려도 행이 늘지 않는다.
// 영향받은 report_id 목록(이전 연결 포함)을 돌려준다.
func (s *Store) SaveTransactions(txs []*model.SalesTransaction) ([]int64, error) {
	if len(txs) == 0 {
		return nil, nil
	}

	affected := make(map[int64]struct{})
	err := s.InTx(func(tx *sql.Tx) error {
		return upsertTransactions(tx, txs, affected)
	})
	if err != nil {
		return nil, err
	}
	return sortedIDs(affected), nil
}

// ReplaceWeekTransactions 주차의 기존 거래를 모두 지우고 txs 로 바꾼다 (단일 트랜잭션).
// 수정된 파일을 다시 올리면 이전 행은 남지 않는다.
// 다른 주차에 연결돼 있던 같은 지문의 행은 이 주차로 옮겨지고, 그 주차도 영향 목록에 들어간다.
func (s *Store) ReplaceWeekTransactions(reportID int64, txs []*model.SalesTransaction) ([]int64, error) {
	affected := map[int64]struct{}{reportID: {}}
	err := s.InTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM sales_transactions WHERE report_id = ?`, reportID); err != nil {
			return fmt.Errorf("failed to delete week %d transactions: %w", reportID, err)
		}
		return upsertTransactions(tx, txs, affected)
	})
	if err != nil {
		return nil, err
	}
	return sortedIDs(affected), nil
}

func upsertTransactions(tx *sql.Tx, txs []*model.SalesTransaction, affected map[int64]struct{}) error {
	if len(txs) == 0 {
		return nil
	}
	prev, err := tx.Prepare(`SELECT report_id FROM sales_transactions WHERE row_fingerprint = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer prev.Close()

	stmt, err := tx.Prepare(`
		INSERT INTO sales_transactions (
			report_id, row_no, status, payment_date, refund_date,
			seller, seller_type, buyer, sales_type, sales_kind,
			product_name, product_type, weeks,
			list_price, order_amount, points, coupon, payment_amount, refund_amount, refund_reason,
			payment_count_original, payment_count_refined,
			ym, payment_year, payment_month, payment_yearmonth,
			row_fingerprint, batch_id, source_file
		) VALUES (
			?, ?, ?, ?, ?,
			?, ?, ?, ?, ?,
			?, ?, ?,
			?, ?, ?, ?, ?, ?, ?,
			?, ?,
			?, ?, ?, ?,
			?, ?, ?
		)
		ON CONFLICT(row_fingerprint) DO UPDATE SET
			report_id = excluded.report_id,
			row_no = excluded.row_no,
			refund_date = excluded.refund_date,
			seller_type = excluded.seller_type,
			sales_kind = excluded.sales_kind,
			product_type = excluded.product_type,
			weeks = excluded.weeks,
			list_price = excluded.list_price,
			order_amount = excluded.order_amount,
			points = excluded.points,
			coupon = excluded.coupon,
			refund_reason = excluded.refund_reason,
			payment_count_original = excluded.payment_count_original,
			payment_count_refined = excluded.payment_count_refined,
			batch_id = excluded.batch_id,
			source_file = excluded.source_file
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		var old sql.NullInt64
		if err := prev.QueryRow(t.Fingerprint).Scan(&old); err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("failed to look up row %d: %w", t.RowNo, err)
		}
		if old.Valid {
			affected[old.Int64] = struct{}{}
		}
		if t.ReportID != nil {
			affected[*t.ReportID] = struct{}{}
		}

		if _, err := stmt.Exec(
			t.ReportID, t.RowNo, string(t.Status), t.PaymentDate, t.RefundDate,
			t.Seller, string(t.SellerType), t.Buyer, t.SalesType, string(t.SalesKind),
			t.ProductName, string(t.ProductType), t.Weeks,
			t.ListPrice, t.OrderAmount, t.Points, t.Coupon, t.PaymentAmount, t.RefundAmount, t.RefundReason,
			t.PaymentCountOriginal, t.PaymentCountRefined,
			t.YM, t.PaymentYear, t.PaymentMonth, t.PaymentYearMonth,
			t.Fingerprint, t.BatchID, t.SourceFile,
		); err != nil {
			return fmt.Errorf("failed to upsert row %d: %w", t.RowNo, err)
		}
	}
	return nil
}

func sortedIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ListTransactionsByWeek 주차에 연결된 거래 (결제일, 행 번호 순)
func (s *Store) ListTransactionsByWeek(reportID int64) ([]*model.SalesTransaction, error) {
	rows, err := s.db.Query(`
		SELECT
			id, report_id, row_no, status, payment_date, refund_date,
			seller, seller_type, buyer, sales_type, sales_kind,
			product_name, product_type, weeks,
			list_price, order_amount, points, coupon, payment_amount, refund_amount, refund_reason,
			payment_count_original, payment_count_refined,
			ym, payment_year, payment_month, payment_yearmonth,
			row_fingerprint, batch_id, source_file
		FROM sales_transactions
		WHERE report_id = ?
		ORDER BY payment_date, row_no, id
	`, reportID)
	if err != nil {
		return nil, fmt.Errorf("query transactions failed: %w", err)
	}
	defer rows.Close()

	var out []*model.SalesTransaction
	for rows.Next() {
		var (
			t                                    model.SalesTransaction
			reportIDVal                          sql.NullInt64
			refundDate, refundReason             sql.NullString
			weeks                                sql.NullInt64
			status, sellerType, salesKind, pType string
		)
		if err := rows.Scan(
			&t.ID, &reportIDVal, &t.RowNo, &status, &t.PaymentDate, &refundDate,
			&t.Seller, &sellerType, &t.Buyer, &t.SalesType, &salesKind,
			&t.ProductName, &pType, &weeks,
			&t.ListPrice, &t.OrderAmount, &t.Points, &t.Coupon, &t.PaymentAmount, &t.RefundAmount, &refundReason,
			&t.PaymentCountOriginal, &t.PaymentCountRefined,
			&t.YM, &t.PaymentYear, &t.PaymentMonth, &t.PaymentYearMonth,
			&t.Fingerprint, &t.BatchID, &t.SourceFile,
		); err != nil {
			return nil, fmt.Errorf("scan transaction failed: %w", err)
		}
		t.Status = model.PaymentStatus(status)
		t.SellerType = model.SellerType(sellerType)
		t.SalesKind = model.SalesKind(salesKind)
		t.ProductType = model.ProductType(pType)
		if reportIDVal.Valid {
			v := reportIDVal.Int64
			t.ReportID = &v
		}
		if refundDate.Valid {
			v := refundDate.String
			t.RefundDate = &v
		}
		if refundReason.Valid {
			v := refundReason.String
			t.RefundReason = &v
		}
		if weeks.Valid {
			v := int(weeks.Int64)
			t.Weeks = &v
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions failed: %w", err)
	}
	return out, nil
}
