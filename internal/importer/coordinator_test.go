package importer

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"weeklydash/internal/model"
	"weeklydash/internal/parser"
	"weeklydash/internal/store"
)

var txHeader = []any{"상태", "결제일", "판매자", "구매자", "판매구분", "상품명", "결제금액", "환불금액"}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "weeklydash.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// xlsxBytes 첫 시트에 rows 를 쓴 통합문서
func xlsxBytes(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func importBytes(t *testing.T, c *Coordinator, typ model.UploadType, data []byte, reportID *int64) (*Report, error) {
	t.Helper()
	return c.Import(ImportOptions{
		UploadType: typ,
		Reader:     bytes.NewReader(data),
		Filename:   string(typ) + ".xlsx",
		ReportID:   reportID,
	})
}

func TestImportTransactionsEndToEnd(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	w, err := st.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)

	data := xlsxBytes(t,
		txHeader,
		[]any{"결", 45658, "김판매", "홍길동", "완납", "게임톤 과정", 1000000, ""},
	)

	var events []string
	rep, err := NewCoordinator(st).Import(ImportOptions{
		UploadType: model.UploadTransactions,
		Reader:     bytes.NewReader(data),
		Filename:   "sales.xlsx",
		OnProgress: func(e ProgressEvent) { events = append(events, e.Type) },
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.HeaderRow)
	assert.Equal(t, 1, rep.TotalRows)
	assert.Equal(t, 1, rep.ImportedRows)
	assert.Empty(t, rep.Warnings)
	assert.Equal(t, []int64{w.ID}, rep.AffectedWeeks)
	assert.Equal(t, []string{"start", "parsed", "saved", "done"}, events)

	txs, err := st.ListTransactionsByWeek(w.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	tx := txs[0]
	assert.Equal(t, "2025-01-01", tx.PaymentDate)
	assert.Equal(t, model.StatusPaid, tx.Status)
	assert.Equal(t, model.ProductGameton, tx.ProductType)
	assert.Equal(t, model.SalesKindComplete, tx.SalesKind)
	assert.Equal(t, 1000000.0, tx.PaymentAmount)
	assert.Equal(t, 1, tx.PaymentCountOriginal)
	assert.Equal(t, 1, tx.PaymentCountRefined)
	assert.Equal(t, "25-01", tx.YM)
	assert.Equal(t, 202501, tx.PaymentYearMonth)
	assert.Equal(t, rep.BatchID, tx.BatchID)

	stats, err := st.GetRevenueStats(w.ID)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 1000000.0, stats[0].NetRevenue)

	logs, err := st.ListImportLogs(5)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "completed", logs[0].Status)
}

func TestImportTransactionsIdempotent(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	w, err := st.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)

	data := xlsxBytes(t,
		txHeader,
		[]any{"결", "2025-01-01", "김판매", "홍길동", "분납", "일반 26주", 300000, 0},
		[]any{"결", "2025-01-05", "김판매", "홍길동", "완납", "일반 26주", 700000, 0},
		[]any{"환", "2025-01-06", "이판매", "김철수", "", "포트폴리오", 500000, 500000},
		[]any{"결", "2025-01-06", "이판매", "김철수", "", "포트폴리오", 500000, 0},
	)
	c := NewCoordinator(st)

	_, err = importBytes(t, c, model.UploadTransactions, data, &w.ID)
	require.NoError(t, err)
	firstStats, err := st.GetRevenueStats(w.ID)
	require.NoError(t, err)
	firstSellers, err := st.GetSellerStats(w.ID)
	require.NoError(t, err)

	_, err = importBytes(t, c, model.UploadTransactions, data, &w.ID)
	require.NoError(t, err)
	secondStats, err := st.GetRevenueStats(w.ID)
	require.NoError(t, err)
	secondSellers, err := st.GetSellerStats(w.ID)
	require.NoError(t, err)

	assert.Equal(t, firstStats, secondStats)
	assert.Equal(t, firstSellers, secondSellers)

	txs, err := st.ListTransactionsByWeek(w.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 4)

	var general model.RevenueStat
	for _, s := range secondStats {
		if s.ProductType == model.ProductGeneral {
			general = s
		}
	}
	assert.Equal(t, 2, general.TransactionCount)
	assert.Equal(t, 1, general.PaymentCount)
}

func TestImportCorrectedFileReplacesWeekRows(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	w, err := st.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)
	c := NewCoordinator(st)

	first := xlsxBytes(t,
		txHeader,
		[]any{"결", "2025-01-02", "김판매", "홍길동", "완납", "게임톤 과정", "1,000,000", 0},
		[]any{"결", "2025-01-03", "이판매", "김철수", "", "포트폴리오", 500000, 0},
	)
	_, err = importBytes(t, c, model.UploadTransactions, first, &w.ID)
	require.NoError(t, err)

	corrected := xlsxBytes(t,
		txHeader,
		[]any{"결", "2025-01-02", "김판매", "홍길동", "완납", "게임톤 과정", "900,000", 0},
	)
	rep, err := importBytes(t, c, model.UploadTransactions, corrected, &w.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{w.ID}, rep.AffectedWeeks)

	txs, err := st.ListTransactionsByWeek(w.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, 900000.0, txs[0].PaymentAmount)

	stats, err := st.GetRevenueStats(w.ID)
	require.NoError(t, err)
	var gross float64
	var payments int
	for _, s := range stats {
		gross += s.GrossRevenue
		payments += s.PaymentCount
	}
	assert.Equal(t, 900000.0, gross)
	assert.Equal(t, 1, payments)

	counts, err := st.GetCounts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Transactions)
}

func TestImportWeekUploadLeavesOtherWeeksAlone(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	w1, err := st.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)
	w2, err := st.CreateWeek("1월 2주", "2025-01-08", "2025-01-14", "")
	require.NoError(t, err)
	c := NewCoordinator(st)

	_, err = importBytes(t, c, model.UploadTransactions, xlsxBytes(t,
		txHeader,
		[]any{"결", "2025-01-09", "김판매", "a", "", "일반", 100, 0},
	), &w2.ID)
	require.NoError(t, err)

	_, err = importBytes(t, c, model.UploadTransactions, xlsxBytes(t,
		txHeader,
		[]any{"결", "2025-01-02", "김판매", "b", "", "일반", 200, 0},
	), &w1.ID)
	require.NoError(t, err)

	txs, err := st.ListTransactionsByWeek(w2.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestImportMissingRequiredHeader(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	w, err := st.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)

	data := xlsxBytes(t,
		[]any{"상태", "결제일", "판매자", "판매구분", "상품명", "결제금액"},
		[]any{"결", "2025-01-01", "김판매", "완납", "게임톤", 1000},
	)
	_, err = importBytes(t, NewCoordinator(st), model.UploadTransactions, data, &w.ID)
	require.Error(t, err)

	var missing *parser.MissingRequiredColumnError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, err.Error(), "구매자")

	counts, err := st.GetCounts()
	require.NoError(t, err)
	assert.Zero(t, counts.Transactions)

	logs, err := st.ListImportLogs(5)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "failed", logs[0].Status)
}

func TestImportShuffledHeadersAndTitleRows(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	w, err := st.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)

	data := xlsxBytes(t,
		[]any{"1월 1주 결제 내역"},
		[]any{},
		[]any{"결제금액", "구매자", " 상 품 명 ", "판매구분", "판매자", "날짜", "상태"},
		[]any{"1,000,000", "홍길동", "게임톤", "완납", "김판매", "2025.01.02", "결"},
	)
	rep, err := importBytes(t, NewCoordinator(st), model.UploadTransactions, data, &w.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.HeaderRow)
	assert.Equal(t, 1, rep.ImportedRows)

	txs, err := st.ListTransactionsByWeek(w.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "2025-01-02", txs[0].PaymentDate)
	assert.Equal(t, 1000000.0, txs[0].PaymentAmount)
}

func TestImportRowsOutsideSelectedWeek(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	w, err := st.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)

	data := xlsxBytes(t,
		txHeader,
		[]any{"결", "2025-01-07", "김판매", "a", "", "일반", 100, 0},
		[]any{"결", "2025-01-08", "김판매", "b", "", "일반", 200, 0},
		[]any{"X", "2025-01-03", "김판매", "c", "", "일반", 300, 0},
	)
	rep, err := importBytes(t, NewCoordinator(st), model.UploadTransactions, data, &w.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.TotalRows)
	assert.Equal(t, 1, rep.ImportedRows)
	assert.Equal(t, 2, rep.SkippedRows)
	require.Len(t, rep.Warnings, 2)

	rowNos := []int{rep.Warnings[0].RowNo, rep.Warnings[1].RowNo}
	assert.ElementsMatch(t, []int{3, 4}, rowNos)
}

func TestImportTransactionsWithoutWeek(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	w, err := st.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)

	data := xlsxBytes(t,
		txHeader,
		[]any{"결", "2025-01-07", "김판매", "a", "", "일반", 100, 0},
		[]any{"결", "2025-01-08", "김판매", "b", "", "일반", 200, 0},
	)
	rep, err := importBytes(t, NewCoordinator(st), model.UploadTransactions, data, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.ImportedRows)
	assert.Equal(t, 1, rep.UnlinkedRows)
	assert.Equal(t, []int64{w.ID}, rep.AffectedWeeks)

	counts, err := st.GetCounts()
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Transactions)
	assert.Equal(t, 1, counts.Unlinked)
}

func TestImportAdsAndConsultantsIdempotent(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	w, err := st.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)
	c := NewCoordinator(st)

	ads := xlsxBytes(t,
		[]any{"매체", "광고비", "노출수", "클릭수", "DB수", "결제수"},
		[]any{"meta", "1,000,000", 50000, 1000, 37, 2},
		[]any{"google", 500000, 20000, 400, 20, 1},
	)
	for i := 0; i < 2; i++ {
		_, err := importBytes(t, c, model.UploadAds, ads, &w.ID)
		require.NoError(t, err)
	}
	overview, err := st.GetAdOverview(w.ID)
	require.NoError(t, err)
	require.Len(t, overview, 2)
	assert.Equal(t, 3.7, overview[0].ConversionRate)

	consultants := xlsxBytes(t,
		[]any{"이름", "직무", "컨설턴트 직급", "배정 가능 여부"},
		[]any{"A", "기획", "베테랑", "가능"},
		[]any{"B", "기획", "주니어", "불가"},
		[]any{"C", "개발", "숙련", "가능"},
	)
	for i := 0; i < 2; i++ {
		_, err := importBytes(t, c, model.UploadConsultants, consultants, &w.ID)
		require.NoError(t, err)
	}
	rows, err := st.GetConsultantAvailability(w.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Total)
	assert.Equal(t, 50.0, rows[0].Rate)
}

func TestImportValidation(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	c := NewCoordinator(st)

	_, err := c.Import(ImportOptions{UploadType: model.UploadAds, Reader: bytes.NewReader(nil), Filename: "a.xlsx"})
	assert.ErrorIs(t, err, ErrMissingWeek)

	_, err = c.Import(ImportOptions{UploadType: model.UploadTransactions})
	assert.ErrorIs(t, err, ErrMissingFile)

	_, err = c.Import(ImportOptions{UploadType: "nope", FilePath: "x.xlsx"})
	assert.ErrorIs(t, err, ErrInvalidUploadType)

	missing := int64(42)
	_, err = c.Import(ImportOptions{UploadType: model.UploadAds, Reader: bytes.NewReader(nil), Filename: "a.xlsx", ReportID: &missing})
	assert.ErrorIs(t, err, store.ErrWeekNotFound)

	_, err = c.Import(ImportOptions{UploadType: model.UploadTransactions, Reader: bytes.NewReader([]byte("x")), Filename: "a.pdf"})
	assert.ErrorIs(t, err, parser.ErrUnsupportedFormat)
}

func TestImportRevenueBackfill(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	existing, err := st.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)

	data := xlsxBytes(t,
		[]any{"주차명", "시작일", "종료일", "실매출", "환불액"},
		[]any{"1월 1주", "2025-01-01", "2025-01-07", 10000000, 1000000},
		[]any{"1월 2주", "2025-01-08", "2025-01-14", 12000000, 0},
		[]any{"겹침", "2025-01-06", "2025-01-12", 1, 0},
	)
	rep, err := importBytes(t, NewCoordinator(st), model.UploadRevenue, data, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.ImportedRows)
	require.Len(t, rep.CreatedWeeks, 1)
	assert.Equal(t, "1월 2주", rep.CreatedWeeks[0].Title)
	require.Len(t, rep.Warnings, 1)
	assert.Equal(t, 4, rep.Warnings[0].RowNo)

	wr, err := st.GetWeeklyRevenue(existing.ID)
	require.NoError(t, err)
	require.NotNil(t, wr)
	assert.Equal(t, 9000000.0, wr.NetRevenue)

	weeks, err := st.ListWeeks()
	require.NoError(t, err)
	assert.Len(t, weeks, 2)
}

func TestImportRevenueBackfillTolerance(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	existing, err := st.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)

	data := xlsxBytes(t,
		[]any{"주차명", "시작일", "종료일", "실매출", "환불액"},
		[]any{"1월 1주", "2025-01-02", "2025-01-08", 500, 0},
	)
	rep, err := NewCoordinator(st).Import(ImportOptions{
		UploadType:    model.UploadRevenue,
		Reader:        bytes.NewReader(data),
		Filename:      "revenue.xlsx",
		ToleranceDays: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, rep.CreatedWeeks)
	assert.Equal(t, []int64{existing.ID}, rep.AffectedWeeks)
}
