package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weeklydash/internal/calculator"
	"weeklydash/internal/model"
	"weeklydash/internal/store"
)

func TestExportWeek(t *testing.T) {
	t.Parallel()

	st, err := store.New(filepath.Join(t.TempDir(), "export.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	w, err := st.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)

	txs := calculator.BuildTransactions([]model.TransactionRow{{
		RowNo: 2, Status: model.StatusPaid, PaymentDate: "2025-01-02", Seller: "김판매", Buyer: "홍길동",
		SalesType: "완납", SalesKind: model.SalesKindComplete, ProductName: "게임톤", PaymentAmount: 1000000,
	}}, calculator.BuildOptions{})
	txs[0].ReportID = &w.ID
	_, err = st.SaveTransactions(txs)
	require.NoError(t, err)
	_, _, err = calculator.NewCalculator(st).RecomputeWeek(w.ID)
	require.NoError(t, err)

	ads, trend := calculator.AggregateAds(w.ID, []model.AdRow{{Channel: "meta", Spend: 1000, Clicks: 1000, DBCount: 37, Payments: 2}})
	require.NoError(t, st.ReplaceAdOverview(w.ID, ads, trend))

	var stages []string
	var last ProgressEvent
	f, err := NewExporter(st).Export(ExportOptions{
		ReportID: w.ID,
		Progress: func(p ProgressEvent) {
			stages = append(stages, p.Stage)
			last = p
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, []string{SheetSummary, SheetRevenue, SheetSellers, SheetAds, SheetConsultants, SheetTransactions}, f.GetSheetList())
	assert.Equal(t, "완료", stages[len(stages)-1])
	assert.Len(t, stages, 7)
	assert.Equal(t, last.Total, last.Step)

	title, err := f.GetCellValue(SheetSummary, "B1")
	require.NoError(t, err)
	assert.Equal(t, "1월 1주", title)

	product, err := f.GetCellValue(SheetRevenue, "A2")
	require.NoError(t, err)
	assert.Equal(t, "gameton", product)

	rate, err := f.GetCellValue(SheetAds, "H2")
	require.NoError(t, err)
	assert.Equal(t, "3.7", rate)

	buyer, err := f.GetCellValue(SheetTransactions, "D2")
	require.NoError(t, err)
	assert.Equal(t, "홍길동", buyer)
}

func TestExportUnknownWeek(t *testing.T) {
	t.Parallel()

	st, err := store.New(filepath.Join(t.TempDir(), "export.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	_, err = NewExporter(st).Export(ExportOptions{ReportID: 99})
	assert.ErrorIs(t, err, store.ErrWeekNotFound)
}
