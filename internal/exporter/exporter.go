package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"weeklydash/internal/calculator"
	"weeklydash/internal/model"
	"weeklydash/internal/store"
)

// 시트 이름
const (
	SheetSummary      = "요약"
	SheetRevenue      = "상품별 매출"
	SheetSellers      = "판매자별 실적"
	SheetAds          = "광고 매체"
	SheetConsultants  = "컨설턴트"
	SheetTransactions = "거래 내역"

	sheetCount = 6
)

// Exporter 주차 집계를 xlsx 통합문서로 내보낸다
type Exporter struct {
	store *store.Store
	calc  *calculator.Calculator
}

// NewExporter 내보내기 생성
func NewExporter(store *store.Store) *Exporter {
	return &Exporter{
		store: store,
		calc:  calculator.NewCalculator(store),
	}
}

// ProgressEvent 시트 단위 진행 상황. 마지막 이벤트는 Step == Total, Stage "완료".
type ProgressEvent struct {
	Step  int
	Total int
	Stage string
}

func notify(progress func(ProgressEvent), step, total int, stage string) {
	if progress != nil {
		progress(ProgressEvent{Step: step, Total: total, Stage: stage})
	}
}

// ExportOptions 내보내기 옵션
type ExportOptions struct {
	ReportID int64
	Progress func(ProgressEvent)
}

// Export 주차 하나의 통합문서. 호출자가 Close 해야 한다.
func (e *Exporter) Export(opts ExportOptions) (*excelize.File, error) {
	w, err := e.store.GetWeek(opts.ReportID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := e.fillWorkbook(f, w, opts.Progress); err != nil {
		_ = f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	notify(opts.Progress, sheetCount, sheetCount, "완료")
	return f, nil
}

func (e *Exporter) fillWorkbook(f *excelize.File, w model.ReportingWeek, progress func(ProgressEvent)) error {
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	for _, name := range []string{SheetRevenue, SheetSellers, SheetAds, SheetConsultants, SheetTransactions} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return err
	}

	steps := []struct {
		stage string
		fill  func() error
	}{
		{"요약", func() error { return e.fillSummary(f, w, header) }},
		{"상품별 매출", func() error { return e.fillRevenue(f, w.ID, header) }},
		{"판매자별 실적", func() error { return e.fillSellers(f, w.ID, header) }},
		{"광고 매체", func() error { return e.fillAds(f, w.ID, header) }},
		{"컨설턴트", func() error { return e.fillConsultants(f, w.ID, header) }},
		{"거래 내역", func() error { return e.fillTransactions(f, w.ID, header) }},
	}
	for i, step := range steps {
		notify(progress, i, len(steps), step.stage)
		if err := step.fill(); err != nil {
			return fmt.Errorf("failed to fill %s: %w", step.stage, err)
		}
	}
	return nil
}

func (e *Exporter) fillSummary(f *excelize.File, w model.ReportingWeek, header int) error {
	groups, err := e.calc.CalculateAll(w.ID)
	if err != nil {
		return err
	}

	rows := [][]any{
		{"주차", w.Title},
		{"기간", w.StartDate + " ~ " + w.EndDate},
		{"상태", string(w.Status)},
		{},
		{"구분", "지표", "값", "단위"},
	}
	for _, g := range groups {
		for _, ind := range g.Indicators {
			rows = append(rows, []any{g.Name, ind.Name, ind.Value, ind.Unit})
		}
	}
	if err := writeRows(f, SheetSummary, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "A5", "D5", header); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "B", 18)
}

func (e *Exporter) fillRevenue(f *excelize.File, reportID int64, header int) error {
	stats, err := e.store.GetRevenueStats(reportID)
	if err != nil {
		return err
	}
	rows := [][]any{{"상품 분류", "거래 건수", "결제 건수", "총매출", "환불액", "순매출"}}
	for _, s := range stats {
		rows = append(rows, []any{string(s.ProductType), s.TransactionCount, s.PaymentCount, s.GrossRevenue, s.RefundAmount, s.NetRevenue})
	}
	return writeTable(f, SheetRevenue, rows, header)
}

func (e *Exporter) fillSellers(f *excelize.File, reportID int64, header int) error {
	stats, err := e.store.GetSellerStats(reportID)
	if err != nil {
		return err
	}
	rows := [][]any{{"판매자", "소속", "결제 건수", "총매출", "환불액", "순매출"}}
	for _, s := range stats {
		rows = append(rows, []any{s.Seller, string(s.SellerType), s.PaymentCount, s.GrossRevenue, s.RefundAmount, s.NetRevenue})
	}
	return writeTable(f, SheetSellers, rows, header)
}

func (e *Exporter) fillAds(f *excelize.File, reportID int64, header int) error {
	ads, err := e.store.GetAdOverview(reportID)
	if err != nil {
		return err
	}
	rows := [][]any{{"매체", "광고비", "노출", "클릭", "DB", "결제", "매출", "DB 전환율(%)", "결제 전환율(%)", "DB 단가"}}
	for _, a := range ads {
		rows = append(rows, []any{a.Channel, a.Spend, a.Impressions, a.Clicks, a.DBCount, a.Payments, a.Revenue,
			a.ConversionRate, a.RevenueConversionRate, a.CostPerDB})
	}
	return writeTable(f, SheetAds, rows, header)
}

func (e *Exporter) fillConsultants(f *excelize.File, reportID int64, header int) error {
	list, err := e.store.GetConsultantAvailability(reportID)
	if err != nil {
		return err
	}
	rows := [][]any{{"직무", "전체", "배정 가능", "A", "B", "C", "배정 가능률(%)"}}
	for _, c := range list {
		rows = append(rows, []any{c.JobGroup, c.Total, c.Available, c.TierA, c.TierB, c.TierC, c.Rate})
	}
	return writeTable(f, SheetConsultants, rows, header)
}

func (e *Exporter) fillTransactions(f *excelize.File, reportID int64, header int) error {
	txs, err := e.store.ListTransactionsByWeek(reportID)
	if err != nil {
		return err
	}
	rows := [][]any{{"상태", "결제일", "판매자", "구매자", "판매구분", "상품명", "상품 분류", "결제금액", "환불금액", "결제 건수", "정제 건수"}}
	for _, t := range txs {
		rows = append(rows, []any{string(t.Status), t.PaymentDate, t.Seller, t.Buyer, t.SalesType, t.ProductName,
			t.ProductLabel(), t.PaymentAmount, t.RefundAmount, t.PaymentCountOriginal, t.PaymentCountRefined})
	}
	return writeTable(f, SheetTransactions, rows, header)
}

// writeTable 1행 헤더 + 데이터
func writeTable(f *excelize.File, sheet string, rows [][]any, header int) error {
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, header)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
