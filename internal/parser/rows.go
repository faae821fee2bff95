package parser

import (
	"errors"
	"fmt"
	"strings"

	"weeklydash/internal/model"
)

// ParseOptions 시트 해석 옵션
type ParseOptions struct {
	UploadType     model.UploadType
	HeaderScanRows int
}

// rowView 헤더 매핑을 통해 셀에 접근
type rowView struct {
	cells   []string
	mapping HeaderMapping
	rowNo   int
}

func (v rowView) get(field string) string {
	idx, ok := v.mapping.Index(field)
	if !ok || idx >= len(v.cells) {
		return ""
	}
	return strings.TrimSpace(v.cells[idx])
}

func (v rowView) fail(field string, err error) *RowError {
	return &RowError{RowNo: v.rowNo, Field: field, Err: err}
}

// Parse 시트 하나를 업로드 종류에 맞게 정규화한다.
//
// 헤더 탐지/필수 컬럼 누락은 오류로 반환하고(파일 전체 거부), 행 단위 오류는
// 해당 행만 건너뛴 뒤 Warnings 에 남긴다.
func Parse(sheet *Sheet, opts ParseOptions) (*ParseResult, error) {
	if sheet == nil || len(sheet.Rows) == 0 {
		return nil, ErrEmptySheet
	}
	resolver, err := NewHeaderResolver(opts.UploadType)
	if err != nil {
		return nil, err
	}
	headerIdx, err := DetectHeaderRow(sheet.Rows, resolver, opts.HeaderScanRows)
	if err != nil {
		return nil, err
	}
	mapping, err := resolver.Resolve(sheet.Rows[headerIdx])
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		UploadType: opts.UploadType,
		HeaderRow:  headerIdx + 1,
		Mapping:    mapping.Mappings(),
	}

	for i := headerIdx + 1; i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if IsBlankRow(row) {
			continue
		}
		result.TotalRows++
		view := rowView{cells: row, mapping: mapping, rowNo: i + 1}

		var rowErr *RowError
		switch opts.UploadType {
		case model.UploadTransactions:
			var rec model.TransactionRow
			if rec, rowErr = normalizeTransaction(view); rowErr == nil {
				result.Transactions = append(result.Transactions, rec)
			}
		case model.UploadRevenue:
			var rec model.RevenueRow
			if rec, rowErr = normalizeRevenue(view); rowErr == nil {
				result.Revenue = append(result.Revenue, rec)
			}
		case model.UploadConsultants:
			var rec model.ConsultantRow
			if rec, rowErr = normalizeConsultant(view); rowErr == nil {
				result.Consultants = append(result.Consultants, rec)
			}
		case model.UploadAds:
			var rec model.AdRow
			if rec, rowErr = normalizeAd(view); rowErr == nil {
				result.Ads = append(result.Ads, rec)
			}
		}
		if rowErr != nil {
			result.Warnings = append(result.Warnings, model.RowWarning{
				RowNo:   rowErr.RowNo,
				Message: rowErr.Error(),
			})
		}
	}

	return result, nil
}

var errEmptyValue = errors.New("값이 비어 있음")

func normalizeTransaction(v rowView) (model.TransactionRow, *RowError) {
	rec := model.TransactionRow{RowNo: v.rowNo}

	status, err := ParseStatus(v.get(FieldStatus))
	if err != nil {
		return rec, v.fail(FieldStatus, err)
	}
	rec.Status = status

	paymentDate, err := ParseDate(v.get(FieldPaymentDate))
	if err != nil {
		return rec, v.fail(FieldPaymentDate, err)
	}
	rec.PaymentDate = paymentDate

	rec.Buyer = v.get(FieldBuyer)
	if rec.Buyer == "" {
		return rec, v.fail(FieldBuyer, errEmptyValue)
	}

	if rec.PaymentAmount, err = ParseNumberStrict(v.get(FieldPaymentAmount)); err != nil {
		return rec, v.fail(FieldPaymentAmount, err)
	}
	if rec.RefundAmount, err = ParseNumberStrict(v.get(FieldRefundAmount)); err != nil {
		return rec, v.fail(FieldRefundAmount, err)
	}

	rec.Seller = v.get(FieldSeller)
	rec.SalesType = v.get(FieldSalesType)
	rec.SalesKind = ClassifySalesKind(rec.SalesType)
	rec.ProductName = v.get(FieldProductName)
	rec.RefundDate = ParseDateOptional(v.get(FieldRefundDate))
	rec.RefundReason = OptionalText(v.get(FieldRefundReason))
	rec.ListPrice = ParseNumber(v.get(FieldListPrice))
	rec.OrderAmount = ParseNumber(v.get(FieldOrderAmount))
	rec.Points = ParseNumber(v.get(FieldPoints))
	rec.Coupon = ParseNumber(v.get(FieldCoupon))
	return rec, nil
}

func normalizeRevenue(v rowView) (model.RevenueRow, *RowError) {
	rec := model.RevenueRow{RowNo: v.rowNo}

	rec.Title = v.get(FieldTitle)
	if rec.Title == "" {
		return rec, v.fail(FieldTitle, errEmptyValue)
	}
	var err error
	if rec.StartDate, err = ParseDate(v.get(FieldStartDate)); err != nil {
		return rec, v.fail(FieldStartDate, err)
	}
	if rec.EndDate, err = ParseDate(v.get(FieldEndDate)); err != nil {
		return rec, v.fail(FieldEndDate, err)
	}
	if rec.StartDate > rec.EndDate {
		return rec, v.fail(FieldEndDate, fmt.Errorf("종료일(%s)이 시작일(%s)보다 앞섬", rec.EndDate, rec.StartDate))
	}
	if rec.RealRevenue, err = ParseNumberStrict(v.get(FieldRealRevenue)); err != nil {
		return rec, v.fail(FieldRealRevenue, err)
	}
	if rec.RefundAmount, err = ParseNumberStrict(v.get(FieldRefundAmount)); err != nil {
		return rec, v.fail(FieldRefundAmount, err)
	}
	return rec, nil
}

func normalizeConsultant(v rowView) (model.ConsultantRow, *RowError) {
	rec := model.ConsultantRow{RowNo: v.rowNo}
	rec.JobGroup = v.get(FieldJobGroup)
	if rec.JobGroup == "" {
		return rec, v.fail(FieldJobGroup, errEmptyValue)
	}
	rec.Name = v.get(FieldName)
	rec.TierText = v.get(FieldTier)
	rec.Tier = ClassifyTier(rec.TierText)
	rec.Available = ParseAvailability(v.get(FieldAvailability))
	return rec, nil
}

func normalizeAd(v rowView) (model.AdRow, *RowError) {
	rec := model.AdRow{RowNo: v.rowNo}
	rec.Channel = v.get(FieldChannel)
	if rec.Channel == "" {
		return rec, v.fail(FieldChannel, errEmptyValue)
	}
	rec.Spend = ParseNumber(v.get(FieldSpend))
	rec.Impressions = ParseCount(v.get(FieldImpressions))
	rec.Clicks = ParseCount(v.get(FieldClicks))
	rec.DBCount = ParseCount(v.get(FieldDBCount))
	rec.Payments = ParseCount(v.get(FieldPayments))
	rec.Revenue = ParseNumber(v.get(FieldRevenue))
	return rec, nil
}
