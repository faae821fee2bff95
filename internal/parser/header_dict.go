package parser

import "weeklydash/internal/model"

// HeaderDictionary 업로드 종류별 {헤더 변형 → canonical 필드} 사전
//
// 순서는 오류 메시지에 필드가 나열되는 순서다.
var HeaderDictionary = map[model.UploadType][]FieldSpec{
	model.UploadTransactions: {
		{Field: FieldStatus, Variants: []string{"상태", "결제상태", "status"}, Required: true},
		{Field: FieldPaymentDate, Variants: []string{"결제일", "날짜", "결제일자", "payment_date"}, Required: true},
		{Field: FieldSeller, Variants: []string{"판매자", "담당자", "seller"}, Required: true},
		{Field: FieldBuyer, Variants: []string{"구매자", "구매자명", "고객명", "buyer"}, Required: true},
		{Field: FieldSalesType, Variants: []string{"판매구분", "sales_type"}, Required: true},
		{Field: FieldProductName, Variants: []string{"상품명", "상품", "판매상품", "product_name"}, Required: true},
		{Field: FieldPaymentAmount, Variants: []string{"결제금액", "결제매출", "payment_amount"}, Required: true},
		{Field: FieldRefundDate, Variants: []string{"환불일", "환불일자", "refund_date"}},
		{Field: FieldRefundAmount, Variants: []string{"환불금액", "refund_amount"}},
		{Field: FieldRefundReason, Variants: []string{"환불사유", "refund_reason"}},
		{Field: FieldListPrice, Variants: []string{"정가", "list_price"}},
		{Field: FieldOrderAmount, Variants: []string{"주문금액", "order_amount"}},
		{Field: FieldPoints, Variants: []string{"포인트", "points"}},
		{Field: FieldCoupon, Variants: []string{"쿠폰", "쿠폰할인", "coupon"}},
	},
	model.UploadRevenue: {
		{Field: FieldTitle, Variants: []string{"주차명", "주차", "title"}, Required: true},
		{Field: FieldStartDate, Variants: []string{"시작일", "start_date"}, Required: true},
		{Field: FieldEndDate, Variants: []string{"종료일", "end_date"}, Required: true},
		{Field: FieldRealRevenue, Variants: []string{"실매출", "real_revenue"}, Required: true},
		{Field: FieldRefundAmount, Variants: []string{"환불액", "환불금액", "refund_amount"}, Required: true},
	},
	model.UploadConsultants: {
		{Field: FieldJobGroup, Variants: []string{"직무", "직군", "job_group"}, Required: true},
		{Field: FieldTier, Variants: []string{"컨설턴트 직급", "직급", "tier"}, Required: true},
		{Field: FieldAvailability, Variants: []string{"배정 가능 여부", "배정여부", "availability"}, Required: true},
		{Field: FieldName, Variants: []string{"이름", "컨설턴트명", "name"}},
	},
	model.UploadAds: {
		{Field: FieldChannel, Variants: []string{"매체", "채널", "channel"}, Required: true},
		{Field: FieldSpend, Variants: []string{"광고비", "집행금액", "spend"}, Required: true},
		{Field: FieldClicks, Variants: []string{"클릭수", "클릭", "clicks"}, Required: true},
		{Field: FieldDBCount, Variants: []string{"DB수", "DB", "신청수", "db_count"}, Required: true},
		{Field: FieldImpressions, Variants: []string{"노출수", "노출", "impressions"}},
		{Field: FieldPayments, Variants: []string{"결제수", "결제건수", "payments"}},
		{Field: FieldRevenue, Variants: []string{"매출", "결제매출", "revenue"}},
	},
}
