package parser

import "weeklydash/internal/model"

// Canonical 필드명
const (
	FieldStatus        = "status"
	FieldPaymentDate   = "payment_date"
	FieldRefundDate    = "refund_date"
	FieldSeller        = "seller"
	FieldBuyer         = "buyer"
	FieldSalesType     = "sales_type"
	FieldProductName   = "product_name"
	FieldListPrice     = "list_price"
	FieldOrderAmount   = "order_amount"
	FieldPoints        = "points"
	FieldCoupon        = "coupon"
	FieldPaymentAmount = "payment_amount"
	FieldRefundAmount  = "refund_amount"
	FieldRefundReason  = "refund_reason"

	FieldTitle       = "title"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
	FieldRealRevenue = "real_revenue"

	FieldJobGroup     = "job_group"
	FieldTier         = "tier"
	FieldAvailability = "availability"
	FieldName         = "name"

	FieldChannel     = "channel"
	FieldSpend       = "spend"
	FieldImpressions = "impressions"
	FieldClicks      = "clicks"
	FieldDBCount     = "db_count"
	FieldPayments    = "payments"
	FieldRevenue     = "revenue"
)

// FieldSpec canonical 필드 하나의 헤더 변형과 필수 여부
type FieldSpec struct {
	Field    string
	Variants []string // 첫 번째 값이 오류 메시지에 쓰이는 대표명
	Required bool
}

// Label 대표 헤더명
func (f FieldSpec) Label() string {
	if len(f.Variants) == 0 {
		return f.Field
	}
	return f.Variants[0]
}

// FieldMapping 컬럼 하나의 매핑 결과
type FieldMapping struct {
	ColumnIndex int    `json:"columnIndex"`
	ColumnName  string `json:"columnName"`
	Field       string `json:"field"`
}

// Sheet 읽어들인 시트 (헤더 포함 원본 행)
type Sheet struct {
	Name string
	Rows [][]string
}

// ParseResult 시트 하나를 정규화한 결과
type ParseResult struct {
	UploadType model.UploadType   `json:"uploadType"`
	HeaderRow  int                `json:"headerRow"` // 1-based
	Mapping    []FieldMapping     `json:"mapping"`
	TotalRows  int                `json:"totalRows"` // 빈 행 제외 데이터 행 수
	Warnings   []model.RowWarning `json:"warnings,omitempty"`

	Transactions []model.TransactionRow `json:"-"`
	Revenue      []model.RevenueRow     `json:"-"`
	Consultants  []model.ConsultantRow  `json:"-"`
	Ads          []model.AdRow          `json:"-"`
}

// ParsedRows 정상 처리된 행 수
func (r *ParseResult) ParsedRows() int {
	return len(r.Transactions) + len(r.Revenue) + len(r.Consultants) + len(r.Ads)
}
