package model

import "strconv"

// PaymentStatus 거래 상태 코드 (단일 문자)
type PaymentStatus string

const (
	StatusPaid          PaymentStatus = "결"
	StatusRefunded      PaymentStatus = "환"
	StatusPendingRefund PaymentStatus = "대"
	StatusInstallment   PaymentStatus = "분"
	StatusRenewal       PaymentStatus = "갱"
)

// Valid 허용된 상태 코드인지
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPaid, StatusRefunded, StatusPendingRefund, StatusInstallment, StatusRenewal:
		return true
	}
	return false
}

// SalesKind 판매구분 자유 텍스트를 분류한 값
type SalesKind string

const (
	SalesKindPlain         SalesKind = "plain"
	SalesKindInstallment   SalesKind = "installment"
	SalesKindComplete      SalesKind = "complete"
	SalesKindRenewalChange SalesKind = "renewal-change"
	SalesKindRenewal       SalesKind = "renewal"
)

// SellerType 판매자 소속 분류
type SellerType string

const (
	SellerSalesDivision SellerType = "sales-division"
	SellerOpsTeam       SellerType = "ops-team"
	SellerDeparted      SellerType = "departed"
)

// ProductType 상품 분류
type ProductType string

const (
	ProductGameton   ProductType = "gameton"
	ProductGuarantee ProductType = "guarantee"
	ProductPortfolio ProductType = "portfolio"
	ProductGeneral   ProductType = "general"
	ProductOther     ProductType = "other"
)

// TransactionRow 헤더 해석 + 정규화를 거친 거래 한 줄 (저장 전, 주차 미연결)
type TransactionRow struct {
	RowNo int `json:"rowNo"` // 시트 기준 1-based 행 번호

	Status        PaymentStatus `json:"status"`
	PaymentDate   string        `json:"paymentDate"`
	RefundDate    *string       `json:"refundDate,omitempty"`
	Seller        string        `json:"seller"`
	Buyer         string        `json:"buyer"`
	SalesType     string        `json:"salesType"`
	SalesKind     SalesKind     `json:"salesKind"`
	ProductName   string        `json:"productName"`
	ListPrice     float64       `json:"listPrice"`
	OrderAmount   float64       `json:"orderAmount"`
	Points        float64       `json:"points"`
	Coupon        float64       `json:"coupon"`
	PaymentAmount float64       `json:"paymentAmount"`
	RefundAmount  float64       `json:"refundAmount"`
	RefundReason  *string       `json:"refundReason,omitempty"`
}

// SalesTransaction 분류/연결까지 끝난 저장용 거래
type SalesTransaction struct {
	ID       int64  `json:"id"`
	ReportID *int64 `json:"reportId"`
	TransactionRow

	SellerType  SellerType  `json:"sellerType"`
	ProductType ProductType `json:"productType"`
	Weeks       *int        `json:"weeks"`

	PaymentCountOriginal int `json:"paymentCountOriginal"`
	PaymentCountRefined  int `json:"paymentCountRefined"`

	YM               string `json:"ym"` // YY-MM
	PaymentYear      int    `json:"paymentYear"`
	PaymentMonth     int    `json:"paymentMonth"`
	PaymentYearMonth int    `json:"paymentYearMonth"` // YYYYMM

	Fingerprint string `json:"-"`
	BatchID     string `json:"batchId"`
	SourceFile  string `json:"sourceFile"`
}

// ProductLabel "general/26-week" 형태의 표시용 라벨
func (t *SalesTransaction) ProductLabel() string {
	if t.Weeks == nil {
		return string(t.ProductType)
	}
	return string(t.ProductType) + "/" + strconv.Itoa(*t.Weeks) + "-week"
}
