package model

// AdRow 광고 집행 업로드 한 줄
type AdRow struct {
	RowNo       int     `json:"rowNo"`
	Channel     string  `json:"channel"`
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	DBCount     int64   `json:"dbCount"`
	Payments    int64   `json:"payments"`
	Revenue     float64 `json:"revenue"`
}

// RevenueRow 주차별 매출 백필 업로드 한 줄
type RevenueRow struct {
	RowNo        int     `json:"rowNo"`
	Title        string  `json:"title"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	RealRevenue  float64 `json:"realRevenue"`
	RefundAmount float64 `json:"refundAmount"`
}

// ConsultantTier 컨설턴트 등급
type ConsultantTier string

const (
	TierA ConsultantTier = "A"
	TierB ConsultantTier = "B"
	TierC ConsultantTier = "C"
)

// ConsultantRow 컨설턴트 리소스 업로드 한 줄
type ConsultantRow struct {
	RowNo     int            `json:"rowNo"`
	Name      string         `json:"name"`
	JobGroup  string         `json:"jobGroup"`
	TierText  string         `json:"tierText"`
	Tier      ConsultantTier `json:"tier"`
	Available bool           `json:"available"`
}

// AdOverview 주차 x 매체 광고 성과 (report_id, channel 당 1행)
type AdOverview struct {
	ReportID              int64   `json:"reportId"`
	Channel               string  `json:"channel"`
	Spend                 float64 `json:"spend"`
	Impressions           int64   `json:"impressions"`
	Clicks                int64   `json:"clicks"`
	DBCount               int64   `json:"dbCount"`
	Payments              int64   `json:"payments"`
	Revenue               float64 `json:"revenue"`
	ConversionRate        float64 `json:"conversionRate"`        // DB / 클릭, 소수 1자리
	RevenueConversionRate float64 `json:"revenueConversionRate"` // 결제 / DB, 소수 2자리
	CostPerDB             float64 `json:"costPerDb"`
}

// CostTrend 주차별 광고비 합계 (report_id 당 1행, upsert)
type CostTrend struct {
	ReportID       int64   `json:"reportId"`
	TotalSpend     float64 `json:"totalSpend"`
	TotalClicks    int64   `json:"totalClicks"`
	TotalDBCount   int64   `json:"totalDbCount"`
	TotalPayments  int64   `json:"totalPayments"`
	CostPerDB      float64 `json:"costPerDb"`
	ConversionRate float64 `json:"conversionRate"`
}

// RevenueStat 주차 x 상품분류 매출 통계
type RevenueStat struct {
	ReportID         int64       `json:"reportId"`
	ProductType      ProductType `json:"productType"`
	TransactionCount int         `json:"transactionCount"` // payment_count_original 합
	PaymentCount     int         `json:"paymentCount"`     // payment_count_refined 합
	GrossRevenue     float64     `json:"grossRevenue"`
	RefundAmount     float64     `json:"refundAmount"`
	NetRevenue       float64     `json:"netRevenue"`
}

// SellerStat 주차 x 판매자 실적
type SellerStat struct {
	ReportID     int64      `json:"reportId"`
	Seller       string     `json:"seller"`
	SellerType   SellerType `json:"sellerType"`
	PaymentCount int        `json:"paymentCount"`
	GrossRevenue float64    `json:"grossRevenue"`
	RefundAmount float64    `json:"refundAmount"`
	NetRevenue   float64    `json:"netRevenue"`
}

// WeeklyRevenue 주차별 실매출 (report_id 당 1행, upsert)
type WeeklyRevenue struct {
	ReportID     int64   `json:"reportId"`
	RealRevenue  float64 `json:"realRevenue"`
	RefundAmount float64 `json:"refundAmount"`
	NetRevenue   float64 `json:"netRevenue"`
}

// ConsultantAvailability 주차 x 직무 컨설턴트 배정 가능 현황
type ConsultantAvailability struct {
	ReportID  int64   `json:"reportId"`
	JobGroup  string  `json:"jobGroup"`
	Total     int     `json:"total"`
	Available int     `json:"available"`
	TierA     int     `json:"tierA"`
	TierB     int     `json:"tierB"`
	TierC     int     `json:"tierC"`
	Rate      float64 `json:"availabilityRate"` // 가용 / 전체, 소수 1자리
}

// WeekConversion 주차별 전환 지표 (조회 API 응답 단위)
type WeekConversion struct {
	ReportID              int64   `json:"reportId"`
	Title                 string  `json:"title"`
	StartDate             string  `json:"startDate"`
	EndDate               string  `json:"endDate"`
	Clicks                int64   `json:"clicks"`
	DBCount               int64   `json:"dbCount"`
	Payments              int64   `json:"payments"`   // 정제 결제 건수
	AdPayments            int64   `json:"adPayments"` // 광고 시트 결제수
	ConversionRate        float64 `json:"conversionRate"`
	RevenueConversionRate float64 `json:"revenueConversionRate"` // 정제 결제 / DB
}
