package calculator

import (
	"fmt"

	"weeklydash/internal/model"
	"weeklydash/internal/store"
)

// Indicator 지표 하나
type Indicator struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"` // 원, 건, %
}

// IndicatorGroup 지표 묶음
type IndicatorGroup struct {
	Name       string      `json:"name"`
	Indicators []Indicator `json:"indicators"`
}

// Calculator 저장된 거래/집계로 주차 지표를 만든다
type Calculator struct {
	store *store.Store
}

// NewCalculator 계산기 생성
func NewCalculator(store *store.Store) *Calculator {
	return &Calculator{
		store: store,
	}
}

// RecomputeWeek 주차에 연결된 거래 전체로 상품분류/판매자 통계를 다시 만든다.
// 업로드마다 같은 입력이면 같은 결과가 나온다.
func (c *Calculator) RecomputeWeek(reportID int64) ([]model.RevenueStat, []model.SellerStat, error) {
	txs, err := c.store.ListTransactionsByWeek(reportID)
	if err != nil {
		return nil, nil, err
	}
	revenue := AggregateRevenue(reportID, txs)
	sellers := AggregateSellers(reportID, txs)
	if err := c.store.ReplaceWeekStats(reportID, revenue, sellers); err != nil {
		return nil, nil, fmt.Errorf("failed to replace week %d stats: %w", reportID, err)
	}
	return revenue, sellers, nil
}

// CalculateAll 주차 요약 지표 (매출, 광고, 컨설턴트)
func (c *Calculator) CalculateAll(reportID int64) ([]IndicatorGroup, error) {
	groups := []IndicatorGroup{
		{Name: "매출", Indicators: []Indicator{}},
		{Name: "광고", Indicators: []Indicator{}},
		{Name: "컨설턴트", Indicators: []Indicator{}},
	}

	revenueIndicators, err := c.calculateRevenue(reportID)
	if err != nil {
		return nil, err
	}
	groups[0].Indicators = revenueIndicators

	adIndicators, err := c.calculateAds(reportID)
	if err != nil {
		return nil, err
	}
	groups[1].Indicators = adIndicators

	consultantIndicators, err := c.calculateConsultants(reportID)
	if err != nil {
		return nil, err
	}
	groups[2].Indicators = consultantIndicators

	return groups, nil
}

func (c *Calculator) calculateRevenue(reportID int64) ([]Indicator, error) {
	stats, err := c.store.GetRevenueStats(reportID)
	if err != nil {
		return nil, err
	}

	var gross, refunds money
	var payments, transactions int
	for _, s := range stats {
		gross.add(s.GrossRevenue)
		refunds.add(s.RefundAmount)
		payments += s.PaymentCount
		transactions += s.TransactionCount
	}

	out := []Indicator{
		{ID: "revenue_gross", Name: "총매출", Value: gross.float(), Unit: "원"},
		{ID: "revenue_refund", Name: "환불액", Value: refunds.float(), Unit: "원"},
		{ID: "revenue_net", Name: "순매출", Value: NetRevenue(gross.float(), refunds.float()), Unit: "원"},
		{ID: "revenue_transactions", Name: "거래 건수", Value: float64(transactions), Unit: "건"},
		{ID: "revenue_payments", Name: "결제 건수(정제)", Value: float64(payments), Unit: "건"},
	}

	// 실매출 백필이 있으면 함께 보여준다
	wr, err := c.store.GetWeeklyRevenue(reportID)
	if err != nil {
		return nil, err
	}
	if wr != nil {
		out = append(out,
			Indicator{ID: "revenue_real", Name: "실매출", Value: wr.RealRevenue, Unit: "원"},
			Indicator{ID: "revenue_real_net", Name: "실매출(환불 차감)", Value: wr.NetRevenue, Unit: "원"},
		)
	}
	return out, nil
}

func (c *Calculator) calculateAds(reportID int64) ([]Indicator, error) {
	trend, err := c.store.GetCostTrend(reportID)
	if err != nil {
		return nil, err
	}
	if trend == nil {
		return []Indicator{}, nil
	}
	refined, err := c.store.GetRefinedPaymentCount(reportID)
	if err != nil {
		return nil, err
	}

	return []Indicator{
		{ID: "ads_spend", Name: "광고비", Value: trend.TotalSpend, Unit: "원"},
		{ID: "ads_clicks", Name: "클릭", Value: float64(trend.TotalClicks), Unit: "건"},
		{ID: "ads_db", Name: "DB", Value: float64(trend.TotalDBCount), Unit: "건"},
		{ID: "ads_payments", Name: "결제(광고 집계)", Value: float64(trend.TotalPayments), Unit: "건"},
		{ID: "ads_payments_refined", Name: "결제(정제)", Value: float64(refined), Unit: "건"},
		{ID: "ads_conversion_rate", Name: "DB 전환율", Value: trend.ConversionRate, Unit: "%"},
		{ID: "ads_revenue_conversion_rate", Name: "결제 전환율", Value: RevenueConversionRate(trend.TotalDBCount, refined), Unit: "%"},
		{ID: "ads_cost_per_db", Name: "DB 단가", Value: trend.CostPerDB, Unit: "원"},
	}, nil
}

func (c *Calculator) calculateConsultants(reportID int64) ([]Indicator, error) {
	rows, err := c.store.GetConsultantAvailability(reportID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []Indicator{}, nil
	}

	var total, available int64
	for _, r := range rows {
		total += int64(r.Total)
		available += int64(r.Available)
	}
	return []Indicator{
		{ID: "consultants_total", Name: "전체 컨설턴트", Value: float64(total), Unit: "명"},
		{ID: "consultants_available", Name: "배정 가능", Value: float64(available), Unit: "명"},
		{ID: "consultants_rate", Name: "배정 가능률", Value: ConversionRate(total, available), Unit: "%"},
	}, nil
}
