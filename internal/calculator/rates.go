package calculator

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ratePercent num/den*100 을 places 자리에서 반올림(half-up). 분모가 0 이면 0.
func ratePercent(num, den int64, places int32) float64 {
	if den == 0 {
		return 0
	}
	return decimal.NewFromInt(num).
		Mul(hundred).
		DivRound(decimal.NewFromInt(den), places).
		InexactFloat64()
}

// ConversionRate 단계 전환율 = round(stage2/stage1 × 1000)/10
func ConversionRate(stage1, stage2 int64) float64 {
	return ratePercent(stage2, stage1, 1)
}

// RevenueConversionRate 결제 전환율 = round(payments/dbCount × 10000)/100
func RevenueConversionRate(dbCount, payments int64) float64 {
	return ratePercent(payments, dbCount, 2)
}

// NetRevenue 순매출 = 총매출 - 환불
func NetRevenue(gross, refunds float64) float64 {
	return decimal.NewFromFloat(gross).Sub(decimal.NewFromFloat(refunds)).InexactFloat64()
}

// CostPer 건당 비용 (원 단위 반올림). 건수가 0 이면 0.
func CostPer(spend float64, count int64) float64 {
	if count == 0 {
		return 0
	}
	return decimal.NewFromFloat(spend).DivRound(decimal.NewFromInt(count), 0).InexactFloat64()
}

// money 금액 합산용 누적기
type money struct {
	d decimal.Decimal
}

func (m *money) add(v float64) {
	m.d = m.d.Add(decimal.NewFromFloat(v))
}

func (m money) float() float64 {
	return m.d.InexactFloat64()
}
