package calculator

import (
	"sort"
	"strings"

	"weeklydash/internal/model"
)

var productOrder = map[model.ProductType]int{
	model.ProductGameton:   0,
	model.ProductGuarantee: 1,
	model.ProductPortfolio: 2,
	model.ProductGeneral:   3,
	model.ProductOther:     4,
}

// GroupByReport report_id 별로 거래를 나눈다. 주차 미연결 거래는 제외.
func GroupByReport(txs []*model.SalesTransaction) map[int64][]*model.SalesTransaction {
	out := make(map[int64][]*model.SalesTransaction)
	for _, tx := range txs {
		if tx.ReportID == nil {
			continue
		}
		out[*tx.ReportID] = append(out[*tx.ReportID], tx)
	}
	return out
}

// AggregateRevenue 주차 하나의 거래를 상품 분류별로 합산
func AggregateRevenue(reportID int64, txs []*model.SalesTransaction) []model.RevenueStat {
	type acc struct {
		stat    model.RevenueStat
		gross   money
		refunds money
	}
	byType := make(map[model.ProductType]*acc)
	for _, tx := range txs {
		a, ok := byType[tx.ProductType]
		if !ok {
			a = &acc{stat: model.RevenueStat{ReportID: reportID, ProductType: tx.ProductType}}
			byType[tx.ProductType] = a
		}
		a.stat.TransactionCount += tx.PaymentCountOriginal
		a.stat.PaymentCount += tx.PaymentCountRefined
		a.gross.add(tx.PaymentAmount)
		a.refunds.add(tx.RefundAmount)
	}

	out := make([]model.RevenueStat, 0, len(byType))
	for _, a := range byType {
		a.stat.GrossRevenue = a.gross.float()
		a.stat.RefundAmount = a.refunds.float()
		a.stat.NetRevenue = NetRevenue(a.stat.GrossRevenue, a.stat.RefundAmount)
		out = append(out, a.stat)
	}
	sort.Slice(out, func(i, j int) bool {
		return productOrder[out[i].ProductType] < productOrder[out[j].ProductType]
	})
	return out
}

// AggregateSellers 주차 하나의 거래를 판매자별로 합산
func AggregateSellers(reportID int64, txs []*model.SalesTransaction) []model.SellerStat {
	type acc struct {
		stat    model.SellerStat
		gross   money
		refunds money
	}
	bySeller := make(map[string]*acc)
	for _, tx := range txs {
		name := strings.TrimSpace(tx.Seller)
		a, ok := bySeller[name]
		if !ok {
			a = &acc{stat: model.SellerStat{ReportID: reportID, Seller: name, SellerType: tx.SellerType}}
			bySeller[name] = a
		}
		a.stat.PaymentCount += tx.PaymentCountRefined
		a.gross.add(tx.PaymentAmount)
		a.refunds.add(tx.RefundAmount)
	}

	out := make([]model.SellerStat, 0, len(bySeller))
	for _, a := range bySeller {
		a.stat.GrossRevenue = a.gross.float()
		a.stat.RefundAmount = a.refunds.float()
		a.stat.NetRevenue = NetRevenue(a.stat.GrossRevenue, a.stat.RefundAmount)
		out = append(out, a.stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seller < out[j].Seller })
	return out
}

// AggregateAds 매체별 광고 성과와 주차 합계
func AggregateAds(reportID int64, rows []model.AdRow) ([]model.AdOverview, model.CostTrend) {
	byChannel := make(map[string]*model.AdOverview)
	spend := make(map[string]*money)
	revenue := make(map[string]*money)
	var order []string

	for _, r := range rows {
		ch := strings.TrimSpace(r.Channel)
		o, ok := byChannel[ch]
		if !ok {
			o = &model.AdOverview{ReportID: reportID, Channel: ch}
			byChannel[ch] = o
			spend[ch] = &money{}
			revenue[ch] = &money{}
			order = append(order, ch)
		}
		spend[ch].add(r.Spend)
		revenue[ch].add(r.Revenue)
		o.Impressions += r.Impressions
		o.Clicks += r.Clicks
		o.DBCount += r.DBCount
		o.Payments += r.Payments
	}

	trend := model.CostTrend{ReportID: reportID}
	var totalSpend money
	out := make([]model.AdOverview, 0, len(order))
	for _, ch := range order {
		o := byChannel[ch]
		o.Spend = spend[ch].float()
		o.Revenue = revenue[ch].float()
		o.ConversionRate = ConversionRate(o.Clicks, o.DBCount)
		o.RevenueConversionRate = RevenueConversionRate(o.DBCount, o.Payments)
		o.CostPerDB = CostPer(o.Spend, o.DBCount)
		out = append(out, *o)

		totalSpend.add(o.Spend)
		trend.TotalClicks += o.Clicks
		trend.TotalDBCount += o.DBCount
		trend.TotalPayments += o.Payments
	}
	trend.TotalSpend = totalSpend.float()
	trend.CostPerDB = CostPer(trend.TotalSpend, trend.TotalDBCount)
	trend.ConversionRate = ConversionRate(trend.TotalClicks, trend.TotalDBCount)
	return out, trend
}

// AggregateConsultants 직무별 배정 가능 현황
func AggregateConsultants(reportID int64, rows []model.ConsultantRow) []model.ConsultantAvailability {
	byGroup := make(map[string]*model.ConsultantAvailability)
	var order []string
	for _, r := range rows {
		g := strings.TrimSpace(r.JobGroup)
		a, ok := byGroup[g]
		if !ok {
			a = &model.ConsultantAvailability{ReportID: reportID, JobGroup: g}
			byGroup[g] = a
			order = append(order, g)
		}
		a.Total++
		if r.Available {
			a.Available++
		}
		switch r.Tier {
		case model.TierA:
			a.TierA++
		case model.TierB:
			a.TierB++
		default:
			a.TierC++
		}
	}

	out := make([]model.ConsultantAvailability, 0, len(order))
	for _, g := range order {
		a := byGroup[g]
		a.Rate = ConversionRate(int64(a.Total), int64(a.Available))
		out = append(out, *a)
	}
	return out
}

// WeeklyRevenueOf 매출 백필 행 → 주차 실매출
func WeeklyRevenueOf(reportID int64, row model.RevenueRow) model.WeeklyRevenue {
	return model.WeeklyRevenue{
		ReportID:     reportID,
		RealRevenue:  row.RealRevenue,
		RefundAmount: row.RefundAmount,
		NetRevenue:   NetRevenue(row.RealRevenue, row.RefundAmount),
	}
}

// WeekConversionOf 주차 정보 + 합계 → 전환 지표.
// payments 는 정제 결제 건수, adPayments 는 광고 시트 값으로 표시용이다.
func WeekConversionOf(w model.ReportingWeek, clicks, dbCount, payments, adPayments int64) model.WeekConversion {
	return model.WeekConversion{
		ReportID:              w.ID,
		Title:                 w.Title,
		StartDate:             w.StartDate,
		EndDate:               w.EndDate,
		Clicks:                clicks,
		DBCount:               dbCount,
		Payments:              payments,
		AdPayments:            adPayments,
		ConversionRate:        ConversionRate(clicks, dbCount),
		RevenueConversionRate: RevenueConversionRate(dbCount, payments),
	}
}
