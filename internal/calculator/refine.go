package calculator

import (
	"sort"
	"strings"

	"weeklydash/internal/model"
)

// RefinePaymentCounts 분납/완납/재결제 행을 한 건의 실제 구매로 접는다.
//
// 모든 행은 PaymentCountOriginal = 1. PaymentCountRefined 는 결제(결) 상태 행만
// 구매자별로 결제일 오름차순 정렬한 뒤:
//   - 분납과 완납이 함께 있으면 가장 늦은 완납 행만 1
//   - 분납만 있으면 가장 늦은 분납 행만 1
//   - 둘 다 없으면 모든 행 1
//
// 재결제(상품 변경) 행은 위와 별개로, 그중 가장 늦은 행만 1.
// 같은 결제일이면 시트 행 순서를 따른다.
func RefinePaymentCounts(txs []*model.SalesTransaction) {
	groups := make(map[string][]*model.SalesTransaction)
	var order []string

	for _, tx := range txs {
		tx.PaymentCountOriginal = 1
		tx.PaymentCountRefined = 0
		if tx.Status != model.StatusPaid {
			continue
		}
		key := strings.TrimSpace(tx.Buyer)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], tx)
	}

	for _, key := range order {
		refineBuyerGroup(groups[key])
	}
}

func refineBuyerGroup(group []*model.SalesTransaction) {
	sort.SliceStable(group, func(i, j int) bool {
		if group[i].PaymentDate != group[j].PaymentDate {
			return group[i].PaymentDate < group[j].PaymentDate
		}
		return group[i].RowNo < group[j].RowNo
	})

	var renewals, others []*model.SalesTransaction
	var lastInstallment, lastComplete *model.SalesTransaction
	for _, tx := range group {
		switch tx.SalesKind {
		case model.SalesKindRenewalChange:
			renewals = append(renewals, tx)
			continue
		case model.SalesKindInstallment:
			lastInstallment = tx
		case model.SalesKindComplete:
			lastComplete = tx
		}
		others = append(others, tx)
	}

	switch {
	case lastInstallment != nil && lastComplete != nil:
		lastComplete.PaymentCountRefined = 1
	case lastInstallment != nil:
		lastInstallment.PaymentCountRefined = 1
	default:
		for _, tx := range others {
			tx.PaymentCountRefined = 1
		}
	}

	if n := len(renewals); n > 0 {
		renewals[n-1].PaymentCountRefined = 1
	}
}
