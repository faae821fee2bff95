package calculator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"weeklydash/internal/model"
	"weeklydash/internal/parser"
)

// 거래 지문(UUIDv5) 네임스페이스
var fingerprintNamespace = uuid.MustParse("6f1c3b0e-5d0a-4c52-9a57-2f8f4a5b8e11")

// BuildOptions 거래 분류 옵션
type BuildOptions struct {
	Sellers    *parser.SellerClassifier
	BatchID    string
	SourceFile string
}

// BuildTransactions 정규화된 행에 분류/달력 키/지문을 붙이고 결제 건수를 정제한다.
// 주차 연결(ReportID)은 하지 않는다.
func BuildTransactions(rows []model.TransactionRow, opts BuildOptions) []*model.SalesTransaction {
	txs := make([]*model.SalesTransaction, 0, len(rows))
	seen := make(map[string]int)

	for _, row := range rows {
		tx := &model.SalesTransaction{
			TransactionRow: row,
			SellerType:     opts.Sellers.Classify(row.Seller),
			BatchID:        opts.BatchID,
			SourceFile:     opts.SourceFile,
		}
		tx.ProductType, tx.Weeks = parser.ClassifyProduct(row.ProductName)
		applyCalendarKeys(tx)

		key := fingerprintKey(row)
		seen[key]++
		tx.Fingerprint = uuid.NewSHA1(fingerprintNamespace, []byte(key+"#"+strconv.Itoa(seen[key]))).String()

		txs = append(txs, tx)
	}

	RefinePaymentCounts(txs)
	return txs
}

// applyCalendarKeys PaymentDate(YYYY-MM-DD) → 연/월/YYYYMM/YY-MM
func applyCalendarKeys(tx *model.SalesTransaction) {
	if len(tx.PaymentDate) < 7 {
		return
	}
	year, err1 := strconv.Atoi(tx.PaymentDate[0:4])
	month, err2 := strconv.Atoi(tx.PaymentDate[5:7])
	if err1 != nil || err2 != nil {
		return
	}
	tx.PaymentYear = year
	tx.PaymentMonth = month
	tx.PaymentYearMonth = year*100 + month
	tx.YM = fmt.Sprintf("%02d-%02d", year%100, month)
}

// fingerprintKey 같은 거래를 다시 올렸을 때 같은 값이 나오도록 내용 기반으로 만든다
func fingerprintKey(row model.TransactionRow) string {
	return strings.Join([]string{
		string(row.Status),
		row.PaymentDate,
		strings.TrimSpace(row.Buyer),
		strings.TrimSpace(row.Seller),
		strings.TrimSpace(row.SalesType),
		strings.TrimSpace(row.ProductName),
		strconv.FormatFloat(row.PaymentAmount, 'f', -1, 64),
		strconv.FormatFloat(row.RefundAmount, 'f', -1, 64),
	}, "\x1f")
}
