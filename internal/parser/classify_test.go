package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weeklydash/internal/model"
)

func TestClassifyProduct_OrderedRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		wantType  model.ProductType
		wantWeeks int // 0 이면 nil 기대
	}{
		{"일반 26주", model.ProductGeneral, 26},
		{"게임톤 일반 12주", model.ProductGameton, 12},
		{"합격보장 패키지 (일반) 24주", model.ProductGuarantee, 24},
		{"포트폴리오 첨삭", model.ProductPortfolio, 0},
		{"기초반 8주", model.ProductGeneral, 8},
		{"1:1 컨설팅", model.ProductOther, 0},
	}
	for _, tc := range cases {
		gotType, gotWeeks := ClassifyProduct(tc.name)
		assert.Equal(t, tc.wantType, gotType, tc.name)
		if tc.wantWeeks == 0 {
			assert.Nil(t, gotWeeks, tc.name)
			continue
		}
		require.NotNil(t, gotWeeks, tc.name)
		assert.Equal(t, tc.wantWeeks, *gotWeeks, tc.name)
	}
}

func TestClassifySalesKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.SalesKindComplete, ClassifySalesKind("완납"))
	assert.Equal(t, model.SalesKindInstallment, ClassifySalesKind("분납(1차)"))
	assert.Equal(t, model.SalesKindInstallment, ClassifySalesKind("할부"))
	assert.Equal(t, model.SalesKindRenewalChange, ClassifySalesKind("재결제 (상품 변경)"))
	assert.Equal(t, model.SalesKindRenewal, ClassifySalesKind("기간 연장"))
	assert.Equal(t, model.SalesKindPlain, ClassifySalesKind("신규"))
}

func TestParseStatus_Alphabet(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"결", "환", "대", "분", "갱", " 결 "} {
		_, err := ParseStatus(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseStatus("결제")
	var invalid *InvalidStatusError
	assert.ErrorAs(t, err, &invalid)
}

func TestClassifyTierAndAvailability(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.TierA, ClassifyTier("베테랑 컨설턴트"))
	assert.Equal(t, model.TierB, ClassifyTier("숙련"))
	assert.Equal(t, model.TierC, ClassifyTier("주니어"))

	assert.True(t, ParseAvailability(" 가능 "))
	assert.False(t, ParseAvailability("불가능"))
	assert.False(t, ParseAvailability("가능(3월부터)"))
}

func TestSellerClassifier(t *testing.T) {
	t.Parallel()

	c := NewSellerClassifier([]string{"박운영"}, []string{"최퇴사", "박운영"})
	assert.Equal(t, model.SellerDeparted, c.Classify("최퇴사"))
	assert.Equal(t, model.SellerDeparted, c.Classify("박운영"))
	assert.Equal(t, model.SellerSalesDivision, c.Classify("김영업"))

	var nilClassifier *SellerClassifier
	assert.Equal(t, model.SellerSalesDivision, nilClassifier.Classify("누구"))
}
