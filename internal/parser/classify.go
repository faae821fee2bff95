package parser

import (
	"regexp"
	"strconv"
	"strings"

	"weeklydash/internal/model"
)

// AvailableSentinel 배정 가능 표기
const AvailableSentinel = "가능"

var weekCountRe = regexp.MustCompile(`(\d+)\s*주`)

// productRule 상품명 분류 규칙. 앞의 규칙이 우선한다.
type productRule struct {
	productType model.ProductType
	match       func(name string) bool
}

func containsRule(t model.ProductType, keyword string) productRule {
	kw := strings.ToLower(keyword)
	return productRule{
		productType: t,
		match:       func(name string) bool { return strings.Contains(name, kw) },
	}
}

var productRules = []productRule{
	containsRule(model.ProductGameton, "게임톤"),
	containsRule(model.ProductGuarantee, "합격보장"),
	containsRule(model.ProductPortfolio, "포트폴리오"),
	containsRule(model.ProductGeneral, "일반"),
	{productType: model.ProductGeneral, match: weekCountRe.MatchString},
}

// ParseStatus 상태 코드 검증
func ParseStatus(s string) (model.PaymentStatus, error) {
	st := model.PaymentStatus(strings.TrimSpace(s))
	if !st.Valid() {
		return "", &InvalidStatusError{Value: s}
	}
	return st, nil
}

// ClassifySalesKind 판매구분 텍스트 분류
func ClassifySalesKind(text string) model.SalesKind {
	t := NormalizeColumnName(text)
	switch {
	case strings.Contains(t, "재결제") && strings.Contains(t, "변경"):
		return model.SalesKindRenewalChange
	case strings.Contains(t, "완납"):
		return model.SalesKindComplete
	case ContainsAny(t, []string{"분납", "할부"}):
		return model.SalesKindInstallment
	case ContainsAny(t, []string{"갱신", "연장"}):
		return model.SalesKindRenewal
	}
	return model.SalesKindPlain
}

// ClassifyProduct 상품명 → (분류, 주차 수). 매칭되지 않으면 other, nil.
func ClassifyProduct(name string) (model.ProductType, *int) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, rule := range productRules {
		if !rule.match(lower) {
			continue
		}
		return rule.productType, trailingWeekCount(lower)
	}
	return model.ProductOther, nil
}

func trailingWeekCount(name string) *int {
	matches := weekCountRe.FindAllStringSubmatch(name, -1)
	if len(matches) == 0 {
		return nil
	}
	n, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil {
		return nil
	}
	return &n
}

// ClassifyTier 직급 텍스트 → 등급
func ClassifyTier(text string) model.ConsultantTier {
	switch {
	case strings.Contains(text, "베테랑"):
		return model.TierA
	case strings.Contains(text, "숙련"):
		return model.TierB
	}
	return model.TierC
}

// ParseAvailability 배정 가능 여부. 정확히 "가능" 일 때만 true.
func ParseAvailability(text string) bool {
	return strings.TrimSpace(text) == AvailableSentinel
}

// SellerClassifier 판매자 명단 기반 소속 분류
type SellerClassifier struct {
	opsTeam  map[string]struct{}
	departed map[string]struct{}
}

// NewSellerClassifier 명단으로 분류기 생성
func NewSellerClassifier(opsTeam, departed []string) *SellerClassifier {
	return &SellerClassifier{
		opsTeam:  toSet(opsTeam),
		departed: toSet(departed),
	}
}

// Classify 퇴사자 명단 → 운영팀 명단 → 영업본부 순
func (c *SellerClassifier) Classify(seller string) model.SellerType {
	name := strings.TrimSpace(seller)
	if c != nil {
		if _, ok := c.departed[name]; ok {
			return model.SellerDeparted
		}
		if _, ok := c.opsTeam[name]; ok {
			return model.SellerOpsTeam
		}
	}
	return model.SellerSalesDivision
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
