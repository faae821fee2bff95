package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"weeklydash/internal/model"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	isoDateRe    = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})(?:[ T].*)?$`)
	compactDayRe = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
)

// 시리얼 값 상한 (9999-12-31)
const maxExcelSerial = 2958465

var fallbackDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006년 1월 2일",
	"2006년 01월 02일",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
	"1/2/2006",
	"01/02/2006",
}

// NormalizeColumnName 컬럼명 정규화: 모든 공백/개행/탭 제거
func NormalizeColumnName(name string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(name), "")
}

// ContainsAny 문자열에 키워드 중 하나라도 포함되는지
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// IsBlankRow 모든 셀이 비어 있는 행
func IsBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// isZeroSentinel 빈 값 / 대시 표기
func isZeroSentinel(s string) bool {
	switch s {
	case "", "-", "–", "—", "－":
		return true
	}
	return false
}

func cleanNumber(s string) (cleaned string, negative bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	s = strings.NewReplacer(
		",", "",
		"，", "",
		"₩", "",
		"￦", "",
		"원", "",
		"％", "",
		"%", "",
		" ", "",
	).Replace(s)
	return s, negative
}

// ParseNumber 관대한 숫자 해석. 빈 값/대시/해석 불가 모두 0.
func ParseNumber(s string) float64 {
	f, err := ParseNumberStrict(s)
	if err != nil {
		return 0
	}
	return f
}

// ParseNumberStrict 빈 값/대시는 0, 그 외 해석 불가는 오류
func ParseNumberStrict(s string) (float64, error) {
	if isZeroSentinel(strings.TrimSpace(s)) {
		return 0, nil
	}
	cleaned, negative := cleanNumber(s)
	if isZeroSentinel(cleaned) {
		return 0, nil
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &strconvError{value: s}
	}
	if negative {
		f = -f
	}
	return f, nil
}

// ParseCount 정수 건수. 소수는 반올림, 해석 불가는 0.
func ParseCount(s string) int64 {
	return int64(math.Round(ParseNumber(s)))
}

type strconvError struct {
	value string
}

func (e *strconvError) Error() string {
	return "숫자 형식을 해석할 수 없음: " + strconv.Quote(e.value)
}

// ParseDate 날짜 값을 YYYY-MM-DD 로 변환.
//
// 지원: time.Time, 엑셀 시리얼(1899-12-30 기준, UTC 일 단위), YYYY-MM-DD / YYYY/MM/DD /
// YYYY.MM.DD / YYYYMMDD 문자열, 그 외 일반 날짜 문자열.
func ParseDate(v any) (string, error) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return "", &DateParseError{Value: ""}
		}
		return t.Format(model.DateLayout), nil
	case *time.Time:
		if t == nil {
			return "", &DateParseError{Value: ""}
		}
		return ParseDate(*t)
	case float64:
		return serialToDate(t, strconv.FormatFloat(t, 'f', -1, 64))
	case float32:
		return ParseDate(float64(t))
	case int:
		return ParseDate(float64(t))
	case int64:
		return ParseDate(float64(t))
	case string:
		return parseDateString(t)
	case nil:
		return "", &DateParseError{Value: ""}
	}
	return "", &DateParseError{Value: fmt.Sprint(v)}
}

func parseDateString(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", &DateParseError{Value: raw}
	}

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		return ymdToDate(m[1], m[2], m[3], raw)
	}
	if m := compactDayRe.FindStringSubmatch(s); m != nil {
		return ymdToDate(m[1], m[2], m[3], raw)
	}
	// 숫자만 있으면 엑셀 시리얼
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return serialToDate(f, raw)
	}
	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(model.DateLayout), nil
		}
	}
	return "", &DateParseError{Value: raw}
}

func ymdToDate(ys, ms, ds, raw string) (string, error) {
	y, _ := strconv.Atoi(ys)
	m, _ := strconv.Atoi(ms)
	d, _ := strconv.Atoi(ds)
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// 2025-02-30 같은 값은 time.Date 가 정규화해 버리므로 되돌려 비교
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return "", &DateParseError{Value: raw}
	}
	return t.Format(model.DateLayout), nil
}

var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

func serialToDate(serial float64, raw string) (string, error) {
	if serial < 1 || serial > maxExcelSerial || math.IsNaN(serial) {
		return "", &DateParseError{Value: raw}
	}
	day := math.Floor(serial)
	// excelize 는 엑셀의 1900-02-29 버그를 따라 61 미만 시리얼을 하루 당긴다.
	// 여기서는 1899-12-30 기준 일수 그대로 센다.
	if day < 61 {
		return serialEpoch.AddDate(0, 0, int(day)).Format(model.DateLayout), nil
	}
	// 시각 부분은 버리고 일 단위로만 변환
	t, err := excelize.ExcelDateToTime(day, false)
	if err != nil {
		return "", &DateParseError{Value: raw}
	}
	return t.UTC().Format(model.DateLayout), nil
}

// ParseDateOptional 빈 값이면 nil, 해석 실패도 nil
func ParseDateOptional(s string) *string {
	if isZeroSentinel(strings.TrimSpace(s)) {
		return nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}

// OptionalText 빈 문자열이면 nil
func OptionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
