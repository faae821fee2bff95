package parser

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedFormat 지원하지 않는 파일 형식
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptySheet 데이터가 없는 시트
	ErrEmptySheet = errors.New("sheet has no rows")
	// ErrHeaderNotFound 앞쪽 행에서 헤더를 찾지 못함
	ErrHeaderNotFound = errors.New("header row not found")
)

// MissingRequiredColumnError 필수 컬럼 누락. 파일 전체를 거부해야 한다.
type MissingRequiredColumnError struct {
	Fields []string // canonical 필드명
	Labels []string // 사용자에게 보여줄 대표 헤더명
}

func (e *MissingRequiredColumnError) Error() string {
	return fmt.Sprintf("필수 컬럼 누락: %s", strings.Join(e.Labels, ", "))
}

// DateParseError 해석할 수 없는 날짜 값
type DateParseError struct {
	Value string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("날짜 형식을 해석할 수 없음: %q", e.Value)
}

// InvalidStatusError 허용되지 않은 상태 코드
type InvalidStatusError struct {
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("알 수 없는 상태 코드: %q", e.Value)
}

// RowError 특정 행의 특정 필드 해석 실패. 해당 행만 건너뛴다.
type RowError struct {
	RowNo int
	Field string
	Err   error
}

func (e *RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%d행: %v", e.RowNo, e.Err)
	}
	return fmt.Sprintf("%d행 %s: %v", e.RowNo, e.Field, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
