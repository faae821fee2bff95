package parser

// DefaultHeaderScanRows 헤더 탐색 시 살펴보는 비어있지 않은 행 수
const DefaultHeaderScanRows = 5

// DetectHeaderRow 앞쪽 scanRows 개의 비어있지 않은 행 중 사전 토큰을 포함한
// 첫 행을 헤더로 본다. 반환값은 0-based 행 인덱스.
func DetectHeaderRow(rows [][]string, resolver *HeaderResolver, scanRows int) (int, error) {
	if scanRows <= 0 {
		scanRows = DefaultHeaderScanRows
	}
	seen := 0
	for idx, row := range rows {
		if IsBlankRow(row) {
			continue
		}
		if resolver.Recognizes(row) {
			return idx, nil
		}
		seen++
		if seen >= scanRows {
			break
		}
	}
	if seen == 0 {
		return -1, ErrEmptySheet
	}
	return -1, ErrHeaderNotFound
}
