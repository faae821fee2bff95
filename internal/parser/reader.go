package parser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile 경로에서 시트를 읽는다
func ReadFile(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return ReadSheet(f, filepath.Base(path))
}

// ReadSheet 업로드 파일을 원본 행 목록으로 읽는다.
//
// xlsx/xlsm/xls 는 첫 번째 비어있지 않은 시트를, csv 는 파일 전체를 읽는다.
// 엑셀 셀은 표시 서식 없이 원값으로 읽어 날짜가 시리얼 숫자로 들어온다.
func ReadSheet(r io.Reader, filename string) (*Sheet, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return readCSV(r, filename)
	case ".xlsx", ".xlsm", ".xls":
		return readWorkbook(r, filename)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

func readWorkbook(r io.Reader, filename string) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		if strings.HasSuffix(strings.ToLower(filename), ".xls") {
			// 구형 BIFF .xls 는 excelize 가 읽지 못한다
			return nil, fmt.Errorf("%w: legacy .xls, save as .xlsx: %v", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}
		if countNonBlank(rows) == 0 {
			continue
		}
		return &Sheet{Name: name, Rows: rows}, nil
	}
	return nil, ErrEmptySheet
}

func readCSV(r io.Reader, filename string) (*Sheet, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if countNonBlank(rows) == 0 {
		return nil, ErrEmptySheet
	}
	return &Sheet{Name: strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)), Rows: rows}, nil
}

func countNonBlank(rows [][]string) int {
	n := 0
	for _, row := range rows {
		if !IsBlankRow(row) {
			n++
		}
	}
	return n
}
