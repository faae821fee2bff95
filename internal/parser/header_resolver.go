package parser

import (
	"fmt"
	"strings"

	"weeklydash/internal/model"
)

// HeaderMapping 컬럼 인덱스 → canonical 필드
type HeaderMapping struct {
	byIndex map[int]FieldMapping
	byField map[string]int
}

// Index canonical 필드의 컬럼 인덱스
func (m HeaderMapping) Index(field string) (int, bool) {
	idx, ok := m.byField[field]
	return idx, ok
}

// Has 필드가 매핑되었는지
func (m HeaderMapping) Has(field string) bool {
	_, ok := m.byField[field]
	return ok
}

// Mappings 컬럼 순서대로 정렬된 매핑 목록
func (m HeaderMapping) Mappings() []FieldMapping {
	out := make([]FieldMapping, 0, len(m.byIndex))
	maxIdx := -1
	for idx := range m.byIndex {
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	for i := 0; i <= maxIdx; i++ {
		if fm, ok := m.byIndex[i]; ok {
			out = append(out, fm)
		}
	}
	return out
}

// HeaderResolver 헤더 텍스트를 canonical 필드로 해석
type HeaderResolver struct {
	specs     []FieldSpec
	exact     map[string]string // 트림된 변형 → 필드
	collapsed map[string]string // 공백 제거 + 소문자 변형 → 필드
}

// NewHeaderResolver 업로드 종류에 맞는 해석기 생성
func NewHeaderResolver(uploadType model.UploadType) (*HeaderResolver, error) {
	specs, ok := HeaderDictionary[uploadType]
	if !ok {
		return nil, fmt.Errorf("unknown upload type: %s", uploadType)
	}
	return NewHeaderResolverWithSpecs(specs), nil
}

// NewHeaderResolverWithSpecs 임의의 필드 사전으로 해석기 생성
func NewHeaderResolverWithSpecs(specs []FieldSpec) *HeaderResolver {
	r := &HeaderResolver{
		specs:     specs,
		exact:     make(map[string]string),
		collapsed: make(map[string]string),
	}
	for _, spec := range specs {
		for _, v := range spec.Variants {
			if _, dup := r.exact[strings.TrimSpace(v)]; !dup {
				r.exact[strings.TrimSpace(v)] = spec.Field
			}
			key := collapseHeader(v)
			if _, dup := r.collapsed[key]; !dup {
				r.collapsed[key] = spec.Field
			}
		}
	}
	return r
}

// Lookup 헤더 텍스트 하나를 필드로 해석 (트림 후 정확 일치 → 공백 제거 비교)
func (r *HeaderResolver) Lookup(header string) (string, bool) {
	h := strings.TrimSpace(header)
	if h == "" {
		return "", false
	}
	if f, ok := r.exact[h]; ok {
		return f, true
	}
	f, ok := r.collapsed[collapseHeader(h)]
	return f, ok
}

// Resolve 헤더 행 전체를 매핑한다. 필수 필드가 하나라도 없으면
// 누락된 필드를 모두 담은 *MissingRequiredColumnError 를 반환한다.
func (r *HeaderResolver) Resolve(headers []string) (HeaderMapping, error) {
	m := HeaderMapping{
		byIndex: make(map[int]FieldMapping),
		byField: make(map[string]int),
	}
	for idx, col := range headers {
		field, ok := r.Lookup(col)
		if !ok {
			continue
		}
		// 같은 필드가 여러 컬럼에 있으면 앞 컬럼 우선
		if _, taken := m.byField[field]; taken {
			continue
		}
		m.byField[field] = idx
		m.byIndex[idx] = FieldMapping{
			ColumnIndex: idx,
			ColumnName:  strings.TrimSpace(col),
			Field:       field,
		}
	}

	var missing MissingRequiredColumnError
	for _, spec := range r.specs {
		if spec.Required && !m.Has(spec.Field) {
			missing.Fields = append(missing.Fields, spec.Field)
			missing.Labels = append(missing.Labels, spec.Label())
		}
	}
	if len(missing.Fields) > 0 {
		return m, &missing
	}
	return m, nil
}

// Recognizes 헤더 행에 사전의 토큰이 하나라도 있는지 (헤더 행 탐지용)
func (r *HeaderResolver) Recognizes(row []string) bool {
	for _, col := range row {
		if _, ok := r.Lookup(col); ok {
			return true
		}
	}
	return false
}

func collapseHeader(s string) string {
	return strings.ToLower(NormalizeColumnName(s))
}
