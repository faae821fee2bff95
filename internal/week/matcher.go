// Package week 날짜 → 리포팅 주차 매칭.
package week

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"weeklydash/internal/model"
)

// ErrInvalidInterval 시작일이 종료일보다 늦거나 날짜 형식이 틀림
var ErrInvalidInterval = errors.New("invalid week interval")

// Matcher 배치 시작 시 한 번 읽어온 주차 목록으로 날짜를 매칭한다.
//
// 구간이 겹치는 주차가 있으면 시작일이 이른 주차, 같으면 id 가 작은 주차가 이긴다.
type Matcher struct {
	weeks []model.ReportingWeek
}

// NewMatcher 주차 목록으로 매처 생성 (입력 슬라이스는 복사)
func NewMatcher(weeks []model.ReportingWeek) *Matcher {
	sorted := make([]model.ReportingWeek, len(weeks))
	copy(sorted, weeks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartDate != sorted[j].StartDate {
			return sorted[i].StartDate < sorted[j].StartDate
		}
		return sorted[i].ID < sorted[j].ID
	})
	return &Matcher{weeks: sorted}
}

// Match date 를 포함하는 주차 (양 끝 포함). 없으면 false. 가까운 주차로 추정하지 않는다.
func (m *Matcher) Match(date string) (model.ReportingWeek, bool) {
	for _, w := range m.weeks {
		if w.StartDate > date {
			break
		}
		if w.Contains(date) {
			return w, true
		}
	}
	return model.ReportingWeek{}, false
}

// FindInterval 구간이 정확히 일치하는 주차
func (m *Matcher) FindInterval(start, end string) (model.ReportingWeek, bool) {
	for _, w := range m.weeks {
		if w.StartDate == start && w.EndDate == end {
			return w, true
		}
	}
	return model.ReportingWeek{}, false
}

// MatchWithTolerance 외부 자료의 주차 경계를 저장된 주차와 맞출 때만 쓴다.
// 시작일/종료일이 각각 tolerance 일 이내로 차이나는 주차 중 오차 합이 가장 작은 주차.
func (m *Matcher) MatchWithTolerance(start, end string, toleranceDays int) (model.ReportingWeek, bool) {
	s, err := time.Parse(model.DateLayout, start)
	if err != nil {
		return model.ReportingWeek{}, false
	}
	e, err := time.Parse(model.DateLayout, end)
	if err != nil {
		return model.ReportingWeek{}, false
	}

	best := -1
	bestDiff := 0
	for i, w := range m.weeks {
		ws, err1 := time.Parse(model.DateLayout, w.StartDate)
		we, err2 := time.Parse(model.DateLayout, w.EndDate)
		if err1 != nil || err2 != nil {
			continue
		}
		ds := absDays(ws.Sub(s))
		de := absDays(we.Sub(e))
		if ds > toleranceDays || de > toleranceDays {
			continue
		}
		if best < 0 || ds+de < bestDiff {
			best, bestDiff = i, ds+de
		}
	}
	if best < 0 {
		return model.ReportingWeek{}, false
	}
	return m.weeks[best], true
}

// Overlapping 주어진 구간과 겹치는 기존 주차
func (m *Matcher) Overlapping(start, end string) []model.ReportingWeek {
	var out []model.ReportingWeek
	for _, w := range m.weeks {
		if w.Overlaps(start, end) {
			out = append(out, w)
		}
	}
	return out
}

// Add 새로 만든 주차를 매처에 반영 (같은 배치에서 이어지는 행을 위해)
func (m *Matcher) Add(w model.ReportingWeek) {
	idx := sort.Search(len(m.weeks), func(i int) bool {
		if m.weeks[i].StartDate != w.StartDate {
			return m.weeks[i].StartDate > w.StartDate
		}
		return m.weeks[i].ID > w.ID
	})
	m.weeks = append(m.weeks, model.ReportingWeek{})
	copy(m.weeks[idx+1:], m.weeks[idx:])
	m.weeks[idx] = w
}

// Weeks 정렬된 주차 목록
func (m *Matcher) Weeks() []model.ReportingWeek {
	return m.weeks
}

// ValidateInterval YYYY-MM-DD 형식과 start <= end 확인
func ValidateInterval(start, end string) error {
	s, err := time.Parse(model.DateLayout, start)
	if err != nil {
		return fmt.Errorf("%w: start_date %q", ErrInvalidInterval, start)
	}
	e, err := time.Parse(model.DateLayout, end)
	if err != nil {
		return fmt.Errorf("%w: end_date %q", ErrInvalidInterval, end)
	}
	if s.After(e) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidInterval, start, end)
	}
	return nil
}

func absDays(d time.Duration) int {
	days := int(d.Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}
