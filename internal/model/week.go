package model

import "time"

// WeekStatus 주차 상태
type WeekStatus string

const (
	WeekStatusDraft     WeekStatus = "draft"
	WeekStatusPublished WeekStatus = "published"
)

// DateLayout 저장/비교에 쓰는 날짜 포맷 (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// ReportingWeek 리포팅 주차. 모든 집계 테이블이 report_id 로 참조한다.
type ReportingWeek struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	StartDate string     `json:"startDate"` // YYYY-MM-DD
	EndDate   string     `json:"endDate"`   // YYYY-MM-DD
	Status    WeekStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Contains 날짜가 [StartDate, EndDate] 안에 있는지 (양 끝 포함)
//
// ISO 날짜 문자열은 사전순 비교가 곧 날짜 비교다.
func (w ReportingWeek) Contains(date string) bool {
	return date >= w.StartDate && date <= w.EndDate
}

// Overlaps 두 주차 구간이 하루라도 겹치는지
func (w ReportingWeek) Overlaps(start, end string) bool {
	return start <= w.EndDate && end >= w.StartDate
}
