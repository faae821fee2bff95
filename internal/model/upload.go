package model

import "time"

// UploadType 업로드 종류
type UploadType string

const (
	UploadTransactions UploadType = "transactions"
	UploadRevenue      UploadType = "revenue"
	UploadConsultants  UploadType = "consultants"
	UploadAds          UploadType = "ads"
)

// ParseUploadType 문자열을 업로드 종류로 변환
func ParseUploadType(s string) (UploadType, bool) {
	switch t := UploadType(s); t {
	case UploadTransactions, UploadRevenue, UploadConsultants, UploadAds:
		return t, true
	}
	return "", false
}

// RowWarning 행 단위로 건너뛴 사유
type RowWarning struct {
	RowNo   int    `json:"rowNo"`
	Message string `json:"message"`
}

// ImportLog 업로드 1건의 이력
type ImportLog struct {
	ID           int64      `json:"id"`
	BatchID      string     `json:"batchId"`
	UploadType   UploadType `json:"uploadType"`
	Filename     string     `json:"filename"`
	ReportID     *int64     `json:"reportId,omitempty"`
	TotalRows    int        `json:"totalRows"`
	ImportedRows int        `json:"importedRows"`
	SkippedRows  int        `json:"skippedRows"`
	Status       string     `json:"status"` // processing/completed/failed
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}
