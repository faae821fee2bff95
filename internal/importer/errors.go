package importer

import "errors"

var (
	// ErrMissingFile 업로드 파일이 없음
	ErrMissingFile = errors.New("file is required")
	// ErrMissingWeek 주차 지정이 필요한 업로드인데 reportId 가 없음
	ErrMissingWeek = errors.New("reportId is required for this upload type")
	// ErrInvalidUploadType 알 수 없는 업로드 종류
	ErrInvalidUploadType = errors.New("invalid upload type")
)
