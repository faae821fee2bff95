package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"weeklydash/internal/importer"
	"weeklydash/internal/logger"
	"weeklydash/internal/parser"
	"weeklydash/internal/store"
	"weeklydash/internal/week"
)

// 오류 분류
const (
	CategoryValidation    = "validation"
	CategoryMissingColumn = "missing_column"
	CategoryNotFound      = "not_found"
	CategoryConflict      = "conflict"
	CategoryPersistence   = "persistence"
)

// ErrorResponse 오류 응답
type ErrorResponse struct {
	Error    string         `json:"error"`
	Category string         `json:"category"`
	Details  map[string]any `json:"details,omitempty"`
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Category: CategoryValidation})
}

// respondError 에러 종류에 맞는 상태 코드와 분류로 응답한다.
// 저장 계층 오류는 내부 메시지를 숨기고 로그에만 남긴다.
func respondError(c *gin.Context, err error) {
	var missing *parser.MissingRequiredColumnError
	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:    err.Error(),
			Category: CategoryMissingColumn,
			Details:  map[string]any{"columns": missing.Labels},
		})
	case errors.Is(err, parser.ErrHeaderNotFound),
		errors.Is(err, parser.ErrEmptySheet),
		errors.Is(err, parser.ErrUnsupportedFormat),
		errors.Is(err, importer.ErrMissingFile),
		errors.Is(err, importer.ErrMissingWeek),
		errors.Is(err, importer.ErrInvalidUploadType),
		errors.Is(err, week.ErrInvalidInterval):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Category: CategoryValidation})
	case errors.Is(err, store.ErrWeekNotFound), errors.Is(err, store.ErrSelectionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Category: CategoryNotFound})
	case errors.Is(err, store.ErrWeekOverlap):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Category: CategoryConflict})
	default:
		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "내부 오류가 발생했습니다", Category: CategoryPersistence})
	}
}
