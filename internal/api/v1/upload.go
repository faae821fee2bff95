package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"weeklydash/internal/importer"
	"weeklydash/internal/model"
)

// UploadResponse 업로드 성공 응답. 행 단위 오류는 warnings 에 행 번호와 함께 담긴다.
type UploadResponse struct {
	Success bool `json:"success"`
	*importer.Report
}

// Upload 업로드 파일 처리
// POST /api/upload/:type  (multipart: file, reportId)
func (h *Handler) Upload(c *gin.Context) {
	uploadType, ok := model.ParseUploadType(c.Param("type"))
	if !ok {
		badRequest(c, "알 수 없는 업로드 종류: "+c.Param("type"))
		return
	}

	if c.Request.ContentLength > h.maxUploadBytes {
		h.fileTooLarge(c)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fileTooLarge(c)
			return
		}
		respondError(c, importer.ErrMissingFile)
		return
	}

	var reportID *int64
	if raw := strings.TrimSpace(c.PostForm("reportId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			badRequest(c, "잘못된 reportId")
			return
		}
		reportID = &id
	}

	file, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	report, err := h.coordinator.Import(importer.ImportOptions{
		UploadType: uploadType,
		Reader:     file,
		Filename:   fh.Filename,
		ReportID:   reportID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UploadResponse{Success: true, Report: report})
}

// ListImports 최근 업로드 이력
// GET /api/imports?limit=
func (h *Handler) ListImports(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return
	}
	logs, err := h.store.ListImportLogs(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": logs})
}

func (h *Handler) fileTooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
		Error:    fmt.Sprintf("파일이 너무 큽니다 (최대 %dMB)", h.maxUploadBytes>>20),
		Category: CategoryValidation,
		Details:  map[string]any{"maxBytes": h.maxUploadBytes},
	})
}
