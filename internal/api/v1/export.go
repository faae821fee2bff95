package v1

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"weeklydash/internal/exporter"
)

func buildExportContentDisposition(w string, reportID int64) string {
	ascii := fmt.Sprintf("weekly-report-%d.xlsx", reportID)
	utf8Name := url.PathEscape(w + " 주간 리포트.xlsx")
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", ascii, utf8Name)
}

// Export 주차 집계 xlsx 다운로드
// GET /api/weeks/:id/export
func (h *Handler) Export(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	w, err := h.store.GetWeek(id)
	if err != nil {
		respondError(c, err)
		return
	}

	f, err := h.exporter.Export(exporter.ExportOptions{ReportID: id})
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", buildExportContentDisposition(w.Title, id))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
