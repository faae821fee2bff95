package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionHeader = "X-Session-ID"
	sessionCookie = "wd_session"
)

// sessionID 요청의 세션 id (헤더 우선, 그다음 쿠키)
func sessionID(c *gin.Context) string {
	if v := c.GetHeader(sessionHeader); v != "" {
		return v
	}
	if v, err := c.Cookie(sessionCookie); err == nil {
		return v
	}
	return ""
}

type selectWeekRequest struct {
	ReportID int64 `json:"reportId" binding:"required,min=1"`
}

type selectionResponse struct {
	SessionID string `json:"sessionId"`
	ReportID  int64  `json:"reportId"`
}

// SelectWeek 세션의 작업 주차를 선택한다. 세션이 없으면 새로 발급.
// POST /api/weeks/select
func (h *Handler) SelectWeek(c *gin.Context) {
	var req selectWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "요청 형식 오류: "+err.Error())
		return
	}

	sid := sessionID(c)
	if sid == "" {
		sid = uuid.NewString()
	}
	if err := h.store.SetSelectedWeek(sid, req.ReportID); err != nil {
		respondError(c, err)
		return
	}

	c.Header(sessionHeader, sid)
	c.SetCookie(sessionCookie, sid, 60*60*24*30, "/", "", false, true)
	c.JSON(http.StatusOK, selectionResponse{SessionID: sid, ReportID: req.ReportID})
}

// GetSelectedWeek 세션이 선택한 주차
// GET /api/weeks/selected
func (h *Handler) GetSelectedWeek(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		badRequest(c, "세션이 없습니다 ("+sessionHeader+" 헤더 또는 "+sessionCookie+" 쿠키)")
		return
	}
	reportID, err := h.store.GetSelectedWeek(sid)
	if err != nil {
		respondError(c, err)
		return
	}
	w, err := h.store.GetWeek(reportID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sid, "week": w})
}
