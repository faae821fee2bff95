package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"weeklydash/internal/model"
	"weeklydash/internal/store"
)

type weeksResponse struct {
	Items []model.ReportingWeek `json:"items"`
}

// ListWeeks 주차 목록 (?year= 로 필터)
// GET /api/weeks
func (h *Handler) ListWeeks(c *gin.Context) {
	year, ok := queryInt(c, "year", 0)
	if !ok {
		return
	}
	weeks, err := h.store.ListWeeksByYear(year)
	if err != nil {
		respondError(c, err)
		return
	}
	if weeks == nil {
		weeks = []model.ReportingWeek{}
	}
	c.JSON(http.StatusOK, weeksResponse{Items: weeks})
}

type createWeekRequest struct {
	Title     string `json:"title" binding:"required,max=100"`
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
	Status    string `json:"status" binding:"omitempty,oneof=draft published"`
}

// CreateWeek 주차 생성. 기존 주차와 겹치면 409.
// POST /api/weeks
func (h *Handler) CreateWeek(c *gin.Context) {
	var req createWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "요청 형식 오류: "+err.Error())
		return
	}

	w, err := h.store.CreateWeek(req.Title, req.StartDate, req.EndDate, model.WeekStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

type updateWeekRequest struct {
	Title  *string `json:"title" binding:"omitempty,min=1,max=100"`
	Status *string `json:"status" binding:"omitempty,oneof=draft published"`
}

// UpdateWeek 제목/상태 수정
// PATCH /api/weeks/:id
func (h *Handler) UpdateWeek(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "요청 형식 오류: "+err.Error())
		return
	}

	patch := store.WeekPatch{Title: req.Title}
	if req.Status != nil {
		s := model.WeekStatus(*req.Status)
		patch.Status = &s
	}
	w, err := h.store.UpdateWeek(id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// pathID :id 경로 파라미터
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "잘못된 주차 id")
		return 0, false
	}
	return id, true
}

// queryInt 정수 쿼리 파라미터. 없으면 def.
func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		badRequest(c, "잘못된 "+key+" 값")
		return 0, false
	}
	return v, true
}
