package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"weeklydash/internal/calculator"
	"weeklydash/internal/model"
)

// ListConversions 주차별 전환 지표 (시간순)
// GET /api/conversions?year=&limit=
func (h *Handler) ListConversions(c *gin.Context) {
	year, ok := queryInt(c, "year", h.defaultYear)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}

	funnels, err := h.store.ListWeekFunnels(year, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]model.WeekConversion, 0, len(funnels))
	for _, f := range funnels {
		items = append(items, calculator.WeekConversionOf(f.Week, f.Clicks, f.DBCount, f.Payments, f.AdPayments))
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "items": items})
}
