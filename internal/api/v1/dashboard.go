package v1

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"weeklydash/internal/logger"
	"weeklydash/internal/model"
)

// DashboardSection 대시보드 구역 하나. 실패한 구역은 error 만 채워진다.
type DashboardSection struct {
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

// DashboardResponse 주차 대시보드
type DashboardResponse struct {
	Week     model.ReportingWeek         `json:"week"`
	Sections map[string]DashboardSection `json:"sections"`
	Partial  bool                        `json:"partial"`
}

type dashboardFetch struct {
	name  string
	fetch func(reportID int64) (any, error)
}

func (h *Handler) dashboardFetches() []dashboardFetch {
	return []dashboardFetch{
		{"indicators", func(id int64) (any, error) { return h.calc.CalculateAll(id) }},
		{"revenueStats", func(id int64) (any, error) { return h.store.GetRevenueStats(id) }},
		{"sellerStats", func(id int64) (any, error) { return h.store.GetSellerStats(id) }},
		{"adOverview", func(id int64) (any, error) { return h.store.GetAdOverview(id) }},
		{"costTrend", func(id int64) (any, error) { return h.store.GetCostTrend(id) }},
		{"weeklyRevenue", func(id int64) (any, error) { return h.store.GetWeeklyRevenue(id) }},
		{"consultants", func(id int64) (any, error) { return h.store.GetConsultantAvailability(id) }},
	}
}

// GetDashboard 주차의 모든 집계를 동시에 조회한다.
// 한 구역이 실패해도 나머지는 그대로 돌려준다 (partial = true).
// GET /api/weeks/:id/dashboard
func (h *Handler) GetDashboard(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	w, err := h.store.GetWeek(id)
	if err != nil {
		respondError(c, err)
		return
	}

	fetches := h.dashboardFetches()
	results := make([]DashboardSection, len(fetches))

	var wg sync.WaitGroup
	for i, f := range fetches {
		wg.Add(1)
		go func(i int, f dashboardFetch) {
			defer wg.Done()
			data, err := f.fetch(id)
			if err != nil {
				logger.WithFields(logrus.Fields{"report": id, "section": f.name}).WithError(err).Warn("dashboard section failed")
				results[i] = DashboardSection{Error: err.Error()}
				return
			}
			results[i] = DashboardSection{Data: data}
		}(i, f)
	}
	wg.Wait()

	resp := DashboardResponse{Week: w, Sections: make(map[string]DashboardSection, len(fetches))}
	for i, f := range fetches {
		resp.Sections[f.name] = results[i]
		if results[i].Error != "" {
			resp.Partial = true
		}
	}
	c.JSON(http.StatusOK, resp)
}
