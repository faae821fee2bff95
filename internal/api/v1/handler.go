package v1

import (
	"github.com/gin-gonic/gin"

	"weeklydash/internal/calculator"
	"weeklydash/internal/exporter"
	"weeklydash/internal/importer"
	"weeklydash/internal/store"
)

// Handler v1 API 핸들러
type Handler struct {
	store       *store.Store
	coordinator *importer.Coordinator
	calc        *calculator.Calculator
	exporter    *exporter.Exporter

	maxUploadBytes int64
	defaultYear    int
}

// Options 핸들러 설정
type Options struct {
	MaxUploadMB int
	DefaultYear int
}

// NewHandler v1 API 핸들러 생성
func NewHandler(store *store.Store, coordinator *importer.Coordinator, opts Options) *Handler {
	maxMB := opts.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 32
	}
	return &Handler{
		store:          store,
		coordinator:    coordinator,
		calc:           calculator.NewCalculator(store),
		exporter:       exporter.NewExporter(store),
		maxUploadBytes: int64(maxMB) << 20,
		defaultYear:    opts.DefaultYear,
	}
}

// RegisterRoutes /api 아래 라우트 등록
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)

	// 주차
	router.GET("/weeks", h.ListWeeks)
	router.POST("/weeks", h.CreateWeek)
	router.PATCH("/weeks/:id", h.UpdateWeek)
	router.POST("/weeks/select", h.SelectWeek)
	router.GET("/weeks/selected", h.GetSelectedWeek)

	// 주차별 조회
	router.GET("/weeks/:id/dashboard", h.GetDashboard)
	router.GET("/weeks/:id/transactions", h.ListTransactions)
	router.GET("/weeks/:id/export", h.Export)

	// 업로드
	router.POST("/upload/:type", h.Upload)
	router.GET("/imports", h.ListImports)

	router.GET("/conversions", h.ListConversions)
}
