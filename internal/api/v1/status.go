package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 서비스 상태
type StatusResponse struct {
	Initialized          bool   `json:"initialized"`
	Weeks                int    `json:"weeks"`
	Transactions         int    `json:"transactions"`
	UnlinkedTransactions int    `json:"unlinkedTransactions"`
	Imports              int    `json:"imports"`
	LastImportTime       string `json:"lastImportTime"`
}

// GetStatus 상태 조회
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	counts, err := h.store.GetCounts()
	if err != nil {
		respondError(c, err)
		return
	}

	resp := StatusResponse{
		Initialized:          counts.Weeks > 0,
		Weeks:                counts.Weeks,
		Transactions:         counts.Transactions,
		UnlinkedTransactions: counts.Unlinked,
		Imports:              counts.Imports,
	}
	if logs, err := h.store.ListImportLogs(1); err == nil && len(logs) > 0 {
		resp.LastImportTime = logs[0].CreatedAt.Format("2006-01-02 15:04:05")
	}
	c.JSON(http.StatusOK, resp)
}
