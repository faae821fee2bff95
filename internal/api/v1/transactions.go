package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"weeklydash/internal/model"
)

// ListTransactions 주차의 정규화된 거래
// GET /api/weeks/:id/transactions
func (h *Handler) ListTransactions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.store.GetWeek(id); err != nil {
		respondError(c, err)
		return
	}

	txs, err := h.store.ListTransactionsByWeek(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if txs == nil {
		txs = []*model.SalesTransaction{}
	}
	c.JSON(http.StatusOK, gin.H{"items": txs, "total": len(txs)})
}
