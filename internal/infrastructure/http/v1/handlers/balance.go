package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storagemanager/internal/domain/registers/balance"
	"storagemanager/internal/infrastructure/export"
	"storagemanager/internal/infrastructure/http/v1/dto"
)

// BalanceHandler serves the balance register.
type BalanceHandler struct {
	*BaseHandler
	service *balance.Service
	now     func() time.Time
}

// NewBalanceHandler creates a balance handler.
func NewBalanceHandler(base *BaseHandler, service *balance.Service) *BalanceHandler {
	return &BalanceHandler{BaseHandler: base, service: service, now: time.Now}
}

func (h *BalanceHandler) list(c *gin.Context) ([]balance.View, bool) {
	var q dto.BalanceListQuery
	if !h.BindQuery(c, &q) {
		return nil, false
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return nil, false
	}

	views, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}
	return views, true
}

// List handles GET /registers/balances.
func (h *BalanceHandler) List(c *gin.Context) {
	views, ok := h.list(c)
	if !ok {
		return
	}
	h.OK(c, dto.FromBalances(views))
}

// Export handles GET /registers/balances/export with the same filter as List.
func (h *BalanceHandler) Export(c *gin.Context) {
	views, ok := h.list(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteBalances(&buf, views); err != nil {
		h.Error(c, fmt.Errorf("export balances: %w", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.BalancesFileName(h.now())))
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}
