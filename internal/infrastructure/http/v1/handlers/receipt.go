package handlers

import (
	"github.com/gin-gonic/gin"

	"storagemanager/internal/domain/documents/receipt"
	"storagemanager/internal/infrastructure/http/v1/dto"
)

// ReceiptHandler serves receipt documents.
type ReceiptHandler struct {
	*BaseHandler
	service *receipt.Service
}

// NewReceiptHandler creates a receipt handler.
func NewReceiptHandler(base *BaseHandler, service *receipt.Service) *ReceiptHandler {
	return &ReceiptHandler{BaseHandler: base, service: service}
}

// List handles GET /document/receipts.
func (h *ReceiptHandler) List(c *gin.Context) {
	var q dto.DocumentListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	docs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	out := make([]dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, dto.FromReceipt(doc))
	}
	h.OK(c, out)
}

// Numbers handles GET /document/receipts/numbers.
func (h *ReceiptHandler) Numbers(c *gin.Context) {
	numbers, err := h.service.ListNumbers(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if numbers == nil {
		numbers = []string{}
	}
	h.OK(c, numbers)
}

// Get handles GET /document/receipts/:id.
func (h *ReceiptHandler) Get(c *gin.Context) {
	docID, ok := h.ParamID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromReceipt(doc))
}

// Create handles POST /document/receipts.
func (h *ReceiptHandler) Create(c *gin.Context) {
	var req dto.CreateReceiptRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Create(c.Request.Context(), req.ToCommand())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromReceipt(doc))
}

// Update handles PUT /document/receipts/:id.
func (h *ReceiptHandler) Update(c *gin.Context) {
	docID, ok := h.ParamID(c)
	if !ok {
		return
	}

	var req dto.UpdateReceiptRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Update(c.Request.Context(), req.ToCommand(docID))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromReceipt(doc))
}

// Delete handles DELETE /document/receipts/:id.
func (h *ReceiptHandler) Delete(c *gin.Context) {
	docID, ok := h.ParamID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
