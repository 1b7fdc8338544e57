package handlers

import (
	"github.com/gin-gonic/gin"

	"storagemanager/internal/domain/documents/shipment"
	"storagemanager/internal/infrastructure/http/v1/dto"
)

// ShipmentHandler serves shipment documents.
type ShipmentHandler struct {
	*BaseHandler
	service *shipment.Service
}

// NewShipmentHandler creates a shipment handler.
func NewShipmentHandler(base *BaseHandler, service *shipment.Service) *ShipmentHandler {
	return &ShipmentHandler{BaseHandler: base, service: service}
}

// List handles GET /document/shipments. clientId narrows by recipient.
func (h *ShipmentHandler) List(c *gin.Context) {
	var q dto.DocumentListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToShipmentFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	docs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	out := make([]dto.ShipmentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, dto.FromShipment(doc))
	}
	h.OK(c, out)
}

// Numbers handles GET /document/shipments/numbers.
func (h *ShipmentHandler) Numbers(c *gin.Context) {
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

// Get handles GET /document/shipments/:id.
func (h *ShipmentHandler) Get(c *gin.Context) {
	docID, ok := h.ParamID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromShipment(doc))
}

// Create handles POST /document/shipments.
func (h *ShipmentHandler) Create(c *gin.Context) {
	var req dto.CreateShipmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Create(c.Request.Context(), req.ToCommand())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromShipment(doc))
}

// Update handles PUT /document/shipments/:id.
func (h *ShipmentHandler) Update(c *gin.Context) {
	docID, ok := h.ParamID(c)
	if !ok {
		return
	}

	var req dto.UpdateShipmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Update(c.Request.Context(), req.ToCommand(docID))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromShipment(doc))
}

// Delete handles DELETE /document/shipments/:id.
func (h *ShipmentHandler) Delete(c *gin.Context) {
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
