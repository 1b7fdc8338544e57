package handlers

import (
	"github.com/gin-gonic/gin"

	"storagemanager/internal/domain"
)

// CatalogHandler provides generic HTTP handlers for catalog entities.
type CatalogHandler[T domain.CatalogEntity, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service *domain.CatalogService[T]

	// Mapper functions
	mapCreateDTO func(dto CreateDTO) T
	applyUpdate  func(dto UpdateDTO, existing T) error
	mapToDTO     func(entity T) any
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T domain.CatalogEntity, CreateDTO any, UpdateDTO any] struct {
	Service      *domain.CatalogService[T]
	MapCreateDTO func(dto CreateDTO) T
	ApplyUpdate  func(dto UpdateDTO, existing T) error
	MapToDTO     func(entity T) any
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T domain.CatalogEntity, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, CreateDTO, UpdateDTO],
) *CatalogHandler[T, CreateDTO, UpdateDTO] {
	return &CatalogHandler[T, CreateDTO, UpdateDTO]{
		BaseHandler:  base,
		service:      cfg.Service,
		mapCreateDTO: cfg.MapCreateDTO,
		applyUpdate:  cfg.ApplyUpdate,
		mapToDTO:     cfg.MapToDTO,
	}
}

func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) mapList(items []T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = h.mapToDTO(item)
	}
	return out
}

// ListActive handles GET /{entity}/active.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) ListActive(c *gin.Context) {
	items, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, h.mapList(items))
}

// ListArchived handles GET /{entity}/archived.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) ListArchived(c *gin.Context) {
	items, err := h.service.ListArchived(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, h.mapList(items))
}

// Get handles GET /{entity}/:id.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	entityID, ok := h.ParamID(c)
	if !ok {
		return
	}

	entity, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, h.mapToDTO(entity))
}

// Create handles POST /{entity}.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	entity := h.mapCreateDTO(req)
	if err := h.service.Create(c.Request.Context(), entity); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, h.mapToDTO(entity))
}

// Update handles PUT /{entity}/:id.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	entityID, ok := h.ParamID(c)
	if !ok {
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	updated, err := h.service.Update(c.Request.Context(), entityID, func(existing T) error {
		return h.applyUpdate(req, existing)
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, h.mapToDTO(updated))
}

// ToggleState handles POST /{entity}/:id/state.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) ToggleState(c *gin.Context) {
	entityID, ok := h.ParamID(c)
	if !ok {
		return
	}

	updated, err := h.service.ToggleState(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, h.mapToDTO(updated))
}

// Delete handles DELETE /{entity}/:id. Referenced entities are refused with 423.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Delete(c *gin.Context) {
	entityID, ok := h.ParamID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
