package handlers

import (
	"strings"

	"storagemanager/internal/domain/catalogs/client"
	"storagemanager/internal/domain/catalogs/measure"
	"storagemanager/internal/domain/catalogs/resource"
	"storagemanager/internal/infrastructure/http/v1/dto"
)

// ResourceHandler serves the resource catalog.
type ResourceHandler = CatalogHandler[*resource.Resource, dto.NameRequest, dto.NameRequest]

// NewResourceHandler creates a resource handler.
func NewResourceHandler(base *BaseHandler, service *resource.Service) *ResourceHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*resource.Resource, dto.NameRequest, dto.NameRequest]{
		Service:      service.CatalogService,
		MapCreateDTO: dto.NameRequest.ToResource,
		ApplyUpdate: func(req dto.NameRequest, r *resource.Resource) error {
			r.SetName(req.Name)
			return nil
		},
		MapToDTO: dto.FromResource,
	})
}

// MeasureHandler serves the measure catalog.
type MeasureHandler = CatalogHandler[*measure.Measure, dto.NameRequest, dto.NameRequest]

// NewMeasureHandler creates a measure handler.
func NewMeasureHandler(base *BaseHandler, service *measure.Service) *MeasureHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*measure.Measure, dto.NameRequest, dto.NameRequest]{
		Service:      service.CatalogService,
		MapCreateDTO: dto.NameRequest.ToMeasure,
		ApplyUpdate: func(req dto.NameRequest, m *measure.Measure) error {
			m.SetName(req.Name)
			return nil
		},
		MapToDTO: dto.FromMeasure,
	})
}

// ClientHandler serves the client catalog.
type ClientHandler = CatalogHandler[*client.Client, dto.ClientRequest, dto.ClientRequest]

// NewClientHandler creates a client handler.
func NewClientHandler(base *BaseHandler, service *client.Service) *ClientHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*client.Client, dto.ClientRequest, dto.ClientRequest]{
		Service:      service.CatalogService,
		MapCreateDTO: dto.ClientRequest.ToClient,
		ApplyUpdate: func(req dto.ClientRequest, c *client.Client) error {
			c.SetName(req.Name)
			c.Address = strings.TrimSpace(req.Address)
			return nil
		},
		MapToDTO: dto.FromClient,
	})
}
