package dto

import (
	"storagemanager/internal/core/entity"
	"storagemanager/internal/domain/catalogs/client"
	"storagemanager/internal/domain/catalogs/measure"
	"storagemanager/internal/domain/catalogs/resource"
)

// CatalogResponse contains catalog fields.
type CatalogResponse struct {
	BaseResponse
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
}

// FromCatalog creates CatalogResponse from entity.Catalog.
func FromCatalog(c entity.Catalog) CatalogResponse {
	return CatalogResponse{
		BaseResponse: BaseResponse{
			ID:        c.ID.String(),
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		Name:     c.Name,
		Archived: c.Archived,
	}
}

// NameRequest creates or renames a resource or a measure.
type NameRequest struct {
	Name string `json:"name" binding:"required"`
}

// --- Resource ---

// FromResource maps a resource.
func FromResource(r *resource.Resource) any {
	return FromCatalog(r.Catalog)
}

// ToResource maps a create request.
func (r NameRequest) ToResource() *resource.Resource {
	return resource.NewResource(r.Name)
}

// --- Measure ---

// FromMeasure maps a measure.
func FromMeasure(m *measure.Measure) any {
	return FromCatalog(m.Catalog)
}

// ToMeasure maps a create request.
func (r NameRequest) ToMeasure() *measure.Measure {
	return measure.NewMeasure(r.Name)
}

// --- Client ---

// ClientResponse adds the address to CatalogResponse.
type ClientResponse struct {
	CatalogResponse
	Address string `json:"address"`
}

// FromClient maps a client.
func FromClient(c *client.Client) any {
	return ClientResponse{
		CatalogResponse: FromCatalog(c.Catalog),
		Address:         c.Address,
	}
}

// ClientRequest creates or edits a client.
type ClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// ToClient maps a create request.
func (r ClientRequest) ToClient() *client.Client {
	return client.NewClient(r.Name, r.Address)
}
