// Package resource provides the Resource catalog: the kinds of goods kept in storage.
package resource

import (
	"storagemanager/internal/core/entity"
)

// Resource is a stock item kind. Its name is unique among non-archived resources.
type Resource struct {
	entity.Catalog
}

// NewResource creates an active resource.
func NewResource(name string) *Resource {
	return &Resource{Catalog: entity.NewCatalog(name)}
}
