package entity

import (
	"context"
	"strings"

	"storagemanager/internal/core/apperror"
)

// Catalog is the base type for reference data: resources, measures, clients.
type Catalog struct {
	BaseEntity

	// Name is the display name, unique within the catalog
	Name string `db:"name" json:"name"`

	// Archived entities are hidden from active lists but still referencable
	Archived bool `db:"archived" json:"archived"`
}

// NewCatalog creates a new active Catalog with generated ID.
func NewCatalog(name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Name:       strings.TrimSpace(name),
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// GetName returns the catalog name.
func (c *Catalog) GetName() string {
	return c.Name
}

// SetName replaces the name.
func (c *Catalog) SetName(name string) {
	c.Name = strings.TrimSpace(name)
	c.Touch()
}

// IsArchived reports the archive state.
func (c *Catalog) IsArchived() bool {
	return c.Archived
}

// ToggleArchived flips the archive state.
func (c *Catalog) ToggleArchived() {
	c.Archived = !c.Archived
	c.Touch()
}
