// Package measure provides the Measure catalog (units of measure).
package measure

import (
	"storagemanager/internal/core/entity"
)

// Measure is a unit of measure. Its name is unique across all measures.
type Measure struct {
	entity.Catalog
}

// NewMeasure creates an active measure.
func NewMeasure(name string) *Measure {
	return &Measure{Catalog: entity.NewCatalog(name)}
}
