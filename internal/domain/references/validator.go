// Package references checks that documents point at existing catalog entries
// and that catalog entries are not deleted while still referenced.
package references

import (
	"context"
	"fmt"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/id"
)

// Lookup reports whether a catalog row exists, archived or not.
type Lookup interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// ResourceRef is anything that may reference a resource.
type ResourceRef interface {
	ReferencesResource(ctx context.Context, resourceID id.ID) (bool, error)
}

// MeasureRef is anything that may reference a measure.
type MeasureRef interface {
	ReferencesMeasure(ctx context.Context, measureID id.ID) (bool, error)
}

// ClientRef is anything that may reference a client.
type ClientRef interface {
	ReferencesClient(ctx context.Context, clientID id.ID) (bool, error)
}

// Deps lists lookups and referrers for the validator.
type Deps struct {
	Resources Lookup
	Measures  Lookup
	Clients   Lookup

	ResourceRefs []ResourceRef
	MeasureRefs  []MeasureRef
	ClientRefs   []ClientRef
}

// Validator answers existence and usage questions about catalog entries.
type Validator struct {
	deps Deps
}

// NewValidator creates a validator.
func NewValidator(deps Deps) *Validator {
	return &Validator{deps: deps}
}

// ValidateLine checks the resource, then the measure, of a document line.
func (v *Validator) ValidateLine(ctx context.Context, resourceID, measureID id.ID) error {
	if err := exists(ctx, v.deps.Resources, "Resource", resourceID); err != nil {
		return err
	}
	return exists(ctx, v.deps.Measures, "Measure", measureID)
}

// ValidateClient checks that the client exists.
func (v *Validator) ValidateClient(ctx context.Context, clientID id.ID) error {
	return exists(ctx, v.deps.Clients, "Client", clientID)
}

// ResourceInUse reports whether a balance or any document line references the resource.
func (v *Validator) ResourceInUse(ctx context.Context, resourceID id.ID) (bool, error) {
	for _, ref := range v.deps.ResourceRefs {
		used, err := ref.ReferencesResource(ctx, resourceID)
		if err != nil || used {
			return used, err
		}
	}
	return false, nil
}

// MeasureInUse reports whether a balance or any document line references the measure.
func (v *Validator) MeasureInUse(ctx context.Context, measureID id.ID) (bool, error) {
	for _, ref := range v.deps.MeasureRefs {
		used, err := ref.ReferencesMeasure(ctx, measureID)
		if err != nil || used {
			return used, err
		}
	}
	return false, nil
}

// ClientInUse reports whether any shipment references the client.
func (v *Validator) ClientInUse(ctx context.Context, clientID id.ID) (bool, error) {
	for _, ref := range v.deps.ClientRefs {
		used, err := ref.ReferencesClient(ctx, clientID)
		if err != nil || used {
			return used, err
		}
	}
	return false, nil
}

func exists(ctx context.Context, lookup Lookup, entity string, v id.ID) error {
	ok, err := lookup.Exists(ctx, v)
	if err != nil {
		return fmt.Errorf("check %s: %w", entity, err)
	}
	if !ok {
		return apperror.NewNotFound(entity, "id", v)
	}
	return nil
}
