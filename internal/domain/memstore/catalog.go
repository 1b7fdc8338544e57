package memstore

import (
	"context"
	"sort"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/id"
	"storagemanager/internal/domain"
	"storagemanager/internal/domain/catalogs/client"
	"storagemanager/internal/domain/catalogs/measure"
	"storagemanager/internal/domain/catalogs/resource"
)

type catalogPtr[T any] interface {
	*T
	domain.CatalogEntity
}

// catalogRepo stores values of T and hands out copies as P.
type catalogRepo[T any, P catalogPtr[T]] struct {
	store  *Store
	entity string
	table  func(*state) map[id.ID]T
}

// NewResourceRepo creates an in-memory resource repository.
func NewResourceRepo(s *Store) resource.Repository {
	return &catalogRepo[resource.Resource, *resource.Resource]{
		store:  s,
		entity: resource.EntityName,
		table:  func(st *state) map[id.ID]resource.Resource { return st.resources },
	}
}

// NewMeasureRepo creates an in-memory measure repository.
func NewMeasureRepo(s *Store) measure.Repository {
	return &catalogRepo[measure.Measure, *measure.Measure]{
		store:  s,
		entity: measure.EntityName,
		table:  func(st *state) map[id.ID]measure.Measure { return st.measures },
	}
}

// NewClientRepo creates an in-memory client repository.
func NewClientRepo(s *Store) client.Repository {
	return &catalogRepo[client.Client, *client.Client]{
		store:  s,
		entity: client.EntityName,
		table:  func(st *state) map[id.ID]client.Client { return st.clients },
	}
}

func (r *catalogRepo[T, P]) Create(ctx context.Context, e P) error {
	return r.store.with(ctx, func(st *state) error {
		t := r.table(st)
		if _, ok := t[e.GetID()]; ok {
			return apperror.NewAlreadyExists(r.entity, "id", e.GetID())
		}
		t[e.GetID()] = *e
		return nil
	})
}

func (r *catalogRepo[T, P]) GetByID(ctx context.Context, entityID id.ID) (P, error) {
	var out P
	err := r.store.with(ctx, func(st *state) error {
		v, ok := r.table(st)[entityID]
		if !ok {
			return apperror.NewNotFound(r.entity, "id", entityID)
		}
		out = P(&v)
		return nil
	})
	return out, err
}

func (r *catalogRepo[T, P]) Update(ctx context.Context, e P) error {
	return r.store.with(ctx, func(st *state) error {
		t := r.table(st)
		if _, ok := t[e.GetID()]; !ok {
			return apperror.NewNotFound(r.entity, "id", e.GetID())
		}
		t[e.GetID()] = *e
		return nil
	})
}

func (r *catalogRepo[T, P]) Delete(ctx context.Context, entityID id.ID) error {
	return r.store.with(ctx, func(st *state) error {
		delete(r.table(st), entityID)
		return nil
	})
}

func (r *catalogRepo[T, P]) ListByArchived(ctx context.Context, archived bool) ([]P, error) {
	var out []P
	err := r.store.with(ctx, func(st *state) error {
		for _, v := range r.table(st) {
			p := P(&v)
			if p.IsArchived() == archived {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].GetName() < out[j].GetName() })
	return out, err
}

func (r *catalogRepo[T, P]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	var ok bool
	err := r.store.with(ctx, func(st *state) error {
		_, ok = r.table(st)[entityID]
		return nil
	})
	return ok, err
}

func (r *catalogRepo[T, P]) ExistsByName(ctx context.Context, name string, excludeID id.ID, activeOnly bool) (bool, error) {
	var found bool
	err := r.store.with(ctx, func(st *state) error {
		for k, v := range r.table(st) {
			p := P(&v)
			if k == excludeID || (activeOnly && p.IsArchived()) {
				continue
			}
			if p.GetName() == name {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}
