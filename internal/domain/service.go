package domain

import (
	"context"
	"fmt"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/id"
	"storagemanager/internal/core/tx"
	"storagemanager/pkg/logger"
)

// NameScope defines where a catalog name must be unique.
type NameScope int

const (
	// NameUniqueGlobally requires a unique name across all rows.
	NameUniqueGlobally NameScope = iota
	// NameUniqueAmongActive requires a unique name among non-archived rows only.
	NameUniqueAmongActive
)

// InUseFunc reports whether an entity is referenced and must not be deleted.
type InUseFunc func(ctx context.Context, entityID id.ID) (bool, error)

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T CatalogEntity] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	EntityName string
	NameScope  NameScope
	InUse      InUseFunc
	Logger     *logger.Logger
}

// CatalogService provides business logic for catalog entities.
type CatalogService[T CatalogEntity] struct {
	repo       CatalogRepository[T]
	txManager  tx.Manager
	hooks      *HookRegistry[T]
	entityName string
	nameScope  NameScope
	inUse      InUseFunc
	log        *logger.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T CatalogEntity](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	inUse := cfg.InUse
	if inUse == nil {
		inUse = func(context.Context, id.ID) (bool, error) { return false, nil }
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
		nameScope:  cfg.NameScope,
		inUse:      inUse,
		log:        log.WithComponent("catalog"),
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// EntityName returns the name used in errors.
func (s *CatalogService[T]) EntityName() string {
	return s.entityName
}

func (s *CatalogService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *CatalogService[T]) normalizeGetErr(err error, entityID id.ID) error {
	if err == nil {
		return nil
	}
	// Keep not-found but make sure it names this catalog.
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, "id", entityID)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", entityID)
}

func (s *CatalogService[T]) runAfter(ctx context.Context, event HookEvent, e T) {
	if err := s.hooks.Run(ctx, event, e); err != nil {
		s.log.WithContext(ctx).Warnw("after hook failed",
			"entity", s.entityName, "event", event, "error", err)
	}
}

// ensureNameFree fails with AlreadyExists when name is taken by another row.
// Archived rows never conflict in the NameUniqueAmongActive scope.
func (s *CatalogService[T]) ensureNameFree(ctx context.Context, e T) error {
	activeOnly := s.nameScope == NameUniqueAmongActive
	if activeOnly && e.IsArchived() {
		return nil
	}
	taken, err := s.repo.ExistsByName(ctx, e.GetName(), e.GetID(), activeOnly)
	if err != nil {
		return fmt.Errorf("check %s name: %w", s.entityName, err)
	}
	if taken {
		return apperror.NewAlreadyExists(s.entityName, "name", e.GetName())
	}
	return nil
}

// Create creates a new catalog entity.
func (s *CatalogService[T]) Create(ctx context.Context, e T) error {
	if err := e.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureNameFree(ctx, e); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, e); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithContext(ctx).Infow("catalog entry created", "entity", s.entityName, "id", e.GetID())
	s.runAfter(ctx, AfterCreate, e)
	return nil
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	e, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return e, s.normalizeGetErr(err, entityID)
	}
	return e, nil
}

// ListActive returns non-archived entities ordered by name.
func (s *CatalogService[T]) ListActive(ctx context.Context) ([]T, error) {
	return s.repo.ListByArchived(ctx, false)
}

// ListArchived returns archived entities ordered by name.
func (s *CatalogService[T]) ListArchived(ctx context.Context) ([]T, error) {
	return s.repo.ListByArchived(ctx, true)
}

// Update loads the entity, applies the change and saves it.
// A rename is re-checked for uniqueness.
func (s *CatalogService[T]) Update(ctx context.Context, entityID id.ID, apply func(T) error) (T, error) {
	var result T

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		e, err := s.GetByID(ctx, entityID)
		if err != nil {
			return err
		}

		oldName := e.GetName()
		if err := apply(e); err != nil {
			return s.normalizeValidationErr(err)
		}
		if err := e.Validate(ctx); err != nil {
			return s.normalizeValidationErr(err)
		}
		if e.GetName() != oldName {
			if err := s.ensureNameFree(ctx, e); err != nil {
				return err
			}
		}

		e.Touch()
		if err := s.repo.Update(ctx, e); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		result = e
		return nil
	})
	if err != nil {
		return result, err
	}

	s.runAfter(ctx, AfterUpdate, result)
	return result, nil
}

// ToggleState flips the archived flag.
func (s *CatalogService[T]) ToggleState(ctx context.Context, entityID id.ID) (T, error) {
	var result T

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		e, err := s.GetByID(ctx, entityID)
		if err != nil {
			return err
		}

		e.ToggleArchived()
		// Returning to the active set may collide with an active namesake.
		if s.nameScope == NameUniqueAmongActive && !e.IsArchived() {
			if err := s.ensureNameFree(ctx, e); err != nil {
				return err
			}
		}

		if err := s.repo.Update(ctx, e); err != nil {
			return fmt.Errorf("update %s state: %w", s.entityName, err)
		}
		result = e
		return nil
	})
	if err != nil {
		return result, err
	}

	s.log.WithContext(ctx).Infow("catalog entry state changed",
		"entity", s.entityName, "id", entityID, "archived", result.IsArchived())
	s.runAfter(ctx, AfterUpdate, result)
	return result, nil
}

// Delete physically removes the entity unless something still references it.
func (s *CatalogService[T]) Delete(ctx context.Context, entityID id.ID) error {
	var deleted T

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		e, err := s.GetByID(ctx, entityID)
		if err != nil {
			return err
		}

		used, err := s.inUse(ctx, entityID)
		if err != nil {
			return fmt.Errorf("check %s usage: %w", s.entityName, err)
		}
		if used {
			return apperror.NewEntityInUse(s.entityName, entityID)
		}

		if err := s.repo.Delete(ctx, entityID); err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		deleted = e
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithContext(ctx).Infow("catalog entry deleted", "entity", s.entityName, "id", entityID)
	s.runAfter(ctx, AfterDelete, deleted)
	return nil
}

// Exists checks if entity exists.
func (s *CatalogService[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return s.repo.Exists(ctx, entityID)
}
