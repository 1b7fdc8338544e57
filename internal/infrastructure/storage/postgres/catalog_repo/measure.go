package catalog_repo

import (
	"storagemanager/internal/domain/catalogs/measure"
	"storagemanager/internal/infrastructure/storage/postgres"
)

const measureTable = "cat_measures"

// MeasureRepo implements measure.Repository.
type MeasureRepo struct {
	*BaseCatalogRepo[*measure.Measure]
}

// NewMeasureRepo creates a new measure repository.
func NewMeasureRepo(txm *postgres.TxManager) *MeasureRepo {
	return &MeasureRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			measureTable,
			measure.EntityName,
			postgres.ExtractDBColumns[measure.Measure](),
			func() *measure.Measure { return &measure.Measure{} },
		),
	}
}
