package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/entity"
	"storagemanager/internal/core/id"
	"storagemanager/internal/domain/catalogs/measure"
	"storagemanager/internal/domain/catalogs/resource"
	"storagemanager/internal/domain/documents"
	"storagemanager/internal/domain/documents/receipt"
	"storagemanager/internal/domain/memstore"
	"storagemanager/internal/domain/registers/balance"
)

func TestStore_RollbackRestoresState(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	balances := memstore.NewBalanceRepo(store)
	key := balance.Key{ResourceID: id.New(), MeasureID: id.New()}

	require.NoError(t, balances.Insert(ctx, key, 5))

	boom := errors.New("boom")
	err := store.RunInTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, balances.UpdateAmount(ctx, key, 1))
		require.NoError(t, balances.Insert(ctx, balance.Key{ResourceID: id.New(), MeasureID: id.New()}, 9))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, map[balance.Key]int64{key: 5}, store.Balances())
}

func TestStore_NestedTransactionJoinsOuter(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	balances := memstore.NewBalanceRepo(store)
	key := balance.Key{ResourceID: id.New(), MeasureID: id.New()}

	err := store.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := store.RunInTransaction(ctx, func(ctx context.Context) error {
			return balances.Insert(ctx, key, 3)
		}); err != nil {
			return err
		}
		return errors.New("outer failed")
	})

	require.Error(t, err)
	assert.Empty(t, store.Balances())
}

func TestBalanceRepo_InsertAccumulates(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	balances := memstore.NewBalanceRepo(store)
	key := balance.Key{ResourceID: id.New(), MeasureID: id.New()}

	require.NoError(t, balances.Insert(ctx, key, 2))
	require.NoError(t, balances.Insert(ctx, key, 3))

	b, found, err := balances.GetForUpdate(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(5), b.Amount)
}

func TestCatalogRepo_ExistsByName(t *testing.T) {
	ctx := context.Background()
	repo := memstore.NewResourceRepo(memstore.New())

	active := resource.NewResource("Bolt")
	archived := resource.NewResource("Nut")
	archived.ToggleArchived()
	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.Create(ctx, archived))

	tests := []struct {
		name       string
		lookup     string
		excludeID  id.ID
		activeOnly bool
		want       bool
	}{
		{"ActiveMatch", "Bolt", id.Nil(), true, true},
		{"ExcludesSelf", "Bolt", active.ID, false, false},
		{"ArchivedIgnoredWhenActiveOnly", "Nut", id.Nil(), true, false},
		{"ArchivedCountsGlobally", "Nut", id.Nil(), false, true},
		{"CaseSensitive", "bolt", id.Nil(), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ExistsByName(ctx, tt.lookup, tt.excludeID, tt.activeOnly)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalogRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := memstore.NewMeasureRepo(memstore.New())

	m := measure.NewMeasure("pcs")
	require.NoError(t, repo.Create(ctx, m))

	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	got.SetName("kg")

	again, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "pcs", again.GetName())
}

func TestReceiptRepo_ListFilter(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	repo := memstore.NewReceiptRepo(store)

	bolt, pcs := id.New(), id.New()
	early := receipt.NewReceipt("REC-A1", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	late := receipt.NewReceipt("REC-B1", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, early))
	require.NoError(t, repo.Create(ctx, late))
	require.NoError(t, repo.InsertLines(ctx, []entity.Line{entity.NewLine(late.ID, bolt, pcs, 1)}))

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter documents.Filter
		want   []string
	}{
		{"All", documents.Filter{}, []string{"REC-A1", "REC-B1"}},
		{"Number", documents.Filter{Numbers: []string{"A1"}}, []string{"REC-A1"}},
		{"Resource", documents.Filter{ResourceIDs: []id.ID{bolt}}, []string{"REC-B1"}},
		{"From", documents.Filter{From: &from}, []string{"REC-B1"}},
		{"NoMatch", documents.Filter{MeasureIDs: []id.ID{id.New()}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)

			var numbers []string
			for _, d := range docs {
				numbers = append(numbers, d.Number)
			}
			assert.Equal(t, tt.want, numbers)
		})
	}
}

func TestReceiptRepo_DeleteCascadesLines(t *testing.T) {
	ctx := context.Background()
	repo := memstore.NewReceiptRepo(memstore.New())

	doc := receipt.NewReceipt("REC-1", time.Now())
	require.NoError(t, repo.Create(ctx, doc))
	require.NoError(t, repo.InsertLines(ctx, []entity.Line{entity.NewLine(doc.ID, id.New(), id.New(), 1)}))

	require.NoError(t, repo.Delete(ctx, doc.ID))

	lines, err := repo.GetLines(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = repo.GetByID(ctx, doc.ID)
	assert.True(t, apperror.IsNotFound(err))
}
