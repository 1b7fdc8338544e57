package register_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storagemanager/internal/core/id"
	"storagemanager/internal/domain/registers/balance"
)

func TestBalanceRepo_ListQuery(t *testing.T) {
	repo := NewBalanceRepo(nil)
	bolt, pcs := id.New(), id.New()

	const base = "SELECT b.resource_id, b.measure_id, b.amount, b.updated_at, r.name AS resource_name, m.name AS measure_name " +
		"FROM reg_balances b JOIN cat_resources r ON r.id = b.resource_id JOIN cat_measures m ON m.id = b.measure_id"

	tests := []struct {
		name     string
		filter   balance.Filter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "All",
			wantSQL: base + " ORDER BY r.name, m.name",
		},
		{
			name:     "ByResourceAndMeasure",
			filter:   balance.Filter{ResourceIDs: []id.ID{bolt}, MeasureIDs: []id.ID{pcs}},
			wantSQL:  base + " WHERE b.resource_id IN ($1) AND b.measure_id IN ($2) ORDER BY r.name, m.name",
			wantArgs: []any{bolt, pcs},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := repo.listQuery(tt.filter).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestBalanceRepo_UpdateAmountQuery(t *testing.T) {
	repo := NewBalanceRepo(nil)
	key := balance.Key{ResourceID: id.New(), MeasureID: id.New()}

	sql, args, err := repo.updateAmountQuery(key, 30).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE reg_balances SET amount = $1, updated_at = NOW() WHERE measure_id = $2 AND resource_id = $3", sql)
	assert.Equal(t, []any{int64(30), key.MeasureID.String(), key.ResourceID.String()}, args)
}

func TestInsertBalanceSQL_MergesConcurrentInsert(t *testing.T) {
	assert.Contains(t, insertBalanceSQL, "ON CONFLICT (resource_id, measure_id)")
	assert.Contains(t, insertBalanceSQL, "amount = reg_balances.amount + EXCLUDED.amount")
}
