package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/id"
	"storagemanager/internal/domain/catalogs/client"
	"storagemanager/internal/domain/catalogs/measure"
	"storagemanager/internal/domain/catalogs/resource"
	"storagemanager/internal/domain/documents"
	"storagemanager/internal/domain/documents/receipt"
	"storagemanager/internal/domain/documents/shipment"
	"storagemanager/internal/domain/memstore"
	"storagemanager/internal/domain/registers/balance"
	"storagemanager/internal/services"
	"storagemanager/pkg/logger"
)

type fixture struct {
	svc   *services.Services
	store *memstore.Store

	bolt, nut *resource.Resource
	pcs, kg   *measure.Measure
	acme      *client.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	svc, store := services.NewInMemory(nil, logger.NewNop())
	f := &fixture{
		svc:   svc,
		store: store,
		bolt:  resource.NewResource("Bolt"),
		nut:   resource.NewResource("Nut"),
		pcs:   measure.NewMeasure("pcs"),
		kg:    measure.NewMeasure("kg"),
		acme:  client.NewClient("Acme", "1 Main St"),
	}
	require.NoError(t, svc.Resources.Create(ctx, f.bolt))
	require.NoError(t, svc.Resources.Create(ctx, f.nut))
	require.NoError(t, svc.Measures.Create(ctx, f.pcs))
	require.NoError(t, svc.Measures.Create(ctx, f.kg))
	require.NoError(t, svc.Clients.Create(ctx, f.acme))
	return f
}

func (f *fixture) key(r *resource.Resource, m *measure.Measure) balance.Key {
	return balance.Key{ResourceID: r.ID, MeasureID: m.ID}
}

func (f *fixture) amount(r *resource.Resource, m *measure.Measure) int64 {
	return f.store.Balances()[f.key(r, m)]
}

func (f *fixture) line(r *resource.Resource, m *measure.Measure, amount int64) documents.LineInput {
	return documents.LineInput{ResourceID: r.ID, MeasureID: m.ID, Amount: amount}
}

var day = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestReceiptAndShipmentLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	rec, err := f.svc.Receipts.Create(ctx, receipt.CreateCommand{
		Number: "REC-1",
		Date:   day,
		Lines:  []documents.LineInput{f.line(f.bolt, f.pcs, 50)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50), f.amount(f.bolt, f.pcs))

	ship, err := f.svc.Shipments.Create(ctx, shipment.CreateCommand{
		Number:   "SHIP-1",
		Date:     day,
		ClientID: f.acme.ID,
		Lines:    []documents.LineInput{f.line(f.bolt, f.pcs, 20)},
	})
	require.NoError(t, err)
	assert.False(t, ship.Signed)
	assert.Equal(t, int64(50), f.amount(f.bolt, f.pcs), "unsigned shipment must not touch the balance")

	sign := func(signed bool, changes documents.LineChanges) (*shipment.Shipment, error) {
		return f.svc.Shipments.Update(ctx, shipment.UpdateCommand{
			ID:       ship.ID,
			Number:   "SHIP-1",
			Date:     day,
			ClientID: f.acme.ID,
			Signed:   signed,
			Lines:    changes,
		})
	}

	signed, err := sign(true, documents.LineChanges{})
	require.NoError(t, err)
	assert.True(t, signed.Signed)
	assert.Equal(t, int64(30), f.amount(f.bolt, f.pcs))

	lineID := signed.Lines[0].ID
	resize := func(amount int64) error {
		_, err := sign(true, documents.LineChanges{Update: []documents.LineUpdate{
			{ID: lineID, ResourceID: f.bolt.ID, MeasureID: f.pcs.ID, Amount: amount},
		}})
		return err
	}

	// 20 -> 60 consumes 40 more than the 30 left.
	err = resize(60)
	require.Error(t, err)
	assert.True(t, apperror.IsNegativeBalance(err))
	assert.Equal(t, int64(30), f.amount(f.bolt, f.pcs))

	stored, err := f.svc.Shipments.GetByID(ctx, ship.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), stored.Lines[0].Amount, "failed update must not change lines")

	// 20 -> 40 consumes only the difference.
	require.NoError(t, resize(40))
	assert.Equal(t, int64(10), f.amount(f.bolt, f.pcs))

	_, err = sign(false, documents.LineChanges{})
	require.NoError(t, err)
	assert.Equal(t, int64(50), f.amount(f.bolt, f.pcs))

	err = f.svc.Resources.Delete(ctx, f.bolt.ID)
	assert.True(t, apperror.IsEntityInUse(err))

	require.NoError(t, f.svc.Shipments.Delete(ctx, ship.ID))
	require.NoError(t, f.svc.Receipts.Delete(ctx, rec.ID))
	_, found := f.store.Balances()[f.key(f.bolt, f.pcs)]
	assert.False(t, found, "zero balance rows are removed")

	err = f.svc.Receipts.Delete(ctx, rec.ID)
	assert.True(t, apperror.IsNotFound(err))

	require.NoError(t, f.svc.Resources.Delete(ctx, f.bolt.ID))
}

func TestShipment_EmptyIsRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Shipments.Create(ctx, shipment.CreateCommand{
		Number:   "SHIP-EMPTY",
		Date:     day,
		ClientID: f.acme.ID,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsEmptyShipment(err))

	numbers, err := f.svc.Shipments.ListNumbers(ctx)
	require.NoError(t, err)
	assert.Empty(t, numbers)

	ship, err := f.svc.Shipments.Create(ctx, shipment.CreateCommand{
		Number:   "SHIP-2",
		Date:     day,
		ClientID: f.acme.ID,
		Lines:    []documents.LineInput{f.line(f.nut, f.kg, 1)},
	})
	require.NoError(t, err)

	_, err = f.svc.Shipments.Update(ctx, shipment.UpdateCommand{
		ID:       ship.ID,
		Number:   "SHIP-2",
		Date:     day,
		ClientID: f.acme.ID,
		Lines:    documents.LineChanges{Delete: []id.ID{ship.Lines[0].ID}},
	})
	assert.True(t, apperror.IsEmptyShipment(err))
}

func TestShipment_SignWithoutStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ship, err := f.svc.Shipments.Create(ctx, shipment.CreateCommand{
		Number:   "SHIP-3",
		Date:     day,
		ClientID: f.acme.ID,
		Lines:    []documents.LineInput{f.line(f.nut, f.pcs, 5)},
	})
	require.NoError(t, err)

	_, err = f.svc.Shipments.Update(ctx, shipment.UpdateCommand{
		ID:       ship.ID,
		Number:   "SHIP-3",
		Date:     day,
		ClientID: f.acme.ID,
		Signed:   true,
	})
	assert.True(t, apperror.IsBalanceNotFound(err))

	stored, err := f.svc.Shipments.GetByID(ctx, ship.ID)
	require.NoError(t, err)
	assert.False(t, stored.Signed)
}

func TestReceipt_UpdateMovesBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	rec, err := f.svc.Receipts.Create(ctx, receipt.CreateCommand{
		Number: "REC-2",
		Date:   day,
		Lines: []documents.LineInput{
			f.line(f.bolt, f.pcs, 10),
			f.line(f.nut, f.kg, 4),
		},
	})
	require.NoError(t, err)
	require.Len(t, rec.Lines, 2)

	var boltLine, nutLine id.ID
	for _, l := range rec.Lines {
		if l.ResourceID == f.bolt.ID {
			boltLine = l.ID
		} else {
			nutLine = l.ID
		}
	}

	updated, err := f.svc.Receipts.Update(ctx, receipt.UpdateCommand{
		ID:     rec.ID,
		Number: "REC-2",
		Date:   day,
		Lines: documents.LineChanges{
			Update: []documents.LineUpdate{{ID: boltLine, ResourceID: f.bolt.ID, MeasureID: f.kg.ID, Amount: 7}},
			Delete: []id.ID{nutLine},
			Create: []documents.LineInput{f.line(f.nut, f.pcs, 3)},
		},
	})
	require.NoError(t, err)
	assert.Len(t, updated.Lines, 2)

	assert.Equal(t, map[balance.Key]int64{
		f.key(f.bolt, f.kg): 7,
		f.key(f.nut, f.pcs): 3,
	}, f.store.Balances())
}

func TestReceipt_ZeroNetUpdateKeepsBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	rec, err := f.svc.Receipts.Create(ctx, receipt.CreateCommand{
		Number: "REC-3",
		Date:   day,
		Lines:  []documents.LineInput{f.line(f.bolt, f.pcs, 5)},
	})
	require.NoError(t, err)

	_, err = f.svc.Receipts.Update(ctx, receipt.UpdateCommand{
		ID:     rec.ID,
		Number: "REC-3",
		Date:   day,
		Lines: documents.LineChanges{
			Delete: []id.ID{rec.Lines[0].ID},
			Create: []documents.LineInput{f.line(f.bolt, f.pcs, 5)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), f.amount(f.bolt, f.pcs))
}

func TestReceipt_DeleteAfterShipmentFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	rec, err := f.svc.Receipts.Create(ctx, receipt.CreateCommand{
		Number: "REC-4",
		Date:   day,
		Lines:  []documents.LineInput{f.line(f.bolt, f.pcs, 10)},
	})
	require.NoError(t, err)

	ship, err := f.svc.Shipments.Create(ctx, shipment.CreateCommand{
		Number:   "SHIP-4",
		Date:     day,
		ClientID: f.acme.ID,
		Lines:    []documents.LineInput{f.line(f.bolt, f.pcs, 4)},
	})
	require.NoError(t, err)
	_, err = f.svc.Shipments.Update(ctx, shipment.UpdateCommand{
		ID: ship.ID, Number: "SHIP-4", Date: day, ClientID: f.acme.ID, Signed: true,
	})
	require.NoError(t, err)

	err = f.svc.Receipts.Delete(ctx, rec.ID)
	assert.True(t, apperror.IsNegativeBalance(err))
	assert.Equal(t, int64(6), f.amount(f.bolt, f.pcs))

	_, err = f.svc.Receipts.GetByID(ctx, rec.ID)
	assert.NoError(t, err)
}

func TestReceipt_ValidationBeforeWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name    string
		cmd     receipt.CreateCommand
		wantErr func(error) bool
	}{
		{
			name: "UnknownResource",
			cmd: receipt.CreateCommand{Number: "R", Date: day, Lines: []documents.LineInput{
				{ResourceID: id.New(), MeasureID: f.pcs.ID, Amount: 1},
			}},
			wantErr: apperror.IsNotFound,
		},
		{
			name: "NonPositiveAmount",
			cmd: receipt.CreateCommand{Number: "R", Date: day, Lines: []documents.LineInput{
				f.line(f.bolt, f.pcs, 0),
			}},
			wantErr: apperror.IsValidation,
		},
		{
			name:    "MissingNumber",
			cmd:     receipt.CreateCommand{Date: day},
			wantErr: apperror.IsValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Receipts.Create(ctx, tt.cmd)
			require.Error(t, err)
			assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
			assert.Empty(t, f.store.Balances())
		})
	}
}

func TestReceipt_DuplicateNumber(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Receipts.Create(ctx, receipt.CreateCommand{Number: "REC-5", Date: day})
	require.NoError(t, err)

	_, err = f.svc.Receipts.Create(ctx, receipt.CreateCommand{Number: "REC-5", Date: day})
	assert.True(t, apperror.IsAlreadyExists(err))
}

func TestBalances_ListFilter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Receipts.Create(ctx, receipt.CreateCommand{
		Number: "REC-6",
		Date:   day,
		Lines: []documents.LineInput{
			f.line(f.bolt, f.pcs, 1),
			f.line(f.bolt, f.kg, 2),
			f.line(f.nut, f.pcs, 3),
		},
	})
	require.NoError(t, err)

	all, err := f.svc.Balances.List(ctx, balance.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	rows, err := f.svc.Balances.List(ctx, balance.Filter{
		ResourceIDs: []id.ID{f.bolt.ID},
		MeasureIDs:  []id.ID{f.pcs.ID},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].Amount)
	assert.Equal(t, "Bolt", rows[0].ResourceName)
	assert.Equal(t, "pcs", rows[0].MeasureName)
}

type recordingObserver struct {
	events  map[string]int
	changes map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{events: map[string]int{}, changes: map[string]int{}}
}

func (o *recordingObserver) BalanceChanged(op string) { o.changes[op]++ }
func (o *recordingObserver) BalanceRejected(code string) { o.changes["rejected:"+code]++ }
func (o *recordingObserver) EntityChanged(entity, event string) {
	o.events[entity+"/"+event]++
}

func TestNew_ReportsCommittedChanges(t *testing.T) {
	ctx := context.Background()
	obs := newRecordingObserver()
	svc, _ := services.NewInMemory(obs, logger.NewNop())

	bolt := resource.NewResource("Bolt")
	pcs := measure.NewMeasure("pcs")
	acme := client.NewClient("Acme", "1 Main St")
	require.NoError(t, svc.Resources.Create(ctx, bolt))
	require.NoError(t, svc.Measures.Create(ctx, pcs))
	require.NoError(t, svc.Clients.Create(ctx, acme))

	line := documents.LineInput{ResourceID: bolt.ID, MeasureID: pcs.ID, Amount: 5}
	rec, err := svc.Receipts.Create(ctx, receipt.CreateCommand{Number: "REC-1", Date: day, Lines: []documents.LineInput{line}})
	require.NoError(t, err)

	line.Amount = 10
	ship, err := svc.Shipments.Create(ctx, shipment.CreateCommand{
		Number: "SHIP-1", Date: day, ClientID: acme.ID, Lines: []documents.LineInput{line},
	})
	require.NoError(t, err)

	_, err = svc.Shipments.Update(ctx, shipment.UpdateCommand{
		ID: ship.ID, Number: "SHIP-1", Date: day, ClientID: acme.ID, Signed: true,
	})
	require.True(t, apperror.IsNegativeBalance(err))

	require.NoError(t, svc.Receipts.Delete(ctx, rec.ID))

	assert.Equal(t, map[string]int{
		"Resource/after_create":         1,
		"Measure/after_create":          1,
		"Client/after_create":           1,
		"ReceiptDocument/after_create":  1,
		"ShipmentDocument/after_create": 1,
		"ReceiptDocument/after_delete":  1,
	}, obs.events, "rolled back updates are not reported")
	assert.Equal(t, 1, obs.changes["rejected:"+apperror.CodeNegativeBalance])
}
