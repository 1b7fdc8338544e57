package references

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/id"
)

type setLookup map[id.ID]bool

func (s setLookup) Exists(_ context.Context, v id.ID) (bool, error) { return s[v], nil }

type failingLookup struct{}

func (failingLookup) Exists(context.Context, id.ID) (bool, error) { return false, errors.New("db down") }

type refSet map[id.ID]bool

func (r refSet) ReferencesResource(_ context.Context, v id.ID) (bool, error) { return r[v], nil }
func (r refSet) ReferencesMeasure(_ context.Context, v id.ID) (bool, error)  { return r[v], nil }
func (r refSet) ReferencesClient(_ context.Context, v id.ID) (bool, error)   { return r[v], nil }

func TestValidator_ValidateLine(t *testing.T) {
	res, meas := id.New(), id.New()
	v := NewValidator(Deps{
		Resources: setLookup{res: true},
		Measures:  setLookup{meas: true},
	})
	ctx := context.Background()

	assert.NoError(t, v.ValidateLine(ctx, res, meas))

	err := v.ValidateLine(ctx, id.New(), id.New())
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
	assert.Equal(t, "Resource", appErr.Details["entity"])

	err = v.ValidateLine(ctx, res, id.New())
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Measure", appErr.Details["entity"])
}

func TestValidator_ValidateClient(t *testing.T) {
	client := id.New()
	v := NewValidator(Deps{Clients: setLookup{client: true}})

	assert.NoError(t, v.ValidateClient(context.Background(), client))
	assert.True(t, apperror.IsNotFound(v.ValidateClient(context.Background(), id.New())))

	v = NewValidator(Deps{Clients: failingLookup{}})
	err := v.ValidateClient(context.Background(), client)
	require.Error(t, err)
	assert.False(t, apperror.IsNotFound(err))
}

func TestValidator_InUse(t *testing.T) {
	used := id.New()
	v := NewValidator(Deps{
		ResourceRefs: []ResourceRef{refSet{}, refSet{used: true}},
		MeasureRefs:  []MeasureRef{refSet{used: true}},
		ClientRefs:   []ClientRef{refSet{}},
	})
	ctx := context.Background()

	got, err := v.ResourceInUse(ctx, used)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = v.ResourceInUse(ctx, id.New())
	require.NoError(t, err)
	assert.False(t, got)

	got, err = v.MeasureInUse(ctx, used)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = v.ClientInUse(ctx, used)
	require.NoError(t, err)
	assert.False(t, got)
}
