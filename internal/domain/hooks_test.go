package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHookRegistry_RunsInOrderAndStopsOnError(t *testing.T) {
	reg := NewHookRegistry[*int]()
	var calls []string

	reg.On(AfterCreate, func(ctx context.Context, v *int) error {
		calls = append(calls, "first")
		*v++
		return nil
	})
	reg.On(AfterCreate, func(ctx context.Context, v *int) error {
		calls = append(calls, "second")
		return errors.New("stop")
	})
	reg.On(AfterCreate, func(ctx context.Context, v *int) error {
		calls = append(calls, "third")
		return nil
	})

	n := 0
	err := reg.Run(context.Background(), AfterCreate, &n)

	assert.EqualError(t, err, "stop")
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, 1, n)
}

func TestHookRegistry_NoHooks(t *testing.T) {
	reg := NewHookRegistry[string]()
	assert.NoError(t, reg.Run(context.Background(), AfterDelete, "x"))
}
