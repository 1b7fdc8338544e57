package shipment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storagemanager/internal/core/entity"
	"storagemanager/internal/core/id"
	"storagemanager/internal/domain/registers/balance"
)

func TestTransitionDeltas(t *testing.T) {
	docID := id.New()
	bolt, nut, pcs := id.New(), id.New(), id.New()

	snapshot := []entity.Line{entity.NewLine(docID, bolt, pcs, 20)}
	changes := []balance.Delta{balance.NewDelta(nut, pcs, -3)}

	tests := []struct {
		name         string
		wasSigned    bool
		willBeSigned bool
		want         []balance.Delta
	}{
		{
			name:         "SignedStaysSigned",
			wasSigned:    true,
			willBeSigned: true,
			want:         changes,
		},
		{
			name:         "Sign",
			willBeSigned: true,
			want: []balance.Delta{
				balance.NewDelta(nut, pcs, -3),
				balance.NewDelta(bolt, pcs, -20),
			},
		},
		{
			name:      "Unsign",
			wasSigned: true,
			want:      []balance.Delta{balance.NewDelta(bolt, pcs, 20)},
		},
		{
			name: "DraftStaysDraft",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transitionDeltas(tt.wasSigned, tt.willBeSigned, changes, snapshot)
			assert.Equal(t, tt.want, got)
		})
	}
}
