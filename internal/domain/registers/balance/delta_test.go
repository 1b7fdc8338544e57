package balance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storagemanager/internal/core/id"
)

func TestNet(t *testing.T) {
	r1 := id.MustParse("00000000-0000-0000-0000-000000000001")
	r2 := id.MustParse("00000000-0000-0000-0000-000000000002")
	m1 := id.MustParse("00000000-0000-0000-0000-0000000000a1")
	m2 := id.MustParse("00000000-0000-0000-0000-0000000000a2")

	tests := []struct {
		name   string
		deltas []Delta
		want   []Delta
	}{
		{
			name:   "empty",
			deltas: nil,
			want:   []Delta{},
		},
		{
			name: "sums per key",
			deltas: []Delta{
				NewDelta(r1, m1, 5),
				NewDelta(r1, m1, -2),
				NewDelta(r2, m1, 3),
			},
			want: []Delta{
				NewDelta(r1, m1, 3),
				NewDelta(r2, m1, 3),
			},
		},
		{
			name: "drops zero sums",
			deltas: []Delta{
				NewDelta(r1, m1, 4),
				NewDelta(r1, m1, -4),
				NewDelta(r1, m2, -1),
			},
			want: []Delta{
				NewDelta(r1, m2, -1),
			},
		},
		{
			name: "orders by resource then measure",
			deltas: []Delta{
				NewDelta(r2, m1, 1),
				NewDelta(r1, m2, 1),
				NewDelta(r1, m1, 1),
			},
			want: []Delta{
				NewDelta(r1, m1, 1),
				NewDelta(r1, m2, 1),
				NewDelta(r2, m1, 1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Net(tt.deltas)
			require.Len(t, got, len(tt.want))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKey_Less(t *testing.T) {
	a := Key{ResourceID: id.MustParse("00000000-0000-0000-0000-000000000001"), MeasureID: id.MustParse("00000000-0000-0000-0000-000000000009")}
	b := Key{ResourceID: id.MustParse("00000000-0000-0000-0000-000000000002"), MeasureID: id.MustParse("00000000-0000-0000-0000-000000000001")}

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}
