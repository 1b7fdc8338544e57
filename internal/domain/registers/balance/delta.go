package balance

import (
	"sort"

	"storagemanager/internal/core/id"
)

// Delta is a signed amount change for one key.
// Positive adds stock, negative consumes it.
type Delta struct {
	ResourceID id.ID
	MeasureID  id.ID
	Amount     int64
}

// NewDelta builds a delta.
func NewDelta(resourceID, measureID id.ID, amount int64) Delta {
	return Delta{ResourceID: resourceID, MeasureID: measureID, Amount: amount}
}

// Key returns the delta's balance key.
func (d Delta) Key() Key {
	return Key{ResourceID: d.ResourceID, MeasureID: d.MeasureID}
}

// Net sums deltas per key, drops keys whose sum is zero and returns the rest
// in key order.
func Net(deltas []Delta) []Delta {
	sums := make(map[Key]int64, len(deltas))
	for _, d := range deltas {
		sums[d.Key()] += d.Amount
	}

	out := make([]Delta, 0, len(sums))
	for k, amount := range sums {
		if amount == 0 {
			continue
		}
		out = append(out, Delta{ResourceID: k.ResourceID, MeasureID: k.MeasureID, Amount: amount})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Key().Less(out[j].Key())
	})
	return out
}
