// Package balance provides the balance register: one non-negative amount per
// (resource, measure) pair, mutated only through Service.
package balance

import (
	"bytes"
	"time"

	"storagemanager/internal/core/id"
)

// Key identifies a balance row.
type Key struct {
	ResourceID id.ID
	MeasureID  id.ID
}

// Less orders keys by resource, then measure. Batches lock rows in this order.
func (k Key) Less(other Key) bool {
	if c := bytes.Compare(k.ResourceID[:], other.ResourceID[:]); c != 0 {
		return c < 0
	}
	return bytes.Compare(k.MeasureID[:], other.MeasureID[:]) < 0
}

// Balance is the persisted on-hand amount for a key. Rows with zero amount do not exist.
type Balance struct {
	ResourceID id.ID     `db:"resource_id" json:"resourceId"`
	MeasureID  id.ID     `db:"measure_id" json:"measureId"`
	Amount     int64     `db:"amount" json:"amount"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// Key returns the row key.
func (b Balance) Key() Key {
	return Key{ResourceID: b.ResourceID, MeasureID: b.MeasureID}
}

// View is a balance row joined with resource and measure names.
type View struct {
	Balance
	ResourceName string `db:"resource_name" json:"resourceName"`
	MeasureName  string `db:"measure_name" json:"measureName"`
}

// Filter restricts List. Both lists apply together; an empty list means no restriction.
type Filter struct {
	ResourceIDs []id.ID
	MeasureIDs  []id.ID
}
