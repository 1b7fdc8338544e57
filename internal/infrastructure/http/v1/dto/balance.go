package dto

import (
	"time"

	"storagemanager/internal/domain/registers/balance"
)

// BalanceResponse is one balance row.
type BalanceResponse struct {
	ResourceID   string    `json:"resourceId"`
	ResourceName string    `json:"resourceName"`
	MeasureID    string    `json:"measureId"`
	MeasureName  string    `json:"measureName"`
	Amount       int64     `json:"amount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FromBalances maps views; the result is never nil.
func FromBalances(views []balance.View) []BalanceResponse {
	out := make([]BalanceResponse, 0, len(views))
	for _, v := range views {
		out = append(out, BalanceResponse{
			ResourceID:   v.ResourceID.String(),
			ResourceName: v.ResourceName,
			MeasureID:    v.MeasureID.String(),
			MeasureName:  v.MeasureName,
			Amount:       v.Amount,
			UpdatedAt:    v.UpdatedAt,
		})
	}
	return out
}

// BalanceListQuery is bound from the query string.
type BalanceListQuery struct {
	ResourceIDs []string `form:"resourceId"`
	MeasureIDs  []string `form:"measureId"`
}

// ToFilter parses ids.
func (q BalanceListQuery) ToFilter() (balance.Filter, error) {
	var (
		f   balance.Filter
		err error
	)
	if f.ResourceIDs, err = ParseIDs("resourceId", q.ResourceIDs); err != nil {
		return f, err
	}
	if f.MeasureIDs, err = ParseIDs("measureId", q.MeasureIDs); err != nil {
		return f, err
	}
	return f, nil
}
